package angle

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func TestWrap(t *testing.T) {
	expectWrapResult(t, 0, 0)
	expectWrapResult(t, 1, 1)
	expectWrapResult(t, -1, -1)
	expectWrapResult(t, math.Pi, math.Pi)
	expectWrapResult(t, -math.Pi, math.Pi)
	expectWrapResult(t, 2*math.Pi, 0)
	expectWrapResult(t, 2*math.Pi+0.5, 0.5)
	expectWrapResult(t, -2*math.Pi-0.5, -0.5)
	expectWrapResult(t, 3*math.Pi/2, -math.Pi/2)
}

func expectWrapResult(t *testing.T, in, expected float64) {
	t.Helper()
	w := Wrap(in)
	if w <= -math.Pi || w > math.Pi {
		t.Errorf("Out of range: Wrap(%f) = %f", in, w)
	}
	if math.Abs(w-expected) > 1e-9 {
		t.Errorf("Wrap(%f) = %f, expected %f", in, w, expected)
	}
}

func TestYawRoundTrip(t *testing.T) {
	for _, theta := range []float64{0, 0.3, -0.3, 1.2, -2.9, math.Pi / 2, 3} {
		got := YawFromQuaternion(QuaternionFromYaw(theta))
		if math.Abs(got-theta) > tolerance {
			t.Errorf("Yaw round trip of %f gave %f", theta, got)
		}
	}
}

func TestYawIgnoresScale(t *testing.T) {
	q := QuaternionFromYaw(0.8)
	q.X, q.Y, q.Z, q.W = q.X*3, q.Y*3, q.Z*3, q.W*3
	if got := YawFromQuaternion(q); math.Abs(got-0.8) > tolerance {
		t.Errorf("Scaled quaternion gave yaw %f", got)
	}
}

func TestYawOfZeroQuaternion(t *testing.T) {
	if got := YawFromQuaternion(Quaternion{}); got != 0 {
		t.Errorf("Zero quaternion should give 0, not %f", got)
	}
}

func TestYawWithRollAndPitch(t *testing.T) {
	// 90 degree roll about X followed by 0.5 rad yaw about Z: q = qz * qx.
	s := math.Sqrt(0.5)
	cz, sz := math.Cos(0.25), math.Sin(0.25)
	q := Quaternion{
		W: cz * s,
		X: cz * s,
		Y: sz * s,
		Z: sz * s,
	}
	if got := YawFromQuaternion(q); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected yaw 0.5, got %f", got)
	}
}
