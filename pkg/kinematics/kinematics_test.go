package kinematics

import (
	"math"
	"testing"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/chassis"
)

const tolerance = 1e-9

func expectClose(t *testing.T, what string, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > tolerance {
		t.Errorf("%s: got %v, expected %v", what, actual, expected)
	}
}

func TestStraightLine(t *testing.T) {
	m := NewModel(chassis.Default())

	// Left side reports mirrored.
	v := m.EstimateVelocity(WheelSpeeds{FrontLeft: -1000, FrontRight: 1000, RearLeft: -1000, RearRight: 1000})
	expected := chassis.GearRatio * chassis.RPMToRadS * chassis.WheelRadiusM * 1000
	expectClose(t, "linear", v.Linear, expected)
	expectClose(t, "angular", v.Angular, 0)
	if v.Linear <= 0 {
		t.Errorf("Forward motion should give positive linear speed, got %v", v.Linear)
	}
}

func TestAllWheelsEqualSpinsOnTheSpot(t *testing.T) {
	m := NewModel(chassis.Default())

	// All four shafts reporting the same raw value means the sides are
	// turning in opposite directions once the left-side sign is corrected.
	v := m.EstimateVelocity(WheelSpeeds{FrontLeft: 500, FrontRight: 500, RearLeft: 500, RearRight: 500})
	expectClose(t, "linear", v.Linear, 0)
	surface := chassis.GearRatio * chassis.RPMToRadS * chassis.WheelRadiusM * 500
	expectClose(t, "angular", v.Angular, 2*surface/chassis.ApparentBaselineM)
	if v.Angular <= 0 {
		t.Errorf("Right side faster than left should turn CCW, got %v", v.Angular)
	}

	v = m.EstimateVelocity(WheelSpeeds{FrontLeft: -500, FrontRight: -500, RearLeft: -500, RearRight: -500})
	expectClose(t, "linear", v.Linear, 0)
	if v.Angular >= 0 {
		t.Errorf("Left side faster than right should turn CW, got %v", v.Angular)
	}
}

func TestNoClamping(t *testing.T) {
	m := NewModel(chassis.Default())

	// One free-spinning wheel still counts at its raw speed.
	v := m.EstimateVelocity(WheelSpeeds{FrontLeft: -1000, FrontRight: 1000, RearLeft: -1000, RearRight: 1e6})
	perRPM := chassis.GearRatio * chassis.RPMToRadS * chassis.WheelRadiusM
	left := perRPM * 1000
	right := perRPM * (1000 + 1e6) / 2
	expectClose(t, "linear", v.Linear, (left+right)/2)
	expectClose(t, "angular", v.Angular, (right-left)/chassis.ApparentBaselineM)
}

func TestApparentBaselineIsTunable(t *testing.T) {
	p := chassis.Default()
	p.ApparentBaselineM = 2 * chassis.ApparentBaselineM
	narrow := NewModel(chassis.Default()).EstimateVelocity(WheelSpeeds{FrontRight: 100, RearRight: 100})
	wide := NewModel(p).EstimateVelocity(WheelSpeeds{FrontRight: 100, RearRight: 100})
	expectClose(t, "linear", wide.Linear, narrow.Linear)
	expectClose(t, "angular", wide.Angular, narrow.Angular/2)
}

func TestWheelSpeedsForInvertsEstimate(t *testing.T) {
	m := NewModel(chassis.Default())
	for _, v := range []BodyVelocity{
		{0, 0},
		{1.2, 0},
		{0, 0.7},
		{-0.4, 0.3},
		{2.5, -1.1},
	} {
		w := m.WheelSpeedsFor(v)
		if w.FrontLeft != w.RearLeft || w.FrontRight != w.RearRight {
			t.Errorf("Expected matching front/rear speeds, got %+v", w)
		}
		got := m.EstimateVelocity(w)
		expectClose(t, "linear", got.Linear, v.Linear)
		expectClose(t, "angular", got.Angular, v.Angular)
	}
}
