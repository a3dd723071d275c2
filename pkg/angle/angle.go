package angle

import "math"

// Wrap maps a heading in radians of any magnitude into (-pi, pi].
func Wrap(theta float64) float64 {
	r := math.Mod(theta, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	} else if r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}

// Degrees converts radians to degrees.
func Degrees(theta float64) float64 {
	return theta * 180 / math.Pi
}

// Quaternion is an orientation, laid out the way it goes on the wire.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// QuaternionFromYaw returns the rotation of theta radians about +Z.
func QuaternionFromYaw(theta float64) Quaternion {
	return Quaternion{
		Z: math.Sin(theta / 2),
		W: math.Cos(theta / 2),
	}
}

// YawFromQuaternion returns the heading (rotation about +Z, ZYX convention) of
// q in (-pi, pi].  q does not need to be normalised; the zero quaternion has
// heading 0.
func YawFromQuaternion(q Quaternion) float64 {
	siny := 2 * (q.W*q.Z + q.X*q.Y)
	cosy := q.W*q.W + q.X*q.X - q.Y*q.Y - q.Z*q.Z
	if siny == 0 && cosy == 0 {
		return 0
	}
	return Wrap(math.Atan2(siny, cosy))
}
