// Package kinematics converts the four wheel speeds of a skid-steer base into
// a body velocity and back.
package kinematics

import "github.com/tigerbot-team/tigerbot/odometry/pkg/chassis"

// WheelSpeeds are motor shaft speeds in RPM, before the gear reduction.  The
// left-hand motors are mounted mirrored so they report forward motion as a
// negative speed.
type WheelSpeeds struct {
	FrontLeft  float64
	FrontRight float64
	RearLeft   float64
	RearRight  float64
}

// BodyVelocity is the forward speed (m/s) and yaw rate (rad/s, CCW positive)
// of the base in its own frame.
type BodyVelocity struct {
	Linear  float64
	Angular float64
}

type Model struct {
	params chassis.Params
}

func NewModel(params chassis.Params) *Model {
	return &Model{params: params}
}

// rpmToSurface converts a motor shaft RPM into wheel surface speed in m/s.
func (m *Model) rpmToSurface(rpm float64) float64 {
	return rpm * m.params.GearRatio * m.params.WheelRadiusM * m.params.RPMToRadS
}

func (m *Model) EstimateVelocity(w WheelSpeeds) BodyVelocity {
	left := m.rpmToSurface(-(w.FrontLeft + w.RearLeft) / 2)
	right := m.rpmToSurface((w.FrontRight + w.RearRight) / 2)

	return BodyVelocity{
		Linear:  (left + right) / 2,
		Angular: (right - left) / m.params.ApparentBaselineM,
	}
}

// WheelSpeedsFor returns motor speeds that EstimateVelocity maps back onto v,
// with front and rear wheels on each side turning at the same speed.
func (m *Model) WheelSpeedsFor(v BodyVelocity) WheelSpeeds {
	halfTurn := v.Angular * m.params.ApparentBaselineM / 2
	perRPM := m.rpmToSurface(1)
	left := -(v.Linear - halfTurn) / perRPM
	right := (v.Linear + halfTurn) / perRPM
	return WheelSpeeds{
		FrontLeft:  left,
		FrontRight: right,
		RearLeft:   left,
		RearRight:  right,
	}
}
