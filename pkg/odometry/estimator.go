package odometry

import (
	"time"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/kinematics"
)

// Sample is one set of wheel speeds that were all measured at Stamp.
type Sample struct {
	Stamp  time.Time
	Speeds kinematics.WheelSpeeds
}

// Result is what one update cycle produces.
type Result struct {
	Stamp    time.Time
	Velocity kinematics.BodyVelocity
	Pose     Pose
	Mode     Mode
}

type velocityModel interface {
	EstimateVelocity(kinematics.WheelSpeeds) kinematics.BodyVelocity
}

// Estimator runs the wheel speeds -> velocity -> pose pipeline.
type Estimator struct {
	Model      velocityModel
	Integrator *Integrator
	Modes      *ModeSelector
}

func NewEstimator(model velocityModel, integrator *Integrator, modes *ModeSelector) *Estimator {
	return &Estimator{
		Model:      model,
		Integrator: integrator,
		Modes:      modes,
	}
}

func (e *Estimator) Update(s Sample) Result {
	v := e.Model.EstimateVelocity(s.Speeds)
	mode := e.Modes.Get()
	pose := e.Integrator.Advance(v, s.Stamp, mode)
	return Result{
		Stamp:    s.Stamp,
		Velocity: v,
		Pose:     pose,
		Mode:     mode,
	}
}
