// Package console maps operator pad buttons onto odometry corrections.
package console

import (
	log "github.com/sirupsen/logrus"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
)

type Resetter interface {
	ResetToOrigin()
}

type ModeToggler interface {
	Toggle() odometry.Mode
}

// Console handles pad events:
//
//	Cross  = reset position to the origin, keeping the heading
//	Square = switch between Euler and midpoint integration
type Console struct {
	Resets Resetter
	Modes  ModeToggler

	// Called after the matching action, if set.
	OnReset      func()
	OnModeSwitch func(odometry.Mode)
}

func (c *Console) OnJoystickEvent(event *joystick.Event) {
	switch {
	case event.Pressed(joystick.ButtonCross):
		c.Resets.ResetToOrigin()
		log.Info("Pad: position reset to origin")
		if c.OnReset != nil {
			c.OnReset()
		}
	case event.Pressed(joystick.ButtonSquare):
		m := c.Modes.Toggle()
		log.WithField("method", m).Info("Pad: integration method switched")
		if c.OnModeSwitch != nil {
			c.OnModeSwitch(m)
		}
	}
}
