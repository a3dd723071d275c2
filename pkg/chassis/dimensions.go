package chassis

import "github.com/pkg/errors"

// Drivetrain constants for the skid-steer base.
const (
	// Motor shaft to wheel reduction.
	GearRatio float64 = 0.02615575
	// 2*pi/60.
	RPMToRadS = 0.104719755

	WheelRadiusM = 0.1575

	// ApparentBaselineM is the track width that makes the turn rate come out
	// right once wheel slip is accounted for.  It was fitted from recorded
	// runs and is wider than the real wheel separation.
	ApparentBaselineM = 1.03334887
)

type Params struct {
	GearRatio         float64 `yaml:"gear_ratio"`
	RPMToRadS         float64 `yaml:"rpm_to_rads"`
	WheelRadiusM      float64 `yaml:"wheel_radius_m"`
	ApparentBaselineM float64 `yaml:"apparent_baseline_m"`
}

func Default() Params {
	return Params{
		GearRatio:         GearRatio,
		RPMToRadS:         RPMToRadS,
		WheelRadiusM:      WheelRadiusM,
		ApparentBaselineM: ApparentBaselineM,
	}
}

// Validate checks that every constant is strictly positive.
func (p Params) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"gear_ratio", p.GearRatio},
		{"rpm_to_rads", p.RPMToRadS},
		{"wheel_radius_m", p.WheelRadiusM},
		{"apparent_baseline_m", p.ApparentBaselineM},
	} {
		if !(c.value > 0) {
			return errors.Errorf("chassis: %s must be positive, got %v", c.name, c.value)
		}
	}
	return nil
}
