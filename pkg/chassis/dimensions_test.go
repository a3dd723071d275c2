package chassis

import (
	"math"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default params should be valid: %v", err)
	}
}

func TestValidateRejectsNonPositive(t *testing.T) {
	for _, mutate := range []func(p *Params){
		func(p *Params) { p.GearRatio = 0 },
		func(p *Params) { p.RPMToRadS = -1 },
		func(p *Params) { p.WheelRadiusM = 0 },
		func(p *Params) { p.ApparentBaselineM = 0 },
		func(p *Params) { p.ApparentBaselineM = math.NaN() },
	} {
		p := Default()
		mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("Expected an error for %+v", p)
		}
	}
}
