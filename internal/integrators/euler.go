package integrators

import (
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/physics"
)

// SemiImplicitEuler is the reference stepper: velocities are updated from
// the sub-step's starting angles, then angles from the new velocities.
type SemiImplicitEuler struct{}

func NewEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "euler" }

func (e *SemiImplicitEuler) Advance(p *physics.DoublePendulum, substeps int) error {
	return Advance(p, substeps)
}

// Advance moves p forward by one unit of simulation time split into
// substeps increments. Both the acceleration and the following angle
// increment are divided by substeps. A non-finite angle or velocity after
// any increment stops the call with a *dynamo.NumericFault; p keeps the
// offending values.
func Advance(p *physics.DoublePendulum, substeps int) error {
	if substeps < 1 {
		return dynamo.NewConfigError("substeps", float64(substeps), "must be >= 1")
	}

	n := float64(substeps)
	for i := 0; i < substeps; i++ {
		dv1, dv2 := p.Accelerations()
		p.V1 += dv1 / n
		p.V2 += dv2 / n
		p.A1 += p.V1 / n
		p.A2 += p.V2 / n

		if !p.Finite() {
			return &dynamo.NumericFault{Body: -1, Substep: i, State: p.Dynamic()}
		}
	}
	return nil
}
