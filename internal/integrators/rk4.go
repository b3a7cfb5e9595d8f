package integrators

import (
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/physics"
)

// RK4 integrates the same equations with the classical fourth-order
// Runge-Kutta scheme, step 1/substeps. It exists to compare against the
// reference stepper.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Advance(p *physics.DoublePendulum, substeps int) error {
	if substeps < 1 {
		return dynamo.NewConfigError("substeps", float64(substeps), "must be >= 1")
	}

	dt := 1.0 / float64(substeps)
	for i := 0; i < substeps; i++ {
		a1, a2, v1, v2 := p.A1, p.A2, p.V1, p.V2

		k1a1, k1a2 := v1, v2
		k1v1, k1v2 := p.AccelerationsAt(a1, a2, v1, v2)

		k2a1, k2a2 := v1+0.5*dt*k1v1, v2+0.5*dt*k1v2
		k2v1, k2v2 := p.AccelerationsAt(a1+0.5*dt*k1a1, a2+0.5*dt*k1a2, k2a1, k2a2)

		k3a1, k3a2 := v1+0.5*dt*k2v1, v2+0.5*dt*k2v2
		k3v1, k3v2 := p.AccelerationsAt(a1+0.5*dt*k2a1, a2+0.5*dt*k2a2, k3a1, k3a2)

		k4a1, k4a2 := v1+dt*k3v1, v2+dt*k3v2
		k4v1, k4v2 := p.AccelerationsAt(a1+dt*k3a1, a2+dt*k3a2, k4a1, k4a2)

		dt6 := dt / 6.0
		p.A1 = a1 + dt6*(k1a1+2*k2a1+2*k3a1+k4a1)
		p.A2 = a2 + dt6*(k1a2+2*k2a2+2*k3a2+k4a2)
		p.V1 = v1 + dt6*(k1v1+2*k2v1+2*k3v1+k4v1)
		p.V2 = v2 + dt6*(k1v2+2*k2v2+2*k3v2+k4v2)

		if !p.Finite() {
			return &dynamo.NumericFault{Body: -1, Substep: i, State: p.Dynamic()}
		}
	}
	return nil
}
