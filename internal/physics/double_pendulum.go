package physics

import (
	"math"

	"github.com/san-kum/pendula/internal/dynamo"
)

// DoublePendulum is the full dynamic configuration of one body: two point
// masses on massless rods hanging from a shared pivot. Angles are measured
// from the downward vertical and are never wrapped.
type DoublePendulum struct {
	M1, M2 float64
	L1, L2 float64
	A1, A2 float64
	V1, V2 float64
	G      float64
}

// NewDoublePendulum validates the parameters and returns the body.
// Masses and lengths must be finite and positive, gravity finite and
// non-negative, angles and velocities finite.
func NewDoublePendulum(m1, m2, l1, l2, a1, a2, v1, v2, g float64) (*DoublePendulum, error) {
	d := &DoublePendulum{
		M1: m1, M2: m2,
		L1: l1, L2: l2,
		A1: a1, A2: a2,
		V1: v1, V2: v2,
		G: g,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the construction invariants.
func (d *DoublePendulum) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"m1", d.M1}, {"m2", d.M2}, {"l1", d.L1}, {"l2", d.L2},
	}
	for _, p := range positive {
		if !dynamo.Finite(p.value) || p.value <= 0 {
			return dynamo.NewConfigError(p.name, p.value, "must be finite and > 0")
		}
	}
	if !dynamo.Finite(d.G) || d.G < 0 {
		return dynamo.NewConfigError("g", d.G, "must be finite and >= 0")
	}

	free := []struct {
		name  string
		value float64
	}{
		{"a1", d.A1}, {"a2", d.A2}, {"v1", d.V1}, {"v2", d.V2},
	}
	for _, p := range free {
		if !dynamo.Finite(p.value) {
			return dynamo.NewConfigError(p.name, p.value, "must be finite")
		}
	}
	return nil
}

// Accelerations returns the angular accelerations of both rods for the
// current angles and velocities.
func (d *DoublePendulum) Accelerations() (dv1, dv2 float64) {
	return accelerations(d.M1, d.M2, d.L1, d.L2, d.A1, d.A2, d.V1, d.V2, d.G)
}

// AccelerationsAt evaluates the equations of motion at an arbitrary
// angle/velocity point using the body's masses, lengths and gravity.
func (d *DoublePendulum) AccelerationsAt(a1, a2, v1, v2 float64) (dv1, dv2 float64) {
	return accelerations(d.M1, d.M2, d.L1, d.L2, a1, a2, v1, v2, d.G)
}

func accelerations(m1, m2, l1, l2, a1, a2, v1, v2, g float64) (float64, float64) {
	// shared by both denominators; k >= 2*m1 for positive masses
	k := 2*m1 + m2 - m2*math.Cos(2*a1-2*a2)
	delta := a1 - a2
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	dv1 := (-g*(2*m1+m2)*math.Sin(a1) -
		m2*g*math.Sin(a1-2*a2) -
		2*sinD*m2*(v2*v2*l2+v1*v1*l1*cosD)) / (l1 * k)

	dv2 := (2 * sinD * (v1*v1*l1*(m1+m2) +
		g*(m1+m2)*math.Cos(a1) +
		v2*v2*l2*m2*cosD)) / (l2 * k)

	return dv1, dv2
}

// Joints returns the Cartesian positions of both joints relative to the
// pivot, y pointing down.
func (d *DoublePendulum) Joints() dynamo.Joints {
	x1 := d.L1 * math.Sin(d.A1)
	y1 := d.L1 * math.Cos(d.A1)
	return dynamo.Joints{
		X1: x1,
		Y1: y1,
		X2: x1 + d.L2*math.Sin(d.A2),
		Y2: y1 + d.L2*math.Cos(d.A2),
	}
}

// Energy returns kinetic plus potential energy in simulation units, with
// the pivot as the potential reference.
func (d *DoublePendulum) Energy() float64 {
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.G

	v1sq := l1 * l1 * d.V1 * d.V1
	v2sq := l1*l1*d.V1*d.V1 + l2*l2*d.V2*d.V2 +
		2*l1*l2*d.V1*d.V2*math.Cos(d.A1-d.A2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(d.A1)
	y2 := y1 - l2*math.Cos(d.A2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}

// Finite reports whether every dynamic field is a real number.
func (d *DoublePendulum) Finite() bool {
	return dynamo.Finite(d.A1, d.A2, d.V1, d.V2)
}

// Dynamic returns (a1, a2, v1, v2).
func (d *DoublePendulum) Dynamic() [4]float64 {
	return [4]float64{d.A1, d.A2, d.V1, d.V2}
}
