package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/physics"
)

// referenceChain evaluates the update rule literally, substep by substep.
func referenceChain(m1, m2, l1, l2, a1, a2, v1, v2, g float64, t int) (float64, float64, float64, float64) {
	n := float64(t)
	for i := 0; i < t; i++ {
		dv1 := (-g*(2*m1+m2)*math.Sin(a1) - m2*g*math.Sin(a1-2*a2) -
			2*math.Sin(a1-a2)*m2*(v2*v2*l2+v1*v1*l1*math.Cos(a1-a2))) /
			(l1 * (2*m1 + m2 - m2*math.Cos(2*a1-2*a2)))
		dv2 := (2 * math.Sin(a1-a2) * (v1*v1*l1*(m1+m2) + g*(m1+m2)*math.Cos(a1) +
			v2*v2*l2*m2*math.Cos(a1-a2))) /
			(l2 * (2*m1 + m2 - m2*math.Cos(2*a1-2*a2)))
		v1 += dv1 / n
		v2 += dv2 / n
		a1 += v1 / n
		a2 += v2 / n
	}
	return a1, a2, v1, v2
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) <= 1e-12*math.Max(1, math.Abs(want))
}

func TestAdvance_GoldenChain(t *testing.T) {
	p, err := physics.NewDoublePendulum(4, 1, 200, 150, 1.2995, 2, 0, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	if err := Advance(p, 5); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	a1, a2, v1, v2 := referenceChain(4, 1, 200, 150, 1.2995, 2, 0, 0, 0.5, 5)
	got := p.Dynamic()
	want := [4]float64{a1, a2, v1, v2}
	for i := range got {
		if !closeTo(got[i], want[i]) {
			t.Errorf("component %d = %.17g, want %.17g", i, got[i], want[i])
		}
	}

	// masses, lengths and gravity are untouched
	if p.M1 != 4 || p.M2 != 1 || p.L1 != 200 || p.L2 != 150 || p.G != 0.5 {
		t.Errorf("parameters mutated: %+v", *p)
	}
}

func TestAdvance_SemiImplicitOrder(t *testing.T) {
	p, _ := physics.NewDoublePendulum(1, 1, 100, 100, 0.5, -0.3, 0, 0, 1)
	dv1, dv2 := p.Accelerations()

	if err := Advance(p, 1); err != nil {
		t.Fatal(err)
	}

	// the angle update uses the velocity produced in the same substep
	if !closeTo(p.V1, dv1) || !closeTo(p.A1, 0.5+dv1) {
		t.Errorf("a1/v1 = %g/%g, want %g/%g", p.A1, p.V1, 0.5+dv1, dv1)
	}
	if !closeTo(p.V2, dv2) || !closeTo(p.A2, -0.3+dv2) {
		t.Errorf("a2/v2 = %g/%g, want %g/%g", p.A2, p.V2, -0.3+dv2, dv2)
	}
}

func TestAdvance_RestIsFixedPoint(t *testing.T) {
	p, _ := physics.NewDoublePendulum(1, 1, 100, 100, 0, 0, 0, 0, 0)

	for step := 0; step < 1000; step++ {
		if err := Advance(p, 7); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}

	if p.A1 != 0 || p.A2 != 0 || p.V1 != 0 || p.V2 != 0 {
		t.Errorf("expected body to stay at rest, got %+v", p.Dynamic())
	}
}

func TestAdvance_InvalidSubsteps(t *testing.T) {
	for _, n := range []int{0, -1} {
		p, _ := physics.NewDoublePendulum(1, 1, 100, 100, 0.3, 0.2, 0, 0, 1)
		before := *p

		err := Advance(p, n)
		if !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("substeps=%d: expected ErrInvalidConfig, got %v", n, err)
		}
		if *p != before {
			t.Errorf("substeps=%d: state mutated on rejected call", n)
		}
	}
}

func TestAdvance_OverflowIsNumericFault(t *testing.T) {
	p, err := physics.NewDoublePendulum(1, 1, 100, 100, 0, 0, 1e200, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	err = Advance(p, 3)
	if !errors.Is(err, dynamo.ErrNumericFault) {
		t.Fatalf("expected ErrNumericFault, got %v", err)
	}

	var nf *dynamo.NumericFault
	if !errors.As(err, &nf) {
		t.Fatal("expected *dynamo.NumericFault")
	}
	if nf.Substep != 0 {
		t.Errorf("expected fault on first substep, got %d", nf.Substep)
	}
}

func TestAdvance_SubstepsRefineTrajectory(t *testing.T) {
	coarse, _ := physics.NewDoublePendulum(4, 1, 200, 150, 1.2995, 2, 0, 0, 0.5)
	fine, _ := physics.NewDoublePendulum(4, 1, 200, 150, 1.2995, 2, 0, 0, 0.5)

	if err := Advance(coarse, 1); err != nil {
		t.Fatal(err)
	}
	if err := Advance(fine, 10); err != nil {
		t.Fatal(err)
	}

	if coarse.A1 == fine.A1 && coarse.A2 == fine.A2 {
		t.Error("expected substep count to change the result")
	}
}
