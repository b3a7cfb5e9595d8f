package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendula/internal/dynamo"
)

func TestNewDoublePendulum_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		field string
		args  [9]float64
	}{
		{"zero m1", "m1", [9]float64{0, 1, 100, 100, 0, 0, 0, 0, 1}},
		{"negative m2", "m2", [9]float64{1, -1, 100, 100, 0, 0, 0, 0, 1}},
		{"zero l1", "l1", [9]float64{1, 1, 0, 100, 0, 0, 0, 0, 1}},
		{"negative l2", "l2", [9]float64{1, 1, 100, -5, 0, 0, 0, 0, 1}},
		{"inf mass", "m1", [9]float64{math.Inf(1), 1, 100, 100, 0, 0, 0, 0, 1}},
		{"negative gravity", "g", [9]float64{1, 1, 100, 100, 0, 0, 0, 0, -1}},
		{"nan angle", "a2", [9]float64{1, 1, 100, 100, 0, math.NaN(), 0, 0, 1}},
		{"inf velocity", "v1", [9]float64{1, 1, 100, 100, 0, 0, math.Inf(-1), 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			d, err := NewDoublePendulum(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8])
			if err == nil {
				t.Fatalf("expected error, got body %+v", d)
			}
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *dynamo.ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("expected ConfigError on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestDoublePendulumEquilibrium(t *testing.T) {
	d, err := NewDoublePendulum(1, 1, 100, 100, 0, 0, 0, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	dv1, dv2 := d.Accelerations()
	if math.Abs(dv1) > 1e-12 || math.Abs(dv2) > 1e-12 {
		t.Errorf("expected zero accelerations hanging at rest, got %g, %g", dv1, dv2)
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	d1, _ := NewDoublePendulum(2, 1, 100, 80, 0.1, 0.1, 0, 0, 0.5)
	d2, _ := NewDoublePendulum(2, 1, 100, 80, -0.1, -0.1, 0, 0, 0.5)

	a1, b1 := d1.Accelerations()
	a2, b2 := d2.Accelerations()

	if math.Abs(a1+a2) > 1e-12 {
		t.Errorf("expected symmetric dv1: %g vs %g", a1, a2)
	}
	if math.Abs(b1+b2) > 1e-12 {
		t.Errorf("expected symmetric dv2: %g vs %g", b1, b2)
	}
}

func TestDoublePendulumAccelerations_Formula(t *testing.T) {
	m1, m2, l1, l2 := 4.0, 1.0, 200.0, 150.0
	a1, a2, v1, v2, g := 1.2995, 2.0, 0.01, -0.02, 0.5
	d, err := NewDoublePendulum(m1, m2, l1, l2, a1, a2, v1, v2, g)
	if err != nil {
		t.Fatal(err)
	}

	den := 2*m1 + m2 - m2*math.Cos(2*a1-2*a2)
	want1 := (-g*(2*m1+m2)*math.Sin(a1) - m2*g*math.Sin(a1-2*a2) -
		2*math.Sin(a1-a2)*m2*(v2*v2*l2+v1*v1*l1*math.Cos(a1-a2))) / (l1 * den)
	want2 := (2 * math.Sin(a1-a2) * (v1*v1*l1*(m1+m2) + g*(m1+m2)*math.Cos(a1) +
		v2*v2*l2*m2*math.Cos(a1-a2))) / (l2 * den)

	got1, got2 := d.Accelerations()
	if math.Abs(got1-want1) > 1e-15 || math.Abs(got2-want2) > 1e-15 {
		t.Errorf("Accelerations() = (%g, %g), want (%g, %g)", got1, got2, want1, want2)
	}
}

func TestDoublePendulumJoints(t *testing.T) {
	d, _ := NewDoublePendulum(1, 1, 100, 50, math.Pi/2, 0, 0, 0, 0)
	j := d.Joints()

	if math.Abs(j.X1-100) > 1e-9 || math.Abs(j.Y1) > 1e-9 {
		t.Errorf("joint 1 = (%g, %g), want (100, 0)", j.X1, j.Y1)
	}
	if math.Abs(j.X2-100) > 1e-9 || math.Abs(j.Y2-50) > 1e-9 {
		t.Errorf("joint 2 = (%g, %g), want (100, 50)", j.X2, j.Y2)
	}
}

func TestDoublePendulumEnergy(t *testing.T) {
	d, _ := NewDoublePendulum(1, 1, 1, 1, 0, 0, 0, 0, 9.81)

	// both masses hang below the pivot: y1 = -1, y2 = -2
	expected := -9.81 - 2*9.81
	if e := d.Energy(); math.Abs(e-expected) > 1e-9 {
		t.Errorf("Energy() = %g, want %g", e, expected)
	}
}

func TestDoublePendulumFinite(t *testing.T) {
	d, _ := NewDoublePendulum(1, 1, 1, 1, 0, 0, 0, 0, 1)
	if !d.Finite() {
		t.Error("expected fresh body to be finite")
	}
	d.V2 = math.NaN()
	if d.Finite() {
		t.Error("expected NaN velocity to be reported")
	}
}
