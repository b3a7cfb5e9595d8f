package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/pendula/internal/physics"
)

func TestRK4Accuracy(t *testing.T) {
	// small-angle, single dominant mode: both steppers should agree closely
	// over a short horizon when finely sub-stepped
	ref, _ := physics.NewDoublePendulum(1, 1, 100, 100, 0.01, 0.01, 0, 0, 0.1)
	rk, _ := physics.NewDoublePendulum(1, 1, 100, 100, 0.01, 0.01, 0, 0, 0.1)

	euler := NewEuler()
	rk4 := NewRK4()
	for i := 0; i < 50; i++ {
		if err := euler.Advance(ref, 10); err != nil {
			t.Fatal(err)
		}
		if err := rk4.Advance(rk, 10); err != nil {
			t.Fatal(err)
		}
	}

	if math.Abs(ref.A1-rk.A1) > 1e-3 {
		t.Errorf("a1 diverged: euler %.6f, rk4 %.6f", ref.A1, rk.A1)
	}
	if math.Abs(ref.A2-rk.A2) > 1e-3 {
		t.Errorf("a2 diverged: euler %.6f, rk4 %.6f", ref.A2, rk.A2)
	}
}

func TestRK4_RestIsFixedPoint(t *testing.T) {
	p, _ := physics.NewDoublePendulum(1, 1, 100, 100, 0, 0, 0, 0, 0)
	if err := NewRK4().Advance(p, 4); err != nil {
		t.Fatal(err)
	}
	if p.A1 != 0 || p.A2 != 0 || p.V1 != 0 || p.V2 != 0 {
		t.Errorf("expected rest, got %+v", p.Dynamic())
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "euler", false},
		{"euler", "euler", false},
		{"rk4", "rk4", false},
		{"rk45", "", true},
	}

	for _, tt := range tests {
		s, err := Lookup(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Lookup(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.name, err)
			continue
		}
		if s.Name() != tt.want {
			t.Errorf("Lookup(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
		}
	}
}
