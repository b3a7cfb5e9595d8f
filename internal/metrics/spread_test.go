package metrics

import (
	"math"
	"testing"
)

func TestSpread(t *testing.T) {
	tests := []struct {
		name string
		a2   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{2}, 0},
		{"range", []float64{2, 2.5, 1.75}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frame()
			for _, a := range tt.a2 {
				f.Bodies = append(f.Bodies, body(0, a, 0, 0))
				f.Faulted = append(f.Faulted, false)
			}
			s := NewSpread()
			s.OnFrame(f)
			if math.Abs(s.Value()-tt.want) > 1e-12 {
				t.Errorf("spread = %f, want %f", s.Value(), tt.want)
			}
		})
	}
}

func TestSeriesKeepsLatest(t *testing.T) {
	m := NewEnergy()
	s := NewSeries(m, 3)
	for i := 0; i < 5; i++ {
		m.OnFrame(frame(body(0, 0, float64(i), 0)))
		s.OnFrame(frame())
	}

	got := s.Values()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !(got[0] < got[1] && got[1] < got[2]) {
		t.Errorf("expected increasing energies, got %v", got)
	}

	s.Clear()
	if len(s.Values()) != 0 {
		t.Error("expected empty series after clear")
	}
}
