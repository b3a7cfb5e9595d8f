package metrics

import (
	"math"

	"github.com/san-kum/pendula/internal/driver"
)

// Spread is the range of the second joint angle across live bodies. A
// freshly seeded population starts at just under 0.0001 rad; growth of this
// value is how the chaotic divergence shows up.
type Spread struct {
	name  string
	value float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) OnFrame(f driver.Frame) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, b := range f.Bodies {
		if f.Faulted[i] {
			continue
		}
		lo = math.Min(lo, b.A2)
		hi = math.Max(hi, b.A2)
	}
	if hi < lo {
		s.value = 0
		return
	}
	s.value = hi - lo
}

func (s *Spread) Value() float64 { return s.value }

func (s *Spread) Reset() { s.value = 0 }

// Series keeps the last Cap values of a metric, sampled after every frame.
type Series struct {
	Metric driver.Metric
	Cap    int
	values []float64
}

func NewSeries(m driver.Metric, capacity int) *Series {
	return &Series{Metric: m, Cap: capacity}
}

func (s *Series) OnFrame(driver.Frame) {
	s.values = append(s.values, s.Metric.Value())
	if len(s.values) > s.Cap {
		s.values = s.values[len(s.values)-s.Cap:]
	}
}

func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Series) Clear() { s.values = s.values[:0] }
