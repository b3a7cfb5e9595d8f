package metrics

import "github.com/san-kum/pendula/internal/driver"

// Stability is the fraction of bodies that have not faulted.
type Stability struct {
	name  string
	value float64
}

func NewStability() *Stability {
	return &Stability{name: "stability", value: 1}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnFrame(f driver.Frame) {
	if len(f.Faulted) == 0 {
		s.value = 1
		return
	}
	live := 0
	for _, faulted := range f.Faulted {
		if !faulted {
			live++
		}
	}
	s.value = float64(live) / float64(len(f.Faulted))
}

func (s *Stability) Value() float64 {
	return s.value
}

func (s *Stability) Reset() {
	s.value = 1
}
