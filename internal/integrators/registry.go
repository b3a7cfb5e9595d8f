package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendula/internal/physics"
)

// Stepper advances one body in place by one unit of simulation time.
type Stepper interface {
	Name() string
	Advance(p *physics.DoublePendulum, substeps int) error
}

// Default is the name of the reference stepper.
const Default = "euler"

var registry = map[string]func() Stepper{
	"euler": func() Stepper { return NewEuler() },
	"rk4":   func() Stepper { return NewRK4() },
}

// Lookup returns a fresh stepper by name. An empty name selects Default.
func Lookup(name string) (Stepper, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
