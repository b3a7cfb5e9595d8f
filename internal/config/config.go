package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	DefaultN  = 50
	DefaultT  = 5
	DefaultS  = 3
	DefaultM1 = 4.0
	DefaultM2 = 1.0
	DefaultL1 = 200.0
	DefaultL2 = 150.0
	DefaultA1 = 1.2995
	DefaultA2 = 2.0
	DefaultV1 = 0.0
	DefaultV2 = 0.0
	DefaultG  = 0.5

	DefaultStepper = "euler"
	DefaultWorkers = 1
)

// Params is the live-editable parameter record. Every field that affects
// initial state triggers a full reseed when it changes.
type Params struct {
	N int `yaml:"n" json:"n"` // pendulum count
	T int `yaml:"t" json:"t"` // sub-steps per quality pass
	S int `yaml:"s" json:"s"` // quality passes per frame

	M1 float64 `yaml:"m1" json:"m1"`
	M2 float64 `yaml:"m2" json:"m2"`
	L1 float64 `yaml:"l1" json:"l1"`
	L2 float64 `yaml:"l2" json:"l2"`
	A1 float64 `yaml:"a1" json:"a1"`
	A2 float64 `yaml:"a2" json:"a2"`
	V1 float64 `yaml:"v1" json:"v1"`
	V2 float64 `yaml:"v2" json:"v2"`
	G  float64 `yaml:"g" json:"g"`

	Stepper string `yaml:"stepper" json:"stepper"`
	Workers int    `yaml:"workers" json:"workers"`
}

// Range is the inclusive bound of one editable field.
type Range struct {
	Min, Max float64
	Step     float64
	Integer  bool
}

// Ranges mirrors the bounds of the parameter panel.
var Ranges = map[string]Range{
	"n":  {1, 100, 1, true},
	"t":  {1, 10, 1, true},
	"s":  {1, 5, 1, true},
	"m1": {1, 10, 1, true},
	"m2": {1, 10, 1, true},
	"l1": {50, 200, 5, false},
	"l2": {50, 200, 5, false},
	"a1": {-2, 2, 0.05, false},
	"a2": {-2, 2, 0.05, false},
	"v1": {-2, 2, 0.05, false},
	"v2": {-2, 2, 0.05, false},
	"g":  {0, 1, 0.05, false},
}

// Fields lists the editable fields in panel order.
var Fields = []string{"n", "t", "s", "m1", "m2", "l1", "l2", "a1", "a2", "v1", "v2", "g"}

func DefaultParams() Params {
	return Params{
		N:       DefaultN,
		T:       DefaultT,
		S:       DefaultS,
		M1:      DefaultM1,
		M2:      DefaultM2,
		L1:      DefaultL1,
		L2:      DefaultL2,
		A1:      DefaultA1,
		A2:      DefaultA2,
		V1:      DefaultV1,
		V2:      DefaultV2,
		G:       DefaultG,
		Stepper: DefaultStepper,
		Workers: DefaultWorkers,
	}
}

// Validate checks every field against Ranges. The first violation is
// returned as a *dynamo.ConfigError.
func (p Params) Validate() error {
	for _, name := range Fields {
		v, _ := p.Get(name)
		r := Ranges[name]
		if !dynamo.Finite(v) {
			return dynamo.NewConfigError(name, v, "must be finite")
		}
		if v < r.Min || v > r.Max {
			return dynamo.NewConfigError(name, v, fmt.Sprintf("out of range [%g, %g]", r.Min, r.Max))
		}
		if r.Integer && v != math.Trunc(v) {
			return dynamo.NewConfigError(name, v, "must be an integer")
		}
	}
	if p.Workers < 1 {
		return dynamo.NewConfigError("workers", float64(p.Workers), "must be >= 1")
	}
	if _, err := integrators.Lookup(p.Stepper); err != nil {
		return &dynamo.ConfigError{Field: "stepper", Reason: err.Error()}
	}
	return nil
}

// Get returns a field by its panel name.
func (p Params) Get(name string) (float64, bool) {
	switch name {
	case "n":
		return float64(p.N), true
	case "t":
		return float64(p.T), true
	case "s":
		return float64(p.S), true
	case "m1":
		return p.M1, true
	case "m2":
		return p.M2, true
	case "l1":
		return p.L1, true
	case "l2":
		return p.L2, true
	case "a1":
		return p.A1, true
	case "a2":
		return p.A2, true
	case "v1":
		return p.V1, true
	case "v2":
		return p.V2, true
	case "g":
		return p.G, true
	}
	return 0, false
}

// With returns a copy with one field replaced. Integer fields are rounded.
func (p Params) With(name string, value float64) (Params, error) {
	switch name {
	case "n":
		p.N = int(math.Round(value))
	case "t":
		p.T = int(math.Round(value))
	case "s":
		p.S = int(math.Round(value))
	case "m1":
		p.M1 = value
	case "m2":
		p.M2 = value
	case "l1":
		p.L1 = value
	case "l2":
		p.L2 = value
	case "a1":
		p.A1 = value
	case "a2":
		p.A2 = value
	case "v1":
		p.V1 = value
	case "v2":
		p.V2 = value
	case "g":
		p.G = value
	default:
		return p, fmt.Errorf("unknown param: %s", name)
	}
	return p, nil
}

// Nudge moves a field by dir steps of its panel increment, clamped to range.
func (p Params) Nudge(name string, dir int) (Params, error) {
	r, ok := Ranges[name]
	if !ok {
		return p, fmt.Errorf("unknown param: %s", name)
	}
	v, _ := p.Get(name)
	v = math.Max(r.Min, math.Min(r.Max, v+float64(dir)*r.Step))
	return p.With(name, v)
}

func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	cfg := DefaultParams()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Params{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Params) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
