// Package population owns an ordered set of double pendulums seeded from
// one shared parameter record and steps them together.
package population

import (
	"errors"
	"fmt"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/integrators"
	"github.com/san-kum/pendula/internal/physics"
	"go.uber.org/zap"
)

// PhaseSpread is the total a2 offset spread across a population.
const PhaseSpread = 0.0001

// bodies per goroutine below which fan-out is not worth it
const minChunk = 8

type Option func(*Population)

func WithLogger(l *zap.Logger) Option {
	return func(p *Population) { p.logger = l }
}

// Population is not safe for concurrent use; the driver serializes access.
type Population struct {
	bodies  []physics.DoublePendulum
	faulted []bool
	stepper integrators.Stepper
	workers int
	cfg     config.Params
	logger  *zap.Logger
}

func New(opts ...Option) *Population {
	p := &Population{
		stepper: integrators.NewEuler(),
		workers: 1,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lerp maps v from [start1, stop1] onto [start2, stop2].
func Lerp(v, start1, stop1, start2, stop2 float64) float64 {
	return (v-start1)/(stop1-start1)*(stop2-start2) + start2
}

// Seed replaces every body with cfg.N fresh bodies. Body i shares all of
// cfg except a2, which is offset by Lerp(i, 0, N, 0, PhaseSpread), and
// gravity, which is cfg.G / S². Velocities are cfg.V1/100 and cfg.V2/100.
// On error the previous bodies are kept.
func (p *Population) Seed(cfg config.Params) error {
	if cfg.N < 0 {
		return dynamo.NewConfigError("n", float64(cfg.N), "must be >= 0")
	}
	if cfg.S < 1 {
		return dynamo.NewConfigError("s", float64(cfg.S), "must be >= 1")
	}
	if cfg.Workers < 1 {
		return dynamo.NewConfigError("workers", float64(cfg.Workers), "must be >= 1")
	}
	stepper, err := integrators.Lookup(cfg.Stepper)
	if err != nil {
		return &dynamo.ConfigError{Field: "stepper", Reason: err.Error()}
	}

	quality := float64(cfg.S)
	g := cfg.G / (quality * quality)

	// prototype validates shared fields even when N is zero
	if _, err := physics.NewDoublePendulum(cfg.M1, cfg.M2, cfg.L1, cfg.L2,
		cfg.A1, cfg.A2, cfg.V1/100, cfg.V2/100, g); err != nil {
		return err
	}

	bodies := make([]physics.DoublePendulum, cfg.N)
	for i := range bodies {
		a2 := cfg.A2 + Lerp(float64(i), 0, float64(cfg.N), 0, PhaseSpread)
		b, err := physics.NewDoublePendulum(cfg.M1, cfg.M2, cfg.L1, cfg.L2,
			cfg.A1, a2, cfg.V1/100, cfg.V2/100, g)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		bodies[i] = *b
	}

	p.bodies = bodies
	p.faulted = make([]bool, cfg.N)
	p.stepper = stepper
	p.workers = cfg.Workers
	p.cfg = cfg

	p.logger.Debug("population seeded",
		zap.Int("n", cfg.N),
		zap.Int("s", cfg.S),
		zap.Float64("g_eff", g),
		zap.String("stepper", stepper.Name()),
		zap.Int("workers", cfg.Workers),
	)
	return nil
}

// StepAll advances every live body passes times, each time with
// substepsPerPass sub-steps. Bodies that fault are excluded from then on;
// each fault is returned exactly once, in body order.
func (p *Population) StepAll(substepsPerPass, passes int) []*dynamo.NumericFault {
	if substepsPerPass < 1 || passes < 1 {
		p.logger.Warn("ignoring step request",
			zap.Int("substeps", substepsPerPass), zap.Int("passes", passes))
		return nil
	}

	n := len(p.bodies)
	found := make([]*dynamo.NumericFault, n)

	for pass := 0; pass < passes; pass++ {
		dynamo.ParallelFor(n, p.workers, minChunk, func(start, end int) {
			for i := start; i < end; i++ {
				if p.faulted[i] {
					continue
				}
				err := p.stepper.Advance(&p.bodies[i], substepsPerPass)
				if err == nil {
					continue
				}
				p.faulted[i] = true
				var nf *dynamo.NumericFault
				if errors.As(err, &nf) {
					nf.Body = i
				} else {
					nf = &dynamo.NumericFault{Body: i, State: p.bodies[i].Dynamic()}
				}
				found[i] = nf
			}
		})
	}

	var faults []*dynamo.NumericFault
	for _, nf := range found {
		if nf == nil {
			continue
		}
		p.logger.Warn("body excluded after numeric fault",
			zap.Int("body", nf.Body),
			zap.Int("substep", nf.Substep),
			zap.Error(nf),
		)
		faults = append(faults, nf)
	}
	return faults
}

func (p *Population) Len() int { return len(p.bodies) }

// Live counts bodies that have not faulted.
func (p *Population) Live() int {
	live := 0
	for _, f := range p.faulted {
		if !f {
			live++
		}
	}
	return live
}

// Params returns the record of the last successful Seed.
func (p *Population) Params() config.Params { return p.cfg }

func (p *Population) Stepper() string { return p.stepper.Name() }

// Body returns a copy of body i.
func (p *Population) Body(i int) physics.DoublePendulum { return p.bodies[i] }

func (p *Population) Faulted(i int) bool { return p.faulted[i] }

// Bodies returns a copy of every body, faulted ones included.
func (p *Population) Bodies() []physics.DoublePendulum {
	out := make([]physics.DoublePendulum, len(p.bodies))
	copy(out, p.bodies)
	return out
}

// Joints returns joint positions of live bodies in population order.
func (p *Population) Joints() []dynamo.Joints {
	out := make([]dynamo.Joints, 0, len(p.bodies))
	for i := range p.bodies {
		if p.faulted[i] {
			continue
		}
		out = append(out, p.bodies[i].Joints())
	}
	return out
}
