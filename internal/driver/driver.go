// Package driver advances a population once per display refresh and hands
// the resulting joint positions to a Renderer.
package driver

import (
	"context"
	"sync"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/physics"
	"github.com/san-kum/pendula/internal/population"
	"go.uber.org/zap"
)

// Marker radii in screen units.
const (
	JointRadius1 = 5
	JointRadius2 = 6
	PivotRadius  = 10
)

// Renderer receives one DrawBody call per live body, in population order,
// followed by exactly one DrawPivot call per frame.
type Renderer interface {
	DrawBody(j dynamo.Joints)
	DrawPivot(p dynamo.Point)
}

// Frame is a copy of everything one tick produced.
type Frame struct {
	Seq      uint64
	Params   config.Params
	Reseeded bool
	Joints   []dynamo.Joints
	Bodies   []physics.DoublePendulum
	Faulted  []bool
	Faults   []*dynamo.NumericFault
}

type Observer interface {
	OnFrame(f Frame)
}

// Metric is an Observer that reduces frames to a single number.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

type Driver struct {
	// mu serializes tick bodies; pendingMu only guards the reseed slot.
	mu        sync.Mutex
	pendingMu sync.Mutex
	pending   *config.Params

	pop       *population.Population
	cfg       config.Params
	seq       uint64
	observers []Observer
	metrics   []Metric
	logger    *zap.Logger
}

// New validates cfg and seeds pop from it.
func New(pop *population.Population, cfg config.Params, opts ...Option) (*Driver, error) {
	d := &Driver{
		pop:    pop,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := pop.Seed(cfg); err != nil {
		return nil, err
	}
	d.cfg = cfg
	return d, nil
}

func (d *Driver) AddObserver(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

func (d *Driver) AddMetric(m Metric) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics = append(d.metrics, m)
}

// Metrics returns the current value of every registered metric by name.
func (d *Driver) Metrics() map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]float64, len(d.metrics))
	for _, m := range d.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// OnParameterChanged validates cfg and schedules a reseed for the next
// tick boundary. An invalid cfg is returned as a *dynamo.ConfigError and
// the current population keeps running. A later request replaces an
// earlier one that has not been applied yet.
func (d *Driver) OnParameterChanged(cfg config.Params) error {
	if err := cfg.Validate(); err != nil {
		d.logger.Debug("parameter change rejected", zap.Error(err))
		return err
	}
	d.pendingMu.Lock()
	d.pending = &cfg
	d.pendingMu.Unlock()
	return nil
}

// Pending reports whether a reseed is waiting for the next tick.
func (d *Driver) Pending() bool {
	d.pendingMu.Lock()
	defer d.pendingMu.Unlock()
	return d.pending != nil
}

// Params returns the configuration the population was last seeded from.
func (d *Driver) Params() config.Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Driver) FrameCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Tick applies a pending reseed, advances every live body by S passes of
// T sub-steps and draws the result. r may be nil.
func (d *Driver) Tick(r Renderer) Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	reseeded := d.applyPending()
	faults := d.pop.StepAll(d.cfg.T, d.cfg.S)

	joints := d.pop.Joints()
	if r != nil {
		for _, j := range joints {
			r.DrawBody(j)
		}
		r.DrawPivot(dynamo.Origin)
	}

	d.seq++
	f := Frame{
		Seq:      d.seq,
		Params:   d.cfg,
		Reseeded: reseeded,
		Joints:   joints,
		Bodies:   d.pop.Bodies(),
		Faulted:  d.faultTable(),
		Faults:   faults,
	}

	for _, m := range d.metrics {
		if reseeded {
			m.Reset()
		}
		m.OnFrame(f)
	}
	for _, o := range d.observers {
		o.OnFrame(f)
	}
	return f
}

func (d *Driver) applyPending() bool {
	d.pendingMu.Lock()
	next := d.pending
	d.pending = nil
	d.pendingMu.Unlock()

	if next == nil {
		return false
	}
	if err := d.pop.Seed(*next); err != nil {
		d.logger.Error("reseed failed, keeping current population", zap.Error(err))
		return false
	}
	d.cfg = *next
	d.logger.Info("population reseeded", zap.Uint64("frame", d.seq), zap.Int("n", next.N))
	return true
}

func (d *Driver) faultTable() []bool {
	out := make([]bool, d.pop.Len())
	for i := range out {
		out[i] = d.pop.Faulted(i)
	}
	return out
}

// Run ticks headlessly until frames ticks have completed or ctx is done.
// It returns the number of completed ticks.
func (d *Driver) Run(ctx context.Context, frames int, r Renderer) (int, error) {
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		d.Tick(r)
	}
	return frames, nil
}
