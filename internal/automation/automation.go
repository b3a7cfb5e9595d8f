// Package automation plays scripted parameter changes against a running
// driver, the way a user would from the panel.
package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/metrics"
	"github.com/san-kum/pendula/internal/population"
	"github.com/san-kum/pendula/internal/storage"
)

// Scenario is a named sequence of steps sharing one population.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep changes the given fields (panel names) and then runs
// Frames frames. An empty Set still reseeds when Reseed is true.
type ScenarioStep struct {
	Set    map[string]float64 `yaml:"set"`
	Reseed bool               `yaml:"reseed"`
	Frames int                `yaml:"frames"`
	Record int                `yaml:"record"` // body index, with SaveAs
	SaveAs string             `yaml:"save_as"`
}

// StepResult is what one step left behind.
type StepResult struct {
	Params  config.Params
	Frames  int
	Metrics map[string]float64
	RunID   string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

// Runner executes scenarios. Store may be nil when no step saves a run.
type Runner struct {
	Base   config.Params
	Store  *storage.Store
	Logger *zap.Logger
}

// Run plays every step in order. Parameter changes go through
// OnParameterChanged, so each one takes effect on the first tick of its step.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	base := r.Base
	if scenario.Preset != "" {
		p, ok := config.GetPreset(scenario.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", scenario.Preset)
		}
		p.Stepper, p.Workers = base.Stepper, base.Workers
		base = p
	}

	drv, err := driver.New(population.New(population.WithLogger(logger)), base, driver.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	drv.AddMetric(metrics.NewEnergy())
	drv.AddMetric(metrics.NewEnergyDrift())
	drv.AddMetric(metrics.NewSpread())
	drv.AddMetric(metrics.NewStability())

	var rec *storage.Recorder
	drv.AddObserver(observerFunc(func(f driver.Frame) {
		if rec != nil {
			rec.OnFrame(f)
		}
	}))

	results := make([]StepResult, 0, len(scenario.Steps))
	current := base

	for i, step := range scenario.Steps {
		logger.Info("scenario step", zap.String("scenario", scenario.Name), zap.Int("step", i+1))

		next := current
		for name, v := range step.Set {
			if next, err = next.With(name, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if len(step.Set) > 0 || step.Reseed {
			if err := drv.OnParameterChanged(next); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			current = next
		}

		rec = nil
		if step.SaveAs != "" {
			if r.Store == nil {
				return results, fmt.Errorf("step %d: save_as needs a store", i+1)
			}
			if filepath.Base(step.SaveAs) != step.SaveAs {
				return results, fmt.Errorf("step %d: save_as must be a plain name", i+1)
			}
			if step.Record < 0 || step.Record >= current.N {
				return results, fmt.Errorf("step %d: record body %d out of range", i+1, step.Record)
			}
			rec = storage.NewRecorder(step.Record)
		}

		done, err := drv.Run(ctx, step.Frames, nil)
		res := StepResult{Params: current, Frames: done, Metrics: drv.Metrics()}
		if err != nil {
			return append(results, res), fmt.Errorf("step %d: %w", i+1, err)
		}

		if rec != nil {
			id, err := r.Store.Save(storage.RunMetadata{
				ID:      step.SaveAs,
				Params:  current,
				Stepper: current.Stepper,
				Frames:  done,
				Body:    step.Record,
				Metrics: res.Metrics,
			}, rec.Trace())
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			res.RunID = id
		}
		results = append(results, res)
	}

	return results, nil
}

type observerFunc func(driver.Frame)

func (fn observerFunc) OnFrame(f driver.Frame) { fn(f) }
