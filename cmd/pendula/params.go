package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/population"
)

// resolveParams layers defaults, --preset, --config and finally any flag
// the user actually set.
func resolveParams(cmd *cobra.Command) (config.Params, error) {
	p := config.DefaultParams()

	if preset != "" {
		pp, ok := config.GetPreset(preset)
		if !ok {
			return p, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p = pp
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return p, fmt.Errorf("failed to load config: %w", err)
		}
		p = cfg
	}

	flags := cmd.Flags()
	for _, name := range config.Fields {
		if !flags.Changed(name) {
			continue
		}
		var v float64
		if iv, ok := intFields[name]; ok {
			v = float64(*iv)
		} else {
			v = *floatFields[name]
		}
		next, err := p.With(name, v)
		if err != nil {
			return p, err
		}
		p = next
	}
	if flags.Changed("stepper") {
		p.Stepper = stepper
	}
	if flags.Changed("workers") {
		p.Workers = workers
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func newDriver(p config.Params) (*driver.Driver, error) {
	pop := population.New(population.WithLogger(logger))
	return driver.New(pop, p, driver.WithLogger(logger))
}

// signalContext is cancelled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// frameFunc adapts a function to driver.Observer.
type frameFunc func(driver.Frame)

func (fn frameFunc) OnFrame(f driver.Frame) { fn(f) }
