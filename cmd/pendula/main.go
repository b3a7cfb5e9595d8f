package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/integrators"
	"github.com/san-kum/pendula/internal/logging"
)

var (
	dataDir    string
	logDir     string
	configFile string
	preset     string
	debug      bool
	stepper    string
	workers    int

	// per-field overrides, keyed by panel name
	intFields   = map[string]*int{}
	floatFields = map[string]*float64{}

	logger   = zap.NewNop()
	closeLog = func() {}
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd registers every command. The root command itself opens the
// terminal view with the preset menu.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pendula",
		Short: "a fan of double pendulums, one hair apart",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := logging.New(debug, logDir)
			if err != nil {
				return err
			}
			logger, closeLog = l, closeFn
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLog()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, false)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".pendula", "data directory")
	pf.StringVar(&logDir, "log-dir", "logs", "log directory (with --debug)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.BoolVar(&debug, "debug", false, "write debug logs")
	pf.StringVar(&stepper, "stepper", config.DefaultStepper, fmt.Sprintf("integrator %v", integrators.Names()))
	pf.IntVar(&workers, "workers", config.DefaultWorkers, "goroutines stepping the population")

	defaults := config.DefaultParams()
	for _, name := range config.Fields {
		r := config.Ranges[name]
		v, _ := defaults.Get(name)
		usage := fmt.Sprintf("%s [%g, %g]", name, r.Min, r.Max)
		if r.Integer {
			intFields[name] = pf.Int(name, int(v), usage)
		} else {
			floatFields[name] = pf.Float64(name, v, usage)
		}
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal view without the preset menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, true)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "raylib window",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store one body's trace",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runFrames, "frames", 600, "frames to simulate")
	runCmd.Flags().IntVar(&runBody, "body", 0, "body index to record")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot a run's trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngOut, "png", "", "also write the --column series to this PNG")
	plotCmd.Flags().StringVar(&plotColumn, "column", "energy", "series for --png (a1, a2, v1, v2, energy)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run]",
		Short: "export a run's trace to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run]",
		Short: "export a run to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run]",
		Short: "spectrum, phase portrait and divergence of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&specColumn, "column", "a1", "series for the spectrum")
	analyzeCmd.Flags().StringVar(&xAxis, "x-axis", "a1", "phase portrait x axis")
	analyzeCmd.Flags().StringVar(&yAxis, "y-axis", "v1", "phase portrait y axis")
	analyzeCmd.Flags().StringVar(&svgOut, "svg", "", "write the phase portrait to this SVG")
	analyzeCmd.Flags().StringVar(&sweepField, "sweep", "", "sweep this field and print divergence rates")
	analyzeCmd.Flags().Float64Var(&sweepLo, "lo", 0, "sweep lower bound")
	analyzeCmd.Flags().Float64Var(&sweepHi, "hi", 1, "sweep upper bound")
	analyzeCmd.Flags().IntVar(&sweepSteps, "steps", 5, "sweep points")
	analyzeCmd.Flags().IntVar(&divFrames, "div-frames", 2000, "frames per divergence estimate")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and save the last frame",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate first")
	snapshotCmd.Flags().StringVar(&format, "format", "svg", "svg or png")
	snapshotCmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	snapshotCmd.Flags().IntVar(&width, "width", 800, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 500, "image height")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time a frame across N, T and S",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 200, "frames per grid point")

	compareCmd := &cobra.Command{
		Use:   "compare [stepper]...",
		Short: "compare steppers on one body",
		RunE:  compareSteppers,
	}
	compareCmd.Flags().IntVar(&compareFrames, "frames", 2000, "frames to simulate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-8s %s\n", name, config.PresetInfo[name])
			}
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a YAML scenario of parameter changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved parameters as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  configInit,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, snapshotCmd, benchCmd, compareCmd, presetsCmd, scenarioCmd, configCmd)
	return rootCmd
}
