package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendula/internal/analysis"
	"github.com/san-kum/pendula/internal/automation"
	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/export"
	"github.com/san-kum/pendula/internal/gui"
	"github.com/san-kum/pendula/internal/integrators"
	"github.com/san-kum/pendula/internal/metrics"
	"github.com/san-kum/pendula/internal/population"
	"github.com/san-kum/pendula/internal/storage"
	"github.com/san-kum/pendula/internal/viz"
)

var (
	runFrames     int
	runBody       int
	snapFrames    int
	benchFrames   int
	compareFrames int

	pngOut     string
	plotColumn string
	specColumn string
	xAxis      string
	yAxis      string
	svgOut     string
	sweepField string
	sweepLo    float64
	sweepHi    float64
	sweepSteps int
	divFrames  int

	format string
	outDir string
	width  int
	height int
	force  bool
)

func interactive(cmd *cobra.Command) (*driver.Driver, *config.Store, error) {
	p, err := resolveParams(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := config.NewStore(p)
	if err != nil {
		return nil, nil, err
	}
	drv, err := newDriver(p)
	if err != nil {
		return nil, nil, err
	}
	return drv, store, nil
}

func runTUI(cmd *cobra.Command, skipMenu bool) error {
	drv, store, err := interactive(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viz.Options{
		Driver:      drv,
		Store:       store,
		Logger:      logger,
		SnapshotDir: dataDir,
	}, skipMenu || preset != "" || configFile != "")
}

func runGUI(cmd *cobra.Command, args []string) error {
	drv, store, err := interactive(cmd)
	if err != nil {
		return err
	}
	return gui.Run(gui.Options{
		Driver:      drv,
		Store:       store,
		Logger:      logger,
		SnapshotDir: dataDir,
	})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	if runBody < 0 || runBody >= p.N {
		return fmt.Errorf("body %d out of range [0, %d)", runBody, p.N)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	drv, err := newDriver(p)
	if err != nil {
		return err
	}
	drv.AddMetric(metrics.NewEnergy())
	drv.AddMetric(metrics.NewEnergyDrift())
	drv.AddMetric(metrics.NewSpread())
	drv.AddMetric(metrics.NewStability())

	rec := storage.NewRecorder(runBody)
	drv.AddObserver(rec)
	var last driver.Frame
	drv.AddObserver(frameFunc(func(f driver.Frame) { last = f }))

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d bodies for %d frames...\n", p.N, runFrames)
	start := time.Now()
	done, err := drv.Run(ctx, runFrames, nil)
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	faults := 0
	for _, faulted := range last.Faulted {
		if faulted {
			faults++
		}
	}

	meta := storage.RunMetadata{
		Params:  p,
		Stepper: p.Stepper,
		Frames:  done,
		Body:    runBody,
		Faults:  faults,
		Metrics: drv.Metrics(),
	}
	runID, err := st.Save(meta, rec.Trace())
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("id", runID), zap.Int("frames", done))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", done)
	fmt.Printf("faulted bodies: %d\n", faults)
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tT\tS\tSTEPPER\tFRAMES\tFAULTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.N,
			run.Params.T,
			run.Params.S,
			run.Stepper,
			run.Frames,
			run.Faults,
		)
	}
	return w.Flush()
}

// loadRun resolves an optional run reference ("latest" when omitted).
func loadRun(args []string) (*storage.RunMetadata, *storage.Trace, error) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	st := storage.New(dataDir)
	id, err := st.Resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(id)
	if err != nil {
		return nil, nil, err
	}
	if len(trace.Samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", id)
	}
	return meta, trace, nil
}

var captions = map[string]string{
	"a1":     "a1 (inner angle)",
	"a2":     "a2 (outer angle)",
	"v1":     "v1 (inner angular velocity)",
	"v2":     "v2 (outer angular velocity)",
	"energy": "energy",
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %d of %d\n", meta.Body, meta.Params.N)
	fmt.Printf("samples: %d\n\n", len(trace.Samples))

	for _, name := range []string{"a1", "a2", "v1", "v2", "energy"} {
		data, _ := trace.Column(name)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[name]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if pngOut == "" {
		return nil
	}
	data, ok := trace.Column(plotColumn)
	if !ok {
		return fmt.Errorf("unknown column: %s", plotColumn)
	}
	f, err := os.Create(pngOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", pngOut, err)
	}
	defer f.Close()
	if err := export.WriteSeriesPNG(f, captions[plotColumn], plotColumn, data, 8, 4); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", pngOut)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, trace, err := loadRun(args)
	if err != nil {
		return err
	}
	return trace.WriteCSV(os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, trace)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args)
	if err != nil {
		return err
	}

	data, ok := trace.Column(specColumn)
	if !ok {
		return fmt.Errorf("unknown column: %s", specColumn)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s, %d frames\n\n", specColumn, len(data))

	ps := analysis.PowerSpectrum(data)
	if len(ps) >= 4 {
		graph := asciigraph.Plot(ps[:len(ps)/2],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+specColumn+")"),
		)
		fmt.Println(graph)
		fmt.Println()

		freq := analysis.DominantFrequency(ps, len(data))
		fmt.Printf("dominant frequency: %.5f cycles/frame\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.1f frames\n", 1/freq)
		}
		fmt.Println()
	}

	xi, okX := analysis.AxisIndex(xAxis)
	yi, okY := analysis.AxisIndex(yAxis)
	if !okX || !okY {
		return fmt.Errorf("phase axes must be a1, a2, v1 or v2")
	}
	states := trace.States()
	portrait := analysis.NewPhasePortrait(states, xi, yi)
	fmt.Printf("phase portrait (%s vs %s)\n", yAxis, xAxis)
	fmt.Println(portrait.ToASCII(70, 20))
	fmt.Println()

	fmt.Println("poincare section (a2 vs v2 at a1 = 0, rising)")
	fmt.Println(analysis.NewPoincareSection(states).ToASCII(70, 20))
	fmt.Println()

	if svgOut != "" {
		svg := export.TrajectoryToSVG(portrait.Points, 600, 600, "#4dff00")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write %s: %w", svgOut, err)
		}
		fmt.Printf("wrote %s\n\n", svgOut)
	}

	stp, err := integrators.Lookup(meta.Params.Stepper)
	if err != nil {
		return err
	}
	pop := population.New()
	if err := pop.Seed(meta.Params); err != nil {
		return err
	}
	if meta.Body < pop.Len() {
		rate, err := analysis.DivergenceRate(pop.Body(meta.Body), stp, meta.Params.T, meta.Params.S, divFrames, 1e-8)
		if err != nil {
			fmt.Printf("divergence rate: %v\n", err)
		} else {
			fmt.Printf("divergence rate: %.5f per frame\n", rate)
		}
	}

	if sweepField == "" {
		return nil
	}
	points, err := analysis.Sweep(meta.Params, sweepField, sweepLo, sweepHi, sweepSteps, divFrames)
	if err != nil {
		return err
	}
	fmt.Printf("\ndivergence sweep over %s\n", sweepField)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRATE\n", strings.ToUpper(sweepField))
	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%.4f\t%v\n", pt.Param, pt.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.5f\n", pt.Param, pt.Rate)
	}
	return w.Flush()
}

func snapshot(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unknown format: %s (svg or png)", format)
	}

	drv, err := newDriver(p)
	if err != nil {
		return err
	}
	var last driver.Frame
	drv.AddObserver(frameFunc(func(f driver.Frame) { last = f }))

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := drv.Run(ctx, snapFrames, nil); err != nil {
		return err
	}
	if last.Seq == 0 {
		return fmt.Errorf("no frame to save")
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	layout := export.LayoutFor(width, height)
	path := filepath.Join(outDir, export.SnapshotName(last.Seq, format))

	if format == "svg" {
		err = os.WriteFile(path, []byte(export.FrameToSVG(last, layout)), 0644)
	} else {
		var f *os.File
		f, err = os.Create(path)
		if err == nil {
			err = export.WriteFramePNG(f, last, layout)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	base, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s, %d worker(s), %d frames per point\n\n", base.Stepper, base.Workers, benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tT\tS\tTIME\tPER FRAME\tFRAMES/SEC")

	for _, n := range []int{1, 50, 100} {
		for _, t := range []int{1, 5, 10} {
			for _, s := range []int{1, 3, 5} {
				p := base
				p.N, p.T, p.S = n, t, s
				drv, err := newDriver(p)
				if err != nil {
					return err
				}

				start := time.Now()
				done, err := drv.Run(ctx, benchFrames, nil)
				if err != nil {
					return err
				}
				elapsed := time.Since(start)
				per := elapsed / time.Duration(max(done, 1))

				fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%v\t%.0f\n",
					n, t, s, elapsed, per, float64(done)/elapsed.Seconds())
			}
		}
	}
	return w.Flush()
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	base, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	base.N = 1

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing steppers on one body (T=%d, S=%d, %d frames)\n\n", base.T, base.S, compareFrames)
	fmt.Printf("%-10s  %-12s  %-12s  %-12s  %-10s\n", "stepper", "final_a1", "final_a2", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 64))

	for _, name := range names {
		p := base
		p.Stepper = name
		drv, err := newDriver(p)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}
		drift := metrics.NewEnergyDrift()
		drv.AddMetric(drift)
		var last driver.Frame
		drv.AddObserver(frameFunc(func(f driver.Frame) { last = f }))

		start := time.Now()
		if _, err := drv.Run(ctx, compareFrames, nil); err != nil {
			return err
		}
		elapsed := time.Since(start)

		if len(last.Faulted) == 0 || last.Faulted[0] {
			fmt.Printf("%-10s  numeric fault\n", name)
			continue
		}
		b := last.Bodies[0]
		fmt.Printf("%-10s  %12.6f  %12.6f  %12.2e  %10.2f\n",
			name, b.A1, b.A2, drift.Value(), float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %s\n\n", scenario.Name, scenario.Description)
	r := &automation.Runner{Base: base, Store: st, Logger: logger}
	results, err := r.Run(ctx, scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tN\tFRAMES\tENERGY\tSPREAD\tSTABILITY\tRUN")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4e\t%.4f\t%.2f\t%s\n",
			i+1, res.Params.N, res.Frames,
			res.Metrics["energy"], res.Metrics["spread"], res.Metrics["stability"], res.RunID)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func configInit(cmd *cobra.Command, args []string) error {
	path := "pendula.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force)", path)
	}

	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, p); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
