package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/export"
	"github.com/san-kum/pendula/internal/metrics"
)

const (
	canvasWidth     = 80
	canvasHeight    = 30
	historyCapacity = 300
	fadeFrames      = 3
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	Driver      *driver.Driver
	Store       *config.Store
	Logger      *zap.Logger
	SnapshotDir string
}

// Model is the live terminal view: a Braille canvas on the left and the
// parameter panel with metrics on the right.
type Model struct {
	drv      *driver.Driver
	store    *config.Store
	logger   *zap.Logger
	dir      string
	canvas   *Canvas
	renderer *CanvasRenderer

	energy    *metrics.Energy
	drift     *metrics.EnergyDrift
	spread    *metrics.Spread
	stability *metrics.Stability
	history   *metrics.Series

	last      driver.Frame
	running   bool
	selected  int
	status    string
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	lastTick  time.Time
	fps       float64
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	canvas := NewCanvas(canvasWidth, canvasHeight)
	canvas.Persist = fadeFrames
	p := opts.Store.Get()

	m := Model{
		drv:       opts.Driver,
		store:     opts.Store,
		logger:    logger,
		dir:       opts.SnapshotDir,
		canvas:    canvas,
		renderer:  NewCanvasRenderer(canvas, p.L1+p.L2),
		energy:    metrics.NewEnergy(),
		drift:     metrics.NewEnergyDrift(),
		spread:    metrics.NewSpread(),
		stability: metrics.NewStability(),
		running:   true,
	}
	m.history = metrics.NewSeries(m.energy, historyCapacity)

	m.drv.AddMetric(m.energy)
	m.drv.AddMetric(m.drift)
	m.drv.AddMetric(m.spread)
	m.drv.AddMetric(m.stability)
	m.drv.AddObserver(m.history)

	drv := m.drv
	m.store.Subscribe(func(p config.Params) {
		if err := drv.OnParameterChanged(p); err != nil {
			logger.Warn("parameter change not applied", zap.Error(err))
		}
	})
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the simulation once per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reseed()
		case "tab":
			m.selected = (m.selected + 1) % len(config.Fields)
		case "shift+tab":
			m.selected = (m.selected + len(config.Fields) - 1) % len(config.Fields)
		case "up", "k", "right", "l":
			m.nudge(1)
		case "down", "j", "left", "h":
			m.nudge(-1)
		case "s":
			m.snapshot("png")
		case "v":
			m.snapshot("svg")
		case "g":
			m.toggleRecording()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastTick = now
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.canvas.Fade()
	f := m.drv.Tick(m.renderer)
	if f.Reseeded {
		m.canvas.Clear()
		m.renderer.Fit(f.Params.L1 + f.Params.L2)
		m.history.Clear()
		// the frame was drawn at the old scale
		for _, j := range f.Joints {
			m.renderer.DrawBody(j)
		}
		m.renderer.DrawPivot(dynamo.Origin)
	}
	for _, nf := range f.Faults {
		m.status = fmt.Sprintf("body %d dropped: numeric fault", nf.Body)
	}
	m.last = f
	if m.recording {
		m.captureFrame()
	}
}

func (m *Model) nudge(dir int) {
	field := config.Fields[m.selected]
	if err := m.store.Nudge(field, dir); err != nil {
		m.status = err.Error()
		return
	}
	v, _ := m.store.Get().Get(field)
	m.status = fmt.Sprintf("%s = %g, reseeding", field, v)
}

func (m *Model) reseed() {
	if err := m.drv.OnParameterChanged(m.store.Get()); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "reseeding"
}

func (m *Model) snapshot(ext string) {
	if m.last.Seq == 0 {
		m.status = "nothing to save yet"
		return
	}
	path := filepath.Join(m.dir, export.SnapshotName(m.last.Seq, ext))
	if err := writeSnapshot(path, m.last); err != nil {
		m.logger.Error("snapshot failed", zap.String("path", path), zap.Error(err))
		m.status = "snapshot failed: " + err.Error()
		return
	}
	m.logger.Info("snapshot saved", zap.String("path", path))
	m.status = "saved " + path
}

func writeSnapshot(path string, f driver.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if strings.HasSuffix(path, ".svg") {
		return os.WriteFile(path, []byte(export.FrameToSVG(f, export.DefaultLayout)), 0644)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return export.WriteFramePNG(out, f, export.DefaultLayout)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		m.status = "recording"
		return
	}
	path := filepath.Join(m.dir, export.SnapshotName(m.last.Seq, "gif"))
	if err := m.saveGIF(path); err != nil {
		m.status = "gif failed: " + err.Error()
	} else if len(m.frames) > 0 {
		m.status = "saved " + path
	}
	m.recording = false
	m.frames = nil
}

// View renders the TUI interface.
func (m Model) View() string {
	st := currentStyles()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("PENDULA") + "  ")
	switch {
	case m.recording:
		s.WriteString(st.warn.Render("● REC"))
	case m.running:
		s.WriteString(st.value.Render(AnimatedSpinner(m.last.Seq) + " running"))
	default:
		s.WriteString(st.muted.Render("paused"))
	}
	s.WriteString("\n\n")

	p := m.drv.Params()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("frame", fmt.Sprintf("%d", m.last.Seq))
	row("fps", fmt.Sprintf("%.0f", m.fps))
	row("bodies", fmt.Sprintf("%d / %d", len(m.last.Joints), p.N))
	row("stepper", p.Stepper)
	row("energy", fmt.Sprintf("%.3f", m.energy.Value()))
	row("drift", fmt.Sprintf("%.2e", m.drift.Value()))
	row("spread", fmt.Sprintf("%.2e rad", m.spread.Value()))
	row("stable", fmt.Sprintf("%.0f%%", 100*m.stability.Value()))

	if hist := m.history.Values(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean energy"))
		s.WriteString("\n" + st.graph.Render(chart) + "\n")
	}

	s.WriteString("\n" + st.header.Render("PARAMETERS") + "\n")
	cur := m.store.Get()
	for i, name := range config.Fields {
		v, _ := cur.Get(name)
		r := config.Ranges[name]
		line := fmt.Sprintf("%-3s %s %8.4g", name, Slider(v, r.Min, r.Max, 10), v)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.muted.Render(line) + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + st.warn.Render(m.status) + "\n")
	}
	s.WriteString(st.muted.Render("\nSP pause  R reseed  Q quit\nTAB field  ↑↓ adjust  ? help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space      pause / resume
  R          reseed from the current parameters
  Tab        next parameter (Shift+Tab: previous)
  Up/Down    change the selected parameter by one step
  S          save frame-NNNNN.png
  V          save frame-NNNNN.svg
  G          start / stop GIF recording
  T          cycle colour theme
  ?          toggle this help
  Q          quit
`

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	dw, dh := m.canvas.Dots()
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !m.canvas.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
