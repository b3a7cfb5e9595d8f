package gui

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/export"
	"github.com/san-kum/pendula/internal/metrics"
)

const (
	windowWidth  = 800
	windowHeight = 500
	panelWidth   = 260
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	telemetryCap = 200
)

// Panel colours. The simulation itself uses the export palette.
var (
	ColPanel   = rl.NewColor(10, 10, 10, 230)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
)

type Options struct {
	Driver      *driver.Driver
	Store       *config.Store
	Logger      *zap.Logger
	SnapshotDir string
}

// App owns the raylib window. Bodies are drawn into an off-screen target
// that is never cleared, only darkened, so each frame leaves a fading trail.
type App struct {
	drv      *driver.Driver
	store    *config.Store
	logger   *zap.Logger
	dir      string
	layout   export.Layout
	renderer *Renderer

	target rl.RenderTexture2D
	font   rl.Font

	energy    *metrics.Energy
	stability *metrics.Stability
	telemetry *metrics.Series

	last     driver.Frame
	running  bool
	selected int
	status   string
}

func initWindow() {
	rl.InitWindow(windowWidth+panelWidth, windowHeight, "pendula")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wires the app to the driver and store. The window must already be open.
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	layout := export.LayoutFor(windowWidth, windowHeight)

	a := &App{
		drv:       opts.Driver,
		store:     opts.Store,
		logger:    logger,
		dir:       opts.SnapshotDir,
		layout:    layout,
		renderer:  NewRenderer(layout),
		target:    rl.LoadRenderTexture(windowWidth, windowHeight),
		font:      loadFont(),
		energy:    metrics.NewEnergy(),
		stability: metrics.NewStability(),
		running:   true,
	}
	a.telemetry = metrics.NewSeries(a.energy, telemetryCap)

	a.drv.AddMetric(a.energy)
	a.drv.AddMetric(a.stability)
	a.drv.AddObserver(a.telemetry)

	drv := a.drv
	a.store.Subscribe(func(p config.Params) {
		if err := drv.OnParameterChanged(p); err != nil {
			logger.Warn("parameter change not applied", zap.Error(err))
		}
	})

	a.clearTarget()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	initWindow()
	defer rl.CloseWindow()

	a := NewApp(opts)
	defer rl.UnloadRenderTexture(a.target)
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input. It returns false when the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reseed()
	}

	n := len(config.Fields)
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.selected = (a.selected + n - 1) % n
		} else {
			a.selected = (a.selected + 1) % n
		}
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) ||
		rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.nudge(1)
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) ||
		rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.nudge(-1)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.snapshot()
	}
	return true
}

func (a *App) nudge(dir int) {
	field := config.Fields[a.selected]
	if err := a.store.Nudge(field, dir); err != nil {
		a.status = err.Error()
		return
	}
	v, _ := a.store.Get().Get(field)
	a.status = fmt.Sprintf("%s = %g, reseeding", field, v)
}

func (a *App) reseed() {
	if err := a.drv.OnParameterChanged(a.store.Get()); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "reseeding"
}

// snapshot exports the simulation target rather than the whole window so
// the panel is left out of the image.
func (a *App) snapshot() {
	if a.last.Seq == 0 {
		a.status = "nothing to save yet"
		return
	}
	path := filepath.Join(a.dir, export.SnapshotName(a.last.Seq, "png"))
	if a.dir != "" {
		if err := os.MkdirAll(a.dir, 0755); err != nil {
			a.status = "snapshot failed: " + err.Error()
			return
		}
	}

	img := rl.LoadImageFromTexture(a.target.Texture)
	rl.ImageFlipVertical(img)
	ok := rl.ExportImage(*img, path)
	rl.UnloadImage(img)

	if !ok {
		a.logger.Error("snapshot failed", zap.String("path", path))
		a.status = "snapshot failed"
		return
	}
	a.logger.Info("snapshot saved", zap.String("path", path))
	a.status = "saved " + path
}

func (a *App) clearTarget() {
	rl.BeginTextureMode(a.target)
	rl.ClearBackground(toColor(export.Background))
	rl.EndTextureMode()
}

func (a *App) Draw() {
	if a.running {
		rl.BeginTextureMode(a.target)
		rl.DrawRectangle(0, 0, windowWidth, windowHeight, toColor(export.Fade))
		f := a.drv.Tick(a.renderer)
		if f.Reseeded {
			a.telemetry.Clear()
		}
		rl.EndTextureMode()

		for _, nf := range f.Faults {
			a.status = fmt.Sprintf("body %d dropped: numeric fault", nf.Body)
		}
		a.last = f
	}

	rl.BeginDrawing()
	rl.ClearBackground(toColor(export.Background))
	// render textures are stored bottom-up
	src := rl.NewRectangle(0, 0, float32(a.target.Texture.Width), -float32(a.target.Texture.Height))
	rl.DrawTextureRec(a.target.Texture, src, rl.NewVector2(0, 0), rl.White)
	a.drawPanel()
	rl.EndDrawing()
}

func (a *App) drawPanel() {
	x := windowWidth
	rl.DrawRectangle(int32(x), 0, panelWidth, windowHeight, ColPanel)
	x += 16

	a.drawText("pendula", x, 16, 24, ColSelect)
	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, x+150, 22, 14, col)

	p := a.store.Get()
	y := 60
	for i, line := range panelLines(p, a.selected) {
		c := ColText
		if i == a.selected {
			c = ColSelect
		}
		a.drawText(line, x, y, 16, c)
		y += 22
	}

	y += 8
	a.drawText(fmt.Sprintf("frame %d", a.last.Seq), x, y, 14, ColAccent)
	y += 18
	a.drawText(fmt.Sprintf("live  %d/%d", countLive(a.last), len(a.last.Faulted)), x, y, 14, ColAccent)
	y += 18
	a.drawText(fmt.Sprintf("E     %.3e", a.energy.Value()), x, y, 14, ColAccent)

	a.drawTelemetry(x, y+24, panelWidth-32, 50)

	if a.status != "" {
		a.drawText(a.status, x, windowHeight-60, 12, ColText)
	}
	a.drawText("TAB FIELD  UP/DOWN ADJUST  R RESEED", x, windowHeight-40, 12, ColTextDim)
	a.drawText("SPACE PAUSE  S SAVE  Q QUIT", x, windowHeight-24, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 8, windowHeight-20, 12, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawTelemetry(x, y, width, height int) {
	vals := a.telemetry.Values()
	pts := normalize(vals, float32(x), float32(y), float32(width), float32(height))
	if len(pts) < 2 {
		return
	}
	line := make([]rl.Vector2, len(pts))
	for i, p := range pts {
		line[i] = rl.NewVector2(p[0], p[1])
	}
	rl.DrawLineStrip(line, ColAccent)
}
