package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/population"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultParams()
	cfg.N = 5
	store, err := config.NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	drv, err := driver.New(population.New(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(Options{Driver: drv, Store: store, SnapshotDir: t.TempDir()})
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tickOnce(m Model) Model {
	next, _ := m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func TestModelTickAdvancesDriver(t *testing.T) {
	m := newTestModel(t)
	m = tickOnce(m)
	m = tickOnce(m)

	if m.last.Seq != 2 {
		t.Errorf("frame = %d, want 2", m.last.Seq)
	}
	if len(m.last.Joints) != 5 {
		t.Errorf("joints = %d, want 5", len(m.last.Joints))
	}
	if !strings.Contains(m.View(), "PARAMETERS") {
		t.Error("panel missing from view")
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	m = press(m, " ")
	m = tickOnce(m)
	if m.last.Seq != 0 {
		t.Errorf("paused model advanced to frame %d", m.last.Seq)
	}
}

func TestModelNudgeReseedsAtNextTick(t *testing.T) {
	m := newTestModel(t)
	m = tickOnce(m)

	m = press(m, "up") // n: 5 -> 6
	if got := m.store.Get().N; got != 6 {
		t.Fatalf("store N = %d, want 6", got)
	}
	if !m.drv.Pending() {
		t.Fatal("driver has no pending reseed")
	}

	m = tickOnce(m)
	if !m.last.Reseeded || len(m.last.Joints) != 6 {
		t.Errorf("reseed not applied: reseeded=%v joints=%d", m.last.Reseeded, len(m.last.Joints))
	}
}

func TestModelFieldSelectionWraps(t *testing.T) {
	m := newTestModel(t)
	for range config.Fields {
		m = press(m, "tab")
	}
	if m.selected != 0 {
		t.Errorf("selected = %d after a full cycle", m.selected)
	}
}

func TestModelNudgeClampsAtRange(t *testing.T) {
	m := newTestModel(t)
	m.selected = 11 // g
	for i := 0; i < 30; i++ {
		m = press(m, "up")
	}
	if got := m.store.Get().G; got != 1 {
		t.Errorf("g = %g, want clamped to 1", got)
	}
}

func TestModelSnapshot(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "s")
	if !strings.Contains(m.status, "nothing") {
		t.Errorf("status = %q before first frame", m.status)
	}

	m = tickOnce(m)
	m = press(m, "s")
	m = press(m, "v")
	for _, name := range []string{"frame-00001.png", "frame-00001.svg"} {
		if _, err := os.Stat(filepath.Join(m.dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestModelRecordsGIF(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "g")
	m = tickOnce(m)
	m = tickOnce(m)
	if len(m.frames) != 2 {
		t.Fatalf("captured %d frames", len(m.frames))
	}
	m = press(m, "g")
	if _, err := os.Stat(filepath.Join(m.dir, "frame-00002.gif")); err != nil {
		t.Errorf("gif not written: %v", err)
	}
}

func TestAppMenuStartsPreset(t *testing.T) {
	cfg := config.DefaultParams()
	store, _ := config.NewStore(cfg)
	drv, err := driver.New(population.New(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	a := NewApp(Options{Driver: drv, Store: store}, false)
	if !strings.Contains(a.View(), "calm") {
		t.Fatal("menu does not list presets")
	}

	// entries: current, calm, classic, swarm, wild
	next, _ := a.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(App).Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = next.(App)

	if a.state != stateSim {
		t.Fatal("app did not switch to the live view")
	}
	if store.Get().N != 10 {
		t.Errorf("store N = %d, want the calm preset", store.Get().N)
	}
	if !drv.Pending() {
		t.Error("preset not forwarded to the driver")
	}
}

func TestSlider(t *testing.T) {
	if got := Slider(5, 0, 10, 10); got != "[=====-----]" {
		t.Errorf("Slider = %q", got)
	}
	if got := Slider(-1, 0, 10, 4); got != "[----]" {
		t.Errorf("Slider below range = %q", got)
	}
}
