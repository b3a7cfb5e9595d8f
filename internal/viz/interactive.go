package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/pendula/internal/config"
)

const (
	stateMenu = iota
	stateSim
)

const customEntry = "current"

// App opens on a preset menu and switches to the live Model once a
// starting point is chosen.
type App struct {
	state   int
	cursor  int
	entries []string
	opts    Options
	live    Model
}

// NewApp returns an App. With skipMenu the live view starts immediately
// from the store's current parameters.
func NewApp(opts Options, skipMenu bool) App {
	a := App{
		state:   stateMenu,
		entries: append([]string{customEntry}, config.ListPresets()...),
		opts:    opts,
	}
	if skipMenu {
		a.live = NewModel(opts)
		a.state = stateSim
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.state == stateSim {
		return a.live.Init()
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.entries)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.start()
	}
	return a, nil
}

func (a App) start() (App, tea.Cmd) {
	a.live = NewModel(a.opts)
	if name := a.entries[a.cursor]; name != customEntry {
		p, _ := config.GetPreset(name)
		cur := a.opts.Store.Get()
		p.Stepper, p.Workers = cur.Stepper, cur.Workers
		// the live model's subscription forwards this to the driver
		if err := a.opts.Store.Replace(p); err != nil {
			a.live.status = err.Error()
		} else if a.opts.Logger != nil {
			a.opts.Logger.Info("preset selected", zap.String("preset", name))
		}
	}
	a.state = stateSim
	return a, a.live.Init()
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}

	st := currentStyles()
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("PENDULA") + "\n    " +
		st.muted.Render("double pendulum populations") + "\n    " +
		st.muted.Render("─────────────────────────") + "\n\n")

	for i, name := range a.entries {
		desc := config.PresetInfo[name]
		if name == customEntry {
			p := a.opts.Store.Get()
			desc = fmt.Sprintf("N=%d g=%g from flags/config", p.N, p.G)
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				st.active.Render("▸"),
				lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%-10s", name)),
				st.value.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				st.muted.Render(fmt.Sprintf("%-10s", name)),
				st.muted.Render(desc)))
		}
	}
	b.WriteString("\n    " + st.active.Render("j/k") + st.muted.Render(" navigate  ") +
		st.active.Render("enter") + st.muted.Render(" start  ") +
		st.active.Render("q") + st.muted.Render(" quit") + "\n")
	return b.String()
}

// Run starts the terminal UI and blocks until the user quits.
func Run(opts Options, skipMenu bool) error {
	_, err := tea.NewProgram(NewApp(opts, skipMenu), tea.WithAltScreen()).Run()
	return err
}
