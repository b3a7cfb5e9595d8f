package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles derived from CurrentTheme; rebuilt on every render so theme
// switches apply immediately
type styles struct {
	canvas, panel, header, label, value, active, muted, warn, graph lipgloss.Style
}

func currentStyles() styles {
	t := CurrentTheme
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Canvas).Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(40),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		warn:   lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Accent),
	}
}

// Slider renders value's position inside [lo, hi] as a bar of width cells.
func Slider(value, lo, hi float64, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = (value - lo) / (hi - lo)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// AnimatedSpinner returns one frame of a Braille spinner.
func AnimatedSpinner(frame uint64) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%uint64(len(spinners))]
}
