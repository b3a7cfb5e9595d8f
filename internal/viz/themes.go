package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the canvas and the side panel.
type Theme struct {
	Name   string
	Canvas lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemePhosphor = Theme{
		Name:   "phosphor",
		Canvas: lipgloss.Color("#4dff00"),
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#d0ffd0"),
		Muted:  lipgloss.Color("#3a6b3a"),
		Border: lipgloss.Color("#1f3d1f"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	ThemeInk = Theme{
		Name:   "ink",
		Canvas: lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#eeeeee"),
		Muted:  lipgloss.Color("#888888"),
		Border: lipgloss.Color("#444444"),
		Warn:   lipgloss.Color("#ff5555"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Canvas: lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Border: lipgloss.Color("#16324a"),
		Warn:   lipgloss.Color("#ff4444"),
	}

	ThemeEmber = Theme{
		Name:   "ember",
		Canvas: lipgloss.Color("#ff9f43"),
		Accent: lipgloss.Color("#ff6b6b"),
		Text:   lipgloss.Color("#fff5f0"),
		Muted:  lipgloss.Color("#8b6b5c"),
		Border: lipgloss.Color("#4a2b22"),
		Warn:   lipgloss.Color("#feca57"),
	}

	CurrentTheme = ThemePhosphor

	Themes = []Theme{ThemePhosphor, ThemeInk, ThemeOcean, ThemeEmber}
)

// GetTheme returns the named theme, or the first one when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
