package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors each kind of charge and the chrome around the canvas.
type Theme struct {
	Name     string
	Positive lipgloss.Color
	Negative lipgloss.Color
	Neutral  lipgloss.Color
	Fixed    lipgloss.Color
	Probe    lipgloss.Color
	Trail    lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:     "classic",
		Positive: lipgloss.Color("#ff4444"),
		Negative: lipgloss.Color("#4488ff"),
		Neutral:  lipgloss.Color("#aaaaaa"),
		Fixed:    lipgloss.Color("#ffcc00"),
		Probe:    lipgloss.Color("#00ff88"),
		Trail:    lipgloss.Color("#444466"),
		Accent:   lipgloss.Color("#00ffff"),
		Muted:    lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Positive: lipgloss.Color("#88ff88"),
		Negative: lipgloss.Color("#00cc00"),
		Neutral:  lipgloss.Color("#005500"),
		Fixed:    lipgloss.Color("#ffff00"),
		Probe:    lipgloss.Color("#ffffff"),
		Trail:    lipgloss.Color("#005500"),
		Accent:   lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Positive: lipgloss.Color("#ffffff"),
		Negative: lipgloss.Color("#cccccc"),
		Neutral:  lipgloss.Color("#888888"),
		Fixed:    lipgloss.Color("#0088ff"),
		Probe:    lipgloss.Color("#0088ff"),
		Trail:    lipgloss.Color("#444444"),
		Accent:   lipgloss.Color("#0088ff"),
		Muted:    lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
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
	CurrentTheme = ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
