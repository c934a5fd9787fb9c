package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	base     = lipgloss.Color("#1e1e2e")
	mantle   = lipgloss.Color("#181825")
	surface1 = lipgloss.Color("#45475a")
	text     = lipgloss.Color("#cdd6f4")
	subtext0 = lipgloss.Color("#a6adc8")
	lavender = lipgloss.Color("#b4befe")
	sapphire = lipgloss.Color("#74c7ec")
	green    = lipgloss.Color("#a6e3a1")
	yellow   = lipgloss.Color("#f9e2af")
	red      = lipgloss.Color("#f38ba8")
	peach    = lipgloss.Color("#fab387")

	appStyle = lipgloss.NewStyle().
		Background(base).
		Foreground(text).
		Padding(1, 2)

	paneStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(surface1).
		Background(mantle).
		Foreground(text).
		Padding(1).
		Width(44)

	paneActiveStyle = paneStyle.BorderForeground(lavender)

	titleStyle    = lipgloss.NewStyle().Foreground(sapphire).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(subtext0)
	hotStyle      = lipgloss.NewStyle().Foreground(peach).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lavender).Bold(true)
)

// levelStyle colours a focus level the way the thresholds legend does.
func levelStyle(l Level) lipgloss.Style {
	switch l {
	case LevelAttentive:
		return lipgloss.NewStyle().Foreground(green).Bold(true)
	case LevelSemiFocused:
		return lipgloss.NewStyle().Foreground(yellow).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(red).Bold(true)
	}
}
