package tui

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	colorBlue   = lipgloss.Color("#7aa2f7")
	colorPurple = lipgloss.Color("#bb9af7")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorOrange = lipgloss.Color("#ff9e64")
	colorYellow = lipgloss.Color("#e0af68")
	colorRed    = lipgloss.Color("#f7768e")
	colorTeal   = lipgloss.Color("#73daca")
	colorMuted  = lipgloss.Color("#565f89")
	colorText   = lipgloss.Color("#c0caf5")
)

func panel(border lipgloss.Color, padding ...int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(padding...)
}

var (
	circuitStyle    = panel(colorBlue, 1)
	qasmStyle       = panel(colorPurple, 1)
	controlsStyle   = panel(colorGreen, 0, 1)
	menuBorderStyle = panel(colorOrange, 0, 1)

	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	menuSelectedStyle = titleStyle
	menuNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	activeGateStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle        = lipgloss.NewStyle().Foreground(colorRed)
	gateStyle         = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	dimStyle          = lipgloss.NewStyle().Foreground(colorMuted)
)
