package render

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	cellW     = 11 // width of each column in characters
	gateNameW = 7  // width of gate name inside box
	gateBoxW  = 9  // ┤ + gateNameW + ├
)

// Styles colours the parts of a diagram.
type Styles struct {
	Gate       lipgloss.Style
	Label      lipgloss.Style
	Dim        lipgloss.Style
	Cursor     lipgloss.Style
	ClbitLabel lipgloss.Style
	ClbitWire  lipgloss.Style
	Connector  lipgloss.Style
}

// NewStyles returns the default palette bound to r. Passing
// lipgloss.DefaultRenderer() styles for the current terminal.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Gate: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca")),
		Label: r.NewStyle().
			Foreground(lipgloss.Color("#7dcfff")),
		Dim: r.NewStyle().
			Foreground(lipgloss.Color("#565f89")),
		Cursor: r.NewStyle().
			Foreground(lipgloss.Color("#ff9e64")).
			Bold(true),
		ClbitLabel: r.NewStyle().
			Foreground(lipgloss.Color("#e0af68")),
		ClbitWire: r.NewStyle().
			Foreground(lipgloss.Color("#565f89")),
		Connector: r.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true),
	}
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Gate:       plain,
		Label:      plain,
		Dim:        plain,
		Cursor:     plain,
		ClbitLabel: plain,
		ClbitWire:  plain,
		Connector:  plain,
	}
}
