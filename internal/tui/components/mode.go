package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Focus is the part of the screen receiving keys
type Focus int

const (
	FocusEditor Focus = iota
	FocusName
	FocusPalette
	FocusResult
)

func (f Focus) label() string {
	switch f {
	case FocusName:
		return " NAME "
	case FocusPalette:
		return " ASK "
	case FocusResult:
		return " RESULT "
	default:
		return " EDIT "
	}
}

func (f Focus) color() string {
	switch f {
	case FocusName:
		return "3" // Yellow
	case FocusPalette:
		return "5" // Magenta
	case FocusResult:
		return "6" // Cyan
	default:
		return "2" // Green
	}
}

// ModeIndicatorComponent shows which part of the screen has focus
type ModeIndicatorComponent struct {
	focus Focus
}

// NewModeIndicatorComponent creates an indicator for focus
func NewModeIndicatorComponent(focus Focus) *ModeIndicatorComponent {
	return &ModeIndicatorComponent{focus: focus}
}

// Render renders the label on its colored background
func (m *ModeIndicatorComponent) Render() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(m.focus.color())).
		Render(m.focus.label())
}

// Width returns the printed width of the indicator
func (m *ModeIndicatorComponent) Width() int {
	return lipgloss.Width(m.focus.label())
}
