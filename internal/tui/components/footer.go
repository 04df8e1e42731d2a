package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterInfo is what the footer reports about the session
type FooterInfo struct {
	Document    string
	Line        int
	Column      int
	HistoryLen  int
	HistoryMax  int
	Model       string
	Highlighted bool
}

// FooterComponent renders the bottom status bar
type FooterComponent struct {
	focus Focus
	width int
	info  FooterInfo
}

// NewFooterComponent creates a footer for the current focus
func NewFooterComponent(focus Focus, width int, info FooterInfo) *FooterComponent {
	return &FooterComponent{focus: focus, width: width, info: info}
}

var footerBase = lipgloss.NewStyle().Background(lipgloss.Color("236"))

// Render renders the footer with the focus indicator on the left
func (f *FooterComponent) Render() string {
	indicator := NewModeIndicatorComponent(f.focus)
	remaining := f.width - indicator.Width()

	doc := f.info.Document
	if doc == "" {
		doc = "untitled"
	}
	position := fmt.Sprintf("Ln %d, Col %d", f.info.Line+1, f.info.Column+1)
	history := formatHistory(f.info.HistoryLen, f.info.HistoryMax)

	// Layout: nbedit | document | position | undo depth | model
	sections := []string{"nbedit", doc, position, history, f.info.Model}
	if f.info.Model == "" {
		sections = sections[:len(sections)-1]
	}

	contentWidth := 0
	for _, s := range sections {
		contentWidth += lipgloss.Width(s)
	}
	gaps := len(sections) - 1
	extra := (remaining - contentWidth - gaps*3 - 2) / gaps
	if extra < 0 {
		extra = 0
	}
	sep := footerBase.Render(strings.Repeat(" ", 3+extra))

	text := footerBase.Foreground(lipgloss.Color("245"))
	styled := make([]string, len(sections))
	for i, s := range sections {
		styled[i] = text.Render(s)
	}
	styled[3] = footerBase.Foreground(lipgloss.Color(historyColor(f.info.HistoryLen, f.info.HistoryMax))).Render(history)
	if f.info.Highlighted {
		styled[1] = footerBase.Foreground(lipgloss.Color("214")).Bold(true).Render(doc)
	}

	composed := strings.Join(styled, sep)
	if pad := remaining - lipgloss.Width(composed) - 2; pad > 0 {
		composed += footerBase.Render(strings.Repeat(" ", pad))
	}

	return indicator.Render() + footerBase.
		Width(remaining).
		MaxHeight(1).
		Padding(0, 1).
		Render(composed)
}

func formatHistory(n, max int) string {
	if max <= 0 {
		return fmt.Sprintf("undo %d", n)
	}
	return fmt.Sprintf("undo %d/%d", n, max)
}

// historyColor turns yellow as the undo stack nears its bound
func historyColor(n, max int) string {
	if max <= 0 {
		return "2"
	}
	switch pct := n * 100 / max; {
	case pct < 80:
		return "2" // Green
	case pct < 100:
		return "3" // Yellow
	default:
		return "1" // Red, oldest steps are being dropped
	}
}
