package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultView is what the result modal shows for one attempt
type ResultView struct {
	Loading  bool
	Prompt   string
	Attempt  int
	Original string
	Result   string
	Err      error
}

// ResultModal shows the AI result as a diff against the selected text
type ResultModal struct {
	width   int
	height  int
	spinner *SpinnerComponent
}

// NewResultModal creates the modal
func NewResultModal() *ResultModal {
	return &ResultModal{spinner: NewSpinnerComponent("Processing...")}
}

// SetSize records the terminal size the modal is centered in
func (m *ResultModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Tick advances the loading spinner
func (m *ResultModal) Tick() {
	m.spinner.Tick()
}

// View renders the modal for r centered on screen
func (m *ResultModal) View(r ResultView) string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := m.width * 80 / 100
	if modalWidth < 40 {
		modalWidth = min(40, m.width-4)
	}
	modalWidth = min(modalWidth, 100)
	inner := modalWidth - 4
	bodyHeight := max(3, m.height*60/100)

	accent := lipgloss.Color("6")
	if r.Err != nil {
		accent = lipgloss.Color("196")
	}
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(modalWidth)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent)
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246")).
		Width(inner)
	bodyStyle := lipgloss.NewStyle().
		Width(inner).
		MaxHeight(bodyHeight)
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	var content strings.Builder
	title := "Result"
	if r.Attempt > 1 {
		title = fmt.Sprintf("Result (attempt %d)", r.Attempt)
	}
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n")
	content.WriteString(promptStyle.Render("“" + r.Prompt + "”"))
	content.WriteString("\n\n")

	var help string
	switch {
	case r.Loading:
		content.WriteString(m.spinner.Render())
		help = "waiting for the model..."
	case r.Err != nil:
		content.WriteString(bodyStyle.Render("Error processing request: " + r.Err.Error()))
		help = "x try again • esc cancel"
	default:
		content.WriteString(bodyStyle.Render(RenderInlineDiff(r.Original, r.Result)))
		if r.Original != "" {
			removed, added := DiffStats(r.Original, r.Result)
			content.WriteString("\n")
			content.WriteString(faint.Render(fmt.Sprintf("-%d +%d", removed, added)))
		}
		help = "enter accept • x try again • esc cancel"
	}
	content.WriteString("\n")
	content.WriteString(helpStyle.Render(help))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content.String()))
}
