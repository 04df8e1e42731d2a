package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nbedit/internal/tui/completion"
)

const maxCompletionHeight = 6

var (
	completionSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39"))
	completionDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// CompletionComponent lists saved document names under the name field
type CompletionComponent struct {
	items    []completion.Item
	selected int
	height   int
	width    int
}

func NewCompletionComponent(items []completion.Item, selected int, width int) CompletionComponent {
	return CompletionComponent{
		items:    items,
		selected: selected,
		height:   min(len(items), maxCompletionHeight),
		width:    width,
	}
}

func (c CompletionComponent) Render() string {
	if len(c.items) == 0 {
		return ""
	}

	// Scroll to keep the selected item visible
	start := 0
	if c.selected >= c.height {
		start = c.selected - c.height + 1
	}
	end := min(start+c.height, len(c.items))

	inner := max(10, c.width-4)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := c.items[i]
		text := excerpt(item.Text, inner)
		if i == c.selected {
			text = completionSelected.Render(text)
		}
		if room := inner - lipgloss.Width(text) - 2; item.Description != "" && room > 5 {
			text += "  " + completionDesc.Render(excerpt(item.Description, room))
		}
		lines = append(lines, text)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(inner).
		Render(strings.Join(lines, "\n"))
}

// Height is the number of rows Render takes
func (c CompletionComponent) Height() int {
	if len(c.items) == 0 {
		return 0
	}
	return c.height + 2 // borders
}
