package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal lists the key bindings
type HelpModal struct {
	visible bool
	groups  []HelpGroup
}

// HelpGroup is a titled set of bindings
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
}

// NewHelpModal creates a hidden help modal for groups
func NewHelpModal(groups ...HelpGroup) *HelpModal {
	return &HelpModal{groups: groups}
}

// Toggle shows or hides the modal
func (h *HelpModal) Toggle() {
	h.visible = !h.visible
}

// Hide makes the help modal invisible
func (h *HelpModal) Hide() {
	h.visible = false
}

// IsVisible returns whether the modal is visible
func (h *HelpModal) IsVisible() bool {
	return h.visible
}

// View renders the help modal
func (h *HelpModal) View() string {
	if !h.visible {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Background(lipgloss.Color("235"))
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")).
		MarginBottom(1)
	groupStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Width(14)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246"))

	var content strings.Builder
	content.WriteString(titleStyle.Render("nbedit help"))
	content.WriteString("\n\n")
	for _, g := range h.groups {
		content.WriteString(groupStyle.Render(g.Title))
		content.WriteString("\n")
		for _, b := range g.Bindings {
			if !b.Enabled() {
				continue
			}
			help := b.Help()
			content.WriteString(keyStyle.Render(help.Key) + descStyle.Render(help.Desc))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}
	content.WriteString(descStyle.Render("Press Esc or F1 to close this help"))

	return modalStyle.Render(content.String())
}
