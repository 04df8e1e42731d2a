package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Palette is the command palette where the writer types an instruction
// for the selected text.
type Palette struct {
	active   bool
	selected string
	input    textinput.Model
	width    int
	height   int
}

// NewPalette creates a hidden palette
func NewPalette() Palette {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 50
	ti.Prompt = "› "
	return Palette{input: ti}
}

// Show opens the palette for the selected text with a mode-specific hint
func (p *Palette) Show(selected, placeholder string) tea.Cmd {
	p.active = true
	p.selected = selected
	p.input.Reset()
	p.input.Placeholder = placeholder
	p.input.Width = max(10, p.modalWidth()-6)
	p.input.Focus()
	return textinput.Blink
}

// Hide closes the palette
func (p *Palette) Hide() {
	p.active = false
	p.input.Blur()
	p.input.Reset()
}

// Active reports whether the palette is shown
func (p Palette) Active() bool {
	return p.active
}

// Value is the prompt typed so far
func (p Palette) Value() string {
	return p.input.Value()
}

// Update forwards typing to the input. Enter and Esc are handled by the
// caller.
func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		p.width = ws.Width
		p.height = ws.Height
		p.input.Width = max(10, p.modalWidth()-6)
	}
	if !p.active {
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) modalWidth() int {
	w := p.width * 70 / 100
	if w < 50 {
		w = min(50, p.width-4)
	}
	return min(w, 90)
}

// View renders the palette centered on screen
func (p Palette) View() string {
	if !p.active {
		return ""
	}
	width := p.modalWidth()

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("5")).
		Padding(1, 2).
		Width(width)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("5"))
	quoteStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246")).
		Italic(true).
		Width(width - 4)
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	var content strings.Builder
	if p.selected == "" {
		content.WriteString(titleStyle.Render("Generate"))
	} else {
		content.WriteString(titleStyle.Render("Edit selection"))
		content.WriteString("\n")
		content.WriteString(quoteStyle.Render(excerpt(p.selected, 3*(width-4))))
	}
	content.WriteString("\n\n")
	content.WriteString(p.input.View())
	content.WriteString("\n")
	content.WriteString(helpStyle.Render("enter submit • esc close"))

	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content.String()))
}

// excerpt shortens s to n runes with an ellipsis
func excerpt(s string, n int) string {
	if n <= 3 || runewidth.StringWidth(s) <= n {
		return s
	}
	return runewidth.Truncate(s, n, "...")
}
