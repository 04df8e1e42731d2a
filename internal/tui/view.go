package tui

import (
	"github.com/charmbracelet/lipgloss"

	"nbedit/internal/assist"
	"nbedit/internal/tui/components"
)

const editorPlaceholder = "Start writing... (alt+enter or ctrl+k for AI, F1 for help)"

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Overlays replace the screen
	if m.help.IsVisible() {
		return lipgloss.Place(m.viewport.width, m.viewport.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}
	if m.palette.Active() {
		return m.palette.View()
	}
	if state := m.session.State(); state.Phase == assist.PhaseLoading || state.Phase == assist.PhaseResult {
		return m.result.View(components.ResultView{
			Loading:  state.Phase == assist.PhaseLoading,
			Prompt:   state.Prompt,
			Attempt:  state.Attempts,
			Original: state.Selection.Text,
			Result:   state.Result,
			Err:      state.Err,
		})
	}

	editorHeight, editorWidth, previewWidth, _ := m.layout()

	name := lipgloss.NewStyle().
		Width(m.viewport.width).
		Padding(0, 1).
		Render(m.nameInput.View())

	// Suggestions push the panes down while the name field has them
	preview := m.preview
	if m.focus == components.FocusName && m.suggest.Active {
		list := components.NewCompletionComponent(m.suggest.Items, m.suggest.Selected, m.viewport.width)
		name = lipgloss.JoinVertical(lipgloss.Left, name, list.Render())
		editorHeight = max(1, editorHeight-list.Height())
		preview.Height = max(1, preview.Height-list.Height())
	}

	snap := m.buf.State()
	pane := components.EditorPane{
		Text:        snap.Content(),
		Selection:   snap.Selection(),
		Head:        m.buf.Head(),
		Scroll:      m.scroll,
		Width:       editorWidth,
		Height:      editorHeight,
		Focused:     m.focus == components.FocusEditor,
		Highlighted: m.highlighted,
		Placeholder: editorPlaceholder,
	}

	previewBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(previewWidth-2).
		Padding(0, 1).
		Render(preview.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, pane.Render(), previewBox)

	line, col := m.buf.LineCol()
	footer := components.NewFooterComponent(m.focus, m.viewport.width, components.FooterInfo{
		Document:    m.docName.Get(),
		Line:        line,
		Column:      col,
		HistoryLen:  m.history.Len(),
		HistoryMax:  m.historyMax,
		Model:       m.modelName,
		Highlighted: m.highlighted,
	})

	return lipgloss.JoinVertical(lipgloss.Left,
		name,
		body,
		m.status.Render(),
		footer.Render(),
	)
}
