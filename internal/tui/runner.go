package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"nbedit/internal/logger"
)

// Run starts the editor and blocks until the user quits. It returns the
// final document text.
func Run(opts Options) (string, error) {
	m, err := NewModel(opts)
	if err != nil {
		return "", err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run editor: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return "", nil
	}
	content := fm.Content()
	logger.Info("Editor closed with %d chars", len(content))
	return content, nil
}
