package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"nbedit/internal/editor"
)

// DefaultStatusDuration is how long a notice stays in the statusline
const DefaultStatusDuration = 4 * time.Second

// StatuslineMessage is a message shown in the statusline
type StatuslineMessage struct {
	Level    editor.NoticeLevel
	Text     string
	Duration time.Duration
	ShowTime time.Time
}

// StatuslineComponent shows collaborator outcomes under the panes
type StatuslineComponent struct {
	message *StatuslineMessage
	width   int
}

// NewStatuslineComponent creates an empty statusline
func NewStatuslineComponent(width int) *StatuslineComponent {
	return &StatuslineComponent{width: width}
}

// Notify shows n until it expires. Errors stay twice as long.
func (s *StatuslineComponent) Notify(n editor.Notice, now time.Time) {
	d := DefaultStatusDuration
	if n.Level == editor.NoticeError {
		d *= 2
	}
	s.message = &StatuslineMessage{
		Level:    n.Level,
		Text:     n.Text,
		Duration: d,
		ShowTime: now,
	}
}

// Message returns the message being shown, or nil
func (s *StatuslineComponent) Message() *StatuslineMessage {
	return s.message
}

// ClearMessage clears the current message
func (s *StatuslineComponent) ClearMessage() {
	s.message = nil
}

// Expire clears the message once its duration has passed and reports
// whether it did.
func (s *StatuslineComponent) Expire(now time.Time) bool {
	if s.message == nil || s.message.Duration == 0 {
		return false
	}
	if now.Sub(s.message.ShowTime) <= s.message.Duration {
		return false
	}
	s.message = nil
	return true
}

// Render renders the statusline
func (s *StatuslineComponent) Render() string {
	if s.message == nil {
		return lipgloss.NewStyle().
			Background(lipgloss.Color("0")).
			Width(s.width).
			Render(" ")
	}

	var fg lipgloss.Color
	switch s.message.Level {
	case editor.NoticeWarning:
		fg = lipgloss.Color("226") // Yellow
	case editor.NoticeError:
		fg = lipgloss.Color("196") // Red
	default:
		fg = lipgloss.Color("252")
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(lipgloss.Color("0")).
		Width(s.width).
		MaxHeight(1).
		Padding(0, 1).
		Render(s.message.Text)
}

// SetWidth updates the width of the statusline
func (s *StatuslineComponent) SetWidth(width int) {
	s.width = width
}
