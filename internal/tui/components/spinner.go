package components

import (
	"fmt"
	"time"
)

// SpinnerInterval is the frame period of the spinner
const SpinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerComponent animates while the AI request is in flight
type SpinnerComponent struct {
	current int
	label   string
}

// NewSpinnerComponent creates a spinner with a label
func NewSpinnerComponent(label string) *SpinnerComponent {
	return &SpinnerComponent{label: label}
}

// Tick advances the spinner to the next frame
func (s *SpinnerComponent) Tick() {
	s.current = (s.current + 1) % len(spinnerFrames)
}

// SetLabel updates the text after the frame
func (s *SpinnerComponent) SetLabel(label string) {
	s.label = label
}

// Frame returns just the current frame
func (s *SpinnerComponent) Frame() string {
	return spinnerFrames[s.current]
}

// Render returns the current frame with its label
func (s *SpinnerComponent) Render() string {
	if s.label == "" {
		return s.Frame()
	}
	return fmt.Sprintf("%s %s", s.Frame(), s.label)
}
