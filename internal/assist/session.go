package assist

import (
	"strings"
	"sync"

	"nbedit/internal/editor"
	"nbedit/internal/logger"
)

// Phase is where the palette/result flow currently is
type Phase int

const (
	PhaseClosed Phase = iota
	// PhasePalette is the prompt input
	PhasePalette
	// PhaseLoading waits on the processor; accept and rerun are disabled
	PhaseLoading
	// PhaseResult shows the result with accept, rerun and cancel
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhasePalette:
		return "palette"
	case PhaseLoading:
		return "loading"
	case PhaseResult:
		return "result"
	default:
		return "closed"
	}
}

// Placeholder hints for the prompt input
const (
	EditPlaceholder     = "What would you like to do with this text?"
	GeneratePlaceholder = "What would you like to write?"
)

// State is a copy of the session for rendering
type State struct {
	Phase     Phase
	Selection editor.SelectionInfo
	Prompt    string
	Attempts  int
	Result    string
	Err       error
}

// Mode is edit when text was selected when the palette opened
func (s State) Mode() Mode {
	if s.Selection.Text == "" {
		return ModeGenerate
	}
	return ModeEdit
}

// Placeholder is the prompt input hint for the session's mode
func (s State) Placeholder() string {
	if s.Mode() == ModeGenerate {
		return GeneratePlaceholder
	}
	return EditPlaceholder
}

// Session runs the command palette and the result modal. The selection is
// captured when the palette opens and every later step uses those offsets,
// whatever happens to the live selection meanwhile.
type Session struct {
	mu     sync.Mutex
	buf    *editor.Buffer
	window int

	phase    Phase
	sel      editor.SelectionInfo
	prompt   string
	attempts int
	result   string
	err      error
}

// NewSession creates a closed session over buf. window is the number of
// context characters sent on each side of the selection.
func NewSession(buf *editor.Buffer, window int) *Session {
	if window <= 0 {
		window = editor.DefaultContextWindow
	}
	return &Session{buf: buf, window: window}
}

// OpenPalette captures sel and shows the prompt input. It satisfies
// editor.PaletteOpener.
func (s *Session) OpenPalette(sel editor.SelectionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhasePalette
	s.sel = sel
	s.prompt = ""
	s.attempts = 0
	s.result = ""
	s.err = nil
	logger.Debug("Palette opened at %d-%d (%d chars selected)", sel.Start, sel.End, len(sel.Text))
}

// ClosePalette dismisses the prompt input and puts the selection back
func (s *Session) ClosePalette() {
	s.mu.Lock()
	if s.phase != PhasePalette {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseClosed
	sel := s.sel
	s.mu.Unlock()

	s.buf.MaintainSelection(sel.Start, sel.End)
}

// Submit starts the first attempt for prompt. A blank prompt is ignored and
// the palette stays open.
func (s *Session) Submit(prompt string) (Request, bool) {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	if s.phase != PhasePalette || prompt == "" {
		s.mu.Unlock()
		return Request{}, false
	}
	s.prompt = prompt
	s.attempts = 1
	s.phase = PhaseLoading
	s.result = ""
	s.err = nil
	sel := s.sel
	s.mu.Unlock()

	s.buf.MaintainSelection(sel.Start, sel.End)
	return s.request(sel, prompt, 1), true
}

// Rerun asks again with the same prompt and captured selection. It only
// works while a result is showing.
func (s *Session) Rerun() (Request, bool) {
	s.mu.Lock()
	if s.phase != PhaseResult || s.prompt == "" {
		s.mu.Unlock()
		return Request{}, false
	}
	s.attempts++
	s.phase = PhaseLoading
	s.result = ""
	s.err = nil
	sel, prompt, attempt := s.sel, s.prompt, s.attempts
	s.mu.Unlock()

	s.buf.MaintainSelection(sel.Start, sel.End)
	return s.request(sel, prompt, attempt), true
}

// Resolve delivers the outcome of attempt. Outcomes for any attempt other
// than the current one are dropped and Resolve reports false.
func (s *Session) Resolve(attempt int, result string, err error) bool {
	s.mu.Lock()
	if s.phase != PhaseLoading || attempt != s.attempts {
		s.mu.Unlock()
		logger.Debug("Dropping stale result for attempt %d", attempt)
		return false
	}
	s.phase = PhaseResult
	s.result = result
	s.err = err
	sel := s.sel
	s.mu.Unlock()

	s.buf.MaintainSelection(sel.Start, sel.End)
	return true
}

// Accept applies the shown result over the captured selection and closes
// the session. A failed attempt has nothing to accept.
func (s *Session) Accept(engine *editor.Engine) (editor.Selection, bool) {
	s.mu.Lock()
	if s.phase != PhaseResult || s.err != nil {
		s.mu.Unlock()
		return editor.Selection{}, false
	}
	s.phase = PhaseClosed
	sel, result := s.sel, s.result
	s.mu.Unlock()

	logger.Info("Accepted result for %d-%d (%d chars)", sel.Start, sel.End, len(result))
	return engine.ApplyReplacementOrInsertion(result, sel.Start, sel.End), true
}

// Cancel closes the result modal without touching the buffer. It is
// ignored while a request is loading.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseResult {
		s.phase = PhaseClosed
	}
}

// State returns a copy of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:     s.phase,
		Selection: s.sel,
		Prompt:    s.prompt,
		Attempts:  s.attempts,
		Result:    s.result,
		Err:       s.err,
	}
}

func (s *Session) request(sel editor.SelectionInfo, prompt string, attempt int) Request {
	return Request{
		Text:          sel.Text,
		Prompt:        prompt,
		Attempt:       attempt,
		ContextBefore: s.buf.ContextBefore(sel.Start, s.window),
		ContextAfter:  s.buf.ContextAfter(sel.End, s.window),
	}
}
