package editor

import (
	"strings"
	"sync"
)

// DefaultContextWindow is how many characters of surrounding text are sent
// with an AI request.
const DefaultContextWindow = 100

// Buffer holds the editable text and its selection. It is the single source
// of truth for content and selection; everything else reads it live.
//
// Offsets are rune offsets. All methods are safe for concurrent use, and
// collaborators are never called with the lock held.
type Buffer struct {
	mu       sync.Mutex
	text     []rune
	sel      Selection
	head     int
	renderer Renderer
	focuser  Focuser
}

// NewBuffer creates a buffer with the cursor at the end of content
func NewBuffer(content string, renderer Renderer) (*Buffer, error) {
	if renderer == nil {
		return nil, ErrMissingRenderer
	}
	text := []rune(content)
	return &Buffer{
		text:     text,
		sel:      Collapsed(len(text)),
		head:     len(text),
		renderer: renderer,
		focuser:  nopFocuser{},
	}, nil
}

// SetFocuser installs the surface focus hook used by Restore and
// MaintainSelection.
func (b *Buffer) SetFocuser(f Focuser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f == nil {
		f = nopFocuser{}
	}
	b.focuser = f
}

// State reads the current content and selection
func (b *Buffer) State() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return NewSnapshot(string(b.text), b.sel.Start, b.sel.End)
}

// Restore replaces content and selection together, focuses the surface and
// renders once.
func (b *Buffer) Restore(s Snapshot) {
	b.mu.Lock()
	b.text = []rune(s.Content())
	sel := s.Selection()
	b.setSelectionLocked(sel, sel.End)
	content := string(b.text)
	focuser := b.focuser
	b.mu.Unlock()

	focuser.Focus()
	b.renderer.RenderPreview(content)
}

// Content returns the full text
func (b *Buffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.text)
}

// Len returns the content length in runes
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}

// Selection returns the raw selection offsets and the trimmed selected text
func (b *Buffer) Selection() SelectionInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return SelectionInfo{
		Selection: b.sel,
		Text:      strings.TrimSpace(string(b.text[b.sel.Start:b.sel.End])),
	}
}

// MaintainSelection re-asserts focus and the given range after an
// asynchronous operation may have moved them.
func (b *Buffer) MaintainSelection(start, end int) {
	b.mu.Lock()
	b.setSelectionLocked(Selection{Start: start, End: end}, end)
	focuser := b.focuser
	b.mu.Unlock()

	focuser.Focus()
}

// ContextBefore returns up to window runes ending at pos
func (b *Buffer) ContextBefore(pos, window int) string {
	if window <= 0 {
		window = DefaultContextWindow
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pos = clamp(pos, 0, len(b.text))
	start := clamp(pos-window, 0, pos)
	return string(b.text[start:pos])
}

// ContextAfter returns up to window runes starting at pos
func (b *Buffer) ContextAfter(pos, window int) string {
	if window <= 0 {
		window = DefaultContextWindow
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pos = clamp(pos, 0, len(b.text))
	end := clamp(pos+window, pos, len(b.text))
	return string(b.text[pos:end])
}

// edit runs fn against the text under the lock, installs its result and
// then renders. fn receives the live selection for reading only; the
// selection it returns is clamped to the new text.
func (b *Buffer) edit(fn func(text []rune, sel Selection) ([]rune, Selection)) Selection {
	b.mu.Lock()
	text, sel := fn(b.text, b.sel)
	b.text = text
	b.setSelectionLocked(sel, sel.End)
	content := string(b.text)
	result := b.sel
	focuser := b.focuser
	b.mu.Unlock()

	focuser.Focus()
	b.renderer.RenderPreview(content)
	return result
}

// splice returns text with [start, end) replaced by insert. It always
// allocates, so snapshots never alias the live buffer.
func splice(text []rune, start, end int, insert []rune) []rune {
	out := make([]rune, 0, len(text)-(end-start)+len(insert))
	out = append(out, text[:start]...)
	out = append(out, insert...)
	out = append(out, text[end:]...)
	return out
}
