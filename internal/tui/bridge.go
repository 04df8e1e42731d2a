package tui

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"nbedit/internal/editor"
)

// Events the editor collaborators raise. They can fire from inside Update
// or from a command goroutine, so they are queued and delivered back to
// the program as one eventsMsg.
type (
	saveEvent      struct{ content string }
	noticeEvent    struct{ notice editor.Notice }
	previewEvent   struct{ content string }
	highlightEvent struct{ on bool }
	focusEvent     struct{}
)

type eventsMsg []any

// bridge implements the editor's save, notice, highlight and focus
// capabilities on top of the bubbletea message loop.
type bridge struct {
	mu     sync.Mutex
	queue  []any
	signal chan struct{}
}

func newBridge() *bridge {
	return &bridge{signal: make(chan struct{}, 1)}
}

func (b *bridge) push(e any) {
	b.mu.Lock()
	b.queue = append(b.queue, e)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *bridge) drain() eventsMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := eventsMsg(b.queue)
	b.queue = nil
	return out
}

// wait blocks until something is queued. Exactly one wait is outstanding
// at any time; the eventsMsg handler re-arms it.
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return b.drain()
	}
}

func (b *bridge) RequestSave(content string) { b.push(saveEvent{content: content}) }

func (b *bridge) Notify(n editor.Notice) { b.push(noticeEvent{notice: n}) }

func (b *bridge) SetHighlight(on bool) { b.push(highlightEvent{on: on}) }

func (b *bridge) Focus() { b.push(focusEvent{}) }

// previewed receives each rendered preview
func (b *bridge) previewed(out string) { b.push(previewEvent{content: out}) }

// nameRef is the document name shared with the uploader, which reads it
// from a command goroutine.
type nameRef struct {
	mu sync.Mutex
	v  string
}

func (n *nameRef) Get() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.v
}

func (n *nameRef) Set(v string) {
	n.mu.Lock()
	n.v = strings.TrimSpace(v)
	n.mu.Unlock()
}
