package editor

import (
	"sync"
	"time"

	"nbedit/internal/logger"
)

// Default history configuration, matching the browser editor.
const (
	DefaultMaxHistory    = 50
	DefaultDebounceDelay = 100 * time.Millisecond
)

// Tracker is the part of the buffer the history needs: read the current
// state and put an old one back.
type Tracker interface {
	State() Snapshot
	Restore(s Snapshot)
}

// HistoryOption configures a History during creation
type HistoryOption func(*History)

// WithMaxSize bounds the number of snapshots kept
func WithMaxSize(n int) HistoryOption {
	return func(h *History) {
		if n > 0 {
			h.maxSize = n
		}
	}
}

// WithDebounceDelay sets the quiet period used when CaptureDebounced gets
// no explicit delay.
func WithDebounceDelay(d time.Duration) HistoryOption {
	return func(h *History) {
		if d > 0 {
			h.delay = d
		}
	}
}

// WithScheduler replaces the timer used for debounced captures
func WithScheduler(s Scheduler) HistoryOption {
	return func(h *History) {
		if s != nil {
			h.scheduler = s
		}
	}
}

// History is a bounded stack of whole-buffer snapshots. Undo pops; there is
// no redo. Adjacent snapshots never share content.
type History struct {
	mu        sync.Mutex
	tracker   Tracker
	states    []Snapshot
	maxSize   int
	delay     time.Duration
	scheduler Scheduler
	pending   Task
	seq       uint64 // invalidates a timer that fired after being replaced
}

// NewHistory creates an empty history over tracker
func NewHistory(tracker Tracker, opts ...HistoryOption) *History {
	h := &History{
		tracker:   tracker,
		states:    make([]Snapshot, 0, DefaultMaxHistory),
		maxSize:   DefaultMaxHistory,
		delay:     DefaultDebounceDelay,
		scheduler: TimerScheduler{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Capture records the tracker's current state. When the content matches the
// newest snapshot no entry is added; the newest snapshot's selection is
// refreshed instead so undo lands on the latest cursor.
//
// A scheduled debounced capture is dropped: the state it would record is
// the one taken here, and firing later would record whatever a mutation
// wrote in between.
func (h *History) Capture() {
	state := h.tracker.State()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cancelLocked()

	if n := len(h.states); n > 0 && h.states[n-1].Content() == state.Content() {
		h.states[n-1] = state
		logger.Debug("Duplicate content, history size unchanged: %d", n)
		return
	}

	h.states = append(h.states, state)
	if len(h.states) > h.maxSize {
		// Copy down so the backing array does not grow without bound
		h.states = append(h.states[:0], h.states[len(h.states)-h.maxSize:]...)
	}
	logger.Debug("Undo state saved. History size: %d", len(h.states))
}

// CaptureDebounced schedules a Capture once delay passes with no further
// calls. A non-positive delay uses the configured default. It returns
// immediately.
func (h *History) CaptureDebounced(delay time.Duration) {
	if delay <= 0 {
		delay = h.delay
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending != nil {
		h.pending.Stop()
	}
	h.seq++
	seq := h.seq
	h.pending = h.scheduler.AfterFunc(delay, func() {
		h.mu.Lock()
		if h.seq != seq {
			h.mu.Unlock()
			return
		}
		h.pending = nil
		h.mu.Unlock()

		h.Capture()
	})
}

// Pending reports whether a debounced capture is scheduled
func (h *History) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}

// Cancel drops a scheduled capture, if any
func (h *History) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelLocked()
}

func (h *History) cancelLocked() {
	if h.pending != nil {
		h.pending.Stop()
		h.pending = nil
	}
	h.seq++
}

// Undo pops the newest snapshot and restores it. It reports false when the
// history is empty.
func (h *History) Undo() bool {
	h.mu.Lock()
	n := len(h.states)
	if n == 0 {
		h.mu.Unlock()
		logger.Debug("No undo history available")
		return false
	}
	last := h.states[n-1]
	h.states = h.states[:n-1]
	h.mu.Unlock()

	logger.Debug("Undid to previous state. History size: %d", n-1)
	h.tracker.Restore(last)
	return true
}

// Len returns the number of snapshots held
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.states)
}

// Snapshots returns a copy of the stack, oldest first
func (h *History) Snapshots() []Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Snapshot, len(h.states))
	copy(out, h.states)
	return out
}
