package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// renderRecorder counts preview renders
type renderRecorder struct {
	mu       sync.Mutex
	contents []string
}

func (r *renderRecorder) RenderPreview(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contents = append(r.contents, content)
}

func (r *renderRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contents)
}

func (r *renderRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.contents) == 0 {
		return ""
	}
	return r.contents[len(r.contents)-1]
}

// manualScheduler holds tasks until the test fires them
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	wasLive := !t.stopped && !t.fired
	t.stopped = true
	return wasLive
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{delay: d, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// live returns the tasks that are neither stopped nor fired
func (s *manualScheduler) live() []*manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTask
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fireAll runs every live task, as if the quiet period elapsed
func (s *manualScheduler) fireAll() int {
	tasks := s.live()
	for _, t := range tasks {
		t.fired = true
		t.fn()
	}
	return len(tasks)
}

type fixture struct {
	buf       *Buffer
	history   *History
	engine    *Engine
	renders   *renderRecorder
	scheduler *manualScheduler
}

func newFixture(t *testing.T, content string, opts ...HistoryOption) *fixture {
	t.Helper()
	renders := &renderRecorder{}
	buf, err := NewBuffer(content, renders)
	require.NoError(t, err)

	sched := &manualScheduler{}
	opts = append([]HistoryOption{WithScheduler(sched)}, opts...)
	history := NewHistory(buf, opts...)
	return &fixture{
		buf:       buf,
		history:   history,
		engine:    NewEngine(buf, history),
		renders:   renders,
		scheduler: sched,
	}
}

func contents(snaps []Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.Content()
	}
	return out
}

// collaborator fakes

type saveRecorder struct{ saved []string }

func (s *saveRecorder) RequestSave(content string) { s.saved = append(s.saved, content) }

type paletteRecorder struct{ opened []SelectionInfo }

func (p *paletteRecorder) OpenPalette(sel SelectionInfo) { p.opened = append(p.opened, sel) }

type noticeRecorder struct{ notices []Notice }

func (n *noticeRecorder) Notify(notice Notice) { n.notices = append(n.notices, notice) }

type highlightRecorder struct{ states []bool }

func (h *highlightRecorder) SetHighlight(on bool) { h.states = append(h.states, on) }

type fakeUploader struct {
	calls   []string
	results map[string]UploadResult
	errs    map[string]error
	// inFlight detects overlapping uploads
	inFlight    int
	maxInFlight int
}

func (u *fakeUploader) Upload(_ context.Context, file DroppedFile) (UploadResult, error) {
	u.inFlight++
	if u.inFlight > u.maxInFlight {
		u.maxInFlight = u.inFlight
	}
	defer func() { u.inFlight-- }()

	u.calls = append(u.calls, file.Name)
	if err := u.errs[file.Name]; err != nil {
		return UploadResult{}, err
	}
	return u.results[file.Name], nil
}
