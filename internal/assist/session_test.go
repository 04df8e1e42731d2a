package assist

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbedit/internal/editor"
)

type focusCounter struct{ n int }

func (f *focusCounter) Focus() { f.n++ }

type harness struct {
	buf     *editor.Buffer
	history *editor.History
	engine  *editor.Engine
	session *Session
	focus   *focusCounter
}

func newHarness(t *testing.T, content string) *harness {
	t.Helper()
	buf, err := editor.NewBuffer(content, editor.RendererFunc(func(string) {}))
	require.NoError(t, err)
	focus := &focusCounter{}
	buf.SetFocuser(focus)
	history := editor.NewHistory(buf)
	return &harness{
		buf:     buf,
		history: history,
		engine:  editor.NewEngine(buf, history),
		session: NewSession(buf, 0),
		focus:   focus,
	}
}

func (h *harness) open(start, end int) {
	h.buf.SetSelection(start, end)
	h.session.OpenPalette(h.buf.Selection())
}

func TestSession_OpenCapturesSelection(t *testing.T) {
	h := newHarness(t, "hello  world")
	h.open(5, 12)

	st := h.session.State()
	assert.Equal(t, PhasePalette, st.Phase)
	assert.Equal(t, "world", st.Selection.Text)
	assert.Equal(t, 5, st.Selection.Start)
	assert.Equal(t, ModeEdit, st.Mode())
	assert.Equal(t, EditPlaceholder, st.Placeholder())

	h.open(3, 3)
	st = h.session.State()
	assert.Equal(t, ModeGenerate, st.Mode())
	assert.Equal(t, GeneratePlaceholder, st.Placeholder())
}

func TestSession_SubmitIgnoresBlankPrompt(t *testing.T) {
	h := newHarness(t, "text")
	h.open(0, 4)

	_, ok := h.session.Submit("   ")
	assert.False(t, ok)
	assert.Equal(t, PhasePalette, h.session.State().Phase)
}

func TestSession_SubmitRequiresOpenPalette(t *testing.T) {
	h := newHarness(t, "text")
	_, ok := h.session.Submit("do it")
	assert.False(t, ok)
}

func TestSession_SubmitBuildsRequest(t *testing.T) {
	text := strings.Repeat("a", 120) + "TARGET" + strings.Repeat("b", 120)
	h := newHarness(t, text)
	h.open(120, 126)

	req, ok := h.session.Submit("  shout  ")
	require.True(t, ok)
	assert.Equal(t, "TARGET", req.Text)
	assert.Equal(t, "shout", req.Prompt)
	assert.Equal(t, 1, req.Attempt)
	assert.Equal(t, strings.Repeat("a", 100), req.ContextBefore)
	assert.Equal(t, strings.Repeat("b", 100), req.ContextAfter)

	st := h.session.State()
	assert.Equal(t, PhaseLoading, st.Phase)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, editor.Selection{Start: 120, End: 126}, h.buf.Selection().Selection)
}

func TestSession_ContextWindow(t *testing.T) {
	buf, err := editor.NewBuffer("0123456789", editor.RendererFunc(func(string) {}))
	require.NoError(t, err)
	s := NewSession(buf, 3)

	buf.SetSelection(5, 5)
	s.OpenPalette(buf.Selection())
	req, ok := s.Submit("x")
	require.True(t, ok)
	assert.Equal(t, "234", req.ContextBefore)
	assert.Equal(t, "567", req.ContextAfter)
}

func TestSession_AcceptUsesCapturedOffsets(t *testing.T) {
	h := newHarness(t, "hello world")
	h.open(0, 5)
	req, ok := h.session.Submit("translate")
	require.True(t, ok)

	// the user keeps typing at the end while the request is in flight
	h.buf.SetSelection(11, 11)
	h.buf.InsertText("!")

	require.True(t, h.session.Resolve(req.Attempt, "hola", nil))
	sel, ok := h.session.Accept(h.engine)
	require.True(t, ok)

	assert.Equal(t, "hola world!", h.buf.Content())
	assert.Equal(t, editor.Collapsed(4), sel)
	assert.Equal(t, PhaseClosed, h.session.State().Phase)

	require.True(t, h.history.Undo())
	assert.Equal(t, "hello world!", h.buf.Content())
}

func TestSession_GenerateInsertsAtCursor(t *testing.T) {
	h := newHarness(t, "ab")
	h.open(1, 1)
	req, _ := h.session.Submit("write")
	h.session.Resolve(req.Attempt, "XYZ", nil)

	_, ok := h.session.Accept(h.engine)
	require.True(t, ok)
	assert.Equal(t, "aXYZb", h.buf.Content())
}

func TestSession_RerunIncrementsAttempts(t *testing.T) {
	h := newHarness(t, "draft")
	h.open(0, 5)

	_, ok := h.session.Rerun()
	assert.False(t, ok, "nothing to rerun before a result")

	req, _ := h.session.Submit("polish")
	_, ok = h.session.Rerun()
	assert.False(t, ok, "rerun is disabled while loading")

	h.session.Resolve(req.Attempt, "first", nil)
	again, ok := h.session.Rerun()
	require.True(t, ok)
	assert.Equal(t, 2, again.Attempt)
	assert.Equal(t, "polish", again.Prompt)
	assert.Equal(t, "draft", again.Text)

	// the first attempt answering late is dropped
	assert.False(t, h.session.Resolve(1, "late", nil))
	require.True(t, h.session.Resolve(2, "second", nil))
	assert.Equal(t, "second", h.session.State().Result)
	assert.Equal(t, 2, h.session.State().Attempts)
}

func TestSession_FailedAttempt(t *testing.T) {
	h := newHarness(t, "draft")
	h.open(0, 5)
	req, _ := h.session.Submit("polish")

	h.session.Resolve(req.Attempt, "", errors.New("rate limited"))
	st := h.session.State()
	assert.Equal(t, PhaseResult, st.Phase)
	assert.EqualError(t, st.Err, "rate limited")

	_, ok := h.session.Accept(h.engine)
	assert.False(t, ok)
	assert.Equal(t, "draft", h.buf.Content())

	// trying again is still possible
	_, ok = h.session.Rerun()
	assert.True(t, ok)
}

func TestSession_CancelLeavesBuffer(t *testing.T) {
	h := newHarness(t, "keep")
	h.open(0, 4)
	req, _ := h.session.Submit("rewrite")

	h.session.Cancel()
	assert.Equal(t, PhaseLoading, h.session.State().Phase, "cancel waits for the result")

	h.session.Resolve(req.Attempt, "gone", nil)
	h.session.Cancel()
	assert.Equal(t, PhaseClosed, h.session.State().Phase)
	assert.Equal(t, "keep", h.buf.Content())
	assert.Equal(t, 0, h.history.Len())

	_, ok := h.session.Accept(h.engine)
	assert.False(t, ok)
}

func TestSession_ClosePaletteRestoresSelection(t *testing.T) {
	h := newHarness(t, "some text")
	h.open(2, 6)
	h.buf.SetSelection(0, 0)
	before := h.focus.n

	h.session.ClosePalette()
	assert.Equal(t, PhaseClosed, h.session.State().Phase)
	assert.Equal(t, editor.Selection{Start: 2, End: 6}, h.buf.Selection().Selection)
	assert.Equal(t, before+1, h.focus.n)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "closed", PhaseClosed.String())
	assert.Equal(t, "palette", PhasePalette.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "result", PhaseResult.String())
}
