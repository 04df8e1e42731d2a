package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type focusCounter struct{ n int }

func (f *focusCounter) Focus() { f.n++ }

func TestNewBuffer_RequiresRenderer(t *testing.T) {
	_, err := NewBuffer("x", nil)
	assert.ErrorIs(t, err, ErrMissingRenderer)
}

func TestBuffer_StateAndSelection(t *testing.T) {
	f := newFixture(t, "hello world")
	f.buf.SetSelection(5, 11)

	state := f.buf.State()
	assert.Equal(t, "hello world", state.Content())
	assert.Equal(t, Selection{Start: 5, End: 11}, state.Selection())

	info := f.buf.Selection()
	assert.Equal(t, 5, info.Start)
	assert.Equal(t, 11, info.End)
	assert.Equal(t, "world", info.Text, "selected text is trimmed, offsets are not")
}

func TestBuffer_RestoreRendersOnceAndFocuses(t *testing.T) {
	f := newFixture(t, "old")
	focus := &focusCounter{}
	f.buf.SetFocuser(focus)

	f.buf.Restore(NewSnapshot("brand new", 2, 5))

	assert.Equal(t, "brand new", f.buf.Content())
	assert.Equal(t, Selection{Start: 2, End: 5}, f.buf.Selection().Selection)
	assert.Equal(t, 1, f.renders.count())
	assert.Equal(t, "brand new", f.renders.last())
	assert.Equal(t, 1, focus.n)
}

func TestBuffer_MaintainSelectionClamps(t *testing.T) {
	f := newFixture(t, "short")
	focus := &focusCounter{}
	f.buf.SetFocuser(focus)

	f.buf.MaintainSelection(3, 99)
	assert.Equal(t, Selection{Start: 3, End: 5}, f.buf.Selection().Selection)
	assert.Equal(t, 1, focus.n)
	assert.Equal(t, 0, f.renders.count())
}

func TestBuffer_Context(t *testing.T) {
	text := strings.Repeat("a", 150) + "|" + strings.Repeat("b", 150)
	f := newFixture(t, text)

	before := f.buf.ContextBefore(150, 0)
	assert.Len(t, before, DefaultContextWindow)
	assert.Equal(t, strings.Repeat("a", 100), before)

	after := f.buf.ContextAfter(151, 0)
	assert.Equal(t, strings.Repeat("b", 100), after)

	assert.Equal(t, "aaa", f.buf.ContextBefore(3, 100))
	assert.Equal(t, "bb", f.buf.ContextAfter(len([]rune(text))-2, 100))
	assert.Equal(t, "", f.buf.ContextBefore(-5, 10))
	assert.Equal(t, "", f.buf.ContextAfter(10_000, 10))
	assert.Equal(t, "a|b", f.buf.ContextAfter(149, 3))
}

func TestBuffer_ContextUsesRunes(t *testing.T) {
	f := newFixture(t, "héllo wörld")
	assert.Equal(t, "héllo", f.buf.ContextBefore(5, 100))
	assert.Equal(t, "wö", f.buf.ContextAfter(6, 2))
}

func TestBuffer_NativeEdits(t *testing.T) {
	f := newFixture(t, "abc")

	f.buf.SetSelection(1, 1)
	f.buf.InsertText("XY")
	assert.Equal(t, "aXYbc", f.buf.Content())
	assert.Equal(t, Collapsed(3), f.buf.Selection().Selection)

	require.True(t, f.buf.DeleteBackward())
	assert.Equal(t, "aXbc", f.buf.Content())

	f.buf.SetSelection(0, 2)
	require.True(t, f.buf.DeleteForward())
	assert.Equal(t, "bc", f.buf.Content())
	assert.Equal(t, Collapsed(0), f.buf.Selection().Selection)

	assert.False(t, f.buf.DeleteBackward())
	f.buf.SetSelection(2, 2)
	assert.False(t, f.buf.DeleteForward())

	// native edits never render
	assert.Equal(t, 0, f.renders.count())
}

func TestBuffer_MoveCursor(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.buf.SetSelection(2, 2)

	f.buf.MoveCursor(2, true)
	assert.Equal(t, Selection{Start: 2, End: 4}, f.buf.Selection().Selection)

	f.buf.MoveCursor(-3, true)
	assert.Equal(t, Selection{Start: 1, End: 2}, f.buf.Selection().Selection)
	assert.Equal(t, 1, f.buf.Head())

	f.buf.MoveCursor(1, false)
	assert.Equal(t, Collapsed(2), f.buf.Selection().Selection)

	f.buf.MoveCursor(-10, false)
	assert.Equal(t, Collapsed(0), f.buf.Selection().Selection)
}

func TestBuffer_MoveLine(t *testing.T) {
	f := newFixture(t, "first line\nab\nthird line")
	f.buf.SetSelection(7, 7)

	f.buf.MoveLine(1, false)
	line, col := f.buf.LineCol()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col, "column clamps to the shorter line")

	f.buf.MoveLine(1, false)
	line, col = f.buf.LineCol()
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	f.buf.MoveLine(1, false)
	assert.Equal(t, f.buf.Len(), f.buf.Head())

	f.buf.MoveToLineEdge(false, true)
	info := f.buf.Selection()
	assert.Equal(t, "third line", info.Text)

	f.buf.MoveLine(-5, false)
	assert.Equal(t, 0, f.buf.Head())
}

func TestBuffer_SelectAll(t *testing.T) {
	f := newFixture(t, "  all of it ")
	f.buf.SelectAll()
	info := f.buf.Selection()
	assert.Equal(t, 0, info.Start)
	assert.Equal(t, 12, info.End)
	assert.Equal(t, "all of it", info.Text)
}

func TestSelection_Clamp(t *testing.T) {
	tests := []struct {
		in   Selection
		n    int
		want Selection
	}{
		{Selection{1, 3}, 5, Selection{1, 3}},
		{Selection{-2, 3}, 5, Selection{0, 3}},
		{Selection{4, 9}, 5, Selection{4, 5}},
		{Selection{4, 1}, 5, Selection{1, 4}},
		{Selection{7, 8}, 0, Selection{0, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Clamp(tt.n), "%v clamp %d", tt.in, tt.n)
	}
}
