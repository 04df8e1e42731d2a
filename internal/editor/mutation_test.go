package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const figureMarkup = "<figure>\n    <img src=\"a.png\" alt=\"Uploaded image\" />\n    <figcaption>ADD_CAPTION_HERE</figcaption>\n</figure>"

func TestEngine_ReplacementOrInsertion(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		text       string
		start, end int
		want       string
		wantSel    Selection
	}{
		{"insert at cursor", "abc", "X", 1, 1, "aXbc", Collapsed(2)},
		{"replace range", "hello world", "there", 6, 11, "hello there", Collapsed(11)},
		{"replace all", "abc", "", 0, 3, "", Collapsed(0)},
		{"reversed range", "abcdef", "-", 4, 2, "ab-ef", Collapsed(3)},
		{"range past end", "abc", "Z", 2, 40, "abZ", Collapsed(3)},
		{"negative start", "abc", "Z", -4, 1, "Zbc", Collapsed(1)},
		{"multibyte", "héllo", "E", 1, 2, "hEllo", Collapsed(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.content)
			sel := f.engine.ApplyReplacementOrInsertion(tt.text, tt.start, tt.end)

			assert.Equal(t, tt.want, f.buf.Content())
			assert.Equal(t, tt.wantSel, sel)
			assert.Equal(t, tt.wantSel, f.buf.Selection().Selection)
			assert.Equal(t, tt.want, f.renders.last())
		})
	}
}

func TestEngine_InsertionUsesCapturedOffsets(t *testing.T) {
	f := newFixture(t, "abc")
	f.buf.SetSelection(1, 1)
	captured := f.buf.Selection()

	// the user keeps moving while the request is in flight
	f.buf.SetSelection(3, 3)

	sel := f.engine.ApplyReplacementOrInsertion("X", captured.Start, captured.End)
	assert.Equal(t, "aXbc", f.buf.Content())
	assert.Equal(t, Collapsed(2), sel)
}

func TestEngine_LinkWrap(t *testing.T) {
	f := newFixture(t, "hello world")
	f.buf.SetSelection(0, 5)
	info := f.buf.Selection()

	ok := f.engine.ApplyLinkWrap(info.Text, "http://x.io", info.Start, info.End)
	require.True(t, ok)
	assert.Equal(t, "[hello](http://x.io) world", f.buf.Content())
	assert.Equal(t, Collapsed(20), f.buf.Selection().Selection)
}

func TestEngine_LinkWrapTrimsURL(t *testing.T) {
	f := newFixture(t, "see docs")
	require.True(t, f.engine.ApplyLinkWrap("docs", "  https://go.dev/doc\n", 4, 8))
	assert.Equal(t, "see [docs](https://go.dev/doc)", f.buf.Content())
}

func TestEngine_LinkWrapNeedsRange(t *testing.T) {
	f := newFixture(t, "hello")
	assert.False(t, f.engine.ApplyLinkWrap("", "http://x.io", 2, 2))
	assert.False(t, f.engine.ApplyLinkWrap("", "http://x.io", 3, 1))

	assert.Equal(t, "hello", f.buf.Content())
	assert.Equal(t, 0, f.history.Len())
	assert.Equal(t, 0, f.renders.count())
}

func TestEngine_BlockInsertSelectsPlaceholder(t *testing.T) {
	f := newFixture(t, "line1")

	sel := f.engine.ApplyBlockInsert(figureMarkup)

	want := "line1" + figureMarkup + "\n\n"
	require.Equal(t, want, f.buf.Content())

	at := len([]rune("line1")) + strings.Index(figureMarkup, CaptionPlaceholder)
	assert.Equal(t, Selection{Start: at, End: at + len(CaptionPlaceholder)}, sel)
	assert.Equal(t, CaptionPlaceholder, f.buf.Selection().Text)
}

func TestEngine_BlockInsertIgnoresEarlierPlaceholder(t *testing.T) {
	f := newFixture(t, "ADD_CAPTION_HERE already here\n")

	sel := f.engine.ApplyBlockInsert(figureMarkup)

	assert.Greater(t, sel.Start, 30, "placeholder is found in the new block, not before it")
	assert.Equal(t, CaptionPlaceholder, f.buf.Selection().Text)
}

func TestEngine_BlockInsertWithoutPlaceholder(t *testing.T) {
	f := newFixture(t, "ab")
	f.buf.SetSelection(1, 1)

	sel := f.engine.ApplyBlockInsert("![img](x.png)")

	assert.Equal(t, "a![img](x.png)\n\nb", f.buf.Content())
	assert.Equal(t, Collapsed(1+len("![img](x.png)\n\n")), sel)
}

func TestEngine_BlockInsertAtSelectionStart(t *testing.T) {
	f := newFixture(t, "keep selected text")
	f.buf.SetSelection(5, 13)

	f.engine.ApplyBlockInsert("<hr />")
	assert.Equal(t, "keep <hr />\n\nselected text", f.buf.Content(), "the block is inserted, not replacing the selection")
}

func TestEngine_MutationsAreUndoable(t *testing.T) {
	tests := []struct {
		name  string
		apply func(f *fixture)
	}{
		{"replacement", func(f *fixture) { f.engine.ApplyReplacementOrInsertion("new", 0, 5) }},
		{"insertion", func(f *fixture) { f.engine.ApplyReplacementOrInsertion("new", 3, 3) }},
		{"link wrap", func(f *fixture) { f.engine.ApplyLinkWrap("hello", "https://a.b", 0, 5) }},
		{"block insert", func(f *fixture) { f.engine.ApplyBlockInsert(figureMarkup) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "hello world")
			f.buf.SetSelection(2, 4)
			before := f.buf.State()

			tt.apply(f)
			require.NotEqual(t, before.Content(), f.buf.Content())
			require.Equal(t, 1, f.history.Len())

			require.True(t, f.history.Undo())
			assert.Equal(t, before.Content(), f.buf.Content())
			assert.Equal(t, before.Selection(), f.buf.Selection().Selection)
		})
	}
}

func TestEngine_UndoAfterTypingThenMutation(t *testing.T) {
	f := newFixture(t, "")
	f.buf.InsertText("draft")
	f.history.CaptureDebounced(0)
	f.scheduler.fireAll()

	f.engine.ApplyReplacementOrInsertion(" text", 5, 5)
	assert.Equal(t, "draft text", f.buf.Content())

	// typed state and pre-mutation state are identical, so one undo is enough
	require.Equal(t, 1, f.history.Len())
	require.True(t, f.history.Undo())
	assert.Equal(t, "draft", f.buf.Content())
}

func TestEngine_PendingDebounceDoesNotOutliveMutation(t *testing.T) {
	tests := []struct {
		name  string
		apply func(f *fixture)
		want  string
	}{
		{"replacement", func(f *fixture) { f.engine.ApplyReplacementOrInsertion("final", 0, 5) }, "final"},
		{"link wrap", func(f *fixture) { f.engine.ApplyLinkWrap("draft", "https://x.io", 0, 5) }, "[draft](https://x.io)"},
		{"block insert", func(f *fixture) { f.engine.ApplyBlockInsert(figureMarkup) }, "draft" + figureMarkup + "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			f.history.Capture()
			f.buf.InsertText("draft")
			f.history.CaptureDebounced(0)
			pending := f.scheduler.live()
			require.Len(t, pending, 1)

			tt.apply(f)
			assert.Equal(t, tt.want, f.buf.Content())
			assert.False(t, f.history.Pending())
			assert.Equal(t, 0, f.scheduler.fireAll())

			// a runtime timer can still run after Stop
			pending[0].fn()
			assert.Equal(t, []string{"", "draft"}, contents(f.history.Snapshots()))

			require.True(t, f.history.Undo())
			assert.Equal(t, "draft", f.buf.Content())
			assert.Equal(t, Collapsed(5), f.buf.Selection().Selection)

			require.True(t, f.history.Undo())
			assert.Equal(t, "", f.buf.Content())
		})
	}
}

func TestEngine_HistoryRestoreDoesNotCapture(t *testing.T) {
	f := newFixture(t, "now")
	f.engine.ApplyHistoryRestore(NewSnapshot("then", 1, 2))

	assert.Equal(t, "then", f.buf.Content())
	assert.Equal(t, Selection{Start: 1, End: 2}, f.buf.Selection().Selection)
	assert.Equal(t, 0, f.history.Len())
	assert.Equal(t, 1, f.renders.count())
}

func TestIndexRunes(t *testing.T) {
	hay := []rune("abcabc")
	assert.Equal(t, 0, indexRunes(hay, []rune("abc"), 0))
	assert.Equal(t, 3, indexRunes(hay, []rune("abc"), 1))
	assert.Equal(t, -1, indexRunes(hay, []rune("abd"), 0))
	assert.Equal(t, -1, indexRunes(hay, []rune("c"), 6))
	assert.Equal(t, 2, indexRunes(hay, nil, 2))
}
