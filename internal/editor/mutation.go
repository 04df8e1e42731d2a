package editor

import (
	"strings"

	"nbedit/internal/logger"
)

// CaptionPlaceholder marks where a caption goes in inserted block markup.
// A block containing it gets the placeholder selected after insertion.
const CaptionPlaceholder = "ADD_CAPTION_HERE"

// Engine applies the structured edits. Each one captures the pre-edit state
// first, so a single Undo always returns to it.
//
// Offsets passed in are the ones the caller captured before whatever
// asynchronous work produced the text; the live selection may have moved
// since and is deliberately not consulted.
type Engine struct {
	buf     *Buffer
	history *History
}

// NewEngine creates an engine editing buf and recording into history
func NewEngine(buf *Buffer, history *History) *Engine {
	return &Engine{buf: buf, history: history}
}

// ApplyReplacementOrInsertion replaces [selStart, selEnd) with text, or
// inserts text at selStart when the range is empty. The cursor ends right
// after the new text.
func (e *Engine) ApplyReplacementOrInsertion(text string, selStart, selEnd int) Selection {
	e.history.Capture()

	insert := []rune(text)
	return e.buf.edit(func(cur []rune, _ Selection) ([]rune, Selection) {
		r := Selection{Start: selStart, End: selEnd}.Clamp(len(cur))
		out := splice(cur, r.Start, r.End, insert)
		return out, Collapsed(r.Start + len(insert))
	})
}

// ApplyLinkWrap turns the selected range into a markdown link to url. It
// needs a non-empty range and reports false, without touching anything,
// when given a bare cursor.
func (e *Engine) ApplyLinkWrap(selectedText, url string, selStart, selEnd int) bool {
	if selStart >= selEnd {
		return false
	}
	e.history.Capture()

	link := []rune("[" + selectedText + "](" + strings.TrimSpace(url) + ")")
	e.buf.edit(func(cur []rune, _ Selection) ([]rune, Selection) {
		r := Selection{Start: selStart, End: selEnd}.Clamp(len(cur))
		out := splice(cur, r.Start, r.End, link)
		return out, Collapsed(r.Start + len(link))
	})
	logger.Debug("Created markdown link: %s", string(link))
	return true
}

// ApplyBlockInsert inserts markup followed by a blank line at the live
// cursor. If the inserted text carries CaptionPlaceholder the placeholder is
// selected; otherwise the cursor lands after the block.
func (e *Engine) ApplyBlockInsert(markup string) Selection {
	e.history.Capture()

	block := []rune(markup + "\n\n")
	placeholder := []rune(CaptionPlaceholder)
	return e.buf.edit(func(cur []rune, sel Selection) ([]rune, Selection) {
		pos := clamp(sel.Start, 0, len(cur))
		out := splice(cur, pos, pos, block)

		if at := indexRunes(out, placeholder, pos); at >= 0 {
			logger.Debug("Selected %q at %d-%d", CaptionPlaceholder, at, at+len(placeholder))
			return out, Selection{Start: at, End: at + len(placeholder)}
		}
		end := pos + len(block)
		logger.Debug("Caption placeholder not found, cursor at %d", end)
		return out, Collapsed(end)
	})
}

// ApplyHistoryRestore puts a snapshot back. Restoring is itself an undo
// step, so nothing is captured.
func (e *Engine) ApplyHistoryRestore(s Snapshot) {
	e.buf.Restore(s)
}

// indexRunes finds needle in haystack at or after from, or returns -1
func indexRunes(haystack, needle []rune, from int) int {
	if len(needle) == 0 {
		return from
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
