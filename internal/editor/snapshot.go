package editor

import (
	"time"
	"unicode/utf8"
)

// Selection is a range of rune offsets into the buffer content.
type Selection struct {
	Start int
	End   int
}

// Collapsed returns an empty selection at pos
func Collapsed(pos int) Selection {
	return Selection{Start: pos, End: pos}
}

// Empty reports whether the selection is a bare cursor
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Clamp returns the selection normalized for a buffer of n runes:
// 0 <= Start <= End <= n.
func (s Selection) Clamp(n int) Selection {
	s.Start = clamp(s.Start, 0, n)
	s.End = clamp(s.End, 0, n)
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// SelectionInfo is the selection as handed to prompts and captions. Text is
// whitespace trimmed, Start and End are the raw offsets.
type SelectionInfo struct {
	Selection
	Text string
}

// Snapshot is one history entry: the whole buffer plus its selection.
// It cannot be modified once built.
type Snapshot struct {
	content   string
	selection Selection
	takenAt   time.Time
}

// NewSnapshot builds a snapshot, clamping the selection to the content
func NewSnapshot(content string, start, end int) Snapshot {
	n := utf8.RuneCountInString(content)
	return Snapshot{
		content:   content,
		selection: Selection{Start: start, End: end}.Clamp(n),
		takenAt:   time.Now(),
	}
}

func (s Snapshot) Content() string {
	return s.content
}

func (s Snapshot) Selection() Selection {
	return s.selection
}

// Timestamp is the capture time. It is diagnostic only, history order is
// stack order.
func (s Snapshot) Timestamp() time.Time {
	return s.takenAt
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
