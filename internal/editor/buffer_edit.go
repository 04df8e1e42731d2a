package editor

// Native edits. These stand in for what a text widget does on its own when
// the user types or moves around; they never render or capture history.
// Hosts report them through Dispatcher.OnContentChanged.

// SetSelection moves the selection without touching the content
func (b *Buffer) SetSelection(start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setSelectionLocked(Selection{Start: start, End: end}, end)
}

// SelectAll selects the whole buffer
func (b *Buffer) SelectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setSelectionLocked(Selection{Start: 0, End: len(b.text)}, len(b.text))
}

// InsertText replaces the selection with s and leaves the cursor after it
func (b *Buffer) InsertText(s string) {
	if s == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	insert := []rune(s)
	b.text = splice(b.text, b.sel.Start, b.sel.End, insert)
	pos := b.sel.Start + len(insert)
	b.setSelectionLocked(Collapsed(pos), pos)
}

// DeleteBackward removes the selection, or the rune before the cursor.
// It reports whether anything changed.
func (b *Buffer) DeleteBackward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.sel.Empty() {
		b.deleteSelectionLocked()
		return true
	}
	if b.sel.Start == 0 {
		return false
	}
	pos := b.sel.Start - 1
	b.text = splice(b.text, pos, b.sel.Start, nil)
	b.setSelectionLocked(Collapsed(pos), pos)
	return true
}

// DeleteForward removes the selection, or the rune after the cursor
func (b *Buffer) DeleteForward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.sel.Empty() {
		b.deleteSelectionLocked()
		return true
	}
	if b.sel.End >= len(b.text) {
		return false
	}
	b.text = splice(b.text, b.sel.Start, b.sel.Start+1, nil)
	return true
}

// MoveCursor moves the cursor by delta runes. With extend the selection
// grows from its anchor; without it a non-empty selection collapses toward
// the direction of travel first.
func (b *Buffer) MoveCursor(delta int, extend bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !extend && !b.sel.Empty() {
		pos := b.sel.Start
		if delta > 0 {
			pos = b.sel.End
		}
		b.setSelectionLocked(Collapsed(pos), pos)
		return
	}
	b.moveHeadLocked(b.head+delta, extend)
}

// MoveLine moves the cursor delta lines up or down, keeping the column
// where the target line is long enough.
func (b *Buffer) MoveLine(delta int, extend bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	starts := lineStarts(b.text)
	line, col := lineCol(starts, b.head)
	target := clamp(line+delta, 0, len(starts)-1)
	if target == line {
		if delta < 0 {
			b.moveHeadLocked(0, extend)
		} else if delta > 0 {
			b.moveHeadLocked(len(b.text), extend)
		}
		return
	}
	b.moveHeadLocked(starts[target]+clamp(col, 0, lineLen(b.text, starts, target)), extend)
}

// MoveToLineEdge jumps to the start or end of the current line
func (b *Buffer) MoveToLineEdge(end bool, extend bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	starts := lineStarts(b.text)
	line, _ := lineCol(starts, b.head)
	pos := starts[line]
	if end {
		pos += lineLen(b.text, starts, line)
	}
	b.moveHeadLocked(pos, extend)
}

// LineCol returns the zero-based line and column of the cursor head
func (b *Buffer) LineCol() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lineCol(lineStarts(b.text), b.head)
}

// Head returns the active end of the selection, where the caret is drawn
func (b *Buffer) Head() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.head
}

func (b *Buffer) deleteSelectionLocked() {
	pos := b.sel.Start
	b.text = splice(b.text, b.sel.Start, b.sel.End, nil)
	b.setSelectionLocked(Collapsed(pos), pos)
}

func (b *Buffer) moveHeadLocked(pos int, extend bool) {
	pos = clamp(pos, 0, len(b.text))
	if !extend {
		b.setSelectionLocked(Collapsed(pos), pos)
		return
	}
	anchor := b.sel.Start
	if b.head == b.sel.Start {
		anchor = b.sel.End
	}
	b.setSelectionLocked(Selection{Start: anchor, End: pos}, pos)
}

func (b *Buffer) setSelectionLocked(sel Selection, head int) {
	b.sel = sel.Clamp(len(b.text))
	b.head = clamp(head, b.sel.Start, b.sel.End)
}

func lineStarts(text []rune) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineCol(starts []int, pos int) (int, int) {
	line := 0
	for i, s := range starts {
		if s > pos {
			break
		}
		line = i
	}
	return line, pos - starts[line]
}

func lineLen(text []rune, starts []int, line int) int {
	end := len(text)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	return end - starts[line]
}
