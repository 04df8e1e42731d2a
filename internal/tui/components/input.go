package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nbedit/internal/editor"
)

var (
	cursorStyle      = lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0"))
	selectionStyle   = lipgloss.NewStyle().Background(lipgloss.Color("240"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// EditorPane is one frame of the editing surface
type EditorPane struct {
	Text        string
	Selection   editor.Selection
	Head        int
	Scroll      int
	Width       int
	Height      int
	Focused     bool
	Highlighted bool
	Placeholder string
}

// ScrollFor returns the first visible line so that line stays inside a
// window of height lines starting near scroll.
func ScrollFor(line, scroll, height int) int {
	if height <= 0 {
		return line
	}
	if line < scroll {
		return line
	}
	if line >= scroll+height {
		return line - height + 1
	}
	return scroll
}

// Render draws the pane with its border. The border turns orange while a
// drop is hovering.
func (p EditorPane) Render() string {
	border := lipgloss.Color("240")
	switch {
	case p.Highlighted:
		border = lipgloss.Color("214")
	case p.Focused:
		border = lipgloss.Color("39")
	}
	inner := max(1, p.Width-4)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(p.Width-2).
		Padding(0, 1).
		Render(p.body(inner))
}

func (p EditorPane) body(width int) string {
	if p.Text == "" && p.Placeholder != "" {
		hint := p.Placeholder
		if p.Focused {
			hint = runewidth.Truncate(hint, width-1, "")
		} else {
			hint = runewidth.Truncate(hint, width, "")
		}
		first := placeholderStyle.Render(hint)
		if p.Focused {
			first = cursorStyle.Render(" ") + first
		}
		return first + strings.Repeat("\n", max(0, p.Height-1))
	}

	text := []rune(p.Text)
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}

	// Shift every line left, in cells, when the cursor would leave the pane
	hscroll := 0
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] <= p.Head {
			col := 0
			for _, r := range text[starts[i]:min(p.Head, len(text))] {
				col += cellWidth(r)
			}
			caret := 1
			if p.Head < len(text) && text[p.Head] != '\n' {
				caret = max(1, cellWidth(text[p.Head]))
			}
			if col+caret > width {
				hscroll = col + caret - width
			}
			break
		}
	}

	lines := make([]string, 0, p.Height)
	for row := p.Scroll; row < p.Scroll+p.Height; row++ {
		if row >= len(starts) {
			lines = append(lines, "")
			continue
		}
		end := len(text)
		if row+1 < len(starts) {
			end = starts[row+1] - 1
		}
		lines = append(lines, p.renderLine(text, starts[row], end, hscroll, width))
	}
	return strings.Join(lines, "\n")
}

// cellWidth is the number of terminal cells r occupies. Tabs are drawn as
// a single space.
func cellWidth(r rune) int {
	if r == '\t' {
		return 1
	}
	return runewidth.RuneWidth(r)
}

type spanKind int

const (
	spanPlain spanKind = iota
	spanSelected
	spanCursor
)

// renderLine draws runes [start, end) that fall inside the cell window
// [hscroll, hscroll+width), grouping runs of the same style so each run is
// styled once. A wide rune cut by the left edge leaves blank cells.
func (p EditorPane) renderLine(text []rune, start, end, hscroll, width int) string {
	var b strings.Builder
	var run []rune
	kind := spanPlain

	flush := func() {
		if len(run) == 0 {
			return
		}
		switch kind {
		case spanSelected:
			b.WriteString(selectionStyle.Render(string(run)))
		case spanCursor:
			b.WriteString(cursorStyle.Render(string(run)))
		default:
			b.WriteString(string(run))
		}
		run = run[:0]
	}

	col, used := 0, 0
	complete := true
	for pos := start; pos < end; pos++ {
		r := text[pos]
		w := cellWidth(r)
		if r == '\t' {
			r = ' '
		}
		if col+w <= hscroll {
			col += w
			continue
		}
		if col < hscroll {
			b.WriteString(strings.Repeat(" ", col+w-hscroll))
			used += col + w - hscroll
			col += w
			continue
		}
		if used+w > width {
			complete = false
			break
		}
		k := p.kindAt(pos)
		if k != kind {
			flush()
			kind = k
		}
		run = append(run, r)
		col += w
		used += w
	}
	flush()

	if complete && p.Focused && p.Head == end && used < width {
		b.WriteString(cursorStyle.Render(" "))
	}
	return b.String()
}

func (p EditorPane) kindAt(pos int) spanKind {
	if p.Focused && pos == p.Head {
		return spanCursor
	}
	if pos >= p.Selection.Start && pos < p.Selection.End {
		return spanSelected
	}
	return spanPlain
}
