package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

var (
	diffDel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Strikethrough(true)
	diffAdd = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint   = lipgloss.NewStyle().Faint(true)
)

// RenderInlineDiff shows how before turns into after with deletions struck
// through and insertions underlined. Generated text has nothing before it
// and is shown as is.
func RenderInlineDiff(before, after string) string {
	if before == "" {
		return after
	}
	if before == after {
		return faint.Render(after) + "\n" + faint.Render("(no changes)")
	}

	d := dmp.New()
	diffs := d.DiffMain(before, after, false)
	d.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffDelete:
			sb.WriteString(styleLines(diffDel, df.Text))
		case dmp.DiffInsert:
			sb.WriteString(styleLines(diffAdd, df.Text))
		case dmp.DiffEqual:
			sb.WriteString(df.Text)
		}
	}
	return sb.String()
}

// DiffStats counts the runes removed and added between before and after
func DiffStats(before, after string) (removed, added int) {
	d := dmp.New()
	for _, df := range d.DiffMain(before, after, false) {
		switch df.Type {
		case dmp.DiffDelete:
			removed += len([]rune(df.Text))
		case dmp.DiffInsert:
			added += len([]rune(df.Text))
		}
	}
	return removed, added
}

// styleLines styles each line separately so newlines survive lipgloss
func styleLines(style lipgloss.Style, s string) string {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		if p != "" {
			parts[i] = style.Render(p)
		}
	}
	return strings.Join(parts, "\n")
}
