package tui

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"nbedit/internal/editor"
	"nbedit/internal/logger"
)

// droppedPaths reports the files named by pasted text. Terminals turn a
// file dragged onto the window into a paste of its path, quoted or
// backslash-escaped when it has spaces. Every non-blank line must name an
// existing regular file, otherwise the paste is ordinary text and nil is
// returned.
func droppedPaths(text string) []string {
	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, p := range splitPastedPaths(line) {
			p = unquotePath(p)
			info, err := os.Stat(p)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			paths = append(paths, p)
		}
	}
	return paths
}

// splitPastedPaths splits several paths dropped at once on unescaped spaces
// outside quotes. A single path with spaces that exists as a whole wins.
func splitPastedPaths(line string) []string {
	if _, err := os.Stat(unquotePath(line)); err == nil {
		return []string{line}
	}

	var (
		out   []string
		cur   strings.Builder
		quote rune
		esc   bool
	)
	for _, r := range line {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\' && quote == 0:
			esc = true
		case r == '\'' || r == '"':
			if quote == 0 {
				quote = r
			} else if quote == r {
				quote = 0
			}
			cur.WriteRune(r)
		case r == ' ' && quote == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func unquotePath(p string) string {
	if len(p) >= 2 && (p[0] == '\'' || p[0] == '"') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	return strings.ReplaceAll(p, `\ `, " ")
}

// mediaType guesses a file's type from its extension
func mediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// readDropped loads the dropped files. Unreadable files are reported and
// left out.
func readDropped(paths []string, n editor.Notifier) []editor.DroppedFile {
	files := make([]editor.DroppedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Error("Failed to read dropped file %s: %v", p, err)
			n.Notify(editor.Notice{
				Level: editor.NoticeError,
				Text:  fmt.Sprintf("Failed to read %s: %v", filepath.Base(p), err),
			})
			continue
		}
		files = append(files, editor.DroppedFile{
			Name:      filepath.Base(p),
			MediaType: mediaType(p),
			Data:      data,
		})
	}
	return files
}
