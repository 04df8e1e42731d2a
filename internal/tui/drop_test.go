package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbedit/internal/editor"
)

type recordingNotifier struct {
	notices []editor.Notice
}

func (r *recordingNotifier) Notify(n editor.Notice) {
	r.notices = append(r.notices, n)
}

func writeFiles(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte(name), 0644))
	}
	return dir, paths
}

func TestDroppedPaths(t *testing.T) {
	dir, paths := writeFiles(t, "a.png", "b c.jpg", "d.gif")
	a, bc, d := paths[0], paths[1], paths[2]

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain path", a, []string{a}},
		{"surrounding whitespace", "  " + a + "\n", []string{a}},
		{"single quoted", "'" + bc + "'", []string{bc}},
		{"double quoted", `"` + bc + `"`, []string{bc}},
		{"escaped spaces", strings.ReplaceAll(bc, " ", `\ `), []string{bc}},
		{"unescaped path with spaces", bc, []string{bc}},
		{"file url", "file://" + a, []string{a}},
		{"one per line", a + "\n" + d, []string{a, d}},
		{"several on one line", a + " '" + bc + "' " + d, []string{a, bc, d}},
		{"plain text", "hello world", nil},
		{"missing file", filepath.Join(dir, "nope.png"), nil},
		{"directory", dir, nil},
		{"one bad line spoils it", a + "\nnot a file", nil},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, droppedPaths(tt.text))
		})
	}
}

func TestUnquotePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/a.png", "/tmp/a.png"},
		{"'/tmp/a b.png'", "/tmp/a b.png"},
		{`"/tmp/a b.png"`, "/tmp/a b.png"},
		{`/tmp/a\ b.png`, "/tmp/a b.png"},
		{"file:///tmp/a%20b.png", "/tmp/a b.png"},
		{"'unbalanced", "'unbalanced"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unquotePath(tt.in), tt.in)
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", mediaType("/x/shot.PNG"))
	assert.Equal(t, "image/gif", mediaType("anim.gif"))
	assert.True(t, strings.HasPrefix(mediaType("photo.jpeg"), "image/"))
	assert.Equal(t, "application/octet-stream", mediaType("README"))
}

func TestReadDropped(t *testing.T) {
	dir, paths := writeFiles(t, "a.png")
	missing := filepath.Join(dir, "gone.png")

	n := &recordingNotifier{}
	files := readDropped([]string{paths[0], missing}, n)

	require.Len(t, files, 1)
	assert.Equal(t, editor.DroppedFile{Name: "a.png", MediaType: "image/png", Data: []byte("a.png")}, files[0])

	require.Len(t, n.notices, 1)
	assert.Equal(t, editor.NoticeError, n.notices[0].Level)
	assert.Contains(t, n.notices[0].Text, "gone.png")
}
