package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"nbedit/internal/editor"
)

func TestChordFor(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want editor.KeyChord
	}{
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlZ}, editor.KeyChord{Mods: editor.ModCtrl, Key: "z"}},
		{"alt enter", tea.KeyMsg{Type: tea.KeyEnter, Alt: true}, editor.KeyChord{Mods: editor.ModMeta, Key: editor.KeyEnter}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s"), Alt: true}, editor.KeyChord{Mods: editor.ModMeta, Key: "s"}},
		{"shift arrow", tea.KeyMsg{Type: tea.KeyShiftLeft}, editor.KeyChord{Mods: editor.ModShift, Key: "left"}},
		{"ctrl shift arrow", tea.KeyMsg{Type: tea.KeyCtrlShiftUp}, editor.KeyChord{Mods: editor.ModCtrl | editor.ModShift, Key: "up"}},
		{"plain rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, editor.KeyChord{Key: "a"}},
		{"plus sign", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")}, editor.KeyChord{Key: "+"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chordFor(tt.msg))
		})
	}
}

func TestPaletteBindingsMapToPrimaryEnter(t *testing.T) {
	keys := DefaultKeyMap()
	for _, k := range keys.Palette.Keys() {
		assert.NotEmpty(t, k)
	}
	assert.True(t, paletteChord.Mods.Primary())
	assert.Equal(t, editor.KeyEnter, paletteChord.Key)

	alt := tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	assert.True(t, key.Matches(alt, keys.Palette))
	assert.True(t, chordFor(alt).Mods.Primary())
}

func TestHelpGroupsCoverEditorChords(t *testing.T) {
	var descs []string
	for _, g := range DefaultKeyMap().helpGroups() {
		for _, b := range g.Bindings {
			descs = append(descs, b.Help().Desc)
		}
	}
	assert.Contains(t, descs, "undo")
	assert.Contains(t, descs, "save document")
	assert.Contains(t, descs, "accept result")
}
