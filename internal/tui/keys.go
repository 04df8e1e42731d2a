package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"nbedit/internal/editor"
	"nbedit/internal/tui/components"
)

// KeyMap is every binding the terminal surface reacts to
type KeyMap struct {
	// Editor chords, routed through the dispatcher
	Palette key.Binding
	Undo    key.Binding
	Save    key.Binding

	// Native editing
	Left, Right, Up, Down                     key.Binding
	ShiftLeft, ShiftRight, ShiftUp, ShiftDown key.Binding
	Home, End, ShiftHome, ShiftEnd            key.Binding
	Backspace, Delete, Enter                  key.Binding
	SelectAll, Paste                          key.Binding

	// Result modal
	Accept, Rerun, Cancel key.Binding

	// Screen
	SwitchFocus            key.Binding
	PreviewUp, PreviewDown key.Binding
	Help, Quit             key.Binding
}

// DefaultKeyMap returns the standard bindings. Terminals cannot send
// ctrl+enter, so alt+enter and ctrl+k stand in for the palette chord.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Palette: key.NewBinding(key.WithKeys("alt+enter", "ctrl+k"), key.WithHelp("alt+enter", "AI palette (also ctrl+k)")),
		Undo:    key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save document")),

		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),
		ShiftUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "select up")),
		ShiftDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "select down")),

		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "line start")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "line end")),
		ShiftHome: key.NewBinding(key.WithKeys("shift+home"), key.WithHelp("shift+home", "select to line start")),
		ShiftEnd:  key.NewBinding(key.WithKeys("shift+end"), key.WithHelp("shift+end", "select to line end")),

		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "newline")),
		SelectAll: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "select all")),
		Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste clipboard (links wrap the selection)")),

		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept result")),
		Rerun:  key.NewBinding(key.WithKeys("x", "r"), key.WithHelp("x", "try again")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		SwitchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "edit document name")),
		PreviewUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll preview up")),
		PreviewDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll preview down")),
		Help:        key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "toggle help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (k KeyMap) helpGroups() []components.HelpGroup {
	return []components.HelpGroup{
		{Title: "Document", Bindings: []key.Binding{k.Palette, k.Undo, k.Save, k.Paste, k.SelectAll, k.SwitchFocus}},
		{Title: "Result", Bindings: []key.Binding{k.Accept, k.Rerun, k.Cancel}},
		{Title: "Screen", Bindings: []key.Binding{k.PreviewUp, k.PreviewDown, k.Help, k.Quit}},
	}
}

// chordFor translates a terminal key into an editor chord. Ctrl maps to
// Ctrl and Alt to Meta, so either satisfies the primary modifier.
func chordFor(msg tea.KeyMsg) editor.KeyChord {
	s := msg.String()
	var mods editor.Modifiers
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			mods |= editor.ModCtrl
			s = s[len("ctrl+"):]
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			mods |= editor.ModMeta
			s = s[len("alt+"):]
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			mods |= editor.ModShift
			s = s[len("shift+"):]
		default:
			return editor.KeyChord{Mods: mods, Key: s}
		}
	}
}

// paletteChord is what the palette bindings stand for
var paletteChord = editor.KeyChord{Mods: editor.ModCtrl, Key: editor.KeyEnter}
