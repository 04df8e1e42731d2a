package editor

import "strings"

// Modifiers is a set of held modifier keys
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all of m2 are held
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Primary reports whether the platform's command modifier is held. Either
// Ctrl or Meta counts.
func (m Modifiers) Primary() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// Key names used by the dispatcher
const (
	KeyEnter = "enter"
)

// KeyChord is one key press with its modifiers
type KeyChord struct {
	Mods Modifiers
	Key  string
}

func (c KeyChord) String() string {
	var parts []string
	if c.Mods.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if c.Mods.Has(ModMeta) {
		parts = append(parts, "meta")
	}
	if c.Mods.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if c.Mods.Has(ModShift) {
		parts = append(parts, "shift")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// EditKind says what kind of input event changed the content
type EditKind int

const (
	// EditUnspecified is a change with no input type, such as a script
	// setting the value. It is not recorded in history.
	EditUnspecified EditKind = iota
	EditInsertText
	EditInsertLineBreak
	EditInsertFromPaste
	EditInsertFromDrop
	EditDeleteBackward
	EditDeleteForward
	// EditComposition is an IME composition still in progress
	EditComposition
)

// Recordable reports whether the edit should schedule a history capture
func (k EditKind) Recordable() bool {
	return k != EditUnspecified && k != EditComposition
}
