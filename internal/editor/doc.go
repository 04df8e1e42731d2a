// Package editor is the headless editing surface: a text buffer with a
// selection, a debounced whole-buffer undo history, the structured edits
// (AI result, link paste, dropped block, history restore) and the
// dispatcher that routes surface events into them.
//
// The package renders nothing and talks to no network. Hosts plug in the
// outside world through the small capability interfaces in
// capabilities.go.
package editor
