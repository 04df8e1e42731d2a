package editor

import (
	"context"
	"errors"
)

var (
	// ErrMissingRenderer is returned when a Buffer is built without a renderer
	ErrMissingRenderer = errors.New("editor: renderer is required")
	// ErrMissingCollaborator is returned when a Dispatcher is built without
	// one of its required capabilities
	ErrMissingCollaborator = errors.New("editor: required collaborator missing")
	// ErrEmptyMarkup is reported when an upload succeeds without markup
	ErrEmptyMarkup = errors.New("editor: upload returned no markup")
)

// Renderer is told about every content change. Implementations must not
// fail loudly; a broken render shows a fallback instead.
type Renderer interface {
	RenderPreview(content string)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(content string)

func (f RendererFunc) RenderPreview(content string) { f(content) }

// SaveRequester is asked to persist the document on the save chord
type SaveRequester interface {
	RequestSave(content string)
}

// PaletteOpener opens the AI command palette for the given selection
type PaletteOpener interface {
	OpenPalette(sel SelectionInfo)
}

// DroppedFile is one file from a drop gesture
type DroppedFile struct {
	Name      string
	MediaType string
	Data      []byte
}

// UploadResult is what the upload collaborator hands back
type UploadResult struct {
	Markup   string
	Filename string
}

// Uploader stores a dropped file and returns block markup for it
type Uploader interface {
	Upload(ctx context.Context, file DroppedFile) (UploadResult, error)
}

// NoticeLevel grades a user-visible notification
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// Notice is a user-visible message about a collaborator outcome
type Notice struct {
	Level NoticeLevel
	Text  string
}

// Notifier surfaces notices to the user
type Notifier interface {
	Notify(n Notice)
}

// Highlighter toggles the drop-target highlight
type Highlighter interface {
	SetHighlight(on bool)
}

// Focuser gives keyboard focus back to the editing surface
type Focuser interface {
	Focus()
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type nopHighlighter struct{}

func (nopHighlighter) SetHighlight(bool) {}

type nopFocuser struct{}

func (nopFocuser) Focus() {}
