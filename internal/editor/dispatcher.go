package editor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"nbedit/internal/logger"
)

// DefaultDropFilter accepts any image type
const DefaultDropFilter = "image/"

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

// Collaborators are the outside services the dispatcher calls. Saver,
// Palette and Uploader are required.
type Collaborators struct {
	Saver       SaveRequester
	Palette     PaletteOpener
	Uploader    Uploader
	Notifier    Notifier
	Highlighter Highlighter
}

// Dispatcher turns raw surface events into history, mutation and
// collaborator calls.
type Dispatcher struct {
	buf     *Buffer
	history *History
	engine  *Engine
	collab  Collaborators

	// DropFilter is the media type prefix accepted on drop; empty accepts
	// everything.
	DropFilter string

	mu          sync.Mutex
	dragCounter int
	highlighted bool
}

// NewDispatcher wires a dispatcher. Missing required collaborators are a
// setup error.
func NewDispatcher(buf *Buffer, history *History, engine *Engine, collab Collaborators) (*Dispatcher, error) {
	if buf == nil || history == nil || engine == nil {
		return nil, fmt.Errorf("%w: buffer, history and engine", ErrMissingCollaborator)
	}
	switch {
	case collab.Saver == nil:
		return nil, fmt.Errorf("%w: save requester", ErrMissingCollaborator)
	case collab.Palette == nil:
		return nil, fmt.Errorf("%w: palette opener", ErrMissingCollaborator)
	case collab.Uploader == nil:
		return nil, fmt.Errorf("%w: uploader", ErrMissingCollaborator)
	}
	if collab.Notifier == nil {
		collab.Notifier = nopNotifier{}
	}
	if collab.Highlighter == nil {
		collab.Highlighter = nopHighlighter{}
	}
	return &Dispatcher{
		buf:        buf,
		history:    history,
		engine:     engine,
		collab:     collab,
		DropFilter: DefaultDropFilter,
	}, nil
}

// OnContentChanged handles an input event. The preview is always
// refreshed; real edits also schedule a history capture.
func (d *Dispatcher) OnContentChanged(kind EditKind) {
	d.buf.renderer.RenderPreview(d.buf.Content())
	if kind.Recordable() {
		d.history.CaptureDebounced(0)
	}
}

// OnKeyDown handles the editor chords. It returns true when the key was
// consumed and the surface must not act on it.
func (d *Dispatcher) OnKeyDown(chord KeyChord) bool {
	if !chord.Mods.Primary() {
		return false
	}
	switch {
	case chord.Key == KeyEnter:
		d.collab.Palette.OpenPalette(d.buf.Selection())
		return true
	case strings.EqualFold(chord.Key, "z") && !chord.Mods.Has(ModShift):
		d.history.Undo()
		return true
	case strings.EqualFold(chord.Key, "s"):
		d.collab.Saver.RequestSave(d.buf.Content())
		return true
	}
	return false
}

// OnPaste turns a URL pasted over a selection into a markdown link. It
// returns false, leaving the paste to the surface, for anything else.
func (d *Dispatcher) OnPaste(text string, sel SelectionInfo) bool {
	if !urlPattern.MatchString(strings.TrimSpace(text)) {
		return false
	}
	if sel.Start == sel.End {
		return false
	}
	return d.engine.ApplyLinkWrap(sel.Text, text, sel.Start, sel.End)
}

// OnDragEnter counts a drag entering the surface or one of its children
func (d *Dispatcher) OnDragEnter() {
	d.mu.Lock()
	d.dragCounter++
	changed := !d.highlighted
	d.highlighted = true
	d.mu.Unlock()

	if changed {
		d.collab.Highlighter.SetHighlight(true)
	}
}

// OnDragLeave counts a drag leaving. The highlight goes away only when
// every enter has been matched.
func (d *Dispatcher) OnDragLeave() {
	d.mu.Lock()
	if d.dragCounter > 0 {
		d.dragCounter--
	}
	off := d.dragCounter == 0 && d.highlighted
	if d.dragCounter == 0 {
		d.highlighted = false
	}
	d.mu.Unlock()

	if off {
		d.collab.Highlighter.SetHighlight(false)
	}
}

// Highlighted reports whether the drop highlight is showing
func (d *Dispatcher) Highlighted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.highlighted
}

// OnDrop uploads matching files one at a time and inserts each result at the
// cursor. Failures are reported and skipped. It returns how many blocks
// were inserted.
func (d *Dispatcher) OnDrop(ctx context.Context, files []DroppedFile) int {
	d.resetDrag()

	inserted := 0
	for _, file := range files {
		if d.DropFilter != "" && !strings.HasPrefix(file.MediaType, d.DropFilter) {
			logger.Debug("Skipping dropped file %s (%s)", file.Name, file.MediaType)
			continue
		}
		if err := ctx.Err(); err != nil {
			return inserted
		}

		result, err := d.collab.Uploader.Upload(ctx, file)
		if err == nil && strings.TrimSpace(result.Markup) == "" {
			err = ErrEmptyMarkup
		}
		if err != nil {
			logger.Error("Upload error for %s: %v", file.Name, err)
			d.collab.Notifier.Notify(Notice{
				Level: NoticeError,
				Text:  fmt.Sprintf("Failed to upload image: %v", err),
			})
			continue
		}

		d.engine.ApplyBlockInsert(result.Markup)
		logger.Info("Image uploaded: %s", result.Filename)
		inserted++
	}
	return inserted
}

func (d *Dispatcher) resetDrag() {
	d.mu.Lock()
	d.dragCounter = 0
	d.highlighted = false
	d.mu.Unlock()

	d.collab.Highlighter.SetHighlight(false)
}
