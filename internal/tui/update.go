package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"nbedit/internal/assist"
	"nbedit/internal/editor"
	"nbedit/internal/logger"
	"nbedit/internal/store"
	"nbedit/internal/tui/components"
)

const (
	processTimeout = 60 * time.Second
	uploadTimeout  = 30 * time.Second
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd

	case eventsMsg:
		cmds := m.handleEvents(msg)
		cmds = append(cmds, m.bridge.wait())
		return m, tea.Batch(cmds...)

	case processedMsg:
		if !m.session.Resolve(msg.attempt, msg.result, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			logger.Error("Error processing text: %v", msg.err)
			return m, m.notify(editor.Notice{
				Level: editor.NoticeError,
				Text:  fmt.Sprintf("Failed to process text: %v", msg.err),
			})
		}
		return m, nil

	case savedMsg:
		return m, m.notify(saveNotice(msg))

	case dropDoneMsg:
		m.ensureVisible()
		if msg.inserted == 0 {
			return m, nil
		}
		return m, m.notify(editor.Notice{
			Level: editor.NoticeInfo,
			Text:  fmt.Sprintf("Inserted %d of %d image(s)", msg.inserted, msg.total),
		})

	case clipboardMsg:
		if msg.err != nil {
			return m, m.notify(editor.Notice{
				Level: editor.NoticeError,
				Text:  fmt.Sprintf("Clipboard unavailable: %v", msg.err),
			})
		}
		if m.focus != components.FocusEditor || msg.text == "" {
			return m, nil
		}
		return m.paste(msg.text)

	case AnimationTickMsg:
		if m.session.State().Phase != assist.PhaseLoading {
			return m, nil
		}
		m.result.Tick()
		return m, m.startAnimation()

	case statusExpiredMsg:
		m.status.Expire(time.Now())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and friends for whichever input is focused
	var cmd tea.Cmd
	switch m.focus {
	case components.FocusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case components.FocusPalette:
		m.palette, cmd = m.palette.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.viewport.width = width
	m.viewport.height = height
	m.ready = true

	m.status.SetWidth(width)
	m.result.SetSize(width, height)
	m.nameInput.Width = max(10, width-12)

	_, _, previewWidth, bodyHeight := m.layout()
	m.preview.Width = max(1, previewWidth-4)
	m.preview.Height = max(1, bodyHeight-2)
	m.ensureVisible()
}

// layout splits the screen: name row, editor and preview side by side,
// statusline, footer.
func (m Model) layout() (editorHeight, editorWidth, previewWidth, bodyHeight int) {
	bodyHeight = max(3, m.viewport.height-4)
	editorWidth = m.viewport.width / 2
	previewWidth = m.viewport.width - editorWidth
	editorHeight = max(1, bodyHeight-2)
	return editorHeight, editorWidth, previewWidth, bodyHeight
}

// ensureVisible scrolls the editor pane to the cursor line
func (m *Model) ensureVisible() {
	line, _ := m.buf.LineCol()
	height, _, _, _ := m.layout()
	m.scroll = components.ScrollFor(line, m.scroll, height)
}

func (m *Model) handleEvents(events eventsMsg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range events {
		switch e := e.(type) {
		case previewEvent:
			m.preview.SetContent(e.content)
		case highlightEvent:
			m.highlighted = e.on
		case focusEvent:
			if m.focus == components.FocusName {
				m.leaveName()
			}
		case noticeEvent:
			cmds = append(cmds, m.notify(e.notice))
		case saveEvent:
			cmds = append(cmds, m.requestSave(e.content))
		}
	}
	return cmds
}

// requestSave validates the document name the way the browser front-end
// did before handing the save to the store.
func (m *Model) requestSave(content string) tea.Cmd {
	name := m.docName.Get()
	if name == "" {
		m.focus = components.FocusName
		return tea.Batch(
			m.nameInput.Focus(),
			m.notify(editor.Notice{Level: editor.NoticeWarning, Text: "Please enter a document name before saving"}),
		)
	}
	logger.Info("Saving document %q (%d chars)", name, len(content))

	st := m.store
	return func() tea.Msg {
		saved, err := st.SaveDocument(name, content)
		return savedMsg{saved: saved, err: err}
	}
}

func saveNotice(msg savedMsg) editor.Notice {
	switch {
	case errors.Is(msg.err, store.ErrEmptyDocument):
		return editor.Notice{Level: editor.NoticeWarning, Text: "Nothing to save, the document is empty"}
	case errors.Is(msg.err, store.ErrInvalidName):
		return editor.Notice{Level: editor.NoticeWarning, Text: "Document name contains only invalid characters"}
	case msg.err != nil:
		logger.Error("Error saving document: %v", msg.err)
		return editor.Notice{Level: editor.NoticeError, Text: fmt.Sprintf("Save failed: %v", msg.err)}
	}
	return editor.Notice{Level: editor.NoticeInfo, Text: "Saved to " + msg.saved.Path}
}

// notify shows n and schedules its expiry
func (m *Model) notify(n editor.Notice) tea.Cmd {
	m.status.Notify(n, time.Now())
	d := m.status.Message().Duration
	return tea.Tick(d+10*time.Millisecond, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.history.Cancel()
		return m, tea.Quit
	}
	if m.help.IsVisible() {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
			m.help.Hide()
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.Toggle()
		return m, nil
	}

	switch m.focus {
	case components.FocusPalette:
		return m.updatePalette(msg)
	case components.FocusResult:
		return m.updateResult(msg)
	case components.FocusName:
		return m.updateName(msg)
	default:
		return m.updateEditor(msg)
	}
}

func (m Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.suggest.Active {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.suggest.SelectPrev()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.suggest.SelectNext()
			return m, nil
		case key.Matches(msg, m.keys.SwitchFocus, m.keys.Enter):
			if item := m.suggest.SelectedItem(); item != nil {
				m.nameInput.SetValue(item.Text)
				m.nameInput.CursorEnd()
				m.docName.Set(item.Text)
			}
			m.suggest.Reset()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.suggest.Reset()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.SwitchFocus, m.keys.Cancel, m.keys.Enter):
		m.leaveName()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		// Saving from the name field is the common first save
		m.leaveName()
		cmd := m.dispatch(chordFor(msg))
		return m, cmd
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	value := m.nameInput.Value()
	m.docName.Set(value)
	m.suggest.Show(value, m.names.Complete(value))
	return m, cmd
}

func (m *Model) leaveName() {
	m.nameInput.Blur()
	m.suggest.Reset()
	m.focus = components.FocusEditor
}

func (m Model) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.session.ClosePalette()
		cmd := m.syncSession()
		return m, cmd
	case msg.Type == tea.KeyEnter:
		req, ok := m.session.Submit(m.palette.Value())
		if !ok {
			return m, nil
		}
		logger.Info("Processing %s request, attempt %d", req.Mode(), req.Attempt)
		cmd := m.syncSession()
		return m, tea.Batch(cmd, m.process(req), m.startAnimation())
	}

	var cmd tea.Cmd
	m.palette, cmd = m.palette.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.State().Phase != assist.PhaseResult {
		// Buttons are disabled while loading
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Accept):
		if _, ok := m.session.Accept(m.engine); !ok {
			return m, nil
		}
		m.ensureVisible()
		cmd := m.syncSession()
		return m, cmd
	case key.Matches(msg, m.keys.Rerun):
		req, ok := m.session.Rerun()
		if !ok {
			return m, nil
		}
		logger.Info("Re-running %s request, attempt %d", req.Mode(), req.Attempt)
		return m, tea.Batch(m.process(req), m.startAnimation())
	case key.Matches(msg, m.keys.Cancel):
		m.session.Cancel()
		cmd := m.syncSession()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m.paste(string(msg.Runes))
	}

	switch {
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus = components.FocusName
		cmd := m.nameInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Paste):
		return m, readClipboard
	case key.Matches(msg, m.keys.Palette):
		cmd := m.dispatch(paletteChord)
		return m, cmd
	case key.Matches(msg, m.keys.PreviewUp):
		m.preview.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.PreviewDown):
		m.preview.HalfPageDown()
		return m, nil
	}

	if chord := chordFor(msg); chord.Mods&^editor.ModShift != 0 {
		if cmd, ok := m.tryDispatch(chord); ok {
			return m, cmd
		}
	}

	m.nativeEdit(msg)
	m.ensureVisible()
	return m, nil
}

// nativeEdit does what a text widget does on its own and reports the
// change to the dispatcher.
func (m *Model) nativeEdit(msg tea.KeyMsg) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Left):
		m.buf.MoveCursor(-1, false)
	case key.Matches(msg, k.Right):
		m.buf.MoveCursor(1, false)
	case key.Matches(msg, k.Up):
		m.buf.MoveLine(-1, false)
	case key.Matches(msg, k.Down):
		m.buf.MoveLine(1, false)
	case key.Matches(msg, k.ShiftLeft):
		m.buf.MoveCursor(-1, true)
	case key.Matches(msg, k.ShiftRight):
		m.buf.MoveCursor(1, true)
	case key.Matches(msg, k.ShiftUp):
		m.buf.MoveLine(-1, true)
	case key.Matches(msg, k.ShiftDown):
		m.buf.MoveLine(1, true)
	case key.Matches(msg, k.Home):
		m.buf.MoveToLineEdge(false, false)
	case key.Matches(msg, k.End):
		m.buf.MoveToLineEdge(true, false)
	case key.Matches(msg, k.ShiftHome):
		m.buf.MoveToLineEdge(false, true)
	case key.Matches(msg, k.ShiftEnd):
		m.buf.MoveToLineEdge(true, true)
	case key.Matches(msg, k.SelectAll):
		m.buf.SelectAll()
	case key.Matches(msg, k.Enter):
		m.buf.InsertText("\n")
		m.dispatcher.OnContentChanged(editor.EditInsertLineBreak)
	case key.Matches(msg, k.Backspace):
		if m.buf.DeleteBackward() {
			m.dispatcher.OnContentChanged(editor.EditDeleteBackward)
		}
	case key.Matches(msg, k.Delete):
		if m.buf.DeleteForward() {
			m.dispatcher.OnContentChanged(editor.EditDeleteForward)
		}
	case msg.Type == tea.KeySpace:
		m.buf.InsertText(" ")
		m.dispatcher.OnContentChanged(editor.EditInsertText)
	case msg.Type == tea.KeyRunes && !msg.Alt:
		m.buf.InsertText(string(msg.Runes))
		m.dispatcher.OnContentChanged(editor.EditInsertText)
	}
}

// paste handles both bracketed paste and the clipboard binding. Pasted
// paths of existing files count as a drop; a pasted URL over a selection
// becomes a link; anything else is inserted as text.
func (m Model) paste(text string) (tea.Model, tea.Cmd) {
	if paths := droppedPaths(text); len(paths) > 0 {
		m.dispatcher.OnDragEnter()
		return m, m.drop(paths)
	}
	if !m.dispatcher.OnPaste(text, m.buf.Selection()) {
		m.buf.InsertText(text)
		m.dispatcher.OnContentChanged(editor.EditInsertFromPaste)
	}
	m.ensureVisible()
	return m, nil
}

func (m *Model) dispatch(chord editor.KeyChord) tea.Cmd {
	cmd, _ := m.tryDispatch(chord)
	return cmd
}

// tryDispatch offers chord to the dispatcher and picks up any palette it
// opened.
func (m *Model) tryDispatch(chord editor.KeyChord) (tea.Cmd, bool) {
	if !m.dispatcher.OnKeyDown(chord) {
		return nil, false
	}
	m.ensureVisible()
	return m.syncSession(), true
}

// syncSession brings focus and the palette in line with the session phase
func (m *Model) syncSession() tea.Cmd {
	state := m.session.State()
	switch state.Phase {
	case assist.PhasePalette:
		m.focus = components.FocusPalette
		if !m.palette.Active() {
			return m.palette.Show(state.Selection.Text, state.Placeholder())
		}
	case assist.PhaseLoading, assist.PhaseResult:
		m.palette.Hide()
		m.focus = components.FocusResult
	default:
		m.palette.Hide()
		if m.focus == components.FocusPalette || m.focus == components.FocusResult {
			m.focus = components.FocusEditor
		}
	}
	return nil
}

func (m Model) process(req assist.Request) tea.Cmd {
	p := m.processor
	return func() tea.Msg {
		if p == nil {
			return processedMsg{attempt: req.Attempt, err: assist.ErrNoCredentials}
		}
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		result, err := p.Process(ctx, req)
		return processedMsg{attempt: req.Attempt, result: result, err: err}
	}
}

func (m Model) drop(paths []string) tea.Cmd {
	d, b := m.dispatcher, m.bridge
	return func() tea.Msg {
		files := readDropped(paths, b)
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()
		return dropDoneMsg{inserted: d.OnDrop(ctx, files), total: len(paths)}
	}
}

func readClipboard() tea.Msg {
	text, err := clipboard.ReadAll()
	return clipboardMsg{text: text, err: err}
}

// startAnimation returns a command to tick the loading spinner
func (m Model) startAnimation() tea.Cmd {
	return tea.Tick(components.SpinnerInterval, func(time.Time) tea.Msg {
		return AnimationTickMsg{}
	})
}
