package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"nbedit/internal/assist"
	"nbedit/internal/editor"
	"nbedit/internal/preview"
	"nbedit/internal/store"
	"nbedit/internal/tui/completion"
	"nbedit/internal/tui/components"
)

// Options configure a Model
type Options struct {
	Store     *store.Store
	Processor assist.Processor // nil disables AI requests
	ModelName string

	Document string
	Content  string

	HistorySize   int
	DebounceDelay time.Duration
	ContextWindow int
	DropFilter    string

	PreviewStyle     string
	PreviewFormatter string

	// Scheduler replaces the debounce timer, for tests
	Scheduler editor.Scheduler
}

// Model is the bubbletea model of the editing surface: the editor pane, the
// highlighted preview, the document name field and the AI palette.
type Model struct {
	buf        *editor.Buffer
	history    *editor.History
	engine     *editor.Engine
	dispatcher *editor.Dispatcher
	session    *assist.Session
	processor  assist.Processor
	store      *store.Store
	bridge     *bridge
	docName    *nameRef
	names      *completion.Engine
	keys       KeyMap

	focus     components.Focus
	nameInput textinput.Model
	suggest   completion.State
	preview   viewport.Model
	palette   components.Palette
	result    *components.ResultModal
	status    *components.StatuslineComponent
	help      *components.HelpModal

	viewport struct {
		width  int
		height int
	}
	scroll      int
	highlighted bool
	modelName   string
	historyMax  int
	ready       bool
}

// Messages produced by commands
type (
	// processedMsg carries the processor outcome for one attempt
	processedMsg struct {
		attempt int
		result  string
		err     error
	}

	savedMsg struct {
		saved store.Saved
		err   error
	}

	dropDoneMsg struct {
		inserted int
		total    int
	}

	clipboardMsg struct {
		text string
		err  error
	}

	// AnimationTickMsg advances the loading spinner
	AnimationTickMsg struct{}

	statusExpiredMsg struct{}
)

// NewModel wires the editor core to the terminal collaborators
func NewModel(opts Options) (Model, error) {
	if opts.Store == nil {
		return Model{}, errors.New("tui: store is required")
	}

	b := newBridge()
	name := &nameRef{}
	name.Set(opts.Document)

	renderer := preview.New(
		preview.WithStyle(opts.PreviewStyle),
		preview.WithFormatter(opts.PreviewFormatter),
		preview.WithListener(b.previewed),
	)
	buf, err := editor.NewBuffer(opts.Content, renderer)
	if err != nil {
		return Model{}, err
	}
	buf.SetFocuser(b)

	historyMax := opts.HistorySize
	if historyMax <= 0 {
		historyMax = editor.DefaultMaxHistory
	}
	history := editor.NewHistory(buf,
		editor.WithMaxSize(historyMax),
		editor.WithDebounceDelay(opts.DebounceDelay),
		editor.WithScheduler(opts.Scheduler),
	)
	engine := editor.NewEngine(buf, history)
	session := assist.NewSession(buf, opts.ContextWindow)

	dispatcher, err := editor.NewDispatcher(buf, history, engine, editor.Collaborators{
		Saver:       b,
		Palette:     session,
		Uploader:    store.NewUploader(opts.Store, name.Get),
		Notifier:    b,
		Highlighter: b,
	})
	if err != nil {
		return Model{}, fmt.Errorf("failed to wire editor: %w", err)
	}
	if opts.DropFilter != "" {
		dispatcher.DropFilter = opts.DropFilter
	}

	// The loaded document is the first undo step
	history.Capture()

	ni := textinput.New()
	ni.Placeholder = "Document name"
	ni.CharLimit = 120
	ni.Prompt = "Name: "
	ni.SetValue(opts.Document)

	vp := viewport.New(0, 0)
	vp.SetContent(renderer.Render(opts.Content))

	keys := DefaultKeyMap()
	m := Model{
		buf:        buf,
		history:    history,
		engine:     engine,
		dispatcher: dispatcher,
		session:    session,
		processor:  opts.Processor,
		store:      opts.Store,
		bridge:     b,
		docName:    name,
		names:      completion.NewEngine(opts.Store),
		keys:       keys,
		focus:      components.FocusEditor,
		nameInput:  ni,
		preview:    vp,
		palette:    components.NewPalette(),
		result:     components.NewResultModal(),
		status:     components.NewStatuslineComponent(0),
		help:       components.NewHelpModal(keys.helpGroups()...),
		modelName:  opts.ModelName,
		historyMax: historyMax,
	}
	if opts.Document == "" {
		m.focus = components.FocusName
		m.nameInput.Focus()
	}
	return m, nil
}

// Init starts listening for collaborator events
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.bridge.wait()}
	if m.focus == components.FocusName {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Content returns the current document text
func (m Model) Content() string {
	return m.buf.Content()
}
