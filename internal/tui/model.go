package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/studiowebux/authdialog/internal/auth"
	"github.com/studiowebux/authdialog/internal/form"
	"github.com/studiowebux/authdialog/internal/keybinds"
	"github.com/studiowebux/authdialog/internal/layout"
)

// Options configures the dialog
type Options struct {
	Backend            auth.Backend
	Keybinds           *keybinds.Registry // nil uses the defaults
	Breakpoints        layout.Breakpoints // zero value uses the defaults
	Cells              layout.CellMetrics // zero fields use the defaults
	ResizeDebounce     time.Duration      // 0 applies every size immediately
	RequestTimeout     time.Duration      // per auth call
	PostLoginPath      string
	DefaultDestination string
	Logger             *logrus.Entry
	Clipboard          func(string) error // nil uses the system clipboard
}

// Result is what the dialog hands back after a successful sign in or
// registration
type Result struct {
	User        *auth.User
	Destination string
}

// Model represents the TUI state
type Model struct {
	opts     Options
	form     *form.State
	keybinds *keybinds.Registry
	log      *logrus.Entry

	// Inputs
	inputs  map[form.Field]textinput.Model
	focus   int // index into form.Fields of the current view
	spinner spinner.Model

	// Background work
	requestState *RequestState
	resizeState  *ResizeState

	// Terminal and resolved layout
	width      int
	height     int
	descriptor layout.Descriptor

	// UI state
	statusMsg string // success notices
	errorMsg  string // local failures (clipboard); remote errors live in form
	result    *Result
	quitting  bool
}

// New creates a new TUI model
func New(opts Options) Model {
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	opts.Breakpoints = opts.Breakpoints.OrDefault()
	opts.Cells = opts.Cells.WithDefaults()
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = auth.RequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.WithField("component", "tui")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	inputs := make(map[form.Field]textinput.Model)
	for _, f := range form.AllFields() {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.Label()
		ti.CharLimit = InputCharLimit
		ti.Width = 32
		if f.Secret() {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[f] = ti
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	m := Model{
		opts:         opts,
		form:         form.NewState(),
		keybinds:     opts.Keybinds,
		log:          opts.Logger,
		inputs:       inputs,
		spinner:      sp,
		requestState: &RequestState{},
		resizeState:  &ResizeState{},
	}
	m.focusInputs()
	return m
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Result returns the outcome of the dialog, nil until the user has
// authenticated
func (m *Model) Result() *Result {
	return m.result
}

// Descriptor returns the layout resolved for the current terminal size
func (m *Model) Descriptor() layout.Descriptor {
	return m.descriptor
}

// Cleanup cancels any in-flight auth call
func (m *Model) Cleanup() {
	m.requestState.Cancel()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		return m, m.handleWindowSize(msg)

	case resizeMsg:
		// Superseded sizes are dropped
		if m.resizeState.IsLatest(msg.seq) {
			m.applySize(msg.width, msg.height)
		}
		return m, nil

	case authDoneMsg:
		return m, m.handleAuthDone(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("clipboard write failed")
			m.errorMsg = "Failed to copy token: " + msg.err.Error()
			m.statusMsg = ""
		} else {
			m.errorMsg = ""
			m.statusMsg = "Token copied to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		// Let the spinner stop once nothing is pending
		if !m.form.IsPending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and friends go to the focused input
	return m, m.updateFocusedInput(msg)
}

// handleWindowSize applies the first size immediately and debounces the rest
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) tea.Cmd {
	seq := m.resizeState.Next()
	if !m.resizeState.HasApplied() || m.opts.ResizeDebounce <= 0 {
		m.applySize(msg.Width, msg.Height)
		return nil
	}

	width, height := msg.Width, msg.Height
	return tea.Tick(m.opts.ResizeDebounce, func(time.Time) tea.Msg {
		return resizeMsg{seq: seq, width: width, height: height}
	})
}

// applySize resolves the layout for a terminal of cols x rows cells
func (m *Model) applySize(cols, rows int) {
	m.width, m.height = cols, rows
	w, h := m.opts.Cells.Viewport(cols, rows)
	m.descriptor = m.opts.Breakpoints.Resolve(w, h)
	m.resizeState.MarkApplied()
	m.resizeInputs()

	m.log.WithFields(logrus.Fields{
		"cols":       cols,
		"rows":       rows,
		"fullScreen": m.descriptor.FullScreen,
		"direction":  m.descriptor.Direction,
		"logoSize":   m.descriptor.LogoSize,
		"logoWidth":  m.descriptor.LogoWidth,
	}).Debug("layout resolved")
}

// resizeInputs fits the text inputs to the form column
func (m *Model) resizeInputs() {
	width := m.geometry().formCols - InputPromptWidth - 1
	if width < InputMinWidth {
		width = InputMinWidth
	}
	for f, in := range m.inputs {
		in.Width = width
		m.inputs[f] = in
	}
}

// fields returns the inputs of the visible view
func (m *Model) fields() []form.Field {
	return form.Fields(m.form.GetView())
}

// focusedField returns the input that has focus
func (m *Model) focusedField() form.Field {
	fields := m.fields()
	if m.focus < 0 || m.focus >= len(fields) {
		m.focus = 0
	}
	return fields[m.focus]
}

// focusInputs focuses the current input and blurs the others
func (m *Model) focusInputs() tea.Cmd {
	focused := m.focusedField()
	var cmd tea.Cmd
	for _, f := range form.AllFields() {
		in := m.inputs[f]
		if f == focused {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[f] = in
	}
	return cmd
}

// moveFocus cycles focus through the inputs of the visible view
func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.fields())
	m.focus = ((m.focus+delta)%n + n) % n
	return m.focusInputs()
}

// updateFocusedInput forwards msg to the focused input and copies its
// value into the form
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	f := m.focusedField()
	in, cmd := m.inputs[f].Update(msg)
	m.inputs[f] = in
	m.form.Set(f, in.Value())
	return cmd
}

// clearInputs empties every input after the form was reset
func (m *Model) clearInputs() tea.Cmd {
	for f, in := range m.inputs {
		in.SetValue("")
		m.inputs[f] = in
	}
	m.focus = 0
	return m.focusInputs()
}
