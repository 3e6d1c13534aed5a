package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/authdialog/internal/form"
	"github.com/studiowebux/authdialog/internal/keybinds"
)

// handleKeyPress routes key presses through the keybind registry; keys
// without a binding are typed into the focused input
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextForm, msg.String())
	if ok {
		return m.handleAction(action)
	}

	// Inputs are locked while a submission is in flight and once signed in
	if m.result != nil || m.form.IsPending() {
		return nil
	}
	return m.updateFocusedInput(msg)
}

// handleAction performs a bound action
func (m *Model) handleAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuitForce, keybinds.ActionQuit:
		m.Cleanup()
		m.quitting = true
		return tea.Quit

	case keybinds.ActionSubmit:
		if m.result != nil {
			m.quitting = true
			return tea.Quit
		}
		return m.submit()

	case keybinds.ActionNextField:
		if m.editable() {
			return m.moveFocus(1)
		}

	case keybinds.ActionPrevField:
		if m.editable() {
			return m.moveFocus(-1)
		}

	case keybinds.ActionShowLogin:
		return m.showView(form.ViewLogin)

	case keybinds.ActionShowRegister:
		return m.showView(form.ViewRegister)

	case keybinds.ActionShowRecover:
		return m.showView(form.ViewRecover)

	case keybinds.ActionCopyToken:
		return m.copyToken()
	}

	return nil
}

// editable reports whether the form accepts input
func (m *Model) editable() bool {
	return m.result == nil && !m.form.IsPending()
}

// showView switches the visible form view
func (m *Model) showView(v form.View) tea.Cmd {
	if !m.editable() || m.form.GetView() == v {
		return nil
	}
	m.form.Show(v)
	m.statusMsg = ""
	m.errorMsg = ""
	m.focus = 0
	m.log.WithField("view", v.String()).Debug("view switched")
	return m.focusInputs()
}
