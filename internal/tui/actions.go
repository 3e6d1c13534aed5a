package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/studiowebux/authdialog/internal/auth"
	"github.com/studiowebux/authdialog/internal/form"
)

// resizeMsg is a debounced terminal size
type resizeMsg struct {
	seq    uint64
	width  int
	height int
}

// authDoneMsg carries the outcome of an auth call
type authDoneMsg struct {
	view  form.View
	email string
	user  *auth.User
	err   error
}

// clipboardMsg reports the outcome of copying the token
type clipboardMsg struct {
	err error
}

// submit starts the auth call for the visible view. A second submit while
// one is pending is ignored.
func (m *Model) submit() tea.Cmd {
	sub, ok := m.form.Begin()
	if !ok {
		return nil
	}

	m.statusMsg = ""
	m.errorMsg = ""

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.RequestTimeout)
	m.requestState.SetCancel(cancel)

	m.log.WithFields(logrus.Fields{
		"view":  sub.View.String(),
		"email": sub.Email,
	}).Info("submitting")

	return tea.Batch(m.spinner.Tick, authCmd(ctx, cancel, m.opts.Backend, sub))
}

// authCmd runs the backend call for sub off the event loop
func authCmd(ctx context.Context, cancel context.CancelFunc, backend auth.Backend, sub form.Submission) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		msg := authDoneMsg{view: sub.View, email: sub.Email}
		if backend == nil {
			msg.err = fmt.Errorf("no auth backend configured")
			return msg
		}

		switch sub.View {
		case form.ViewLogin:
			msg.user, msg.err = backend.SignIn(ctx, sub.Email, sub.Password)
		case form.ViewRegister:
			msg.user, msg.err = backend.Register(ctx, sub.Username, sub.Email, sub.Password)
		case form.ViewRecover:
			msg.err = backend.SendPasswordReset(ctx, sub.Email)
		}
		return msg
	}
}

// handleAuthDone applies the outcome of an auth call to the form
func (m *Model) handleAuthDone(msg authDoneMsg) tea.Cmd {
	m.requestState.Clear()
	m.form.Complete(msg.err)

	entry := m.log.WithField("view", msg.view.String())
	if msg.err != nil {
		entry.WithError(msg.err).Warn("submission failed")
		return nil
	}

	cmd := m.clearInputs()

	if !msg.view.Authenticates() {
		entry.Info("password reset requested")
		m.statusMsg = fmt.Sprintf("Password reset email sent to %s", msg.email)
		return cmd
	}

	m.result = &Result{
		User:        msg.user,
		Destination: form.Destination(m.opts.PostLoginPath, m.opts.DefaultDestination),
	}
	entry.WithField("destination", m.result.Destination).Info("authenticated")
	return cmd
}

// copyToken copies the id token of the signed in user to the clipboard
func (m *Model) copyToken() tea.Cmd {
	if m.result == nil || m.result.User == nil || m.result.User.Token == nil {
		m.errorMsg = "Sign in first to copy a token"
		return nil
	}

	token := m.result.User.Token.AccessToken
	write := m.opts.Clipboard
	return func() tea.Msg {
		return clipboardMsg{err: write(token)}
	}
}
