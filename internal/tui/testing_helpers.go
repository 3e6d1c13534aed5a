package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/studiowebux/authdialog/internal/auth"
	"golang.org/x/oauth2"
)

// fakeBackend records calls and returns canned results
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	err   error
	user  *auth.User
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*auth.User, error) {
	f.record("signin:" + email + ":" + password)
	if f.err != nil {
		return nil, f.err
	}
	return f.userFor(email), nil
}

func (f *fakeBackend) Register(ctx context.Context, username, email, password string) (*auth.User, error) {
	f.record("register:" + username + ":" + email + ":" + password)
	if f.err != nil {
		return nil, f.err
	}
	u := f.userFor(email)
	u.DisplayName = username
	return u, nil
}

func (f *fakeBackend) SendPasswordReset(ctx context.Context, email string) error {
	f.record("reset:" + email)
	return f.err
}

func (f *fakeBackend) userFor(email string) *auth.User {
	if f.user != nil {
		return f.user
	}
	return &auth.User{
		ID:    "uid-1",
		Email: email,
		Token: &oauth2.Token{AccessToken: "id-token", TokenType: "Bearer"},
	}
}

// CreateTestModel creates a Model instance for testing with a fake backend
func CreateTestModel(t *testing.T, opts Options) (*Model, *fakeBackend) {
	t.Helper()

	backend, ok := opts.Backend.(*fakeBackend)
	if !ok || backend == nil {
		backend = &fakeBackend{}
		opts.Backend = backend
	}

	if opts.Logger == nil {
		logger, _ := test.NewNullLogger()
		opts.Logger = logrus.NewEntry(logger)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = func(string) error { return nil }
	}

	m := New(opts)
	return &m, backend
}

// send feeds msg to the model and returns the command it produced
// without running it
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// settle runs cmd, unpacking batches, and feeds every resulting message
// back into the model. Commands produced by those messages are not run;
// they are cursor blinks and spinner ticks that would only sleep.
func settle(m *Model, cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}
}

// runCmd executes cmd and returns the messages produced, dropping
// spinner ticks
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// press sends a key press given in the same notation as the keybinds
func press(m *Model, key string) tea.Cmd {
	return send(m, keyMsg(key))
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// typeText sends each rune as a key press
func typeText(m *Model, s string) {
	for _, r := range s {
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
