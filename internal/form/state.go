package form

import (
	"errors"
	"sync"
)

// ErrPasswordMismatch rejects a registration whose verify field differs
// from the password
var ErrPasswordMismatch = errors.New("passwords do not match")

// View is the form currently shown in the dialog
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewRecover
)

// String returns the view name.
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewRecover:
		return "recover"
	default:
		return "unknown"
	}
}

// Title returns the heading shown above the view.
func (v View) Title() string {
	switch v {
	case ViewRegister:
		return "Create an account"
	case ViewRecover:
		return "Recover your password"
	default:
		return "Sign in"
	}
}

// SubmitLabel returns the label of the submit button for the view.
func (v View) SubmitLabel() string {
	switch v {
	case ViewRecover:
		return "Recover Password"
	case ViewRegister:
		return "Register"
	default:
		return "Log In"
	}
}

// Field identifies a form input
type Field int

const (
	FieldUsername Field = iota
	FieldEmail
	FieldPassword
	FieldPasswordVerify
	fieldCount
)

// Label returns the input label.
func (f Field) Label() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldEmail:
		return "Email"
	case FieldPassword:
		return "Password"
	case FieldPasswordVerify:
		return "Verify password"
	default:
		return ""
	}
}

// Secret reports whether the field value must be masked.
func (f Field) Secret() bool {
	return f == FieldPassword || f == FieldPasswordVerify
}

// AllFields returns every input in display order.
func AllFields() []Field {
	return []Field{FieldUsername, FieldEmail, FieldPassword, FieldPasswordVerify}
}

// Fields returns the inputs shown by a view, in tab order.
func Fields(v View) []Field {
	switch v {
	case ViewRegister:
		return []Field{FieldUsername, FieldEmail, FieldPassword, FieldPasswordVerify}
	case ViewRecover:
		return []Field{FieldEmail}
	default:
		return []Field{FieldEmail, FieldPassword}
	}
}

// Submission is a snapshot of the form taken when a submit starts
type Submission struct {
	View     View
	Username string
	Email    string
	Password string
}

// State holds the authentication form: which view is visible, field
// values, the last remote error and whether a submission is in flight.
type State struct {
	mu sync.RWMutex

	view        View
	values      [fieldCount]string
	remoteError error
	pending     bool
}

// NewState creates a form showing the login view
func NewState() *State {
	return &State{view: ViewLogin}
}

// GetView returns the visible view
func (s *State) GetView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Show switches the visible view. Field values are kept.
func (s *State) Show(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// Get returns a field value
func (s *State) Get(f Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f < 0 || f >= fieldCount {
		return ""
	}
	return s.values[f]
}

// Set updates a field value
func (s *State) Set(f Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f < 0 || f >= fieldCount {
		return
	}
	s.values[f] = value
}

// RemoteError returns the error of the last failed or rejected submission
func (s *State) RemoteError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteError
}

// IsPending reports whether a submission is in flight
func (s *State) IsPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Begin marks a submission as in flight and returns its snapshot.
// It returns false while another submission is still pending, or when a
// registration's passwords differ; the latter is recorded as
// ErrPasswordMismatch and nothing is sent.
func (s *State) Begin() (Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return Submission{}, false
	}
	if s.view == ViewRegister && s.values[FieldPasswordVerify] != s.values[FieldPassword] {
		s.remoteError = ErrPasswordMismatch
		return Submission{}, false
	}
	s.pending = true
	return Submission{
		View:     s.view,
		Username: s.values[FieldUsername],
		Email:    s.values[FieldEmail],
		Password: s.values[FieldPassword],
	}, true
}

// Complete ends the pending submission. Success resets the form to an
// empty login view; failure keeps the fields and records err.
func (s *State) Complete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		s.remoteError = err
		return
	}
	s.resetLocked()
}

// Reset returns the form to an empty login view
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.resetLocked()
}

func (s *State) resetLocked() {
	s.view = ViewLogin
	s.values = [fieldCount]string{}
	s.remoteError = nil
}

// Authenticates reports whether a successful submission of v signs the
// user in (and so should navigate away).
func (v View) Authenticates() bool {
	return v == ViewLogin || v == ViewRegister
}

// Destination picks where to go after authenticating: the requested
// post-login path, else the configured default, else the root.
func Destination(postLoginPath, defaultDestination string) string {
	if postLoginPath != "" {
		return postLoginPath
	}
	if defaultDestination != "" {
		return defaultDestination
	}
	return "/"
}
