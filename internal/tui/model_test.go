package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/authdialog/internal/auth"
	"github.com/studiowebux/authdialog/internal/form"
	"github.com/studiowebux/authdialog/internal/keybinds"
	"github.com/studiowebux/authdialog/internal/layout"
)

// sized returns a test model that has already seen one terminal size
func sized(t *testing.T, opts Options, cols, rows int) (*Model, *fakeBackend) {
	t.Helper()
	m, backend := CreateTestModel(t, opts)
	send(m, tea.WindowSizeMsg{Width: cols, Height: rows})
	return m, backend
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_InitializesStateCorrectly(t *testing.T) {
	m, _ := CreateTestModel(t, Options{})

	if m.requestState == nil {
		t.Error("requestState should be initialized")
	}
	if m.resizeState == nil {
		t.Error("resizeState should be initialized")
	}
	if m.keybinds == nil {
		t.Error("keybinds should default to the stock registry")
	}

	AssertModelField(t, "view", m.form.GetView(), form.ViewLogin)
	AssertModelField(t, "focusedField", m.focusedField(), form.FieldEmail)
	AssertModelField(t, "requestState.IsActive()", m.requestState.IsActive(), false)
	AssertModelField(t, "resizeState.HasApplied()", m.resizeState.HasApplied(), false)
	AssertModelField(t, "RequestTimeout", m.opts.RequestTimeout, auth.RequestTimeout)

	if m.Result() != nil {
		t.Error("Result() should be nil before authenticating")
	}
	if !m.inputs[form.FieldEmail].Focused() {
		t.Error("email input should have focus")
	}
	if m.inputs[form.FieldPassword].EchoMode == 0 {
		t.Error("password input should be masked")
	}
}

func TestModel_ResolvesLayout(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		fullScreen bool
		direction  layout.Direction
		logoSize   layout.LogoSize
		maxWidth   layout.MaxWidth
	}{
		{"tall terminal", 100, 40, false, layout.Portrait, layout.LogoLarge, layout.MaxWidthXS},
		{"wide terminal", 80, 24, false, layout.Landscape, layout.LogoLarge, layout.MaxWidthMD},
		{"short terminal", 40, 15, true, layout.Portrait, layout.LogoSmall, layout.MaxWidthXS},
		{"short and wide", 120, 15, true, layout.Landscape, layout.LogoLarge, layout.MaxWidthXS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := sized(t, Options{}, tt.cols, tt.rows)
			d := m.Descriptor()

			AssertModelField(t, "FullScreen", d.FullScreen, tt.fullScreen)
			AssertModelField(t, "Direction", d.Direction, tt.direction)
			AssertModelField(t, "LogoSize", d.LogoSize, tt.logoSize)
			AssertModelField(t, "MaxWidth", d.MaxWidth, tt.maxWidth)

			want := layout.Resolve(float64(tt.cols*8), float64(tt.rows*16))
			if d != want {
				t.Errorf("Descriptor() = %+v, want %+v", d, want)
			}
		})
	}
}

func TestModel_ResolvesLayoutWithCellMetrics(t *testing.T) {
	// 80x24 cells of 10x20 pixels is an 800x480 viewport
	m, _ := sized(t, Options{Cells: layout.CellMetrics{CellWidth: 10, CellHeight: 20}}, 80, 24)

	want := layout.Resolve(800, 480)
	if m.Descriptor() != want {
		t.Errorf("Descriptor() = %+v, want %+v", m.Descriptor(), want)
	}
}

func TestModel_ResizeDebounce(t *testing.T) {
	m, _ := CreateTestModel(t, Options{ResizeDebounce: 10 * time.Millisecond})

	// First size is applied immediately
	if cmd := send(m, tea.WindowSizeMsg{Width: 100, Height: 40}); cmd != nil {
		t.Error("first size should not be debounced")
	}
	AssertModelField(t, "width", m.width, 100)

	stale := send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	latest := send(m, tea.WindowSizeMsg{Width: 40, Height: 15})
	if stale == nil || latest == nil {
		t.Fatal("later sizes should be debounced")
	}
	AssertModelField(t, "width before timers fire", m.width, 100)

	// The superseded timer fires first and is ignored
	settle(m, stale)
	AssertModelField(t, "width after stale timer", m.width, 100)

	settle(m, latest)
	AssertModelField(t, "width after latest timer", m.width, 40)
	AssertModelField(t, "height after latest timer", m.height, 15)
	AssertModelField(t, "FullScreen", m.Descriptor().FullScreen, true)
}

func TestModel_ResizeWithoutDebounce(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)

	if cmd := send(m, tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("sizes should apply immediately without a debounce")
	}
	AssertModelField(t, "width", m.width, 80)
	AssertModelField(t, "Direction", m.Descriptor().Direction, layout.Landscape)
}

func TestModel_SignIn(t *testing.T) {
	m, backend := sized(t, Options{PostLoginPath: "/dashboard"}, 100, 40)

	typeText(m, "a@b.co")
	press(m, "tab")
	typeText(m, "secret1")

	AssertModelField(t, "email", m.form.Get(form.FieldEmail), "a@b.co")
	AssertModelField(t, "password", m.form.Get(form.FieldPassword), "secret1")

	cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("submit should return a command")
	}
	AssertModelField(t, "IsPending()", m.form.IsPending(), true)
	AssertModelField(t, "requestState.IsActive()", m.requestState.IsActive(), true)
	if !strings.Contains(m.View(), "Contacting server") {
		t.Error("pending view should show progress")
	}

	// A second submit while pending is ignored
	if again := press(m, "enter"); again != nil {
		t.Error("submit while pending should be ignored")
	}

	settle(m, cmd)

	calls := backend.Calls()
	if len(calls) != 1 || calls[0] != "signin:a@b.co:secret1" {
		t.Fatalf("backend calls = %v, want one sign in", calls)
	}

	AssertModelField(t, "IsPending()", m.form.IsPending(), false)
	AssertModelField(t, "requestState.IsActive()", m.requestState.IsActive(), false)

	res := m.Result()
	if res == nil {
		t.Fatal("Result() should be set after signing in")
	}
	AssertModelField(t, "Destination", res.Destination, "/dashboard")
	AssertModelField(t, "email after success", m.form.Get(form.FieldEmail), "")
	AssertModelField(t, "input after success", m.inputs[form.FieldEmail].Value(), "")

	view := m.View()
	if !strings.Contains(view, "Signed in") {
		t.Error("view should confirm the sign in")
	}
	if !strings.Contains(view, "Continue to /dashboard") {
		t.Error("view should show the destination")
	}

	// Enter on the done screen leaves the dialog
	if !isQuit(press(m, "enter")) {
		t.Error("enter after signing in should quit")
	}
	if m.Result() == nil {
		t.Error("Result() should survive quitting")
	}
}

func TestModel_SignInFailure(t *testing.T) {
	m, backend := sized(t, Options{}, 100, 40)
	backend.err = &auth.APIError{Status: 400, Code: auth.CodeInvalidPassword}

	typeText(m, "a@b.co")
	press(m, "tab")
	typeText(m, "wrong")
	settle(m, press(m, "enter"))

	if m.Result() != nil {
		t.Error("Result() should stay nil after a failure")
	}
	if !errors.Is(m.form.RemoteError(), auth.ErrInvalidPassword) {
		t.Errorf("RemoteError() = %v, want ErrInvalidPassword", m.form.RemoteError())
	}

	// Fields are kept so the user can retry
	AssertModelField(t, "email", m.form.Get(form.FieldEmail), "a@b.co")
	AssertModelField(t, "input", m.inputs[form.FieldEmail].Value(), "a@b.co")
	AssertModelField(t, "IsPending()", m.form.IsPending(), false)

	if !strings.Contains(m.View(), "incorrect") {
		t.Error("view should show the remote error")
	}
}

func TestModel_Register(t *testing.T) {
	m, backend := sized(t, Options{DefaultDestination: "/home"}, 100, 40)

	press(m, "ctrl+r")
	AssertModelField(t, "view", m.form.GetView(), form.ViewRegister)
	AssertModelField(t, "focusedField", m.focusedField(), form.FieldUsername)

	typeText(m, "neo")
	press(m, "tab")
	typeText(m, "n@x.io")
	press(m, "tab")
	typeText(m, "pw1234")
	press(m, "tab")
	typeText(m, "pw1234")
	settle(m, press(m, "enter"))

	calls := backend.Calls()
	if len(calls) != 1 || calls[0] != "register:neo:n@x.io:pw1234" {
		t.Fatalf("backend calls = %v, want one registration", calls)
	}

	res := m.Result()
	if res == nil {
		t.Fatal("Result() should be set after registering")
	}
	AssertModelField(t, "Destination", res.Destination, "/home")
	AssertModelField(t, "DisplayName", res.User.DisplayName, "neo")

	if !strings.Contains(m.View(), "Welcome, neo") {
		t.Error("view should greet the new user")
	}
}

func TestModel_RegisterPasswordMismatch(t *testing.T) {
	m, backend := sized(t, Options{}, 100, 40)

	press(m, "ctrl+r")
	typeText(m, "neo")
	press(m, "tab")
	typeText(m, "n@x.io")
	press(m, "tab")
	typeText(m, "pw1234")
	press(m, "tab")
	typeText(m, "totally-different")

	if cmd := press(m, "enter"); cmd != nil {
		t.Error("submit with differing passwords should not start an auth call")
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Fatalf("backend calls = %v, want none", calls)
	}
	if m.Result() != nil {
		t.Error("Result() should stay nil")
	}
	if m.form.IsPending() {
		t.Error("form should not be pending")
	}
	if !strings.Contains(m.View(), "Passwords do not match") {
		t.Error("view should report the mismatch")
	}

	// Fixing the verify field lets the registration through
	AssertModelField(t, "focusedField", m.focusedField(), form.FieldPasswordVerify)
	verify := m.inputs[form.FieldPasswordVerify]
	verify.SetValue("")
	m.inputs[form.FieldPasswordVerify] = verify
	typeText(m, "pw1234")
	settle(m, press(m, "enter"))

	if calls := backend.Calls(); len(calls) != 1 || calls[0] != "register:neo:n@x.io:pw1234" {
		t.Fatalf("backend calls = %v, want one registration", calls)
	}
}

func TestModel_Recover(t *testing.T) {
	m, backend := sized(t, Options{}, 100, 40)

	press(m, "ctrl+p")
	AssertModelField(t, "view", m.form.GetView(), form.ViewRecover)

	typeText(m, "a@b.co")
	settle(m, press(m, "enter"))

	calls := backend.Calls()
	if len(calls) != 1 || calls[0] != "reset:a@b.co" {
		t.Fatalf("backend calls = %v, want one reset", calls)
	}

	if m.Result() != nil {
		t.Error("recovering should not authenticate")
	}
	AssertModelField(t, "statusMsg", m.statusMsg, "Password reset email sent to a@b.co")
	AssertModelField(t, "view after success", m.form.GetView(), form.ViewLogin)
	AssertModelField(t, "email after success", m.form.Get(form.FieldEmail), "")
}

func TestModel_FocusCycles(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)

	AssertModelField(t, "initial", m.focusedField(), form.FieldEmail)
	press(m, "tab")
	AssertModelField(t, "after tab", m.focusedField(), form.FieldPassword)
	press(m, "tab")
	AssertModelField(t, "after wrap", m.focusedField(), form.FieldEmail)
	press(m, "shift+tab")
	AssertModelField(t, "after shift+tab", m.focusedField(), form.FieldPassword)

	if !m.inputs[form.FieldPassword].Focused() || m.inputs[form.FieldEmail].Focused() {
		t.Error("only the focused input should be focused")
	}
}

func TestModel_ViewSwitchKeepsValues(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)

	typeText(m, "a@b.co")
	press(m, "ctrl+p")
	AssertModelField(t, "view", m.form.GetView(), form.ViewRecover)
	AssertModelField(t, "email", m.form.Get(form.FieldEmail), "a@b.co")

	press(m, "ctrl+l")
	AssertModelField(t, "view", m.form.GetView(), form.ViewLogin)
	AssertModelField(t, "focusedField", m.focusedField(), form.FieldEmail)
}

func TestModel_LockedWhilePending(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)

	typeText(m, "a@b.co")
	press(m, "enter")

	typeText(m, "zzz")
	AssertModelField(t, "email", m.form.Get(form.FieldEmail), "a@b.co")

	press(m, "ctrl+r")
	AssertModelField(t, "view", m.form.GetView(), form.ViewLogin)

	press(m, "tab")
	AssertModelField(t, "focusedField", m.focusedField(), form.FieldEmail)
}

func TestModel_QuitCancelsRequest(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)

	press(m, "enter")
	AssertModelField(t, "requestState.IsActive()", m.requestState.IsActive(), true)

	if !isQuit(press(m, "esc")) {
		t.Error("esc should quit")
	}
	AssertModelField(t, "requestState.IsActive()", m.requestState.IsActive(), false)
	AssertModelField(t, "View()", m.View(), "")
}

func TestModel_ForceQuit(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)

	if !isQuit(press(m, "ctrl+c")) {
		t.Error("ctrl+c should quit")
	}
	if m.Result() != nil {
		t.Error("quitting should not produce a result")
	}
}

func TestModel_CopyToken(t *testing.T) {
	var copied string
	m, _ := sized(t, Options{Clipboard: func(s string) error {
		copied = s
		return nil
	}}, 100, 40)

	// Nothing to copy before signing in
	if cmd := press(m, "ctrl+y"); cmd != nil {
		t.Error("copy before signing in should not return a command")
	}
	AssertModelField(t, "errorMsg", m.errorMsg, "Sign in first to copy a token")

	typeText(m, "a@b.co")
	press(m, "tab")
	typeText(m, "secret1")
	settle(m, press(m, "enter"))

	settle(m, press(m, "ctrl+y"))
	AssertModelField(t, "copied", copied, "id-token")
	AssertModelField(t, "statusMsg", m.statusMsg, "Token copied to clipboard")
	AssertModelField(t, "errorMsg", m.errorMsg, "")
}

func TestModel_CopyTokenFailure(t *testing.T) {
	m, _ := sized(t, Options{Clipboard: func(string) error {
		return errors.New("no clipboard")
	}}, 100, 40)

	typeText(m, "a@b.co")
	press(m, "tab")
	typeText(m, "secret1")
	settle(m, press(m, "enter"))

	settle(m, press(m, "ctrl+y"))
	AssertModelField(t, "errorMsg", m.errorMsg, "Failed to copy token: no clipboard")
	AssertModelField(t, "statusMsg", m.statusMsg, "")
}

func TestModel_CustomKeybinds(t *testing.T) {
	registry := keybinds.NewDefaultRegistry()
	err := keybinds.ApplyConfig(registry, keybinds.Config{
		keybinds.ContextForm: {keybinds.ActionSubmit: "ctrl+s"},
	})
	if err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}

	m, _ := sized(t, Options{Keybinds: registry}, 100, 40)

	press(m, "enter")
	AssertModelField(t, "IsPending() after enter", m.form.IsPending(), false)

	press(m, "ctrl+s")
	AssertModelField(t, "IsPending() after ctrl+s", m.form.IsPending(), true)
}

func TestModel_View(t *testing.T) {
	t.Run("before first size", func(t *testing.T) {
		m, _ := CreateTestModel(t, Options{})
		AssertModelField(t, "View()", m.View(), "")
	})

	t.Run("too small", func(t *testing.T) {
		m, _ := sized(t, Options{}, 20, 5)
		if !strings.Contains(m.View(), "Terminal too small") {
			t.Error("tiny terminal should show a notice")
		}
	})

	t.Run("bordered dialog", func(t *testing.T) {
		m, _ := sized(t, Options{}, 100, 40)
		view := m.View()
		if !strings.Contains(view, "╭") {
			t.Error("dialog should have a rounded border")
		}
		if !strings.Contains(view, "Sign in") {
			t.Error("login view should show its title")
		}
		if !strings.Contains(view, "ctrl+r register") {
			t.Error("login view should link to registration")
		}
	})

	t.Run("full screen", func(t *testing.T) {
		m, _ := sized(t, Options{}, 40, 15)
		if strings.Contains(m.View(), "╭") {
			t.Error("full screen dialog should have no border")
		}
	})

	t.Run("landscape", func(t *testing.T) {
		m, _ := sized(t, Options{}, 80, 24)
		g := m.geometry()
		if g.logoCols == 0 || g.formCols >= g.innerCols {
			t.Errorf("landscape should split the dialog, got %+v", g)
		}
	})
}

func TestModel_GeometryClampsNegativeLogoWidth(t *testing.T) {
	// 24x32 cells of 5x16px is 120x512px: a boxed small-logo layout whose
	// paddings are wider than the viewport
	m, _ := sized(t, Options{Cells: layout.CellMetrics{CellWidth: 5, CellHeight: 16}}, 24, 32)

	d := m.Descriptor()
	if d.FullScreen || d.LogoSize != layout.LogoSmall {
		t.Fatalf("unexpected descriptor %+v", d)
	}
	if pct, ok := d.LogoPercent(); !ok || pct >= 0 {
		t.Fatalf("LogoWidth = %q, want a negative percentage", d.LogoWidth)
	}

	g := m.geometry()
	if g.logoCols <= 0 {
		t.Fatalf("logoCols = %d, want a positive slot", g.logoCols)
	}
	AssertModelField(t, "logoArtCols", g.logoArtCols, 0)

	if !strings.Contains(m.View(), "Sign in") {
		t.Error("the form should still render without a logo")
	}
}

func TestModel_Geometry(t *testing.T) {
	m, _ := sized(t, Options{}, 100, 40)
	g := m.geometry()

	// xs caps the dialog at 444px, 55 columns of 8px
	AssertModelField(t, "dialogCols", g.dialogCols, 55)
	AssertModelField(t, "padCols", g.padCols, 6)
	AssertModelField(t, "innerCols", g.innerCols, 55-DialogBorderWidth-12)
	AssertModelField(t, "formCols", g.formCols, g.innerCols-6)
	AssertModelField(t, "logoCols", g.logoCols, g.innerCols)
}
