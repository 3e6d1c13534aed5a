package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal Context = "global" // Available everywhere
	ContextForm   Context = "form"   // While a form field has focus
)

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit without authenticating
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Form actions
	ActionSubmit    Action = "submit"     // Submit the current view
	ActionNextField Action = "next_field" // Focus the next input
	ActionPrevField Action = "prev_field" // Focus the previous input

	// View switching
	ActionShowLogin    Action = "show_login"    // Switch to the login view
	ActionShowRegister Action = "show_register" // Switch to the register view
	ActionShowRecover  Action = "show_recover"  // Switch to the password recovery view

	// Session
	ActionCopyToken Action = "copy_token" // Copy the id token to the clipboard
)

// AllContexts lists the contexts in display order
func AllContexts() []Context {
	return []Context{ContextGlobal, ContextForm}
}

// AllActions lists every known action in display order
func AllActions() []Action {
	return []Action{
		ActionQuit,
		ActionQuitForce,
		ActionSubmit,
		ActionNextField,
		ActionPrevField,
		ActionShowLogin,
		ActionShowRegister,
		ActionShowRecover,
		ActionCopyToken,
	}
}

var actionDescriptions = map[Action]string{
	ActionQuit:         "Quit",
	ActionQuitForce:    "Force quit",
	ActionSubmit:       "Submit",
	ActionNextField:    "Next field",
	ActionPrevField:    "Previous field",
	ActionShowLogin:    "Log in",
	ActionShowRegister: "Register",
	ActionShowRecover:  "Recover password",
	ActionCopyToken:    "Copy token",
}

// Description returns a short label for help lines
func (a Action) Description() string {
	if d, ok := actionDescriptions[a]; ok {
		return d
	}
	return string(a)
}

// IsKnown reports whether a is a defined action
func (a Action) IsKnown() bool {
	_, ok := actionDescriptions[a]
	return ok
}

// IsKnown reports whether c is a defined context
func (c Context) IsKnown() bool {
	return c == ContextGlobal || c == ContextForm
}
