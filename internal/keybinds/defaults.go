package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerFormBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all views
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "esc", ActionQuit)

	r.Register(ContextGlobal, "ctrl+l", ActionShowLogin)
	r.Register(ContextGlobal, "ctrl+r", ActionShowRegister)
	r.Register(ContextGlobal, "ctrl+p", ActionShowRecover)

	r.Register(ContextGlobal, "ctrl+y", ActionCopyToken)
}

// registerFormBindings sets up field navigation and submission
func registerFormBindings(r *Registry) {
	r.Register(ContextForm, "enter", ActionSubmit)
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
}
