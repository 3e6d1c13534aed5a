/*
Package tui implements the login, registration and password recovery
dialog.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains the form, inputs and resolved layout
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, initialization and terminal resizing
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: Side effects (auth calls, clipboard)
  - render.go: Dialog rendering from the resolved layout

# Layout

Every applied terminal size is converted to pixels with the configured
cell metrics and handed to layout.Breakpoints.Resolve. The descriptor
decides whether the dialog fills the terminal or sits in a bordered box
capped at its max width, whether the logo sits above the form or beside
it, which logo rendition is used and how wide it is.

The first size is applied immediately. Later sizes are debounced: each
WindowSizeMsg starts a timer tagged with a sequence number and only the
latest one is applied.

# State Management

The form view state lives in form.State. Background work is tracked by
small mutex-guarded state objects (see sync_state.go):
  - RequestState: cancellation of the in-flight auth call
  - ResizeState: resize debounce sequence

# Threading Model

The TUI runs in a single goroutine (Bubble Tea's event loop). Auth calls
and clipboard writes run as tea.Cmd functions; their outcomes come back
as messages. A submission started while another is pending is ignored.
*/
package tui
