/*
Package keybinds provides customizable keyboard binding management.

# Overview

Keys map to actions within contexts. The dialog has two contexts:
  - Global: bindings available everywhere (quit, view switching, copy token)
  - Form: bindings active while an input has focus (submit, field focus)

A key bound in the form context shadows the same key in the global context.

# Components

Registry (registry.go):
  - Central storage for keybindings
  - Context-aware key matching with global fallback

Validator (validator.go):
  - Detects conflicts, unknown actions and empty keys
  - Warns about shadowing
  - Protects reserved keys (ctrl+c always force quits)

Defaults (defaults.go):
  - Default keybinding configuration
  - Used when no override exists or the overrides are invalid

# Configuration

Overrides live in the keybinds section of ~/.authdialog/config.yaml, as
action -> comma separated keys per context:

	keybinds:
	  global:
	    quit: "esc,ctrl+q"
	  form:
	    submit: "enter,ctrl+s"
	    next_field: "tab"

Listing an action replaces all of its default keys in that context.

# Example Usage

	registry, result := keybinds.LoadOrDefault(cfg.Keybinds)
	if result.HasErrors() {
		log.Warn(result.String())
	}

	if action, ok := registry.Match(keybinds.ContextForm, msg.String()); ok {
		// Handle action
	}

# Thread Safety

The Registry is not synchronized. Build it during initialization and only
read from it afterwards.
*/
package keybinds
