package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// Config is the keybinds section of the config file: context -> action ->
// comma separated keys. An action listed here loses its default keys in
// that context.
//
//	keybinds:
//	  global:
//	    quit: "esc,ctrl+q"
//	  form:
//	    submit: "enter,ctrl+s"
type Config map[Context]map[Action]string

// ParseKeys splits a comma separated key list, dropping blanks
func ParseKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config Config) error {
	var failed []string
	apply(registry, config, func(e ValidationError) {
		if e.Type != "warning" {
			failed = append(failed, e.Error())
		}
	})
	if len(failed) > 0 {
		return fmt.Errorf("invalid keybinds: %s", strings.Join(failed, "; "))
	}
	return nil
}

// apply writes config into registry, reporting every problem found on the
// way. Overridden actions are unbound before any key is registered so
// that swapping two keys is not a conflict.
func apply(registry *Registry, config Config, report func(ValidationError)) {
	for _, context := range sortedContexts(config) {
		actions := config[context]
		if !context.IsKnown() {
			report(ValidationError{Type: "invalid", Context: context, Message: "unknown context"})
			continue
		}

		names := sortedActions(actions)
		for _, action := range names {
			if action.IsKnown() {
				registry.Unbind(context, action)
			}
		}

		claimed := make(map[string]Action)
		for _, action := range names {
			if !action.IsKnown() {
				report(ValidationError{Type: "invalid", Context: context, Key: actions[action],
					Message: fmt.Sprintf("unknown action %q", action)})
				continue
			}

			keys := ParseKeys(actions[action])
			if len(keys) == 0 {
				report(ValidationError{Type: "invalid", Context: context,
					Message: fmt.Sprintf("no keys for action %q", action)})
				continue
			}

			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					report(ValidationError{Type: "invalid", Context: context, Key: key, Message: err.Error()})
					continue
				}
				if prev, ok := claimed[key]; ok && prev != action {
					report(ValidationError{Type: "conflict", Context: context, Key: key,
						Message: fmt.Sprintf("bound to both %s and %s", prev, action)})
					continue
				}
				if prev, ok := registry.bindings[context][key]; ok && prev != action {
					report(ValidationError{Type: "conflict", Context: context, Key: key,
						Message: fmt.Sprintf("already bound to %s", prev)})
					continue
				}
				claimed[key] = action
				registry.Register(context, key, action)
			}
		}
	}
}

// LoadOrDefault builds the default registry with config applied. When the
// config has errors the defaults are returned untouched alongside the report.
func LoadOrDefault(config Config) (*Registry, *ValidationResult) {
	result := NewValidator().ValidateConfig(config)
	if result.HasErrors() {
		return NewDefaultRegistry(), result
	}

	registry := NewDefaultRegistry()
	apply(registry, config, func(ValidationError) {})
	return registry, result
}

// ExportDefaults returns the default bindings in config form
func ExportDefaults() Config {
	return Export(NewDefaultRegistry())
}

// Export converts a registry back to config form
func Export(registry *Registry) Config {
	config := make(Config)
	for context, bindings := range registry.bindings {
		byAction := make(map[Action][]string)
		for key, action := range bindings {
			byAction[action] = append(byAction[action], key)
		}
		section := make(map[Action]string, len(byAction))
		for action, keys := range byAction {
			sort.Strings(keys)
			section[action] = strings.Join(keys, ",")
		}
		config[context] = section
	}
	return config
}

func sortedContexts(config Config) []Context {
	contexts := make([]Context, 0, len(config))
	for c := range config {
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	return contexts
}

func sortedActions(actions map[Action]string) []Action {
	names := make([]Action, 0, len(actions))
	for a := range actions {
		names = append(names, a)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
