package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/studiowebux/authdialog/internal/keybinds"
	"gopkg.in/yaml.v3"
)

// KeybindsOptions controls how bindings are printed
type KeybindsOptions struct {
	Raw   bool   // print markdown without rendering
	Style string // glamour style; empty picks one for the terminal
	Width int    // word wrap; 0 uses 80
}

// KeybindsMarkdown lists the bindings of every context as markdown tables.
// Global bindings that a context inherits are not repeated under it.
func KeybindsMarkdown(registry *keybinds.Registry) string {
	var sb strings.Builder
	sb.WriteString("# Keybinds\n")

	for _, context := range keybinds.AllContexts() {
		keysByAction := make(map[keybinds.Action][]string)
		for _, b := range registry.ListBindings(context) {
			if b.Context == context {
				keysByAction[b.Action] = append(keysByAction[b.Action], "`"+b.Key+"`")
			}
		}
		if len(keysByAction) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "\n## %s\n\n", context)
		sb.WriteString("| Action | Keys | Description |\n")
		sb.WriteString("| --- | --- | --- |\n")
		for _, action := range keybinds.AllActions() {
			keys, ok := keysByAction[action]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", action, strings.Join(keys, ", "), action.Description())
		}
	}

	return sb.String()
}

// Keybinds prints the bindings followed by the validation report
func Keybinds(w io.Writer, registry *keybinds.Registry, result *keybinds.ValidationResult, opts KeybindsOptions) error {
	out := KeybindsMarkdown(registry)

	if !opts.Raw {
		width := opts.Width
		if width <= 0 {
			width = 80
		}
		style := glamour.WithAutoStyle()
		if opts.Style != "" {
			style = glamour.WithStandardStyle(opts.Style)
		}

		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		if out, err = r.Render(out); err != nil {
			return fmt.Errorf("failed to render keybinds: %w", err)
		}
	}

	if _, err := io.WriteString(w, out); err != nil {
		return err
	}

	if result != nil {
		report := result.String()
		if result.HasErrors() {
			report = colorRed + report + colorReset + "\nThe defaults are in use until the config is fixed.\n"
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", strings.TrimRight(report, "\n")); err != nil {
			return err
		}
	}

	return nil
}

// ExportKeybinds writes the default bindings as a config file section
func ExportKeybinds(w io.Writer) error {
	data, err := yaml.Marshal(map[string]keybinds.Config{
		"keybinds": keybinds.ExportDefaults(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode keybinds: %w", err)
	}
	_, err = w.Write(data)
	return err
}
