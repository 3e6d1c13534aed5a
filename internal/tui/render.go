package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/authdialog/internal/auth"
	"github.com/studiowebux/authdialog/internal/form"
	"github.com/studiowebux/authdialog/internal/keybinds"
	"github.com/studiowebux/authdialog/internal/layout"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed   = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorGray  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan  = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorGray)

	styleFocusedLabel = lipgloss.NewStyle().
				Bold(true)

	styleButton = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
			Background(colorCyan)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleLogo = lipgloss.NewStyle().
			Foreground(colorCyan)

	styleSpinner = lipgloss.NewStyle().
			Foreground(colorCyan)
)

// geometry is the dialog layout in terminal cells
type geometry struct {
	dialogCols  int // outer width, border included
	padCols     int
	padRows     int
	innerCols   int // content width inside border and padding
	logoCols    int // logo column (landscape) or row width (portrait)
	logoArtCols int // width the logo rendition may use
	gapCols     int // space between logo and form in landscape
	formCols    int
}

// geometry converts the resolved descriptor into cell sizes
func (m Model) geometry() geometry {
	cells := m.opts.Cells
	bp := m.opts.Breakpoints
	d := m.descriptor

	var g geometry
	border := 0
	if d.FullScreen {
		g.dialogCols = m.width
		g.padCols = FullScreenPaddingCols
	} else {
		border = DialogBorderWidth
		g.dialogCols = min(m.width, cells.Cols(d.MaxWidth.Pixels()))
		g.padCols = cells.Cols(bp.DialogPadding)
		g.padRows = cells.Rows(bp.DialogPadding)
	}

	g.innerCols = g.dialogCols - border - 2*g.padCols
	if g.innerCols < InputMinWidth+InputPromptWidth && g.padCols > 1 {
		g.padCols = 1
		g.innerCols = g.dialogCols - border - 2
	}
	g.innerCols = max(g.innerCols, 1)

	if d.Direction == layout.Portrait {
		g.logoCols = g.innerCols
		g.formCols = g.innerCols - 2*cells.Cols(bp.PortraitSidePadding)
		if g.formCols < InputMinWidth+InputPromptWidth {
			g.formCols = g.innerCols
		}
	} else {
		logoSpan, _ := layout.GridSpans(d)
		g.gapCols = cells.Cols(bp.LandscapeSidePadding)
		g.logoCols = g.innerCols * logoSpan / layout.GridColumns
		g.formCols = max(g.innerCols-g.logoCols-g.gapCols, 1)
	}

	g.logoArtCols = int(float64(g.logoCols) * d.LogoFraction())
	g.logoArtCols = min(max(g.logoArtCols, 0), g.logoCols)

	return g
}

// View renders the dialog
func (m Model) View() string {
	if m.quitting || !m.resizeState.HasApplied() {
		return ""
	}

	if m.width < MinTerminalCols || m.height < MinTerminalRows {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styleSubtle.Render("Terminal too small"))
	}

	g := m.geometry()

	var body string
	if m.result != nil {
		body = m.renderDone(g.formCols)
	} else {
		body = m.renderForm(g.formCols)
	}
	body = lipgloss.NewStyle().Width(g.formCols).Render(body)

	return m.renderDialog(g, m.joinLogo(g, body))
}

// joinLogo places the logo above the form (portrait) or beside it (landscape)
func (m Model) joinLogo(g geometry, body string) string {
	logo := layout.LogoAsset(m.descriptor).Render(g.logoArtCols)
	if logo != "" {
		logo = styleLogo.Render(logo)
	}

	if m.descriptor.Direction == layout.Portrait {
		var parts []string
		if logo != "" {
			parts = append(parts, lipgloss.PlaceHorizontal(g.innerCols, lipgloss.Center, logo), "")
		}
		parts = append(parts, lipgloss.PlaceHorizontal(g.innerCols, lipgloss.Center, body))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	height := max(lipgloss.Height(body), lipgloss.Height(logo))
	logoBlock := lipgloss.Place(g.logoCols, height, lipgloss.Center, lipgloss.Center, logo)
	gap := strings.Repeat(" ", g.gapCols)
	return lipgloss.JoinHorizontal(lipgloss.Center, logoBlock, gap, body)
}

// renderDialog frames content: the whole terminal in full screen mode,
// otherwise a centered rounded box
func (m Model) renderDialog(g geometry, content string) string {
	if m.descriptor.FullScreen {
		return lipgloss.NewStyle().
			Padding(0, g.padCols).
			Width(m.width).
			Height(m.height).
			Render(content)
	}

	// Give up vertical padding before overflowing the terminal
	padRows := g.padRows
	if spare := m.height - lipgloss.Height(content) - DialogBorderWidth; spare < 2*padRows {
		padRows = max(spare/2, 0)
	}

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Padding(padRows, g.padCols).
		Width(g.dialogCols - DialogBorderWidth).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

// errorText returns the line shown for a failed submission
func errorText(err error) string {
	if errors.Is(err, form.ErrPasswordMismatch) {
		return "Passwords do not match"
	}
	return auth.Message(err)
}

// renderForm renders the inputs of the visible view
func (m Model) renderForm(width int) string {
	view := m.form.GetView()
	lines := []string{styleTitle.Render(view.Title()), ""}

	if err := m.form.RemoteError(); err != nil {
		lines = append(lines, styleError.Width(width).Render(errorText(err)), "")
	}
	lines = append(lines, m.renderNotices(width)...)

	for i, f := range form.Fields(view) {
		label := styleLabel
		if i == m.focus {
			label = styleFocusedLabel
		}
		lines = append(lines, label.Render(f.Label()), m.inputs[f].View())
	}

	lines = append(lines, "", m.renderSubmit(view))
	lines = append(lines, "", styleSubtle.Width(width).Render(m.renderLinks(view)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderDone renders the signed in confirmation
func (m Model) renderDone(width int) string {
	welcome := "Welcome"
	if u := m.result.User; u != nil {
		switch {
		case u.DisplayName != "":
			welcome += ", " + u.DisplayName
		case u.Email != "":
			welcome += ", " + u.Email
		}
	}

	lines := []string{
		styleTitle.Render("Signed in"),
		"",
		styleSuccess.Width(width).Render(welcome),
		fmt.Sprintf("Continue to %s", m.result.Destination),
		"",
	}
	lines = append(lines, m.renderNotices(width)...)

	links := []string{
		m.hint(keybinds.ActionSubmit, "continue"),
		m.hint(keybinds.ActionCopyToken, "copy token"),
		m.hint(keybinds.ActionQuit, "quit"),
	}
	lines = append(lines, styleSubtle.Width(width).Render(joinHints(links)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderNotices renders the local status and error lines, if any
func (m Model) renderNotices(width int) []string {
	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, styleError.Width(width).Render(m.errorMsg), "")
	}
	if m.statusMsg != "" {
		lines = append(lines, styleSuccess.Width(width).Render(m.statusMsg), "")
	}
	return lines
}

// renderSubmit renders the submit button, or the spinner while pending
func (m Model) renderSubmit(view form.View) string {
	if m.form.IsPending() {
		return m.spinner.View() + " " + styleSubtle.Render("Contacting server...")
	}
	return styleButton.Render(view.SubmitLabel())
}

// renderLinks lists the views reachable from view
func (m Model) renderLinks(view form.View) string {
	var links []string
	if view != form.ViewLogin {
		links = append(links, m.hint(keybinds.ActionShowLogin, "log in"))
	}
	if view != form.ViewRegister {
		links = append(links, m.hint(keybinds.ActionShowRegister, "register"))
	}
	if view != form.ViewRecover {
		links = append(links, m.hint(keybinds.ActionShowRecover, "forgot password"))
	}
	links = append(links, m.hint(keybinds.ActionQuit, "quit"))
	return joinHints(links)
}

// hint formats "key label" using the first key bound to action
func (m Model) hint(action keybinds.Action, label string) string {
	keys := m.keybinds.GetBinding(keybinds.ContextForm, action)
	if len(keys) == 0 {
		return ""
	}
	return keys[0] + " " + label
}

func joinHints(hints []string) string {
	var kept []string
	for _, h := range hints {
		if h != "" {
			kept = append(kept, h)
		}
	}
	return strings.Join(kept, " · ")
}
