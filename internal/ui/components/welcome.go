// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

// =============================================================================
// WELCOME OVERLAY
// =============================================================================

const cozyLogo = `
 ██████╗ ██████╗ ███████╗██╗   ██╗████████╗███████╗██████╗ ███╗   ███╗
██╔════╝██╔═══██╗╚══███╔╝╚██╗ ██╔╝╚══██╔══╝██╔════╝██╔══██╗████╗ ████║
██║     ██║   ██║  ███╔╝  ╚████╔╝    ██║   █████╗  ██████╔╝██╔████╔██║
██║     ██║   ██║ ███╔╝    ╚██╔╝     ██║   ██╔══╝  ██╔══██╗██║╚██╔╝██║
╚██████╗╚██████╔╝███████╗   ██║      ██║   ███████╗██║  ██║██║ ╚═╝ ██║
 ╚═════╝ ╚═════╝ ╚══════╝   ╚═╝      ╚═╝   ╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝`

// Welcome is the first-run overlay shown until any key is pressed.
type Welcome struct {
	Version   string
	HasAPIKey bool

	visible bool
	width   int
	height  int

	theme *styles.Theme
}

// NewWelcome creates the welcome overlay.
func NewWelcome(version string, hasAPIKey bool, theme *styles.Theme) *Welcome {
	return &Welcome{
		Version:   version,
		HasAPIKey: hasAPIKey,
		visible:   true,
		theme:     theme,
	}
}

// Hide dismisses the overlay.
func (w *Welcome) Hide() { w.visible = false }

// IsVisible reports whether the overlay is shown.
func (w *Welcome) IsVisible() bool { return w.visible }

// SetSize updates the overlay dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome overlay.
func (w *Welcome) View() string {
	if !w.visible {
		return ""
	}

	var content strings.Builder

	logo := cozyLogo
	if w.width > 0 && w.width < 76 {
		logo = "\ncozyterm"
	}
	content.WriteString(w.theme.WelcomeLogo.Render(strings.TrimPrefix(logo, "\n")))
	content.WriteString("\n")
	content.WriteString(w.theme.WelcomeVersion.Render("v" + w.Version))
	content.WriteString("\n\n")
	content.WriteString(w.theme.WelcomeInfo.Render("A cozy shell that explains itself."))
	content.WriteString("\n\n")

	lines := []struct{ key, desc string }{
		{"Tab", "cycle panels"},
		{"Enter", "run command / open file"},
		{"Alt+1..5", "take a suggestion"},
		{"Ctrl+E", "toggle auto-explain"},
		{"Ctrl+B", "toggle file browser"},
		{"Ctrl+C", "quit"},
	}
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	for _, l := range lines {
		content.WriteString(w.theme.WelcomeKey.Render(l.key))
		content.WriteString(descStyle.Render("  " + l.desc))
		content.WriteString("\n")
	}

	if !w.HasAPIKey {
		content.WriteString("\n")
		content.WriteString(w.theme.ErrorTitle.Render("No ANTHROPIC_API_KEY set"))
		content.WriteString("\n")
		content.WriteString(w.theme.WelcomeInfo.Render("Commands still run; coaching is disabled."))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(w.theme.WelcomePressKey.Render("Press any key to begin"))

	box := w.theme.WelcomeBox.Render(content.String())

	if w.width > 0 && w.height > 0 {
		return lipgloss.Place(
			w.width, w.height,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}
	return box
}
