// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the cozyterm TUI.
package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

// =============================================================================
// DESTRUCTIVE COMMAND CONFIRM DIALOG
// =============================================================================

// ConfirmResponseMsg is emitted when the user resolves the dialog.
type ConfirmResponseMsg struct {
	Command  string
	Approved bool
}

// Button options
const (
	ButtonCancel = 0
	ButtonRun    = 1
	buttonCount  = 2
)

// ConfirmDialog displays a modal warning before a flagged command runs.
// Cancel is the default selection so Enter alone never runs the command.
type ConfirmDialog struct {
	command string
	warning string

	visible  bool
	selected int
	width    int
	height   int

	theme *styles.Theme
}

// NewConfirmDialog creates a new confirm dialog.
func NewConfirmDialog(theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{
		theme:    theme,
		selected: ButtonCancel,
	}
}

// Show displays the dialog for a flagged command.
func (c *ConfirmDialog) Show(command, warning string) {
	c.command = command
	c.warning = warning
	c.visible = true
	c.selected = ButtonCancel
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() {
	c.visible = false
	c.command = ""
	c.warning = ""
}

// IsVisible returns whether the dialog is visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// Command returns the command awaiting confirmation.
func (c *ConfirmDialog) Command() string {
	return c.command
}

// SetSize updates the dialog dimensions.
func (c *ConfirmDialog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles key events. The second return reports whether the event
// was consumed by the dialog.
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !c.visible {
		return nil, false
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "shift+tab":
			c.selected = (c.selected - 1 + buttonCount) % buttonCount
			return nil, true

		case "right", "l", "tab":
			c.selected = (c.selected + 1) % buttonCount
			return nil, true

		case "enter", " ":
			return c.resolve(c.selected == ButtonRun), true

		case "escape", "n":
			return c.resolve(false), true

		case "y":
			// Explicit run-anyway shortcut
			return c.resolve(true), true
		}
		// Swallow other keys while modal
		return nil, true
	}

	return nil, false
}

// resolve hides the dialog and emits the response.
func (c *ConfirmDialog) resolve(approved bool) tea.Cmd {
	command := c.command
	c.Hide()

	return func() tea.Msg {
		return ConfirmResponseMsg{Command: command, Approved: approved}
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the confirm dialog.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	boxWidth := 60
	if c.width > 0 && c.width < 80 {
		boxWidth = c.width - 10
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	var content strings.Builder

	content.WriteString(c.theme.ConfirmTitle.Render("Careful!"))
	content.WriteString("\n\n")
	content.WriteString(c.theme.ConfirmWarning.Render(c.warning))
	content.WriteString("\n\n")

	commandBox := c.theme.ConfirmCommand.
		Width(boxWidth - 6).
		Render(c.command)
	content.WriteString(commandBox)
	content.WriteString("\n\n")

	content.WriteString(c.renderButtons())
	content.WriteString("\n\n")

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	content.WriteString(hintStyle.Render("y=Run  n=Cancel  Tab=Navigate"))

	box := c.theme.ConfirmBox.
		Width(boxWidth).
		Render(content.String())

	if c.width > 0 && c.height > 0 {
		return lipgloss.Place(
			c.width, c.height,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}

	return box
}

// renderButtons renders the button row.
func (c *ConfirmDialog) renderButtons() string {
	runActive := c.theme.ConfirmButtonActive.Background(styles.Rose)

	var buttons []string
	if c.selected == ButtonCancel {
		buttons = append(buttons, c.theme.ConfirmButtonActive.Render("Cancel"))
	} else {
		buttons = append(buttons, c.theme.ConfirmButton.Render("Cancel"))
	}
	if c.selected == ButtonRun {
		buttons = append(buttons, runActive.Render("Run Anyway"))
	} else {
		buttons = append(buttons, c.theme.ConfirmButton.Render("Run Anyway"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}
