// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
	"github.com/engindearing-projects/cozyterm/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusRunning
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusRunning:
		return "Running..."
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StatusBar is the bottom bar: status, model, explain-mode flag, shortcuts.
type StatusBar struct {
	Status      Status
	ModelName   string
	ExplainMode bool
	Coaching    bool // false when no API key is configured
	Width       int

	theme *styles.Theme
}

// NewStatusBar creates the status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) { s.Width = width }

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) { s.Status = status }

// View renders the status bar.
func (s *StatusBar) View() string {
	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	var parts []string
	parts = append(parts, s.statusStyle().Render(s.Status.String()))

	if !s.Coaching {
		offline := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		parts = append(parts, offline.Render("coach offline"))
	} else if s.ModelName != "" {
		name := util.TruncateRunes(s.ModelName, 24)
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(name))
	}

	if s.ExplainMode {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.Emerald).Render("explain:on"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Render("explain:off"))
	}

	if s.Width >= 80 {
		parts = append(parts, s.renderShortcuts())
	}

	return s.theme.StatusBar.Width(s.Width).Render(strings.Join(parts, separator))
}

// statusStyle returns the style for the current status.
func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case StatusRunning, StatusThinking:
		return lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		s.theme.ShortcutKey.Render("Tab") + s.theme.ShortcutDesc.Render("panels"),
		s.theme.ShortcutKey.Render("^E") + s.theme.ShortcutDesc.Render("explain"),
		s.theme.ShortcutKey.Render("^C") + s.theme.ShortcutDesc.Render("quit"),
	}
	return strings.Join(shortcuts, " ")
}
