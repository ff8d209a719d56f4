// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
	"github.com/engindearing-projects/cozyterm/internal/util"
)

// =============================================================================
// HEADER BAR
// =============================================================================

// Header is the single-line top bar: brand on the left, working directory
// on the right.
type Header struct {
	Version string
	Dir     string
	width   int

	theme *styles.Theme
}

// NewHeader creates the header bar.
func NewHeader(version string, theme *styles.Theme) *Header {
	return &Header{Version: version, theme: theme, width: 80}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) { h.width = width }

// SetDir updates the displayed working directory.
func (h *Header) SetDir(dir string) { h.Dir = dir }

// View renders the header.
func (h *Header) View() string {
	brand := h.theme.HeaderTitle.Render("cozyterm")
	version := h.theme.HeaderSubtitle.Render(" v" + h.Version)
	left := brand + version

	dirWidth := h.width - lipgloss.Width(left) - 4
	right := ""
	if dirWidth > 8 && h.Dir != "" {
		right = h.theme.HeaderSubtitle.Render(util.TruncateWidth(h.Dir, dirWidth))
	}

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return h.theme.Header.Width(h.width).Render(
		left + lipgloss.NewStyle().Width(gap).Render("") + right,
	)
}
