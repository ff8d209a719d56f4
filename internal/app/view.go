// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/lipgloss"
)

// sidebarWidth is the file browser column width in wide layouts.
const sidebarWidth = 28

// layout distributes the terminal area among the panels.
func (m *Model) layout(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(width, height)
	m.confirmDialog.SetSize(width, height)
	m.suggestionBar.SetWidth(width)

	// Header, suggestion bar, and status bar each take one row; panel
	// borders take two more.
	bodyHeight := height - 3
	if bodyHeight < 6 {
		bodyHeight = 6
	}
	innerHeight := bodyHeight - 2

	bodyWidth := width
	if m.showSidebar() {
		m.fileBrowser.SetSize(sidebarWidth-2, innerHeight)
		bodyWidth -= sidebarWidth
	}

	termWidth := bodyWidth * 55 / 100
	chatWidth := bodyWidth - termWidth
	m.termPanel.SetSize(termWidth-2, innerHeight)
	m.chatPanel.SetSize(chatWidth-2, innerHeight)
}

// showSidebar reports whether the file browser column fits.
func (m *Model) showSidebar() bool {
	return m.cfg.UI.ShowSidebar && m.width >= 90
}

// View renders the application.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.welcome.IsVisible() {
		return m.welcome.View()
	}
	if m.confirmDialog.IsVisible() {
		return m.confirmDialog.View()
	}

	var columns []string
	if m.showSidebar() {
		columns = append(columns, m.panelStyle(focusFiles).Render(m.fileBrowser.View()))
	}
	columns = append(columns,
		m.panelStyle(focusTerminal).Render(m.termPanel.View()),
		m.panelStyle(focusChat).Render(m.chatPanel.View()),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	suggestionRow := m.suggestionBar.View()
	if suggestionRow == "" {
		suggestionRow = m.theme.SuggestionBar.Width(m.width).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		suggestionRow,
		m.statusBar.View(),
	)
}

// panelStyle picks the focused or blurred border for a panel.
func (m *Model) panelStyle(area focusArea) lipgloss.Style {
	if m.focus == area {
		return m.theme.PanelFocused
	}
	return m.theme.PanelBlurred
}
