// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
	"github.com/engindearing-projects/cozyterm/internal/util"
)

// =============================================================================
// SUGGESTION BAR - coach-proposed next commands
// =============================================================================

// SuggestionChosenMsg is emitted when the user activates a suggestion.
type SuggestionChosenMsg struct {
	Command string
}

// suggestionMaxWidth caps one rendered suggestion so five fit on a row.
const suggestionMaxWidth = 32

// SuggestionBar shows up to five proposed commands along the bottom of the
// terminal panel. Alt+1..Alt+5 or arrow keys plus Enter pick one.
type SuggestionBar struct {
	suggestions []string
	selected    int
	focused     bool
	width       int

	theme *styles.Theme
}

// NewSuggestionBar creates an empty suggestion bar.
func NewSuggestionBar(theme *styles.Theme) *SuggestionBar {
	return &SuggestionBar{theme: theme, selected: -1}
}

// SetSuggestions replaces the displayed suggestions and clears selection.
func (s *SuggestionBar) SetSuggestions(suggestions []string) {
	s.suggestions = suggestions
	s.selected = -1
	if len(s.suggestions) == 0 {
		s.focused = false
	}
}

// Suggestions returns the current suggestions.
func (s *SuggestionBar) Suggestions() []string {
	return s.suggestions
}

// Clear removes all suggestions.
func (s *SuggestionBar) Clear() {
	s.SetSuggestions(nil)
}

// IsEmpty reports whether there is anything to show.
func (s *SuggestionBar) IsEmpty() bool {
	return len(s.suggestions) == 0
}

// Focus moves keyboard focus onto the bar.
func (s *SuggestionBar) Focus() {
	if len(s.suggestions) == 0 {
		return
	}
	s.focused = true
	if s.selected < 0 {
		s.selected = 0
	}
}

// Blur removes keyboard focus.
func (s *SuggestionBar) Blur() {
	s.focused = false
}

// Focused reports whether the bar has keyboard focus.
func (s *SuggestionBar) Focused() bool {
	return s.focused
}

// SetWidth updates the available width.
func (s *SuggestionBar) SetWidth(width int) {
	s.width = width
}

// Choose activates suggestion i (0-based), if it exists.
func (s *SuggestionBar) Choose(i int) tea.Cmd {
	if i < 0 || i >= len(s.suggestions) {
		return nil
	}
	command := s.suggestions[i]
	return func() tea.Msg {
		return SuggestionChosenMsg{Command: command}
	}
}

// Update handles key events while the bar has focus.
func (s *SuggestionBar) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !s.focused || len(s.suggestions) == 0 {
		return nil, false
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "shift+tab":
			s.selected = (s.selected - 1 + len(s.suggestions)) % len(s.suggestions)
			return nil, true

		case "right", "l", "tab":
			s.selected = (s.selected + 1) % len(s.suggestions)
			return nil, true

		case "enter":
			return s.Choose(s.selected), true

		case "escape":
			s.Blur()
			return nil, true
		}
	}

	return nil, false
}

// View renders the bar. Empty suggestions render nothing.
func (s *SuggestionBar) View() string {
	if len(s.suggestions) == 0 {
		return ""
	}

	maxItem := suggestionMaxWidth
	if s.width > 0 {
		// Leave room for index badges and separators.
		perItem := s.width/len(s.suggestions) - 4
		if perItem < maxItem && perItem > 8 {
			maxItem = perItem
		}
	}

	var items []string
	for i, suggestion := range s.suggestions {
		label := util.TruncateWidth(suggestion, maxItem)
		index := s.theme.SuggestionIndex.Render(util.IntToStr(i+1) + " ")

		style := s.theme.SuggestionItem
		if s.focused && i == s.selected {
			style = s.theme.SuggestionSelected
		}
		items = append(items, index+style.Render(label))
	}

	row := strings.Join(items, lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | "))
	bar := s.theme.SuggestionBar
	if s.width > 0 {
		bar = bar.Width(s.width)
	}
	return bar.Render(row)
}
