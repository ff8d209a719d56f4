// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

func newTestTerminal() *Panel {
	p := New("/home/dev/project", styles.NewTheme())
	p.SetSize(80, 24)
	p.Focus()
	return p
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestSubmitCommand(t *testing.T) {
	p := newTestTerminal()
	p.SetInput("git status")

	cmd, consumed := p.Update(key(tea.KeyEnter))
	require.True(t, consumed)
	require.NotNil(t, cmd)

	msg, ok := cmd().(CommandSubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, "git status", msg.Command)
	assert.Empty(t, p.InputValue())
}

func TestSubmitTrimsWhitespace(t *testing.T) {
	p := newTestTerminal()
	p.SetInput("   ls -la   ")

	cmd, _ := p.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, "ls -la", cmd().(CommandSubmittedMsg).Command)
}

func TestEmptySubmitIgnored(t *testing.T) {
	p := newTestTerminal()
	cmd, consumed := p.Update(key(tea.KeyEnter))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
}

func TestSubmitBlockedWhileRunning(t *testing.T) {
	p := newTestTerminal()
	p.SetRunning(true)
	p.SetInput("echo hi")

	cmd, _ := p.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.True(t, p.IsRunning())
}

func TestHistoryRecall(t *testing.T) {
	p := newTestTerminal()
	p.SetHistory([]string{"newest", "middle", "oldest"})

	_, _ = p.Update(key(tea.KeyUp))
	assert.Equal(t, "newest", p.InputValue())

	_, _ = p.Update(key(tea.KeyUp))
	assert.Equal(t, "middle", p.InputValue())

	_, _ = p.Update(key(tea.KeyDown))
	assert.Equal(t, "newest", p.InputValue())
}

func TestHistoryRecallRestoresDraft(t *testing.T) {
	p := newTestTerminal()
	p.SetHistory([]string{"old command"})
	p.SetInput("half typed")

	_, _ = p.Update(key(tea.KeyUp))
	assert.Equal(t, "old command", p.InputValue())

	_, _ = p.Update(key(tea.KeyDown))
	assert.Equal(t, "half typed", p.InputValue())
}

func TestHistoryRecallStopsAtOldest(t *testing.T) {
	p := newTestTerminal()
	p.SetHistory([]string{"only"})

	_, _ = p.Update(key(tea.KeyUp))
	_, _ = p.Update(key(tea.KeyUp))
	assert.Equal(t, "only", p.InputValue())
}

func TestScrollbackAppend(t *testing.T) {
	p := newTestTerminal()
	p.AppendCommand("printf 'a\\nb'")
	p.AppendLine("a")
	p.AppendLine("b")
	p.AppendExit(0)

	view := p.View()
	assert.Contains(t, view, "printf")
	assert.Contains(t, view, "exit 0")
}

func TestAppendCommandHighlightsOnColorTerminals(t *testing.T) {
	theme := styles.NewTheme()
	theme.ColorProfile = termenv.ANSI256
	p := New("/home/dev/project", theme)
	p.SetSize(80, 24)

	p.AppendCommand("ls -la /tmp")
	require.Len(t, p.scrollback, 1)
	assert.Contains(t, p.scrollback[0], "\x1b[", "echo should carry color escapes")
}

func TestAppendCommandPlainWithoutColor(t *testing.T) {
	theme := styles.NewTheme()
	theme.ColorProfile = termenv.Ascii
	p := New("/home/dev/project", theme)
	p.SetSize(80, 24)

	p.AppendCommand("git status")
	require.Len(t, p.scrollback, 1)
	assert.Contains(t, p.scrollback[0], "git status")
	assert.False(t, strings.Contains(p.scrollback[0], "\x1b["))
}

func TestAppendExitNonZero(t *testing.T) {
	p := newTestTerminal()
	p.AppendExit(42)
	assert.Contains(t, p.View(), "exit 42")
}

func TestScrollbackBounded(t *testing.T) {
	p := newTestTerminal()
	for i := 0; i < scrollbackMaxLines+50; i++ {
		p.AppendLine("line")
	}
	assert.LessOrEqual(t, len(p.scrollback), scrollbackMaxLines)
}

func TestClearScrollback(t *testing.T) {
	p := newTestTerminal()
	p.AppendLine("something")
	p.Clear()
	assert.Empty(t, p.scrollback)
}

func TestPromptShowsBaseDir(t *testing.T) {
	p := newTestTerminal()
	assert.Contains(t, p.View(), "project $")

	p.SetDir("/tmp/elsewhere")
	assert.Contains(t, p.View(), "elsewhere $")
}

func TestBlurredPanelIgnoresKeys(t *testing.T) {
	p := newTestTerminal()
	p.Blur()
	_, consumed := p.Update(key(tea.KeyEnter))
	assert.False(t, consumed)
}
