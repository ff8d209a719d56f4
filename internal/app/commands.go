// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/engindearing-projects/cozyterm/internal/runner"
	"github.com/engindearing-projects/cozyterm/internal/storage"
)

// =============================================================================
// INTERNAL MESSAGES
// =============================================================================

// historyLoadedMsg delivers recall history from the database.
type historyLoadedMsg struct {
	commands []string
}

// commandLineMsg delivers one line of live command output. lines
// identifies the channel it came from so a late delivery from a finished
// command cannot re-arm a reader for the current one.
type commandLineMsg struct {
	lines chan string
	line  string
}

// commandDoneMsg signals that a command finished (or failed to start).
type commandDoneMsg struct {
	result *runner.Result
	err    error
}

// streamDoneMsg signals that a coach reply finished streaming. full holds
// the raw reply including any suggestion marker.
type streamDoneMsg struct {
	messageID string
	full      string
	err       error
}

// conversationSavedMsg confirms a transcript save.
type conversationSavedMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadHistoryCmd reads recall history from the database.
func (m *Model) loadHistoryCmd() tea.Cmd {
	if m.history == nil {
		return nil
	}
	history := m.history
	return func() tea.Msg {
		commands, err := history.RecentCommands(historyRecallLimit)
		if err != nil {
			return historyLoadedMsg{}
		}
		return historyLoadedMsg{commands: commands}
	}
}

// runCommandCmd executes a shell command, feeding output into m.lines.
// The channel is closed once the command finishes so the parked reader
// from waitForLineCmd terminates instead of outliving the command.
func (m *Model) runCommandCmd(command string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel

	lines := m.lines
	dir := m.dir
	return func() tea.Msg {
		defer cancel()
		result, err := runner.Run(ctx, command, dir, func(line string) {
			lines <- line
		})
		close(lines)
		return commandDoneMsg{result: result, err: err}
	}
}

// waitForLineCmd blocks on the next line of command output. It returns
// nil once the command's channel is closed and drained.
func (m *Model) waitForLineCmd() tea.Cmd {
	lines := m.lines
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return nil
		}
		return commandLineMsg{lines: lines, line: line}
	}
}

// drainLines consumes buffered output without blocking, preserving the
// line order when the done message overtakes the tail of the output.
func (m *Model) drainLines() {
	for {
		select {
		case line, ok := <-m.lines:
			if !ok {
				return
			}
			m.termPanel.AppendLine(line)
		default:
			return
		}
	}
}

// streamCmd sends a prompt to the coach, writing tokens into the chat
// panel's streaming buffer as they arrive.
func (m *Model) streamCmd(messageID, prompt string) tea.Cmd {
	session := m.session
	buffer := m.chatPanel.Buffer()
	return func() tea.Msg {
		full, err := session.StreamMessage(context.Background(), prompt, buffer.Write)
		return streamDoneMsg{messageID: messageID, full: full, err: err}
	}
}

// recordHistoryCmd persists a finished command.
func (m *Model) recordHistoryCmd(result *runner.Result, startedAt time.Time) tea.Cmd {
	if m.history == nil || result == nil {
		return nil
	}
	history := m.history
	entry := storage.HistoryEntry{
		Command:   result.Command,
		ExitCode:  result.ExitCode,
		Dir:       m.dir,
		Duration:  result.Duration,
		StartedAt: startedAt,
	}
	return func() tea.Msg {
		_ = history.Record(entry)
		return nil
	}
}

// saveConversationCmd persists the chat transcript.
func (m *Model) saveConversationCmd() tea.Cmd {
	if m.convStore == nil || m.chatPanel.Conversation().Len() == 0 {
		return nil
	}
	store := m.convStore
	conv := m.chatPanel.Conversation()
	return func() tea.Msg {
		return conversationSavedMsg{err: store.Save(conv)}
	}
}
