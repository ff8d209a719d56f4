// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/engindearing-projects/cozyterm/internal/claude"
	"github.com/engindearing-projects/cozyterm/internal/runner"
	"github.com/engindearing-projects/cozyterm/internal/safety"
	"github.com/engindearing-projects/cozyterm/internal/ui/chat"
	"github.com/engindearing-projects/cozyterm/internal/ui/components"
	"github.com/engindearing-projects/cozyterm/internal/ui/terminal"
)

// Update routes events between the panels.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// The welcome overlay swallows the first keypress.
		if m.welcome.IsVisible() {
			if msg.String() == "ctrl+c" {
				return m.quit()
			}
			m.welcome.Hide()
			return m, nil
		}

		// The confirm dialog is modal.
		if m.confirmDialog.IsVisible() {
			cmd, _ := m.confirmDialog.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m.quit()

		case "tab":
			m.cycleFocus()
			return m, nil

		case "ctrl+b":
			m.cfg.UI.ShowSidebar = !m.cfg.UI.ShowSidebar
			if m.focus == focusFiles {
				m.focus = focusTerminal
				m.blurAll()
				m.applyFocus()
			}
			m.layout(m.width, m.height)
			return m, nil

		case "ctrl+e":
			m.explainMode = !m.explainMode
			m.statusBar.ExplainMode = m.explainMode
			return m, nil

		case "esc":
			if m.termPanel.IsRunning() && m.cancelRun != nil {
				m.cancelRun()
				return m, nil
			}

		case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5":
			index := int(msg.String()[4] - '1')
			return m, m.suggestionBar.Choose(index)
		}

		return m, m.routeToFocused(msg)

	case terminal.CommandSubmittedMsg:
		return m, m.handleCommand(msg.Command)

	case components.ConfirmResponseMsg:
		if msg.Approved {
			return m, m.startCommand(msg.Command)
		}
		m.termPanel.AppendCommand(msg.Command)
		m.termPanel.AppendError("canceled")
		return m, nil

	case components.SuggestionChosenMsg:
		m.suggestionBar.Blur()
		m.focus = focusTerminal
		m.applyFocus()
		return m, m.handleCommand(msg.Command)

	case components.FileSelectedMsg:
		return m, m.explainFile(msg)

	case components.DirChangedMsg:
		// The browser changed its own directory; keep the shell in step.
		m.dir = msg.Path
		m.termPanel.SetDir(msg.Path)
		m.header.SetDir(msg.Path)
		return m, nil

	case commandLineMsg:
		m.termPanel.AppendLine(msg.line)
		if msg.lines != m.lines {
			// Tail line of an already-finished command; its reader is done.
			return m, nil
		}
		return m, m.waitForLineCmd()

	case commandDoneMsg:
		return m, m.finishCommand(msg)

	case historyLoadedMsg:
		m.termPanel.SetHistory(msg.commands)
		return m, nil

	case streamDoneMsg:
		return m, m.finishStream(msg)

	case chat.SubmitMsg:
		return m, m.askCoach(msg.Content)

	case chat.StreamTickMsg:
		cmd, _ := m.chatPanel.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		cmd, _ := m.chatPanel.Update(msg)
		return m, cmd

	case conversationSavedMsg:
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}

	// Remaining messages (watcher reloads) go to the file browser.
	cmd, _ := m.fileBrowser.Update(msg)
	return m, cmd
}

// routeToFocused forwards a key to whichever panel has focus.
func (m *Model) routeToFocused(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	var consumed bool

	switch m.focus {
	case focusTerminal:
		cmd, consumed = m.termPanel.Update(msg)
	case focusChat:
		cmd, consumed = m.chatPanel.Update(msg)
	case focusFiles:
		cmd, consumed = m.fileBrowser.Update(msg)
	case focusSuggestions:
		cmd, consumed = m.suggestionBar.Update(msg)
	}

	if !consumed {
		return nil
	}
	return cmd
}

// quit saves the transcript and exits.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancelRun != nil {
		m.cancelRun()
	}
	if save := m.saveConversationCmd(); save != nil {
		return m, save
	}
	return m, tea.Quit
}

// =============================================================================
// COMMAND LIFECYCLE
// =============================================================================

// handleCommand takes a submitted command through the safety check.
func (m *Model) handleCommand(command string) tea.Cmd {
	if m.termPanel.IsRunning() {
		return nil
	}

	if dir, ok := parseCd(command, m.dir); ok {
		m.termPanel.AppendCommand(command)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			m.termPanel.AppendError("cd: no such directory: " + dir)
			return nil
		}
		m.setDir(dir)
		m.termPanel.AppendExit(0)
		return nil
	}

	if verdict := safety.Check(command); verdict.Flagged {
		m.confirmDialog.Show(command, verdict.Warning)
		return nil
	}
	return m.startCommand(command)
}

// startCommand launches an approved command. Each run gets its own line
// channel so readers from a previous command cannot steal this command's
// output.
func (m *Model) startCommand(command string) tea.Cmd {
	m.lines = make(chan string, 256)
	m.termPanel.AppendCommand(command)
	m.termPanel.SetRunning(true)
	m.statusBar.SetStatus(components.StatusRunning)
	m.runStartedAt = time.Now()
	m.suggestionBar.Clear()

	return tea.Batch(
		m.runCommandCmd(command),
		m.waitForLineCmd(),
	)
}

// finishCommand handles the end of a command run.
func (m *Model) finishCommand(msg commandDoneMsg) tea.Cmd {
	m.drainLines()
	m.termPanel.SetRunning(false)
	m.cancelRun = nil

	if msg.err != nil {
		m.statusBar.SetStatus(components.StatusError)
		switch {
		case errors.Is(msg.err, runner.ErrBadWorkdir):
			m.termPanel.AppendError("working directory does not exist: " + m.dir)
		default:
			m.termPanel.AppendError(msg.err.Error())
		}
		return nil
	}

	result := msg.result
	m.termPanel.AppendExit(result.ExitCode)
	m.statusBar.SetStatus(components.StatusReady)

	cmds := []tea.Cmd{
		m.recordHistoryCmd(result, m.runStartedAt),
		m.loadHistoryCmd(),
	}

	if m.explainMode && m.session.HasAPIKey() {
		prompt := claude.ExplainCommandPrompt(result.Command, result.ExitCode, result.Output)
		cmds = append(cmds, m.beginCoachTurn("", prompt))
	}

	return tea.Batch(cmds...)
}

// parseCd recognizes cd commands handled inside the shell itself.
// Returns the resolved target directory and whether this was a cd.
func parseCd(command, dir string) (string, bool) {
	if command != "cd" && !strings.HasPrefix(command, "cd ") {
		return "", false
	}

	target := strings.TrimSpace(strings.TrimPrefix(command, "cd"))
	switch {
	case target == "" || target == "~":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return home, true
	case strings.HasPrefix(target, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, target[2:]), true
	case filepath.IsAbs(target):
		return filepath.Clean(target), true
	default:
		return filepath.Join(dir, target), true
	}
}

// =============================================================================
// COACH LIFECYCLE
// =============================================================================

// askCoach sends a user chat question to the coach.
func (m *Model) askCoach(content string) tea.Cmd {
	if !m.session.HasAPIKey() {
		m.chatPanel.AddSystemNote("Set ANTHROPIC_API_KEY to enable coaching.")
		return nil
	}
	return m.beginCoachTurn(content, content)
}

// explainFile asks the coach about a file picked in the browser.
func (m *Model) explainFile(msg components.FileSelectedMsg) tea.Cmd {
	if !m.session.HasAPIKey() {
		m.chatPanel.AddSystemNote("Set ANTHROPIC_API_KEY to enable coaching.")
		return nil
	}

	preview, err := components.ReadFilePreview(msg.Path)
	if err != nil {
		m.chatPanel.AddSystemNote("Cannot read " + msg.Name + ": " + err.Error())
		return nil
	}

	prompt := claude.ExplainFilePrompt(msg.Name, msg.Path, msg.Size, preview)
	return m.beginCoachTurn("", prompt)
}

// beginCoachTurn opens a streaming reply. userContent appears in the
// transcript ("" for automatic explanations); prompt is what the coach
// actually receives.
func (m *Model) beginCoachTurn(userContent, prompt string) tea.Cmd {
	if m.chatPanel.IsStreaming() {
		return nil
	}
	m.statusBar.SetStatus(components.StatusThinking)

	id, tickCmd := m.chatPanel.BeginTurn(userContent)
	return tea.Batch(tickCmd, m.streamCmd(id, prompt))
}

// finishStream closes out a coach reply: suggestions move to the bar and
// the marker is stripped from the displayed text.
func (m *Model) finishStream(msg streamDoneMsg) tea.Cmd {
	suggestions := claude.ExtractSuggestions(msg.full)
	clean := claude.StripSuggestions(msg.full)

	m.chatPanel.FinishTurn(msg.messageID, clean, msg.err)
	m.suggestionBar.SetSuggestions(suggestions)

	if msg.err != nil {
		m.statusBar.SetStatus(components.StatusError)
	} else {
		m.statusBar.SetStatus(components.StatusReady)
	}
	return m.saveConversationCmd()
}
