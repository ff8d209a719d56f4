// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal provides the command panel for the cozyterm TUI: a
// prompt line plus a scrollback of executed commands and their output.
package terminal

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/engindearing-projects/cozyterm/internal/ui/components"
	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
	"github.com/engindearing-projects/cozyterm/internal/util"
)

// =============================================================================
// TERMINAL PANEL
// =============================================================================

// CommandSubmittedMsg signals that the user submitted a shell command.
type CommandSubmittedMsg struct {
	Command string
}

// scrollbackMaxLines bounds the in-memory scrollback.
const scrollbackMaxLines = 2000

// commandCharLimit caps a single command line.
const commandCharLimit = 2000

// Panel is the command pane.
type Panel struct {
	dir        string
	scrollback []string
	input      textinput.Model

	viewport viewport.Model

	// history holds previously run commands, newest first. historyPos is
	// the recall cursor: -1 means not recalling; draft keeps the typed
	// line while the user browses history.
	history    []string
	historyPos int
	draft      string

	running bool
	focused bool
	width   int
	height  int

	theme *styles.Theme
}

// New creates the terminal panel rooted at dir.
func New(dir string, theme *styles.Theme) *Panel {
	input := textinput.New()
	input.Placeholder = "type a command..."
	input.CharLimit = commandCharLimit
	input.Prompt = ""

	return &Panel{
		dir:        dir,
		input:      input,
		viewport:   viewport.New(60, 18),
		historyPos: -1,
		theme:      theme,
	}
}

// Dir returns the panel's working directory.
func (p *Panel) Dir() string { return p.dir }

// SetDir updates the working directory shown in the prompt.
func (p *Panel) SetDir(dir string) { p.dir = dir }

// SetHistory replaces the recall history (newest first).
func (p *Panel) SetHistory(history []string) {
	p.history = history
	p.historyPos = -1
}

// SetRunning toggles the running state; input is ignored while a command
// executes so output ordering stays intact.
func (p *Panel) SetRunning(running bool) { p.running = running }

// IsRunning reports whether a command is executing.
func (p *Panel) IsRunning() bool { return p.running }

// Focus gives the input keyboard focus.
func (p *Panel) Focus() {
	p.focused = true
	p.input.Focus()
}

// Blur removes keyboard focus.
func (p *Panel) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused reports whether the panel has keyboard focus.
func (p *Panel) Focused() bool { return p.focused }

// SetInput prefills the command line, e.g. from a chosen suggestion.
func (p *Panel) SetInput(command string) {
	p.input.SetValue(command)
	p.input.CursorEnd()
}

// InputValue returns the current command line.
func (p *Panel) InputValue() string { return p.input.Value() }

// SetSize updates the panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height

	viewportHeight := height - 2
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	p.viewport.Width = width
	p.viewport.Height = viewportHeight
	p.input.Width = width - lipglossPromptWidth(p.promptText()) - 2
	p.refreshViewport()
}

// =============================================================================
// SCROLLBACK
// =============================================================================

// AppendCommand echoes a submitted command into the scrollback, with
// shell syntax highlighting on color-capable terminals.
func (p *Panel) AppendCommand(command string) {
	prompt := p.theme.Prompt.Render(p.promptText())
	echo := command
	if p.theme.ColorProfile != termenv.Ascii {
		echo = strings.TrimRight(components.HighlightShell(command), "\n")
	}
	p.appendRaw(prompt + p.theme.CommandEcho.Render(echo))
}

// AppendLine appends one line of command output.
func (p *Panel) AppendLine(line string) {
	p.appendRaw(p.theme.OutputLine.Render(line))
}

// AppendExit appends the exit trailer after a command finishes.
func (p *Panel) AppendExit(exitCode int) {
	if exitCode == 0 {
		p.appendRaw(p.theme.ExitOK.Render("✓ exit 0"))
	} else {
		p.appendRaw(p.theme.ExitFail.Render("✗ exit " + util.IntToStr(exitCode)))
	}
	p.appendRaw("")
}

// AppendError appends a local failure (spawn error, bad directory).
func (p *Panel) AppendError(message string) {
	p.appendRaw(p.theme.ExitFail.Render(message))
	p.appendRaw("")
}

// appendRaw adds a rendered line, trims the scrollback, and follows the tail.
func (p *Panel) appendRaw(line string) {
	p.scrollback = append(p.scrollback, line)
	if len(p.scrollback) > scrollbackMaxLines {
		overflow := len(p.scrollback) - scrollbackMaxLines
		p.scrollback = append(p.scrollback[:0:0], p.scrollback[overflow:]...)
	}
	p.refreshViewport()
}

// Clear empties the scrollback.
func (p *Panel) Clear() {
	p.scrollback = nil
	p.refreshViewport()
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles terminal input.
func (p *Panel) Update(msg tea.Msg) (tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return nil, false
	}

	switch keyMsg.String() {
	case "enter":
		command := strings.TrimSpace(p.input.Value())
		if command == "" || p.running {
			return nil, true
		}
		p.input.Reset()
		p.historyPos = -1
		p.draft = ""
		return func() tea.Msg { return CommandSubmittedMsg{Command: command} }, true

	case "up":
		p.recallOlder()
		return nil, true

	case "down":
		p.recallNewer()
		return nil, true

	case "pgup":
		p.viewport.LineUp(5)
		return nil, true

	case "pgdown":
		p.viewport.LineDown(5)
		return nil, true

	case "ctrl+l":
		p.Clear()
		return nil, true
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(keyMsg)
	// Any edit exits recall mode.
	p.historyPos = -1
	return cmd, true
}

// recallOlder steps back through history.
func (p *Panel) recallOlder() {
	if len(p.history) == 0 || p.historyPos >= len(p.history)-1 {
		return
	}
	if p.historyPos == -1 {
		p.draft = p.input.Value()
	}
	p.historyPos++
	p.input.SetValue(p.history[p.historyPos])
	p.input.CursorEnd()
}

// recallNewer steps forward, restoring the draft at the end.
func (p *Panel) recallNewer() {
	if p.historyPos == -1 {
		return
	}
	p.historyPos--
	if p.historyPos == -1 {
		p.input.SetValue(p.draft)
	} else {
		p.input.SetValue(p.history[p.historyPos])
	}
	p.input.CursorEnd()
}

// View renders the terminal panel.
func (p *Panel) View() string {
	var b strings.Builder
	b.WriteString(p.viewport.View())
	b.WriteString("\n")
	b.WriteString(p.theme.Prompt.Render(p.promptText()))
	b.WriteString(p.input.View())
	return b.String()
}

// promptText renders the cwd prompt, shortened to the base directory.
func (p *Panel) promptText() string {
	base := filepath.Base(p.dir)
	if base == "" {
		base = p.dir
	}
	return base + " $ "
}

// refreshViewport re-renders the scrollback and follows the tail.
func (p *Panel) refreshViewport() {
	p.viewport.SetContent(strings.Join(p.scrollback, "\n"))
	p.viewport.GotoBottom()
}

// lipglossPromptWidth measures the prompt without styling.
func lipglossPromptWidth(prompt string) int {
	return util.StringWidth(prompt)
}
