// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app composes the cozyterm panels into the root Bubble Tea model
// and routes events between them: commands go through the safety check to
// the runner, output comes back line by line, and finished commands are
// handed to the coach for explanation.
package app

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/engindearing-projects/cozyterm/internal/claude"
	"github.com/engindearing-projects/cozyterm/internal/config"
	"github.com/engindearing-projects/cozyterm/internal/storage"
	"github.com/engindearing-projects/cozyterm/internal/ui/chat"
	"github.com/engindearing-projects/cozyterm/internal/ui/components"
	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
	"github.com/engindearing-projects/cozyterm/internal/ui/terminal"
)

// focusArea identifies which panel owns the keyboard.
type focusArea int

const (
	focusTerminal focusArea = iota
	focusChat
	focusFiles
	focusSuggestions
)

// historyRecallLimit caps how many commands feed up-arrow recall.
const historyRecallLimit = 200

// Model is the root cozyterm model.
type Model struct {
	cfg     *config.Config
	version string

	theme *styles.Theme

	header        *components.Header
	statusBar     *components.StatusBar
	welcome       *components.Welcome
	confirmDialog *components.ConfirmDialog
	suggestionBar *components.SuggestionBar
	fileBrowser   *components.FileBrowser
	termPanel     *terminal.Panel
	chatPanel     *chat.Panel

	session   *claude.Session
	history   *storage.History
	convStore *storage.ConversationStore

	// Running command state. lines carries runner output into the Bubble
	// Tea loop; it is allocated per command and closed when the command
	// finishes. cancelRun kills the running child.
	lines     chan string
	cancelRun func()

	// runStartedAt stamps the current command for history recording.
	runStartedAt time.Time

	dir         string
	focus       focusArea
	explainMode bool
	width       int
	height      int
	quitting    bool
}

// New creates the root model. history and convStore may be nil when
// persistence is disabled.
func New(cfg *config.Config, session *claude.Session, history *storage.History, convStore *storage.ConversationStore, version string) *Model {
	theme := styles.NewTheme()

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	termPanel := terminal.New(dir, theme)
	termPanel.Focus()

	statusBar := components.NewStatusBar(theme)
	statusBar.ModelName = session.Model()
	statusBar.Coaching = session.HasAPIKey()
	statusBar.ExplainMode = cfg.UI.ExplainMode

	header := components.NewHeader(version, theme)
	header.SetDir(dir)

	welcome := components.NewWelcome(version, session.HasAPIKey(), theme)
	if !cfg.UI.ShowWelcome {
		welcome.Hide()
	}

	m := &Model{
		cfg:           cfg,
		version:       version,
		theme:         theme,
		header:        header,
		statusBar:     statusBar,
		welcome:       welcome,
		confirmDialog: components.NewConfirmDialog(theme),
		suggestionBar: components.NewSuggestionBar(theme),
		fileBrowser:   components.NewFileBrowser(dir, theme),
		termPanel:     termPanel,
		chatPanel:     chat.New(session.Model(), theme),
		session:       session,
		history:       history,
		convStore:     convStore,
		dir:           dir,
		focus:         focusTerminal,
		explainMode:   cfg.UI.ExplainMode,
	}
	return m
}

// Init starts the file watcher and history load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.fileBrowser.WatchEvents(),
		m.loadHistoryCmd(),
	)
}

// Close releases resources owned by the model.
func (m *Model) Close() {
	m.fileBrowser.Close()
}

// cycleFocus moves keyboard focus to the next panel.
func (m *Model) cycleFocus() {
	m.blurAll()

	switch m.focus {
	case focusTerminal:
		m.focus = focusChat
	case focusChat:
		if m.cfg.UI.ShowSidebar {
			m.focus = focusFiles
		} else if !m.suggestionBar.IsEmpty() {
			m.focus = focusSuggestions
		} else {
			m.focus = focusTerminal
		}
	case focusFiles:
		if !m.suggestionBar.IsEmpty() {
			m.focus = focusSuggestions
		} else {
			m.focus = focusTerminal
		}
	default:
		m.focus = focusTerminal
	}

	m.applyFocus()
}

// blurAll removes focus from every panel.
func (m *Model) blurAll() {
	m.termPanel.Blur()
	m.chatPanel.Blur()
	m.fileBrowser.Blur()
	m.suggestionBar.Blur()
}

// applyFocus focuses the panel named by m.focus.
func (m *Model) applyFocus() {
	switch m.focus {
	case focusTerminal:
		m.termPanel.Focus()
	case focusChat:
		m.chatPanel.Focus()
	case focusFiles:
		m.fileBrowser.Focus()
	case focusSuggestions:
		m.suggestionBar.Focus()
	}
}

// setDir changes the working directory everywhere it is displayed.
func (m *Model) setDir(dir string) {
	m.dir = dir
	m.termPanel.SetDir(dir)
	m.header.SetDir(dir)
	m.fileBrowser.SetDir(dir)
}
