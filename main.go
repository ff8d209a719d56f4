// cozyterm - a cozy coaching shell.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/engindearing-projects/cozyterm/internal/app"
	"github.com/engindearing-projects/cozyterm/internal/claude"
	"github.com/engindearing-projects/cozyterm/internal/cli"
	"github.com/engindearing-projects/cozyterm/internal/config"
	"github.com/engindearing-projects/cozyterm/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with the cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdAsk:
		if err := cli.HandleAsk(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdChat:
		if err := cli.HandleChat(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdHistory:
		if err := cli.HandleHistory(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.HandleHelp()
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) error {
	if !cli.IsTTY() {
		return fmt.Errorf("cozyterm needs a terminal; try 'cozyterm ask' for piped use")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// CLI args override config.
	if args.Model != "" {
		cfg.Claude.Model = args.Model
	}
	if args.NoExplain {
		cfg.UI.ExplainMode = false
	}
	if args.NoSidebar {
		cfg.UI.ShowSidebar = false
	}

	client := claude.NewClient(cfg.Claude.APIKey).
		WithModel(cfg.Claude.Model).
		WithMaxTokens(cfg.Claude.MaxTokens)
	session := claude.NewSession(client)

	// History persistence is best-effort: the shell still works when the
	// database cannot be opened.
	var history *storage.History
	if cfg.History.Enabled {
		if path, err := cfg.HistoryPath(); err == nil {
			if h, err := storage.OpenHistory(path, cfg.History.MaxEntries); err == nil {
				history = h
			} else {
				fmt.Fprintf(os.Stderr, "Warning: command history unavailable: %v\n", err)
			}
		}
	}
	if history != nil {
		defer history.Close()
	}

	var convStore *storage.ConversationStore
	if dir, err := cfg.ConversationsDir(); err == nil {
		if cs, err := storage.NewConversationStore(dir); err == nil {
			convStore = cs
		} else {
			fmt.Fprintf(os.Stderr, "Warning: transcript storage unavailable: %v\n", err)
		}
	}

	m := app.New(cfg, session, history, convStore, Version)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running cozyterm: %w", err)
	}
	return nil
}
