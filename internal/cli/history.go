// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Command history listing for the cozyterm CLI.
//
// Handles "cozyterm history [n]", which prints the last n commands from
// the history database, newest first.

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/engindearing-projects/cozyterm/internal/config"
	"github.com/engindearing-projects/cozyterm/internal/storage"
)

// defaultHistoryListLimit is how many entries "cozyterm history" shows.
const defaultHistoryListLimit = 20

// HandleHistory handles the "history" command.
func HandleHistory(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the config")
	}

	limit := defaultHistoryListLimit
	if len(args.Raw) > 0 {
		n, err := strconv.Atoi(args.Raw[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("history count must be a positive integer, got %q", args.Raw[0])
		}
		limit = n
	}

	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	history, err := storage.OpenHistory(path, cfg.History.MaxEntries)
	if err != nil {
		return fmt.Errorf("cannot open history: %w", err)
	}
	defer history.Close()

	entries, err := history.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("[No history yet]"))
		return nil
	}

	for _, e := range entries {
		marker := commandStyle.Render("✓")
		if e.ExitCode != 0 {
			marker = errorStyle.Render(fmt.Sprintf("✗ %d", e.ExitCode))
		}
		fmt.Printf("  %s  %s  %s\n",
			infoStyle.Render(e.StartedAt.Format(time.DateTime)),
			e.Command,
			marker)
	}
	return nil
}
