// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides persistence for cozyterm: the sqlite command
// history and saved conversation transcripts.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryEntry is one executed command.
type HistoryEntry struct {
	ID         int64
	Command    string
	ExitCode   int
	Dir        string
	Duration   time.Duration
	StartedAt  time.Time
}

// History is the sqlite-backed command history.
type History struct {
	db *sql.DB

	// maxEntries bounds stored rows; 0 means unlimited.
	maxEntries int
}

const historySchema = `
CREATE TABLE IF NOT EXISTS commands (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	command     TEXT NOT NULL,
	exit_code   INTEGER NOT NULL,
	dir         TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	started_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_started_at ON commands(started_at);
`

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string, maxEntries int) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open history db: %w", err)
	}
	// One writer at a time; the TUI is single-threaded anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize history schema: %w", err)
	}
	return &History{db: db, maxEntries: maxEntries}, nil
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}

// Record stores one executed command and prunes old rows past the cap.
func (h *History) Record(entry HistoryEntry) error {
	_, err := h.db.Exec(
		`INSERT INTO commands (command, exit_code, dir, duration_ms, started_at) VALUES (?, ?, ?, ?, ?)`,
		entry.Command, entry.ExitCode, entry.Dir, entry.Duration.Milliseconds(), entry.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("cannot record command: %w", err)
	}
	return h.prune()
}

// Recent returns the most recent entries, newest first.
func (h *History) Recent(limit int) ([]HistoryEntry, error) {
	rows, err := h.db.Query(
		`SELECT id, command, exit_code, dir, duration_ms, started_at
		 FROM commands ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.Command, &e.ExitCode, &e.Dir, &durationMs, &e.StartedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecentCommands returns distinct recent command strings, newest first.
// This feeds the terminal panel's up-arrow recall.
func (h *History) RecentCommands(limit int) ([]string, error) {
	rows, err := h.db.Query(
		`SELECT command, MAX(id) AS last FROM commands
		 GROUP BY command ORDER BY last DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot query history: %w", err)
	}
	defer rows.Close()

	var commands []string
	for rows.Next() {
		var cmd string
		var last int64
		if err := rows.Scan(&cmd, &last); err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, rows.Err()
}

// Count returns the number of stored entries.
func (h *History) Count() (int, error) {
	var n int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM commands`).Scan(&n)
	return n, err
}

// prune deletes the oldest rows beyond maxEntries.
func (h *History) prune() error {
	if h.maxEntries <= 0 {
		return nil
	}
	_, err := h.db.Exec(
		`DELETE FROM commands WHERE id NOT IN
		 (SELECT id FROM commands ORDER BY id DESC LIMIT ?)`, h.maxEntries)
	return err
}
