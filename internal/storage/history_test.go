// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T, maxEntries int) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"), maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryRecordAndRecent(t *testing.T) {
	h := openTestHistory(t, 0)

	start := time.Now().Truncate(time.Second)
	require.NoError(t, h.Record(HistoryEntry{
		Command: "ls -la", ExitCode: 0, Dir: "/tmp",
		Duration: 120 * time.Millisecond, StartedAt: start,
	}))
	require.NoError(t, h.Record(HistoryEntry{
		Command: "git status", ExitCode: 1, Dir: "/tmp",
		Duration: 340 * time.Millisecond, StartedAt: start.Add(time.Second),
	}))

	entries, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "git status", entries[0].Command)
	assert.Equal(t, 1, entries[0].ExitCode)
	assert.Equal(t, 340*time.Millisecond, entries[0].Duration)
	assert.Equal(t, "ls -la", entries[1].Command)
	assert.Equal(t, "/tmp", entries[1].Dir)
}

func TestHistoryRecentCommandsDeduplicates(t *testing.T) {
	h := openTestHistory(t, 0)

	now := time.Now()
	for _, cmd := range []string{"ls", "pwd", "ls", "git log"} {
		require.NoError(t, h.Record(HistoryEntry{Command: cmd, StartedAt: now}))
	}

	commands, err := h.RecentCommands(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"git log", "ls", "pwd"}, commands)
}

func TestHistoryPrunesOldest(t *testing.T) {
	h := openTestHistory(t, 3)

	now := time.Now()
	for _, cmd := range []string{"one", "two", "three", "four", "five"} {
		require.NoError(t, h.Record(HistoryEntry{Command: cmd, StartedAt: now}))
	}

	count, err := h.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	entries, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "five", entries[0].Command)
	assert.Equal(t, "three", entries[2].Command)
}

func TestHistoryRecentLimit(t *testing.T) {
	h := openTestHistory(t, 0)

	now := time.Now()
	for _, cmd := range []string{"a", "b", "c"} {
		require.NoError(t, h.Record(HistoryEntry{Command: cmd, StartedAt: now}))
	}

	entries, err := h.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Command)
}
