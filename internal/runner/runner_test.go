// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}
}

func TestRunStreamsLinesInOrder(t *testing.T) {
	skipOnWindows(t)

	var streamed []string
	r := &Runner{OnLine: func(line string) { streamed = append(streamed, line) }}

	result, err := r.Run(context.Background(), `printf 'a\nb\nc'`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, streamed)
	assert.Equal(t, "a\nb\nc", result.Output)
	assert.Equal(t, 0, result.ExitCode)
}

func TestRunExitCode(t *testing.T) {
	skipOnWindows(t)

	result, err := Run(context.Background(), "exit 42", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, result.ExitCode)
	assert.Equal(t, "", result.Output)
}

func TestRunMergesStderr(t *testing.T) {
	skipOnWindows(t)

	result, err := Run(context.Background(), "echo err >&2", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "err")
}

func TestRunInterleavesStreams(t *testing.T) {
	skipOnWindows(t)

	result, err := Run(context.Background(), "echo one; echo two >&2; echo three", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree", result.Output)
}

func TestRunEmptyOutput(t *testing.T) {
	skipOnWindows(t)

	result, err := Run(context.Background(), "true", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "", result.Output)
	assert.Equal(t, 0, result.ExitCode)
}

func TestRunPreservesCommandVerbatim(t *testing.T) {
	skipOnWindows(t)

	cmd := "  echo hi  "
	result, err := Run(context.Background(), cmd, "", nil)
	require.NoError(t, err)
	assert.Equal(t, cmd, result.Command)
}

func TestRunWorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	result, err := Run(context.Background(), "pwd", dir, nil)
	require.NoError(t, err)

	// Resolve symlinks (macOS tempdirs live under /private).
	want, werr := filepath.EvalSymlinks(dir)
	require.NoError(t, werr)
	got, gerr := filepath.EvalSymlinks(strings.TrimSpace(result.Output))
	require.NoError(t, gerr)
	assert.Equal(t, want, got)
}

func TestRunBadWorkingDirectory(t *testing.T) {
	result, err := Run(context.Background(), "pwd", "/nonexistent/xyz", nil)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrBadWorkdir))
}

func TestRunWorkingDirectoryIsFile(t *testing.T) {
	skipOnWindows(t)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Run(context.Background(), "pwd", file, nil)
	assert.True(t, errors.Is(err, ErrBadWorkdir))
}

func TestRunTrailingNewlineNotDuplicated(t *testing.T) {
	skipOnWindows(t)

	// echo emits a trailing newline; the joined output must not keep it.
	result, err := Run(context.Background(), "echo hi", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", result.Output)
}

func TestRunBlankLinesPreserved(t *testing.T) {
	skipOnWindows(t)

	var streamed []string
	_, err := Run(context.Background(), `printf 'a\n\nb\n'`, "", func(line string) {
		streamed = append(streamed, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, streamed)
}

func TestRunOutputMatchesStreamedLines(t *testing.T) {
	skipOnWindows(t)

	var streamed []string
	result, err := Run(context.Background(), "seq 1 20", "", func(line string) {
		streamed = append(streamed, line)
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Join(streamed, "\n"), result.Output)
	assert.Len(t, streamed, 20)
}

func TestRunInvalidUTF8Replaced(t *testing.T) {
	skipOnWindows(t)

	result, err := Run(context.Background(), `printf '\xff\xfe ok\n'`, "", nil)
	require.NoError(t, err)
	assert.Contains(t, result.Output, "ok")
	assert.True(t, strings.Contains(result.Output, "�"))
}
