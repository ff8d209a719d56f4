// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner executes shell commands and streams their output line
// by line.
//
// Each invocation owns one child process, one pipe, and one output buffer;
// nothing is shared between concurrent invocations. The command string is
// handed verbatim to the system shell - pipes, redirection, and quoting are
// the shell's business, not this package's.
//
// Cancellation is a known gap: once the child is running, an abandoned
// invocation may leave an orphaned process behind. Callers must not rely
// on structured cancellation.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// sentinelExitCode is reported when the child's real exit status could not
// be recovered (pipe failure, wait error).
const sentinelExitCode = -1

// ErrBadWorkdir indicates the requested working directory does not exist
// or is not a directory. The failure happens before any process is spawned.
var ErrBadWorkdir = errors.New("working directory does not exist")

// LaunchError indicates the shell could not be spawned at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// LineFunc receives one decoded output line, without its trailing newline.
// The runner waits for the function to return before reading the next line,
// so a slow sink applies backpressure to the child through the pipe.
type LineFunc func(line string)

// Result represents one completed command.
type Result struct {
	// Command is the original command text, verbatim.
	Command string

	// ExitCode is the child's exit status as reported by the OS, or -1
	// when the status could not be recovered.
	ExitCode int

	// Output is the captured output: the streamed lines rejoined with a
	// single newline. Empty output yields "", not an empty line.
	Output string

	// Duration is the wall-clock time from spawn to exit.
	Duration time.Duration
}

// Runner spawns shell commands. The zero value is usable; Dir defaults to
// the process working directory at call time.
type Runner struct {
	// Dir is the working directory for commands. Empty means inherit.
	Dir string

	// OnLine, if set, receives each output line as it is read.
	OnLine LineFunc
}

// Run executes command under the system shell, streaming merged
// stdout/stderr output line by line.
//
// Lines are delivered to OnLine in exactly the order they appear on the
// merged stream, each exactly once; the sink for line N returns before
// line N+1 is read. Invalid UTF-8 in the output is replaced, never fatal.
//
// Failures before any output is produced (bad working directory, spawn
// failure) return an error. Failures after the child has started surface
// as a sentinel exit code with whatever output was already buffered.
func (r *Runner) Run(ctx context.Context, command string) (*Result, error) {
	if r.Dir != "" {
		info, err := os.Stat(r.Dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrBadWorkdir, r.Dir)
		}
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = r.Dir

	// One pipe carries both streams so error text stays interleaved with
	// normal output exactly as the child produced it.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, &LaunchError{Command: command, Err: err}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, &LaunchError{Command: command, Err: err}
	}
	// The parent's write end must close or the read loop never sees EOF.
	pw.Close()

	lines, readErr := r.streamLines(pr)
	pr.Close()

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = sentinelExitCode
		}
	}
	if readErr != nil && exitCode == 0 {
		// The child exited cleanly but the pipe failed mid-stream; do not
		// report success for output we may have lost.
		exitCode = sentinelExitCode
	}

	return &Result{
		Command:  command,
		ExitCode: exitCode,
		Output:   strings.Join(lines, "\n"),
		Duration: time.Since(start),
	}, nil
}

// streamLines reads the merged pipe to EOF, buffering each line and
// delivering it to the sink. A final line without a trailing newline is
// still delivered. Returns the buffered lines and any read error other
// than EOF; already-buffered lines are always returned.
func (r *Runner) streamLines(pipe io.Reader) ([]string, error) {
	reader := bufio.NewReader(pipe)
	var lines []string

	for {
		raw, err := reader.ReadString('\n')
		if len(raw) > 0 {
			line := strings.ToValidUTF8(strings.TrimSuffix(raw, "\n"), "�")
			if line != "" || strings.HasSuffix(raw, "\n") {
				lines = append(lines, line)
				if r.OnLine != nil {
					r.OnLine(line)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return lines, nil
			}
			return lines, err
		}
	}
}

// Run executes command with the given working directory and line sink.
// It is a convenience wrapper over the Runner type.
func Run(ctx context.Context, command, dir string, onLine LineFunc) (*Result, error) {
	r := &Runner{Dir: dir, OnLine: onLine}
	return r.Run(ctx, command)
}
