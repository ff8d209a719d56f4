// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for cozyterm.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdHistory
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model     string
	Quiet     bool
	NoExplain bool
	NoSidebar bool

	// Command-specific
	Query string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `cozyterm - a cozy coaching shell

Cozyterm wraps your shell in a warm terminal UI: commands stream live,
destructive ones get a confirmation first, and a coach explains output
and proposes next steps.

Usage:
  cozyterm                   Start the TUI (default)
  cozyterm ask "question"    Ask the coach a single question
  cozyterm chat              Line-mode chat (no TUI)
  cozyterm history [n]       Show recent command history
  cozyterm version           Show version information
  cozyterm help              Show this help

Global Flags:
  -m, --model NAME    Use a specific Claude model
  -q, --quiet         Minimal output
  --no-explain        Start with explain mode off
  --no-sidebar        Start without the file browser

Chat Commands (during cozyterm chat):
  /clear              Clear conversation history
  /history            Show the transcript so far
  /quit, /q           Exit chat
  Ctrl+C              Cancel / exit
  Ctrl+D              Exit chat

Environment:
  ANTHROPIC_API_KEY   API key for the coach (required for chat features)
  COZYTERM_MODEL      Override the configured model
  COZYTERM_CONFIG     Alternate config file path

Configuration:
  ~/.cozyterm/config.toml
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsed := parseGlobalFlags(args)

	// No remaining args means the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parsed.Query = strings.Join(remaining, " ")
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "history", "hist":
		return CmdHistory, parsed

	case "version", "-V", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags, returning the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	i := 0
	for i < len(args) {
		switch args[i] {
		case "-m", "--model":
			if i+1 < len(args) {
				parsed.Model = args[i+1]
				i += 2
				continue
			}
			i++
		case "-q", "--quiet":
			parsed.Quiet = true
			i++
		case "--no-explain":
			parsed.NoExplain = true
			i++
		case "--no-sidebar":
			parsed.NoSidebar = true
			i++
		default:
			remaining = append(remaining, args[i])
			i++
		}
	}

	return remaining, parsed
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("cozyterm %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// HandleHelp prints usage information.
func HandleHelp() {
	fmt.Print(usageText)
}
