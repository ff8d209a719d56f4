// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the cozyterm CLI.
//
// Handles "cozyterm chat", a line-mode REPL with the coach for terminals
// where the full TUI is unwanted (ssh sessions, scripts around a TTY).
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /history            Show the transcript so far
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current generation
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/engindearing-projects/cozyterm/internal/claude"
	"github.com/engindearing-projects/cozyterm/internal/config"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatInput provides input history and line editing for interactive chat.
type chatInput struct {
	line        *liner.State
	historyFile string
}

// newChatInput creates a line reader with persistent input history.
func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	in := &chatInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	in.loadHistory()
	return in
}

func (c *chatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// readInput reads one line with history navigation.
func (c *chatInput) readInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists input history with owner-only permissions.
func (c *chatInput) saveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

func (c *chatInput) close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("chat needs a terminal; use 'cozyterm ask' for piped input")
	}

	session, err := newSession(args)
	if err != nil {
		return err
	}
	if !session.HasAPIKey() {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY to use the coach")
	}

	if !args.Quiet {
		printChatWelcome(session)
	}

	input := newChatInput()
	defer input.close()

	startTime := time.Now()
	turns := 0

	for {
		line, err := input.readInput(promptStyle.Render("cozyterm> "))
		if err != nil {
			// liner.ErrPromptAborted is Ctrl+C; anything else is EOF.
			fmt.Println()
			printChatSummary(session, startTime, turns)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if !handleChatCommand(line, session) {
				printChatSummary(session, startTime, turns)
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printChatSummary(session, startTime, turns)
			return nil
		}

		if err := chatTurn(session, line, args.Quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
		turns++
	}
}

// chatTurn sends one message and prints the streamed reply.
func chatTurn(session *claude.Session, line string, quiet bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println()

	useMarkdown := IsStdoutTTY()
	full, err := session.StreamMessage(ctx, line, func(token string) {
		if !useMarkdown {
			fmt.Print(token)
		}
	})
	if err != nil && full == "" {
		return err
	}

	suggestions := claude.ExtractSuggestions(full)
	clean := claude.StripSuggestions(full)

	if useMarkdown {
		fmt.Print(renderMarkdown(clean))
	} else {
		fmt.Println()
	}
	printSuggestions(suggestions, quiet)
	fmt.Println()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s reply was cut short: %v\n", warningStyle.Render("[Warning]"), err)
	}
	return nil
}

// handleChatCommand processes slash commands. Returns false to exit.
func handleChatCommand(cmd string, session *claude.Session) bool {
	switch strings.ToLower(strings.Fields(cmd)[0]) {
	case "/help", "/h", "/?", "/":
		printChatHelp()
		return true

	case "/clear", "/c":
		session.Reset()
		fmt.Println(commandStyle.Render("[Conversation cleared]"))
		return true

	case "/history":
		printTranscript(session)
		return true

	case "/quit", "/q", "/exit":
		return false

	default:
		fmt.Fprintf(os.Stderr, "%s unknown command: %s (type /help)\n",
			errorStyle.Render("[Error]"), cmd)
		return true
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// printChatWelcome prints the chat banner.
func printChatWelcome(session *claude.Session) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("cozyterm chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(session.Model()))
	fmt.Println()
	fmt.Println(infoStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

// printChatHelp prints available slash commands.
func printChatHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/clear, /c", "Clear conversation history"},
		{"/history", "Show the transcript so far"},
		{"/quit, /q", "Exit chat"},
	}

	fmt.Println()
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels, Ctrl+D exits"))
	fmt.Println()
}

// printTranscript prints the conversation so far, one line per turn.
func printTranscript(session *claude.Session) {
	history := session.History()
	if len(history) == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	for i, msg := range history {
		role := msg.Role
		switch role {
		case "user":
			role = promptStyle.Render("You")
		case "assistant":
			role = suggestionStyle.Render("Coach")
		}

		content := strings.ReplaceAll(msg.Content, "\n", " ")
		runes := []rune(content)
		if len(runes) > 100 {
			content = string(runes[:100]) + "..."
		}
		fmt.Printf("  %d. %s: %s\n", i+1, role, content)
	}
	fmt.Println()
}

// printChatSummary prints the session summary on exit.
func printChatSummary(session *claude.Session, start time.Time, turns int) {
	if turns == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	fmt.Println()
	fmt.Printf("  %s %d\n", infoStyle.Render("Turns:"), turns)
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"),
		time.Since(start).Round(time.Second))
	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
