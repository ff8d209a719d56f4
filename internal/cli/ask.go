// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for the cozyterm CLI.
//
// Handles "cozyterm ask", which sends one question to the coach and
// prints the reply.
//
// Examples:
//   cozyterm ask "why did tar just fail?"
//   cozyterm ask -m claude-haiku-3-5 "what does chmod 644 mean?"

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"

	"github.com/engindearing-projects/cozyterm/internal/claude"
	"github.com/engindearing-projects/cozyterm/internal/config"
)

// markdownRenderer renders finished replies for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain text fallback when the renderer cannot initialize.
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content, falling back to the raw text.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// newSession builds a coach session from config plus CLI overrides.
func newSession(args Args) (*claude.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Model != "" {
		cfg.Claude.Model = args.Model
	}

	client := claude.NewClient(cfg.Claude.APIKey).
		WithModel(cfg.Claude.Model).
		WithMaxTokens(cfg.Claude.MaxTokens)
	return claude.NewSession(client), nil
}

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return fmt.Errorf("usage: cozyterm ask \"question\"")
	}

	session, err := newSession(args)
	if err != nil {
		return err
	}
	if !session.HasAPIKey() {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY to use the coach")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// On a TTY the reply is collected and rendered as markdown; piped
	// output streams raw tokens instead.
	useMarkdown := IsStdoutTTY()

	onText := func(token string) {
		if !useMarkdown {
			fmt.Print(token)
		}
	}

	full, err := session.StreamMessage(ctx, args.Query, onText)
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

	printSuggestions(suggestions, args.Quiet)

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s reply was cut short: %v\n", errorStyle.Render("[Error]"), err)
	}
	return nil
}

// printSuggestions lists the coach's proposed next commands.
func printSuggestions(suggestions []string, quiet bool) {
	if len(suggestions) == 0 || quiet {
		return
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Next steps:"))
	for i, s := range suggestions {
		fmt.Printf("  %d. %s\n", i+1, suggestionStyle.Render(s))
	}
}
