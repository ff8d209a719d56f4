// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package claude

import (
	"fmt"

	"github.com/engindearing-projects/cozyterm/internal/util"
)

// SystemPrompt is the terminal-coach persona sent with every request.
const SystemPrompt = `You are CozyTerm's friendly terminal coach. Your job is to make the terminal feel approachable and even fun.

Personality:
- Warm, patient, and encouraging. Never condescending.
- You explain things in plain language first, then show the technical details.
- You celebrate small wins ("Nice! You just listed your files like a pro!")
- You use analogies to everyday things when explaining concepts.

When explaining commands:
- Start with WHAT it did in one sentence.
- Then WHY someone would use it.
- Then break down the parts (flags, arguments) briefly.
- If there was an error, explain what went wrong and how to fix it.

When suggesting commands:
- Always suggest 2-3 relevant next commands as a JSON array at the end of your response, formatted as: SUGGESTIONS: ["command1", "command2", "command3"]
- Make suggestions contextual to what the user just did.
- Prefer safe, read-only commands for beginners.

Important rules:
- Never suggest destructive commands (rm -rf, sudo, etc.) without warning.
- If the user seems confused, offer to explain more simply.
- Keep responses concise - this is a terminal, not an essay.
- Use markdown formatting for readability (bold, code blocks, lists).`

// outputPreviewLimit caps how much command output is quoted back to the
// model when asking for an explanation.
const outputPreviewLimit = 500

// filePreviewLimit caps how much file content is quoted when asking for a
// file explanation.
const filePreviewLimit = 1000

// ExplainCommandPrompt builds the explain-mode prompt sent after a command
// completes.
func ExplainCommandPrompt(command string, exitCode int, output string) string {
	preview := output
	if len(preview) > outputPreviewLimit {
		preview = preview[:outputPreviewLimit] + "\n... (truncated)"
	}
	return fmt.Sprintf(
		"The user just ran this command:\n```\n$ %s\n```\nExit code: %d\nOutput:\n```\n%s\n```\n\n"+
			"Briefly explain what this command did and what the output means. "+
			"Keep it concise (2-4 sentences).",
		command, exitCode, preview)
}

// ExplainFilePrompt builds the prompt sent when the user selects a file in
// the browser.
func ExplainFilePrompt(name, path string, size int64, content string) string {
	preview := util.TruncateRunes(content, filePreviewLimit)
	return fmt.Sprintf(
		"The user clicked on this file: `%s` (full path: `%s`)\nFile size: %s bytes\nPreview:\n```\n%s\n```\n\n"+
			"Explain what this file is and what it does in 2-3 sentences. "+
			"If it's a common file type, mention that.",
		name, path, util.Int64ToStr(size), preview)
}
