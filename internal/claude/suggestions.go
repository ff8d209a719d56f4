// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package claude

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MaxSuggestions caps how many command suggestions are surfaced at once.
const MaxSuggestions = 5

// suggestionPattern captures the JSON array following the SUGGESTIONS:
// marker the system prompt asks the model to emit.
var suggestionPattern = regexp.MustCompile(`(?s)SUGGESTIONS:\s*(\[.*?\])`)

// ExtractSuggestions pulls command suggestions out of a reply.
//
// A malformed payload is treated as absent: the function returns an empty
// list and never an error, so a sloppy model reply degrades to "no chips"
// rather than a visible failure.
func ExtractSuggestions(text string) []string {
	match := suggestionPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	var raw []any
	if err := json.Unmarshal([]byte(match[1]), &raw); err != nil {
		return nil
	}

	suggestions := make([]string, 0, MaxSuggestions)
	for _, item := range raw {
		if len(suggestions) == MaxSuggestions {
			break
		}
		switch v := item.(type) {
		case string:
			suggestions = append(suggestions, v)
		default:
			suggestions = append(suggestions, fmt.Sprint(v))
		}
	}
	return suggestions
}

// StripSuggestions removes the SUGGESTIONS: [...] marker from the display
// copy of a reply.
func StripSuggestions(text string) string {
	return strings.TrimRight(suggestionPattern.ReplaceAllString(text, ""), " \t\r\n")
}
