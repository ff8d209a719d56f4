// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package claude

import (
	"context"
)

// Session manages a multi-turn conversation with the coach.
//
// It owns the wire-format transcript: StreamMessage appends the user turn
// before the request and the assistant turn after the full reply arrives,
// so callers never manage history themselves. A Session is used from the
// single UI event loop and is not safe for concurrent use.
type Session struct {
	client  *Client
	system  string
	history []ChatMessage
}

// NewSession creates a session with the terminal-coach system prompt.
func NewSession(client *Client) *Session {
	return &Session{
		client: client,
		system: SystemPrompt,
	}
}

// WithSystemPrompt overrides the system prompt. Used by tests.
func (s *Session) WithSystemPrompt(prompt string) *Session {
	s.system = prompt
	return s
}

// HasAPIKey reports whether chat features are available.
func (s *Session) HasAPIKey() bool {
	return s.client.IsConfigured()
}

// Model returns the model the session talks to.
func (s *Session) Model() string {
	return s.client.Model()
}

// History returns the transcript so far. The returned slice must be
// treated as read-only.
func (s *Session) History() []ChatMessage {
	return s.history
}

// Reset discards the transcript.
func (s *Session) Reset() {
	s.history = nil
}

// StreamMessage sends userText and streams the reply, invoking onText per
// text delta. The full reply is returned and both turns are recorded in
// the transcript.
//
// On a mid-stream failure the partial reply is still recorded, so a
// follow-up question has the context the user actually saw.
func (s *Session) StreamMessage(ctx context.Context, userText string, onText TextFunc) (string, error) {
	s.history = append(s.history, NewUserMessage(userText))

	full, err := s.client.StreamMessage(ctx, s.system, s.history, onText)
	if full != "" {
		s.history = append(s.history, NewAssistantMessage(full))
	} else if err != nil {
		// Nothing came back; drop the user turn so a retry does not
		// duplicate it.
		s.history = s.history[:len(s.history)-1]
	}
	return full, err
}
