// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/engindearing-projects/cozyterm/internal/util"
)

// MaxMessages caps conversation history. When exceeded, the oldest
// messages are pruned to keep memory bounded during long sessions.
const MaxMessages = 500

// titleMaxRunes is the display length cap for derived conversation titles.
const titleMaxRunes = 48

// Conversation holds a complete chat transcript with metadata.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
	Model     string     `json:"model"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation(modelName string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
		Model:     modelName,
	}
}

// AddMessage appends a message, refreshes metadata, and prunes history.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.prune()
}

// AddUserMessage creates and adds a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds a streaming assistant message.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and adds a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil when empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageByID returns the message with the given ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// Clear removes all messages but keeps the conversation identity.
func (c *Conversation) Clear() {
	c.Messages = c.Messages[:0]
	c.Title = ""
	c.UpdatedAt = time.Now()
}

// updateTitle derives the title from the first user message.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			c.Title = util.TruncateRunes(util.FirstLine(m.Content), titleMaxRunes)
			return
		}
	}
}

// prune drops the oldest messages once the cap is exceeded.
func (c *Conversation) prune() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	overflow := len(c.Messages) - MaxMessages
	c.Messages = append(c.Messages[:0:0], c.Messages[overflow:]...)
}
