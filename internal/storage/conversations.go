// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/engindearing-projects/cozyterm/internal/model"
)

// ErrConversationNotFound is returned when a transcript ID does not exist.
var ErrConversationNotFound = errors.New("conversation not found")

// MaxConversations bounds saved transcripts; the oldest are removed first.
const MaxConversations = 100

// ConversationMeta is the listing view of a saved transcript.
type ConversationMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  int       `json:"messages"`
}

// ConversationStore persists conversations as JSON files, one per
// conversation, under a base directory.
type ConversationStore struct {
	dir string
}

// NewConversationStore creates a store rooted at dir, creating it if needed.
func NewConversationStore(dir string) (*ConversationStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create conversations directory: %w", err)
	}
	return &ConversationStore{dir: dir}, nil
}

// Save writes the conversation to disk. The write goes through a temp file
// and rename so a crash never leaves a truncated transcript.
func (s *ConversationStore) Save(conv *model.Conversation) error {
	if conv.ID == "" {
		return errors.New("conversation has no ID")
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode conversation: %w", err)
	}

	path := s.path(conv.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("cannot write conversation: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot save conversation: %w", err)
	}
	return s.pruneOldest()
}

// Load reads a conversation by ID.
func (s *ConversationStore) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read conversation: %w", err)
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("cannot decode conversation %s: %w", id, err)
	}
	return &conv, nil
}

// Delete removes a saved conversation.
func (s *ConversationStore) Delete(id string) error {
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrConversationNotFound
	}
	return err
}

// List returns metadata for all saved conversations, newest first.
// Unreadable or corrupt files are skipped rather than failing the listing.
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list conversations: %w", err)
	}

	var metas []ConversationMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		conv, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		metas = append(metas, ConversationMeta{
			ID:        conv.ID,
			Title:     conv.Title,
			UpdatedAt: conv.UpdatedAt,
			Messages:  conv.Len(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// path returns the file path for a conversation ID.
func (s *ConversationStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// pruneOldest removes the least recently updated transcripts past the cap.
func (s *ConversationStore) pruneOldest() error {
	metas, err := s.List()
	if err != nil {
		return err
	}
	for i := MaxConversations; i < len(metas); i++ {
		if err := s.Delete(metas[i].ID); err != nil && !errors.Is(err, ErrConversationNotFound) {
			return err
		}
	}
	return nil
}
