// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engindearing-projects/cozyterm/internal/model"
)

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStore(filepath.Join(t.TempDir(), "conversations"))
	require.NoError(t, err)
	return store
}

func TestConversationSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("claude-sonnet-4-5-20250929")
	conv.AddUserMessage("explain chmod")
	msg := conv.AddAssistantMessage()
	msg.AppendToken("chmod changes permissions")
	msg.FinishStreaming()

	require.NoError(t, store.Save(conv))

	loaded, err := store.Load(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, loaded.ID)
	assert.Equal(t, "explain chmod", loaded.Title)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, model.RoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, "chmod changes permissions", loaded.Messages[1].Content)
}

func TestConversationLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("no-such-id")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationDelete(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("m")
	conv.AddUserMessage("hi")
	require.NoError(t, store.Save(conv))

	require.NoError(t, store.Delete(conv.ID))
	_, err := store.Load(conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	assert.ErrorIs(t, store.Delete(conv.ID), ErrConversationNotFound)
}

func TestConversationListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	old := model.NewConversation("m")
	old.AddUserMessage("older chat")
	old.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Save(old))

	recent := model.NewConversation("m")
	recent.AddUserMessage("newer chat")
	require.NoError(t, store.Save(recent))

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, recent.ID, metas[0].ID)
	assert.Equal(t, "newer chat", metas[0].Title)
	assert.Equal(t, 1, metas[0].Messages)
}

func TestConversationListSkipsCorruptFiles(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation("m")
	conv.AddUserMessage("good")
	require.NoError(t, store.Save(conv))

	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "bad.json"), []byte("{nope"), 0o600))

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, conv.ID, metas[0].ID)
}

func TestConversationSaveRequiresID(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Save(&model.Conversation{}))
}
