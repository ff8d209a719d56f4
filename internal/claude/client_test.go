// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package claude

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sys prompt", req.System)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 1)

		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"hi "},{"type":"text","text":"there"}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	text, err := client.Complete(context.Background(), "sys prompt",
		[]ChatMessage{NewUserMessage("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestCompleteRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"recovered"}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	text, err := client.Complete(context.Background(), "", []ChatMessage{NewUserMessage("x")})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteDoesNotRetryAuthFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"type":"authentication_error","message":"nope"}}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	_, err := client.Complete(context.Background(), "", []ChatMessage{NewUserMessage("x")})
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Complete(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, client.IsConfigured())
}

func TestClientOptions(t *testing.T) {
	client := NewClient(" key ").WithModel("claude-3-5-haiku-latest").WithMaxTokens(256)
	assert.True(t, client.IsConfigured(), "key is trimmed, not rejected")
	assert.Equal(t, "claude-3-5-haiku-latest", client.Model())

	// Empty model and non-positive token cap leave settings untouched.
	client.WithModel("").WithMaxTokens(0)
	assert.Equal(t, "claude-3-5-haiku-latest", client.Model())
	assert.Equal(t, 256, client.maxTokens)
}
