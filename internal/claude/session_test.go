// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package claude

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRecordsBothTurns(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		deltaEvent("Sure!"),
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n",
	}))
	defer srv.Close()

	session := NewSession(NewClient("test-key").WithBaseURL(srv.URL))
	require.True(t, session.HasAPIKey())

	full, err := session.StreamMessage(context.Background(), "what is ls?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sure!", full)

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "what is ls?", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "Sure!", history[1].Content)
}

func TestSessionSendsFullHistory(t *testing.T) {
	var lastCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastCount = strings.Count(string(body), `"role":"user"`)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, deltaEvent("ok"))
		_, _ = io.WriteString(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer srv.Close()

	session := NewSession(NewClient("test-key").WithBaseURL(srv.URL))
	_, err := session.StreamMessage(context.Background(), "first", nil)
	require.NoError(t, err)
	_, err = session.StreamMessage(context.Background(), "second", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, lastCount, "second request carries both user turns")
}

func TestSessionDropsUserTurnOnTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	session := NewSession(NewClient("test-key").WithBaseURL(srv.URL))
	_, err := session.StreamMessage(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Empty(t, session.History(), "failed turn is not recorded")
}

func TestSessionReset(t *testing.T) {
	session := NewSession(NewClient(""))
	assert.False(t, session.HasAPIKey())
	session.history = append(session.history, NewUserMessage("x"))
	session.Reset()
	assert.Empty(t, session.History())
}
