// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engindearing-projects/cozyterm/internal/model"
	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

func newTestPanel() *Panel {
	p := New("claude-sonnet-4-5-20250929", styles.NewTheme())
	p.SetSize(80, 24)
	return p
}

func TestBeginTurnRecordsBothMessages(t *testing.T) {
	p := newTestPanel()

	id, cmd := p.BeginTurn("what does df do?")
	require.NotEmpty(t, id)
	require.NotNil(t, cmd)
	assert.True(t, p.IsStreaming())

	require.Equal(t, 2, p.Conversation().Len())
	assert.Equal(t, model.RoleUser, p.Conversation().Messages[0].Role)
	assistant := p.Conversation().MessageByID(id)
	require.NotNil(t, assistant)
	assert.True(t, assistant.IsStreaming)
}

func TestBeginTurnWithoutUserContent(t *testing.T) {
	p := newTestPanel()

	// Auto-explanations open an assistant message with no user turn.
	id, _ := p.BeginTurn("")
	assert.Equal(t, 1, p.Conversation().Len())
	assert.NotNil(t, p.Conversation().MessageByID(id))
}

func TestStreamTickAppendsBufferedTokens(t *testing.T) {
	p := newTestPanel()
	id, _ := p.BeginTurn("hi")

	for i := 0; i < defaultBatchSize; i++ {
		p.Buffer().Write("x")
	}

	cmd, consumed := p.Update(StreamTickMsg{})
	assert.True(t, consumed)
	assert.NotNil(t, cmd, "streaming continues, next tick scheduled")

	msg := p.Conversation().MessageByID(id)
	assert.Len(t, msg.DisplayContent(), defaultBatchSize)
}

func TestFinishTurnDrainsAndReplacesContent(t *testing.T) {
	p := newTestPanel()
	id, _ := p.BeginTurn("hi")

	p.Buffer().Write("raw streamed text SUGGESTIONS: [\"ls\"]")
	p.FinishTurn(id, "raw streamed text", nil)

	msg := p.Conversation().MessageByID(id)
	require.NotNil(t, msg)
	assert.False(t, msg.IsStreaming)
	assert.Equal(t, "raw streamed text", msg.Content)
	assert.False(t, p.IsStreaming())
}

func TestFinishTurnWithErrorAddsSystemNote(t *testing.T) {
	p := newTestPanel()
	id, _ := p.BeginTurn("hi")

	p.FinishTurn(id, "partial", errors.New("rate limited"))

	last := p.Conversation().LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, model.RoleSystem, last.Role)
	assert.Contains(t, last.Content, "rate limited")
}

func TestFinishTurnEmptyReplyNoted(t *testing.T) {
	p := newTestPanel()
	id, _ := p.BeginTurn("hi")
	p.FinishTurn(id, "", nil)

	last := p.Conversation().LastMessage()
	assert.Equal(t, model.RoleSystem, last.Role)
}

func TestEnterSubmitsQuestion(t *testing.T) {
	p := newTestPanel()
	p.Focus()

	p.input.SetValue("  why did that fail?  ")
	cmd, consumed := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, consumed)
	require.NotNil(t, cmd)

	msg, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "why did that fail?", msg.Content)
	assert.Empty(t, p.input.Value())
}

func TestEnterIgnoredWhileStreaming(t *testing.T) {
	p := newTestPanel()
	p.Focus()
	_, _ = p.BeginTurn("first")

	p.input.SetValue("second")
	cmd, consumed := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, consumed)
	assert.Nil(t, cmd)
}

func TestBlurredPanelIgnoresKeys(t *testing.T) {
	p := newTestPanel()
	_, consumed := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, consumed)
}

func TestViewRendersTranscript(t *testing.T) {
	p := newTestPanel()
	p.Conversation().AddUserMessage("hello coach")
	p.refreshViewport()

	assert.Contains(t, p.View(), "hello coach")
}
