// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// =============================================================================
// CHAT PANEL MESSAGES
// =============================================================================

// SubmitMsg signals that the user submitted a chat question.
type SubmitMsg struct {
	Content string
}

// StreamTickMsg drives batched token rendering during streaming.
type StreamTickMsg struct {
	Time time.Time
}
