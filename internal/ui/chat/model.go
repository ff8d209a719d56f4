// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/engindearing-projects/cozyterm/internal/model"
	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

// =============================================================================
// CHAT PANEL
// =============================================================================

// inputCharLimit caps a single chat question.
const inputCharLimit = 4000

// Panel is the coach chat pane: a scrollback viewport of the conversation
// plus a question input. Streaming replies render incrementally through the
// StreamingBuffer.
type Panel struct {
	conversation *model.Conversation
	buffer       *StreamingBuffer

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	renderer *glamour.TermRenderer

	// streamingID is the message currently receiving tokens, "" when idle.
	streamingID string
	waitingTick bool

	focused bool
	width   int
	height  int

	theme *styles.Theme
}

// New creates the chat panel.
func New(modelName string, theme *styles.Theme) *Panel {
	input := textinput.New()
	input.Placeholder = "Ask the coach anything..."
	input.CharLimit = inputCharLimit
	input.Prompt = "? "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	p := &Panel{
		conversation: model.NewConversation(modelName),
		buffer:       NewStreamingBuffer(),
		viewport:     viewport.New(40, 20),
		input:        input,
		spinner:      sp,
		theme:        theme,
	}
	p.initRenderer(76)
	return p
}

// initRenderer builds the markdown renderer for the given wrap width.
// Rendering falls back to plain text when glamour cannot initialize.
func (p *Panel) initRenderer(wrap int) {
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		p.renderer = nil
		return
	}
	p.renderer = renderer
}

// Conversation returns the backing conversation.
func (p *Panel) Conversation() *model.Conversation {
	return p.conversation
}

// Buffer returns the streaming buffer for the token goroutine.
func (p *Panel) Buffer() *StreamingBuffer {
	return p.buffer
}

// IsStreaming reports whether a reply is in flight.
func (p *Panel) IsStreaming() bool {
	return p.streamingID != ""
}

// Focus gives the input keyboard focus.
func (p *Panel) Focus() {
	p.focused = true
	p.input.Focus()
}

// Blur removes keyboard focus.
func (p *Panel) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused reports whether the panel has keyboard focus.
func (p *Panel) Focused() bool {
	return p.focused
}

// SetSize updates the panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height

	viewportHeight := height - 3
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	p.viewport.Width = width
	p.viewport.Height = viewportHeight
	p.input.Width = width - 4
	p.initRenderer(width - 4)
	p.refreshViewport()
}

// =============================================================================
// STREAMING LIFECYCLE
// =============================================================================

// BeginTurn records the user's prompt, opens a streaming assistant message,
// and starts the render ticker. It returns the assistant message ID.
func (p *Panel) BeginTurn(userContent string) (string, tea.Cmd) {
	p.buffer.Reset()
	if userContent != "" {
		p.conversation.AddUserMessage(userContent)
	}
	assistant := p.conversation.AddAssistantMessage()
	p.streamingID = assistant.ID
	p.waitingTick = true
	p.refreshViewport()
	return assistant.ID, tea.Batch(streamTickCmd(), p.spinner.Tick)
}

// FinishTurn closes out a streaming reply. Content replaces the streamed
// text (the caller strips the suggestion marker first); a non-nil err
// appends a system message explaining the failure.
func (p *Panel) FinishTurn(messageID, content string, err error) {
	msg := p.conversation.MessageByID(messageID)
	if msg != nil {
		if drained, ok := p.buffer.ForceFlush(); ok {
			msg.AppendToken(drained)
		}
		msg.FinishStreaming()
		msg.SetContent(content)
	}
	p.streamingID = ""
	p.waitingTick = false

	if err != nil {
		p.conversation.AddSystemMessage("The coach is unavailable: " + err.Error())
	} else if msg != nil && msg.Content == "" {
		p.conversation.AddSystemMessage("The coach sent an empty reply.")
	}
	p.refreshViewport()
}

// AddSystemNote appends a system message to the transcript.
func (p *Panel) AddSystemNote(content string) {
	p.conversation.AddSystemMessage(content)
	p.refreshViewport()
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles panel input and streaming frames.
func (p *Panel) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case StreamTickMsg:
		if p.streamingID == "" {
			return nil, true
		}
		if content, ok := p.buffer.Flush(); ok {
			if streaming := p.conversation.MessageByID(p.streamingID); streaming != nil {
				streaming.AppendToken(content)
				p.waitingTick = false
			}
			p.refreshViewport()
		}
		return streamTickCmd(), true

	case spinner.TickMsg:
		if p.streamingID == "" || !p.waitingTick {
			return nil, false
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, true

	case tea.KeyMsg:
		if !p.focused {
			return nil, false
		}
		switch msg.String() {
		case "enter":
			content := strings.TrimSpace(p.input.Value())
			if content == "" || p.IsStreaming() {
				return nil, true
			}
			p.input.Reset()
			return func() tea.Msg { return SubmitMsg{Content: content} }, true

		case "up", "pgup":
			p.viewport.LineUp(3)
			return nil, true

		case "down", "pgdown":
			p.viewport.LineDown(3)
			return nil, true
		}

		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd, true
	}

	return nil, false
}

// View renders the chat panel.
func (p *Panel) View() string {
	var b strings.Builder
	b.WriteString(p.viewport.View())
	b.WriteString("\n")
	b.WriteString(p.theme.InputContainer.Width(p.width).Render(p.input.View()))
	return b.String()
}

// =============================================================================
// RENDERING
// =============================================================================

// refreshViewport re-renders the transcript and follows the tail.
func (p *Panel) refreshViewport() {
	p.viewport.SetContent(p.renderConversation())
	p.viewport.GotoBottom()
}

// renderConversation renders all messages as styled bubbles.
func (p *Panel) renderConversation() string {
	if p.conversation.Len() == 0 {
		return p.theme.InputPlaceholder.Render("Run a command or ask a question to get started.")
	}

	bubbleWidth := p.width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var parts []string
	for _, msg := range p.conversation.Messages {
		parts = append(parts, p.renderMessage(msg, bubbleWidth))
	}
	return strings.Join(parts, "\n")
}

// renderMessage renders one message bubble.
func (p *Panel) renderMessage(msg *model.Message, bubbleWidth int) string {
	label := msg.Role.DisplayName()
	content := msg.DisplayContent()

	switch msg.Role {
	case model.RoleUser:
		body := p.theme.UserBubble.MaxWidth(bubbleWidth).Render(content)
		return p.theme.PanelTitle.Render(label) + "\n" + body

	case model.RoleAssistant:
		if msg.IsStreaming && content == "" {
			return p.theme.PanelTitle.Render(label) + " " +
				p.spinner.View() + p.theme.ThinkingText.Render(" thinking...")
		}
		// Finished replies get full markdown treatment; in-flight text
		// stays plain so partial markdown does not flicker.
		if !msg.IsStreaming {
			content = p.renderMarkdown(content)
		}
		body := p.theme.CoachBubble.MaxWidth(bubbleWidth).Render(strings.TrimRight(content, "\n"))
		return p.theme.PanelTitle.Render(label) + "\n" + body

	default:
		return p.theme.SystemBubble.MaxWidth(bubbleWidth).Render(content)
	}
}

// renderMarkdown renders coach markdown, falling back to the raw text.
func (p *Panel) renderMarkdown(content string) string {
	if p.renderer == nil {
		return content
	}
	rendered, err := p.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}
