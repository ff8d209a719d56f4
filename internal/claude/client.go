// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package claude provides the Anthropic Messages API integration for
// cozyterm: a streaming HTTP client, the multi-turn chat session, and the
// suggestion-marker helpers that turn replies into UI content.
package claude

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the Anthropic API.
const (
	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is the anthropic-version header value.
	APIVersion = "2023-06-01"

	// DefaultModel is the model used when the config names none.
	DefaultModel = "claude-sonnet-4-5-20250929"

	// DefaultMaxTokens caps the length of a single reply.
	DefaultMaxTokens = 1024

	// DefaultTimeout is the timeout for non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the retry count for transient errors on
	// non-streaming requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize bounds a response body read. Prevents memory
	// exhaustion from a misbehaving endpoint.
	MaxResponseSize = 10 * 1024 * 1024
)

// Shared HTTP clients with connection pooling. The streaming client has no
// client-level timeout; streaming lifetime is controlled via context.
var (
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// Error variables for common API failures.
var (
	// ErrNotConfigured indicates no API key is set.
	ErrNotConfigured = errors.New("anthropic API key not configured")

	// ErrAuthFailed indicates an invalid or expired API key.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrOverloaded indicates the API is temporarily overloaded.
	ErrOverloaded = errors.New("API overloaded")
)

// APIError represents a structured error response from the API.
type APIError struct {
	Type    string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("anthropic error [%s] (HTTP %d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("anthropic error (HTTP %d): %s", e.Status, e.Message)
}

// ChatMessage is a single turn in the wire format.
type ChatMessage struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // plain text content
}

// NewUserMessage creates a user turn.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewAssistantMessage creates an assistant turn.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// messagesRequest is the request body for /v1/messages.
type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	Stream    bool          `json:"stream,omitempty"`
}

// contentBlock is one block of a non-streaming response body.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messagesResponse is the non-streaming response body.
type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Text joins the text blocks of a response.
func (r *messagesResponse) Text() string {
	var b strings.Builder
	for _, c := range r.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// apiErrorResponse is the error envelope returned by the API.
type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	maxRetries int

	// limiter paces outgoing requests so a chatty explain-mode session
	// stays inside the account's request-per-minute budget.
	limiter *rate.Limiter
}

// NewClient creates a client with the given API key. An empty key is
// allowed; requests then fail with ErrNotConfigured, and the UI uses
// IsConfigured to disable chat features up front.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxTokens:  DefaultMaxTokens,
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// NewClientFromEnv creates a client using the ANTHROPIC_API_KEY
// environment variable.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("ANTHROPIC_API_KEY"))
}

// WithBaseURL sets a custom base URL. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithModel sets the model for subsequent requests.
func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

// WithMaxTokens sets the per-reply token cap.
func (c *Client) WithMaxTokens(n int) *Client {
	if n > 0 {
		c.maxTokens = n
	}
	return c
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// setHeaders applies the authentication and protocol headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", APIVersion)
}

// Complete performs a non-streaming messages request and returns the
// reply text. Transient failures (429, 5xx) are retried with exponential
// backoff.
func (c *Client) Complete(ctx context.Context, system string, messages []ChatMessage) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/messages", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		c.setHeaders(req)

		resp, err := sharedHTTPClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := c.errorFromResponse(resp.StatusCode, respBody)
			if !isRetryable(resp.StatusCode) {
				return "", apiErr
			}
			lastErr = apiErr
			continue
		}

		var parsed messagesResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		return parsed.Text(), nil
	}
	return "", lastErr
}

// errorFromResponse maps an HTTP error response to the error taxonomy.
func (c *Client) errorFromResponse(status int, body []byte) error {
	var envelope apiErrorResponse
	_ = json.Unmarshal(body, &envelope)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, envelope.Error.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, envelope.Error.Message)
	case http.StatusServiceUnavailable, 529:
		return fmt.Errorf("%w: %s", ErrOverloaded, envelope.Error.Message)
	}
	return &APIError{
		Type:    envelope.Error.Type,
		Message: envelope.Error.Message,
		Status:  status,
	}
}

// isRetryable reports whether an HTTP status is worth retrying.
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
