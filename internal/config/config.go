// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for cozyterm.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. File location: ~/.cozyterm/config.toml (overridable with
// COZYTERM_CONFIG).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the complete cozyterm configuration.
type Config struct {
	// Claude settings
	Claude ClaudeConfig `toml:"claude"`

	// UI settings
	UI UIConfig `toml:"ui"`

	// History settings
	History HistoryConfig `toml:"history"`
}

// ClaudeConfig contains Anthropic API settings.
type ClaudeConfig struct {
	// APIKey is the Anthropic API key. Usually left empty here and
	// supplied via ANTHROPIC_API_KEY instead.
	APIKey string `toml:"api_key"`
	// Model is the model identifier for chat requests.
	Model string `toml:"model"`
	// MaxTokens caps the length of a single reply.
	MaxTokens int `toml:"max_tokens"`
}

// UIConfig contains interface settings.
type UIConfig struct {
	// ExplainMode auto-explains command output after every run.
	ExplainMode bool `toml:"explain_mode"`
	// ShowSidebar shows the file browser on startup.
	ShowSidebar bool `toml:"show_sidebar"`
	// ShowWelcome shows the first-run welcome overlay.
	ShowWelcome bool `toml:"show_welcome"`
}

// HistoryConfig contains command history settings.
type HistoryConfig struct {
	// Enabled persists executed commands to the history database.
	Enabled bool `toml:"enabled"`
	// Path is the sqlite database path. Empty means
	// ~/.cozyterm/history.db.
	Path string `toml:"path"`
	// MaxEntries bounds how many history rows are kept (0 = unlimited).
	MaxEntries int `toml:"max_entries"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Claude: ClaudeConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 1024,
		},
		UI: UIConfig{
			ExplainMode: true,
			ShowSidebar: true,
			ShowWelcome: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 5000,
		},
	}
}

// Dir returns the cozyterm configuration directory (~/.cozyterm),
// creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".cozyterm")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the config file path, honoring COZYTERM_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("COZYTERM_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, layering file values over defaults and env
// overrides over both. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// LoadFromFile loads configuration from a specific path.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Claude.APIKey = key
	}
	if model := os.Getenv("COZYTERM_MODEL"); model != "" {
		c.Claude.Model = model
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Claude.Model == "" {
		return errors.New("claude.model must not be empty")
	}
	if c.Claude.MaxTokens <= 0 {
		return fmt.Errorf("claude.max_tokens must be positive, got %d", c.Claude.MaxTokens)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	return nil
}

// Save writes the configuration to its default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveToFile(path)
}

// SaveToFile writes the configuration as TOML to a specific path.
func (c *Config) SaveToFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	return nil
}

// HistoryPath resolves the sqlite history database path.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// ConversationsDir resolves the directory for saved transcripts.
func (c *Config) ConversationsDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	conv := filepath.Join(dir, "conversations")
	if err := os.MkdirAll(conv, 0o755); err != nil {
		return "", err
	}
	return conv, nil
}
