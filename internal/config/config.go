// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for flames.
//
// Configuration is read from ~/.flames/config.toml with sensible defaults
// and environment variable overrides (FLAMES_* variables win over the file).
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete flames client configuration.
type Config struct {
	Version string `toml:"version" env:"-"`

	// Backend holds the remote API settings.
	Backend BackendConfig `toml:"backend"`

	// Speech holds the optional voice-input settings.
	Speech SpeechConfig `toml:"speech"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains the remote API gateway settings.
type BackendConfig struct {
	// BaseURL is the root of the chat backend API.
	BaseURL string `toml:"base_url" env:"FLAMES_BACKEND_URL"`
	// TimeoutSecs bounds each request; 0 keeps the default.
	TimeoutSecs int `toml:"timeout_secs" env:"FLAMES_TIMEOUT_SECS"`
}

// SpeechConfig contains voice input settings.
type SpeechConfig struct {
	// Transcriber is the external speech-to-text command probed at startup.
	// The mic control is hidden when the command is not on PATH.
	Transcriber string `toml:"transcriber" env:"FLAMES_TRANSCRIBER"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// CompactMode collapses the hero banner on short terminals.
	CompactMode bool `toml:"compact_mode" env:"FLAMES_COMPACT"`
	// HistoryLimit caps locally cached transcripts (0 = unlimited).
	HistoryLimit int `toml:"history_limit" env:"-"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
		},
		Speech: SpeechConfig{
			Transcriber: "whisper-cli",
		},
		UI: UIConfig{
			CompactMode:  false,
			HistoryLimit: 100,
		},
	}
}

// Timeout returns the backend request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.Backend.TimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the flames configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".flames"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file if present, fills defaults, and applies
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	fillDefaults(cfg)

	// FLAMES_* environment variables override file values.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if cfg.UI.HistoryLimit == 0 {
		cfg.UI.HistoryLimit = defaults.UI.HistoryLimit
	}
}

// Save writes the configuration to the default TOML file with restrictive
// permissions.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# flames configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for values that would break the client.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("invalid URL %q", c.Backend.BaseURL),
		}
	}
	if c.Backend.TimeoutSecs < 0 {
		return ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must be non-negative",
		}
	}
	if c.UI.HistoryLimit < 0 {
		return ValidationError{
			Field:   "ui.history_limit",
			Message: "must be non-negative",
		}
	}
	return nil
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
	globalMu     sync.RWMutex
)

// Global returns the process-wide config, loading it on first access.
// A config installed via SetGlobal before the first access is kept.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ReloadGlobal re-reads the config file and swaps the global on success.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears global state between tests.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	globalOnce = sync.Once{}
}
