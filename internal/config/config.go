// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mia-companion/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete companion configuration.
type Config struct {
	Version string `toml:"version"`

	// Engine is the inference driver name. "echo" is the built-in pure-Go
	// development driver; native drivers register under their own names.
	Engine string `toml:"engine"`

	Model   ModelConfig   `toml:"model"`
	Chat    ChatConfig    `toml:"chat"`
	Search  SearchConfig  `toml:"search"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// ModelConfig contains model loading and generation limits.
type ModelConfig struct {
	// Path is the model file to load.
	Path string `toml:"path"`
	// GPULayers is the number of layers to offload to the accelerator.
	GPULayers int `toml:"gpu_layers"`
	// ContextWindow is the decode context size in tokens.
	ContextWindow int `toml:"context_window"`
	// MaxTokens bounds the length of one generated reply.
	MaxTokens int `toml:"max_tokens"`
}

// ChatConfig contains conversation behavior settings.
type ChatConfig struct {
	// HistoryCap is the per-conversation message cap; oldest messages are
	// evicted first once exceeded.
	HistoryCap int `toml:"history_cap"`
	// Greeting seeds every new conversation as the first assistant turn.
	Greeting string `toml:"greeting"`
	// DefaultMode is the behavior mode at startup: "auto", "casual",
	// "reflective" or "factcheck".
	DefaultMode string `toml:"default_mode"`
}

// SearchConfig contains web retrieval settings for fact-checking mode.
type SearchConfig struct {
	// Endpoint is the HTML search results page queried for retrieval.
	Endpoint string `toml:"endpoint"`
	// TimeoutSecs bounds one outbound search request.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxResults caps the extracted result triples (1-10).
	MaxResults int `toml:"max_results"`
	// UserAgent is sent on search requests.
	UserAgent string `toml:"user_agent"`
	// RateEverySecs spaces outbound queries; Burst allows short spikes.
	RateEverySecs int `toml:"rate_every_secs"`
	Burst         int `toml:"burst"`
	// Offline disables all web retrieval; fact-checking degrades to
	// answering without external context.
	Offline bool `toml:"offline"`
}

// StorageConfig contains durable storage settings.
type StorageConfig struct {
	// DataDir holds the conversation document, model files and catalog.
	// Empty means ~/.mia.
	DataDir string `toml:"data_dir"`
	// EncryptHistory encrypts the conversation document at rest.
	EncryptHistory bool `toml:"encrypt_history"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme selects the color scheme: "auto", "dark" or "light".
	Theme string `toml:"theme"`
	// Markdown renders assistant replies as markdown.
	Markdown bool `toml:"markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Engine:  "echo",
		Model: ModelConfig{
			Path:          "", // resolved against DataDir/models when empty
			GPULayers:     25,
			ContextWindow: 2048,
			MaxTokens:     512,
		},
		Chat: ChatConfig{
			HistoryCap:  15,
			Greeting:    "Hi! I'm Mia. How can I help you today?",
			DefaultMode: "auto",
		},
		Search: SearchConfig{
			Endpoint:      "https://html.duckduckgo.com/html/",
			TimeoutSecs:   10,
			MaxResults:    5,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RateEverySecs: 5,
			Burst:         2,
		},
		Storage: StorageConfig{},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// DataDir returns the resolved data directory (~/.mia unless overridden).
func (c *Config) DataDir() string {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mia"
	}
	return filepath.Join(home, ".mia")
}

// HistoryPath returns the path of the durable conversation document.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir(), "chats_history.json")
}

// ModelsDir returns the directory scanned for model files.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.DataDir(), "models")
}

// CatalogPath returns the model catalog database path.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir(), "catalog.db")
}

// ModelPath resolves the configured model path, defaulting into ModelsDir.
func (c *Config) ModelPath() string {
	if c.Model.Path != "" {
		return c.Model.Path
	}
	return filepath.Join(c.ModelsDir(), "mia-brain-q4.gguf")
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mia", "config.toml")
	}
	return filepath.Join(home, ".mia", "config.toml")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config from path (empty means DefaultPath), applies MIA_*
// environment overrides and validates. A missing file is not an error; the
// defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies MIA_* environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("MIA_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := os.Getenv("MIA_MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("MIA_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("MIA_GPU_LAYERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Model.GPULayers = n
		}
	}
	if v := os.Getenv("MIA_CONTEXT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Model.ContextWindow = n
		}
	}
	if v := os.Getenv("MIA_OFFLINE"); v != "" {
		c.Search.Offline = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Model.ContextWindow <= 0 {
		return fmt.Errorf("model.context_window must be positive, got %d", c.Model.ContextWindow)
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("model.max_tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Chat.HistoryCap <= 0 {
		return fmt.Errorf("chat.history_cap must be positive, got %d", c.Chat.HistoryCap)
	}
	if c.Search.MaxResults < 1 || c.Search.MaxResults > 10 {
		return fmt.Errorf("search.max_results must be 1-10, got %d", c.Search.MaxResults)
	}
	switch c.Chat.DefaultMode {
	case "auto", "casual", "reflective", "factcheck":
	default:
		return fmt.Errorf("chat.default_mode %q is not one of auto, casual, reflective, factcheck", c.Chat.DefaultMode)
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not one of auto, dark, light", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config as TOML to path (empty means DefaultPath).
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
