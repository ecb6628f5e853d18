// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - wiring shared by every command: config, store, engine, search.
package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/mia-companion/internal/assistant"
	"github.com/jeranaias/mia-companion/internal/catalog"
	"github.com/jeranaias/mia-companion/internal/chat"
	"github.com/jeranaias/mia-companion/internal/config"
	"github.com/jeranaias/mia-companion/internal/engine"
	"github.com/jeranaias/mia-companion/internal/generate"
	"github.com/jeranaias/mia-companion/internal/llm"
	"github.com/jeranaias/mia-companion/internal/mode"
	"github.com/jeranaias/mia-companion/internal/security"
	"github.com/jeranaias/mia-companion/internal/websearch"
)

// App bundles the long-lived components every command works against.
type App struct {
	Cfg       *config.Config
	Store     *chat.Store
	Catalog   *catalog.Catalog
	Assistant *assistant.Assistant
}

// NewApp loads the configuration and assembles the full pipeline. Flags
// from args override the loaded config.
func NewApp(args Args) (*App, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if args.Offline {
		cfg.Search.Offline = true
	}
	if args.Mode != "" {
		if _, err := mode.Parse(args.Mode); err != nil {
			return nil, err
		}
		cfg.Chat.DefaultMode = args.Mode
	}
	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	storeOpts := []chat.Option{
		chat.WithCap(cfg.Chat.HistoryCap),
	}
	if cfg.Chat.Greeting != "" {
		storeOpts = append(storeOpts, chat.WithGreeting(cfg.Chat.Greeting))
	}
	if cfg.Storage.EncryptHistory {
		passphrase, err := readPassphrase()
		if err != nil {
			return nil, err
		}
		storeOpts = append(storeOpts, chat.WithCipher(security.NewCrypter(passphrase)))
	}

	store, err := chat.Open(cfg.HistoryPath(), storeOpts...)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Open(cfg.CatalogPath(), cfg.ModelsDir())
	if err != nil {
		return nil, err
	}

	eng, err := engine.Open(cfg.Engine)
	if err != nil {
		cat.Close()
		return nil, err
	}
	handle := llm.NewHandle(eng, llm.Config{
		ModelPath:     cfg.ModelPath(),
		GPULayers:     cfg.Model.GPULayers,
		ContextWindow: cfg.Model.ContextWindow,
		MaxTokens:     cfg.Model.MaxTokens,
	})

	search := websearch.New(websearch.Options{
		Endpoint:   cfg.Search.Endpoint,
		Timeout:    time.Duration(cfg.Search.TimeoutSecs) * time.Second,
		MaxResults: cfg.Search.MaxResults,
		UserAgent:  cfg.Search.UserAgent,
		RateEvery:  time.Duration(cfg.Search.RateEverySecs) * time.Second,
		Burst:      cfg.Search.Burst,
		Offline:    cfg.Search.Offline,
	})

	a := assistant.New(store, handle, search, mode.NewPolicy(nil), generate.SamplerConfig{})

	startMode, err := mode.Parse(cfg.Chat.DefaultMode)
	if err != nil {
		cat.Close()
		return nil, err
	}
	a.SetMode(startMode)

	return &App{
		Cfg:       cfg,
		Store:     store,
		Catalog:   cat,
		Assistant: a,
	}, nil
}

// Close releases the model and the catalog.
func (app *App) Close() {
	_ = app.Assistant.UnloadModel()
	_ = app.Catalog.Close()
}

// readPassphrase prompts on the terminal without echoing.
func readPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "History passphrase: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	defer security.ZeroBytes(b)
	if len(b) == 0 {
		return "", fmt.Errorf("empty passphrase")
	}
	return string(b), nil
}
