// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
	"sync"

	"github.com/jeranaias/mia-companion/internal/engine"
	"github.com/jeranaias/mia-companion/internal/generate"
)

// ErrNotLoaded is returned by Generate when no model is loaded.
var ErrNotLoaded = errors.New("no model loaded")

// Config describes how the handle loads and runs its model.
type Config struct {
	// ModelPath is the model file to load.
	ModelPath string
	// GPULayers is passed through to the engine.
	GPULayers int
	// ContextWindow is the decode context size per generation.
	ContextWindow int
	// MaxTokens bounds one generated reply.
	MaxTokens int
}

// Handle manages one loaded model. Load and release are idempotent;
// generations are serialized so the single decode context is never shared.
type Handle struct {
	// mu guards the loaded model reference.
	mu sync.Mutex
	// genMu serializes generations and fences release against in-flight
	// work. Lock order: genMu before mu.
	genMu sync.Mutex

	eng   engine.Engine
	cfg   Config
	model engine.Model
}

// NewHandle creates a handle over the given engine. Nothing is loaded yet.
func NewHandle(eng engine.Engine, cfg Config) *Handle {
	return &Handle{eng: eng, cfg: cfg}
}

// EnsureLoaded loads the model if it is not already loaded. Calling it
// again while loaded is a no-op.
func (h *Handle) EnsureLoaded(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		return nil
	}

	m, err := h.eng.LoadModel(ctx, h.cfg.ModelPath, h.cfg.GPULayers)
	if err != nil {
		return err
	}
	h.model = m
	return nil
}

// Loaded reports whether a model is currently loaded.
func (h *Handle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model != nil
}

// Release frees the loaded model. It waits for an in-flight generation to
// finish first and is safe to call when nothing is loaded.
func (h *Handle) Release() error {
	h.genMu.Lock()
	defer h.genMu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model == nil {
		return nil
	}
	err := h.model.Close()
	h.model = nil
	return err
}

// Generate runs one generation over the prompt. Concurrent callers queue;
// exactly one generation runs at a time.
func (h *Handle) Generate(ctx context.Context, promptText string, sampler generate.SamplerConfig, onToken func(string)) (generate.Result, error) {
	h.genMu.Lock()
	defer h.genMu.Unlock()

	h.mu.Lock()
	m := h.model
	h.mu.Unlock()
	if m == nil {
		return generate.Result{}, ErrNotLoaded
	}

	return generate.Run(ctx, m, promptText, generate.Options{
		ContextWindow: h.cfg.ContextWindow,
		MaxTokens:     h.cfg.MaxTokens,
		Sampler:       sampler,
		OnToken:       onToken,
	})
}
