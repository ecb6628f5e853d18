// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Token is a single token id in the model's vocabulary.
type Token int32

// Logits is the raw, unnormalized score per vocabulary entry for the next
// position. The sampler in internal/generate turns this into one Token.
type Logits []float32

// =============================================================================
// ENGINE INTERFACES
// =============================================================================

// Engine creates models. Loading may take seconds and acquires scarce
// backend resources (accelerator memory); callers own releasing them again
// through Model.Close.
type Engine interface {
	// LoadModel loads the model file at path, offloading up to gpuLayers
	// layers to the accelerator. Failures are reported as ErrLoadFailure.
	LoadModel(ctx context.Context, path string, gpuLayers int) (Model, error)
}

// Model is a loaded model. Tokenize and Detokenize are stateless; decode
// state lives in Context instances.
type Model interface {
	// NewContext creates a fresh decode context with the given window size.
	// Contexts are sequential and non-reentrant: one generation at a time.
	NewContext(maxTokens int) (Context, error)

	// Tokenize converts text into token ids. Fails with ErrEncoding.
	Tokenize(text string) ([]Token, error)

	// Detokenize returns the raw bytes for one token. The bytes may be a
	// partial UTF-8 sequence; callers must reassemble across calls.
	Detokenize(t Token) ([]byte, error)

	// IsEndOfGeneration reports whether t signals a completed answer.
	IsEndOfGeneration(t Token) bool

	// Close releases all backend memory held by the model. It must be
	// deterministic and safe to call more than once.
	Close() error
}

// Context is the mutable decode state for one in-progress generation.
type Context interface {
	// Decode feeds tokens in order and returns the logits for the position
	// following the last token. Fails with ErrDecode on backend failure,
	// including context-window overflow discovered by the backend.
	Decode(tokens []Token) (Logits, error)

	// Close releases the context's decode buffers.
	Close() error
}

// =============================================================================
// DRIVER REGISTRY
// =============================================================================

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Engine)
)

// Register makes an engine available under the given driver name.
// It panics on a duplicate name, like database/sql.Register.
func Register(name string, eng Engine) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if eng == nil {
		panic("engine: Register engine is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("engine: Register called twice for driver " + name)
	}
	drivers[name] = eng
}

// Open returns the engine registered under name.
func Open(name string) (Engine, error) {
	driversMu.RLock()
	eng, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("engine: unknown driver %q (registered: %v)", name, Drivers())
	}
	return eng, nil
}

// Drivers returns the sorted names of the registered engines.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
