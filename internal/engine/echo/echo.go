// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package echo implements a pure-Go inference engine for development and
// tests. It performs no real inference: a loaded model emits a scripted
// sequence of byte pieces (one per decode step) followed by the
// end-of-generation token. The scripted pieces may split UTF-8 sequences
// across steps, which exercises the streaming detokenizer the same way a
// real byte-pair vocabulary does.
//
// The driver registers under the name "echo".
package echo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/mia-companion/internal/engine"
)

// DriverName is the name the echo engine registers under.
const DriverName = "echo"

// eogToken is the reserved end-of-generation token id.
const eogToken engine.Token = 0

// favoredLogit is the score given to the scripted next token. High enough
// that even at temperature 1.25 the softmax mass elsewhere is negligible,
// keeping scripted runs deterministic.
const favoredLogit float32 = 60

// =============================================================================
// ENGINE
// =============================================================================

// Engine implements engine.Engine with scripted models.
type Engine struct {
	mu sync.Mutex

	// FailLoad, when set, makes LoadModel return that error.
	FailLoad error

	// Script is the reply installed on models loaded by this engine.
	// Empty means the built-in development reply.
	script [][]byte
}

// New creates an echo engine with the built-in development reply.
func New() *Engine {
	return &Engine{}
}

// NewScripted creates an echo engine whose models emit exactly the given
// pieces, in order, then end generation.
func NewScripted(pieces ...string) *Engine {
	e := &Engine{}
	for _, p := range pieces {
		e.script = append(e.script, []byte(p))
	}
	return e
}

// SetRawScript installs a byte-level script. Pieces may end mid-rune.
func (e *Engine) SetRawScript(pieces ...[]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.script = pieces
}

// LoadModel implements engine.Engine. The path is recorded but not opened:
// there is no model file in echo mode.
func (e *Engine) LoadModel(ctx context.Context, path string, gpuLayers int) (engine.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, engine.NewError(engine.ErrTypeLoadFailure, "model load failed", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailLoad != nil {
		return nil, engine.NewError(engine.ErrTypeLoadFailure, "model load failed", e.FailLoad)
	}

	script := e.script
	if len(script) == 0 {
		for _, p := range []string{"Running", " in", " echo", " mode", " -", " no", " model", " loaded."} {
			script = append(script, []byte(p))
		}
	}

	m := &Model{
		path:   path,
		script: script,
		vocab:  [][]byte{[]byte("<eog>")},
		index:  map[string]engine.Token{},
	}
	// Intern the script so every piece has a stable token id.
	m.scriptTokens = make([]engine.Token, len(script))
	for i, p := range script {
		m.scriptTokens[i] = m.intern(p)
	}
	return m, nil
}

// =============================================================================
// MODEL
// =============================================================================

// Model is a scripted model. Tokenization interns whitespace-delimited
// words; generation replays the script.
type Model struct {
	mu     sync.Mutex
	path   string
	closed bool

	script       [][]byte
	scriptTokens []engine.Token
	vocab        [][]byte
	index        map[string]engine.Token

	// FailTokenize, when set, makes Tokenize fail.
	FailTokenize error

	// FailDecodeAt makes the n-th Decode call across all contexts fail
	// (1-based). Zero disables the hook.
	FailDecodeAt int
	decodeCalls  int

	// CloseCount counts Close calls, for lifecycle tests.
	CloseCount int
}

func (m *Model) intern(piece []byte) engine.Token {
	key := string(piece)
	if t, ok := m.index[key]; ok {
		return t
	}
	t := engine.Token(len(m.vocab))
	m.vocab = append(m.vocab, append([]byte(nil), piece...))
	m.index[key] = t
	return t
}

// Tokenize implements engine.Model by interning whitespace-delimited words.
func (m *Model) Tokenize(text string) ([]engine.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTokenize != nil {
		return nil, engine.NewError(engine.ErrTypeEncoding, "tokenization failed", m.FailTokenize)
	}

	words := strings.Fields(text)
	tokens := make([]engine.Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, m.intern([]byte(w)))
	}
	return tokens, nil
}

// Detokenize implements engine.Model.
func (m *Model) Detokenize(t engine.Token) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(t) < 0 || int(t) >= len(m.vocab) {
		return nil, engine.NewError(engine.ErrTypeDecode, fmt.Sprintf("token %d outside vocabulary", t), nil)
	}
	return m.vocab[t], nil
}

// IsEndOfGeneration implements engine.Model.
func (m *Model) IsEndOfGeneration(t engine.Token) bool {
	return t == eogToken
}

// NewContext implements engine.Model.
func (m *Model) NewContext(maxTokens int) (engine.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, engine.NewError(engine.ErrTypeDecode, "model is closed", nil)
	}
	return &modelContext{model: m, maxTokens: maxTokens}, nil
}

// Close implements engine.Model. Safe to call repeatedly.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.CloseCount++
	return nil
}

// =============================================================================
// DECODE CONTEXT
// =============================================================================

type modelContext struct {
	model     *Model
	maxTokens int
	fed       int
	step      int
	closed    bool
}

// Decode replays the script: each call returns logits favoring the next
// scripted token, then the end-of-generation token once exhausted.
func (c *modelContext) Decode(tokens []engine.Token) (engine.Logits, error) {
	m := c.model
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.closed {
		return nil, engine.NewError(engine.ErrTypeDecode, "decode context is closed", nil)
	}

	m.decodeCalls++
	if m.FailDecodeAt > 0 && m.decodeCalls == m.FailDecodeAt {
		return nil, engine.NewError(engine.ErrTypeDecode, "decode failed", nil)
	}

	c.fed += len(tokens)
	if c.maxTokens > 0 && c.fed > c.maxTokens {
		return nil, engine.NewError(engine.ErrTypeDecode,
			fmt.Sprintf("decode failed: %d tokens exceed context of %d", c.fed, c.maxTokens), nil)
	}

	next := eogToken
	if c.step < len(m.scriptTokens) {
		next = m.scriptTokens[c.step]
	}
	c.step++

	logits := make(engine.Logits, len(m.vocab))
	logits[next] = favoredLogit
	return logits, nil
}

func (c *modelContext) Close() error {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	c.closed = true
	return nil
}
