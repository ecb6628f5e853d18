// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/mia-companion/internal/engine"
)

// =============================================================================
// OPTIONS / RESULT
// =============================================================================

// Options configures one generation run.
type Options struct {
	// ContextWindow is the decode context size in tokens. The prompt must
	// leave at least one slot free or the run is rejected.
	ContextWindow int

	// MaxTokens bounds the number of generated tokens.
	MaxTokens int

	// Sampler configures the sampling chain for this run.
	Sampler SamplerConfig

	// OnToken, when set, receives each decoded text piece as it streams.
	// Pieces are complete UTF-8; a token ending mid-rune is delivered with
	// the piece that completes it.
	OnToken func(piece string)
}

// Result is the outcome of one generation run.
type Result struct {
	// Text is the whitespace-trimmed reply.
	Text string

	// TokenCount is the number of tokens sampled.
	TokenCount int

	// TokensPerSecond is the sampling-loop throughput. Prompt decode is
	// excluded.
	TokensPerSecond float64

	// Truncated reports that the token budget ran out before the model
	// ended its answer.
	Truncated bool
}

// =============================================================================
// GENERATION LOOP
// =============================================================================

// Run executes one generation: tokenize the prompt, decode it, then sample
// token by token until end-of-generation, the token budget, or cancellation.
//
// A prompt that does not fit the context window fails with ErrPromptTooLong
// before any decode work. A decode failure mid-stream aborts the run and
// discards the partial reply. Cancellation returns ctx.Err().
func Run(ctx context.Context, m engine.Model, promptText string, opts Options) (Result, error) {
	promptTokens, err := m.Tokenize(promptText)
	if err != nil {
		return Result{}, err
	}
	if len(promptTokens) == 0 {
		return Result{}, engine.NewError(engine.ErrTypeEncoding, "prompt tokenized to nothing", nil)
	}
	if len(promptTokens) >= opts.ContextWindow {
		return Result{}, engine.NewError(engine.ErrTypePromptTooLong,
			fmt.Sprintf("prompt is %d tokens, context window is %d", len(promptTokens), opts.ContextWindow), nil)
	}

	dctx, err := m.NewContext(opts.ContextWindow)
	if err != nil {
		return Result{}, err
	}
	defer dctx.Close()

	logits, err := dctx.Decode(promptTokens)
	if err != nil {
		return Result{}, err
	}

	sampler := NewSampler(opts.Sampler)
	var decoder StreamDecoder
	var text strings.Builder

	emit := func(piece string) {
		if piece == "" {
			return
		}
		text.WriteString(piece)
		if opts.OnToken != nil {
			opts.OnToken(piece)
		}
	}

	// Throughput covers the sampling loop only, not prompt decode.
	start := time.Now()
	count := 0
	truncated := true

	for count < opts.MaxTokens {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		tok := sampler.Sample(logits)
		if m.IsEndOfGeneration(tok) {
			truncated = false
			break
		}

		piece, err := m.Detokenize(tok)
		if err != nil {
			return Result{}, err
		}
		emit(decoder.Write(piece))
		count++

		logits, err = dctx.Decode([]engine.Token{tok})
		if err != nil {
			return Result{}, err
		}
	}
	emit(decoder.Flush())
	elapsed := time.Since(start)

	speed := 0.0
	if secs := elapsed.Seconds(); secs > 0 && count > 0 {
		speed = float64(count) / secs
	}

	return Result{
		Text:            strings.TrimSpace(text.String()),
		TokenCount:      count,
		TokensPerSecond: speed,
		Truncated:       truncated,
	}, nil
}
