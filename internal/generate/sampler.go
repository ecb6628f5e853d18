// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/jeranaias/mia-companion/internal/engine"
)

// =============================================================================
// SAMPLER CONFIG
// =============================================================================

// SamplerConfig controls the sampling chain. The chain runs temperature
// scaling, then top-k, then top-p, then a seeded weighted draw.
type SamplerConfig struct {
	// Temperature scales the logits. Zero or negative selects greedy
	// decoding (argmax), skipping the rest of the chain.
	Temperature float64

	// TopK keeps only the k highest-probability candidates. Zero or
	// negative means the default of 40.
	TopK int

	// TopP keeps the smallest candidate set whose cumulative probability
	// reaches p. Zero or negative means the default of 0.95.
	TopP float64

	// MinKeep is the minimum candidate count top-p may narrow down to.
	// Zero means 1.
	MinKeep int

	// Seed fixes the random draw for reproducible output. Zero means a
	// time-derived seed.
	Seed uint64
}

func (c SamplerConfig) withDefaults() SamplerConfig {
	if c.TopK <= 0 {
		c.TopK = 40
	}
	if c.TopP <= 0 {
		c.TopP = 0.95
	}
	if c.MinKeep <= 0 {
		c.MinKeep = 1
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// =============================================================================
// SAMPLER
// =============================================================================

// Sampler turns logits into one token per step. Not safe for concurrent
// use; each generation owns its sampler.
type Sampler struct {
	cfg SamplerConfig
	rng *rand.Rand
}

// NewSampler builds a sampler from cfg.
func NewSampler(cfg SamplerConfig) *Sampler {
	cfg = cfg.withDefaults()
	return &Sampler{
		cfg: cfg,
		rng: rand.New(rand.NewSource(int64(cfg.Seed))),
	}
}

type candidate struct {
	token engine.Token
	prob  float64
}

// Sample picks the next token from the logits.
func (s *Sampler) Sample(logits engine.Logits) engine.Token {
	if len(logits) == 0 {
		return 0
	}
	if s.cfg.Temperature <= 0 {
		return argmax(logits)
	}

	candidates := s.softmax(logits)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].prob > candidates[j].prob
	})

	// Top-k cut.
	if len(candidates) > s.cfg.TopK {
		candidates = candidates[:s.cfg.TopK]
	}

	// Top-p cut, never below MinKeep.
	cumulative := 0.0
	cut := len(candidates)
	for i, c := range candidates {
		cumulative += c.prob
		if cumulative >= s.cfg.TopP && i+1 >= s.cfg.MinKeep {
			cut = i + 1
			break
		}
	}
	candidates = candidates[:cut]

	// Weighted draw over the surviving mass.
	total := 0.0
	for _, c := range candidates {
		total += c.prob
	}
	r := s.rng.Float64() * total
	for _, c := range candidates {
		r -= c.prob
		if r <= 0 {
			return c.token
		}
	}
	return candidates[len(candidates)-1].token
}

// softmax converts temperature-scaled logits into probabilities. The max
// logit is subtracted first for numerical stability.
func (s *Sampler) softmax(logits engine.Logits) []candidate {
	maxLogit := float64(logits[0])
	for _, l := range logits[1:] {
		if float64(l) > maxLogit {
			maxLogit = float64(l)
		}
	}

	candidates := make([]candidate, len(logits))
	total := 0.0
	for i, l := range logits {
		p := math.Exp((float64(l) - maxLogit) / s.cfg.Temperature)
		candidates[i] = candidate{token: engine.Token(i), prob: p}
		total += p
	}
	for i := range candidates {
		candidates[i].prob /= total
	}
	return candidates
}

func argmax(logits engine.Logits) engine.Token {
	best := 0
	for i, l := range logits {
		if l > logits[best] {
			best = i
		}
	}
	return engine.Token(best)
}
