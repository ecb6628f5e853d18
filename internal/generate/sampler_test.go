// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"testing"

	"github.com/jeranaias/mia-companion/internal/engine"
)

func TestSampleGreedyAtZeroTemperature(t *testing.T) {
	s := NewSampler(SamplerConfig{Temperature: 0, Seed: 1})
	logits := engine.Logits{0.1, 5.0, 2.0, 4.9}
	for i := 0; i < 10; i++ {
		if got := s.Sample(logits); got != 1 {
			t.Fatalf("greedy sample = %d, want 1", got)
		}
	}
}

func TestSampleTopKOneIsDeterministic(t *testing.T) {
	s := NewSampler(SamplerConfig{Temperature: 1.25, TopK: 1, Seed: 7})
	logits := engine.Logits{1, 2, 3, 2.5}
	for i := 0; i < 20; i++ {
		if got := s.Sample(logits); got != 2 {
			t.Fatalf("top-k=1 sample = %d, want 2", got)
		}
	}
}

func TestSampleDominantLogitAlwaysWins(t *testing.T) {
	// One logit towers over the rest; even at a hot temperature the rest
	// carry negligible mass after top-p.
	logits := make(engine.Logits, 100)
	logits[42] = 60
	s := NewSampler(SamplerConfig{Temperature: 1.25, Seed: 3})
	for i := 0; i < 50; i++ {
		if got := s.Sample(logits); got != 42 {
			t.Fatalf("sample = %d, want 42", got)
		}
	}
}

func TestSampleSameSeedSameSequence(t *testing.T) {
	logits := engine.Logits{3, 3, 3, 3, 3, 3}
	a := NewSampler(SamplerConfig{Temperature: 0.75, Seed: 99})
	b := NewSampler(SamplerConfig{Temperature: 0.75, Seed: 99})
	for i := 0; i < 30; i++ {
		if x, y := a.Sample(logits), b.Sample(logits); x != y {
			t.Fatalf("step %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestSampleStaysWithinTopK(t *testing.T) {
	// Slightly decreasing logits: tokens 0-4 are the top-k candidates but
	// the mass is near-uniform, so a missing cut would leak other tokens.
	logits := make(engine.Logits, 200)
	for i := range logits {
		logits[i] = float32(len(logits)-i) * 0.001
	}
	s := NewSampler(SamplerConfig{Temperature: 1.0, TopK: 5, TopP: 1.0, Seed: 11})
	for i := 0; i < 100; i++ {
		if got := s.Sample(logits); int(got) >= 5 {
			t.Fatalf("sample %d escaped the top-k candidate set", got)
		}
	}
}

func TestSampleMinKeepSurvivesTopP(t *testing.T) {
	// The best candidate alone exceeds top-p; MinKeep=2 must still keep two.
	logits := engine.Logits{10, 1, -5}
	s := NewSampler(SamplerConfig{Temperature: 1.0, TopP: 0.5, MinKeep: 2, Seed: 5})
	seen := map[engine.Token]bool{}
	for i := 0; i < 500; i++ {
		seen[s.Sample(logits)] = true
	}
	if seen[2] {
		t.Error("token outside kept set was sampled")
	}
}

func TestSampleEmptyLogits(t *testing.T) {
	s := NewSampler(SamplerConfig{Temperature: 0.75, Seed: 1})
	if got := s.Sample(nil); got != 0 {
		t.Errorf("Sample(nil) = %d, want 0", got)
	}
}
