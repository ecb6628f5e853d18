// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mode

import (
	"strings"
	"testing"
)

func TestParseNamesAndAliases(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"auto", Automatic},
		{"", Automatic},
		{"casual", Casual},
		{"basic", Casual},
		{"reflective", Reflective},
		{"philosophy", Reflective},
		{"factcheck", FactChecking},
		{"search", FactChecking},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := Parse("sassy"); err == nil {
		t.Error("expected error for unknown mode name")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, m := range []Mode{Automatic, Casual, Reflective, FactChecking} {
		got, err := Parse(m.String())
		if err != nil || got != m {
			t.Errorf("Parse(%q) = %v, %v", m.String(), got, err)
		}
	}
}

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	cases := []struct {
		text string
		want Mode
	}{
		{"miért élünk?", Reflective},
		{"Mi az élet értelme?", Reflective},
		{"MIÉRT van valami?", Reflective}, // case-insensitive
		{"what is the meaning of life", Reflective},
		{"tell me about consciousness", Reflective},
		{"what's 2+2", Casual},
		{"recommend a pizza place", Casual},
		{"", Casual},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestKeywordClassifierNormalizesAccents(t *testing.T) {
	// "mi\u00e9rt" typed with e + combining acute accent (U+0301).
	decomposed := "mie\u0301rt is this happening"
	c := NewKeywordClassifier()
	if got := c.Classify(decomposed); got != Reflective {
		t.Errorf("Classify(decomposed) = %v, want Reflective", got)
	}
}

func TestResolveAutomaticClassifies(t *testing.T) {
	p := NewPolicy(nil)

	d := p.Resolve(Automatic, "miért élünk?")
	if d.Mode != Reflective || d.Temperature != 1.25 {
		t.Errorf("reflective directive = %+v", d)
	}
	if d.WantsRetrieval {
		t.Error("reflective mode should not retrieve")
	}

	d = p.Resolve(Automatic, "what's 2+2")
	if d.Mode != Casual || d.Temperature != 0.75 {
		t.Errorf("casual directive = %+v", d)
	}
}

func TestResolveExplicitModesIgnoreText(t *testing.T) {
	p := NewPolicy(nil)

	d := p.Resolve(Casual, "miért élünk?")
	if d.Mode != Casual {
		t.Errorf("explicit casual overridden: %+v", d)
	}

	d = p.Resolve(FactChecking, "hello")
	if d.Mode != FactChecking || !d.WantsRetrieval || d.Temperature != 0.3 {
		t.Errorf("factcheck directive = %+v", d)
	}
	if !strings.Contains(d.Instruction, "Fact-Checking") {
		t.Errorf("factcheck instruction = %q", d.Instruction)
	}
}

func TestResolveNeverReturnsAutomatic(t *testing.T) {
	p := NewPolicy(nil)
	for _, text := range []string{"", "hello", "miért"} {
		if d := p.Resolve(Automatic, text); d.Mode == Automatic {
			t.Errorf("Resolve(Automatic, %q) left mode unresolved", text)
		}
	}
}

func TestCustomClassifier(t *testing.T) {
	c := NewKeywordClassifierWith([]string{"Döner"})
	if got := c.Classify("where to get döner kebab"); got != Reflective {
		t.Errorf("custom keyword not matched: %v", got)
	}
	if got := c.Classify("where to get pizza"); got != Casual {
		t.Errorf("Classify = %v, want Casual", got)
	}
}
