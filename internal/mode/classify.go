// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mode

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier decides the concrete mode for one user turn when the session
// mode is Automatic. Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(text string) Mode
}

// reflectiveKeywords trigger the reflective persona in automatic mode.
// Hungarian terms first (the companion's home audience), then English.
var reflectiveKeywords = []string{
	"miért",
	"élet",
	"halál",
	"értelem",
	"világ",
	"létezés",
	"igazság",
	"filozófia",
	"meaning of life",
	"existence",
	"philosophy",
	"consciousness",
	"why do we",
	"purpose of",
	"mortality",
}

// KeywordClassifier matches the user's text against a fixed keyword list.
// Matching is case-insensitive over NFC-normalized text, so composed and
// decomposed accents compare equal.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier returns a classifier over the built-in keyword list.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{keywords: reflectiveKeywords}
}

// NewKeywordClassifierWith returns a classifier over a custom keyword list.
// Keywords are normalized and lowercased once at construction.
func NewKeywordClassifierWith(keywords []string) *KeywordClassifier {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = canonical(k); k != "" {
			normalized = append(normalized, k)
		}
	}
	return &KeywordClassifier{keywords: normalized}
}

// Classify returns Reflective when any keyword occurs in the text as a
// substring, Casual otherwise.
func (c *KeywordClassifier) Classify(text string) Mode {
	haystack := canonical(text)
	for _, k := range c.keywords {
		if strings.Contains(haystack, k) {
			return Reflective
		}
	}
	return Casual
}

func canonical(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
