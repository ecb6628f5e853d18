// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mode

// =============================================================================
// PERSONA INSTRUCTIONS
// =============================================================================

const (
	casualInstruction = "You are Mia, a cute and smart AI assistant. " +
		"Your goal is to be helpful and kind. Use a friendly tone and emojis."

	reflectiveInstruction = "You are Mia, in Philosopher Mode. " +
		"Provide deep existential insights. Use poetic, serious language " +
		"and challenge the user's perspective."

	factCheckInstruction = "You are Mia, a Fact-Checking Assistant. " +
		"Answer using the provided web context accurately. " +
		"DO NOT include URLs or links in your response text. " +
		"Provide ONLY the information. " +
		"The sources will be displayed as separate buttons by the system."
)

// Sampling temperatures per persona.
const (
	casualTemperature     = 0.75
	reflectiveTemperature = 1.25
	factCheckTemperature  = 0.3
)

// =============================================================================
// POLICY
// =============================================================================

// Directive is the resolved behavior for one turn.
type Directive struct {
	// Mode is the concrete mode after automatic classification; it is never
	// Automatic.
	Mode Mode
	// Instruction is the persona system instruction.
	Instruction string
	// Temperature is the sampling temperature for this turn.
	Temperature float64
	// WantsRetrieval reports whether web retrieval should run before
	// generation.
	WantsRetrieval bool
}

// Policy resolves a session mode and user text into a Directive.
type Policy struct {
	classifier Classifier
}

// NewPolicy returns a policy using the given classifier for automatic mode.
// A nil classifier falls back to the built-in keyword classifier.
func NewPolicy(c Classifier) *Policy {
	if c == nil {
		c = NewKeywordClassifier()
	}
	return &Policy{classifier: c}
}

// Resolve picks the concrete directive for one user turn.
func (p *Policy) Resolve(m Mode, text string) Directive {
	if m == Automatic {
		m = p.classifier.Classify(text)
	}

	switch m {
	case Reflective:
		return Directive{
			Mode:        Reflective,
			Instruction: reflectiveInstruction,
			Temperature: reflectiveTemperature,
		}
	case FactChecking:
		return Directive{
			Mode:           FactChecking,
			Instruction:    factCheckInstruction,
			Temperature:    factCheckTemperature,
			WantsRetrieval: true,
		}
	default:
		return Directive{
			Mode:        Casual,
			Instruction: casualInstruction,
			Temperature: casualTemperature,
		}
	}
}
