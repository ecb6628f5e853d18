// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mode

import "fmt"

// =============================================================================
// MODE
// =============================================================================

// Mode is a behavior mode.
type Mode int

const (
	// Automatic classifies each user turn and picks between Casual and
	// Reflective.
	Automatic Mode = iota
	// Casual is the friendly default persona.
	Casual
	// Reflective is the philosophical persona with looser sampling.
	Reflective
	// FactChecking grounds replies in web retrieval with tight sampling.
	FactChecking
)

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case Automatic:
		return "auto"
	case Casual:
		return "casual"
	case Reflective:
		return "reflective"
	case FactChecking:
		return "factcheck"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Parse maps a mode name to its Mode. It accepts the canonical names and a
// few aliases users reach for.
func Parse(name string) (Mode, error) {
	switch name {
	case "auto", "automatic", "":
		return Automatic, nil
	case "casual", "basic":
		return Casual, nil
	case "reflective", "philosophy":
		return Reflective, nil
	case "factcheck", "search":
		return FactChecking, nil
	default:
		return Automatic, fmt.Errorf("unknown mode %q", name)
	}
}
