// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Mia"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a citable web source attached to a fact-checked reply.
// Sources are produced only by the retrieval layer, never user-authored.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation. Messages are
// immutable once appended; the store only adds, removes, or trims them.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Timestamp is the creation time in milliseconds since the Unix epoch.
	// Within one conversation timestamps are monotonically non-decreasing.
	Timestamp int64 `json:"timestamp"`

	// Sources holds web citations for fact-checked assistant replies.
	Sources []Source `json:"sources,omitempty"`

	// Generation statistics (assistant messages only).
	TokenCount   int     `json:"token_count,omitempty"`
	TokensPerSec float64 `json:"tokens_per_sec,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: Now(),
	}
}

// Now returns the current time in milliseconds since the Unix epoch,
// the unit used for message timestamps throughout the durable format.
func Now() int64 {
	return time.Now().UnixMilli()
}
