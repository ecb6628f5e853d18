// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"github.com/jeranaias/mia-companion/internal/model"
)

// ChatML frame markers.
const (
	BlockStart = "<|im_start|>"
	BlockEnd   = "<|im_end|>"
)

// Render builds the full ChatML prompt for one generation.
//
// The system block carries the persona instruction followed by any retrieved
// web context; retrieved is "" when retrieval did not run. History follows in
// chronological order and the prompt ends with an open assistant block.
func Render(instruction, retrieved string, history []model.Message) string {
	var b strings.Builder

	b.WriteString(BlockStart)
	b.WriteString("system\n")
	b.WriteString(instruction)
	b.WriteString(retrieved)
	b.WriteString(BlockEnd)
	b.WriteString("\n")

	for _, msg := range history {
		b.WriteString(BlockStart)
		b.WriteString(string(msg.Role))
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString(BlockEnd)
		b.WriteString("\n")
	}

	b.WriteString(BlockStart)
	b.WriteString("assistant\n")
	return b.String()
}
