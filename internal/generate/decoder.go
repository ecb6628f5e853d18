// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import "unicode/utf8"

// StreamDecoder reassembles UTF-8 text from token byte pieces. A token
// boundary can fall inside a multi-byte rune, so the decoder holds back an
// incomplete trailing sequence until the next piece completes it.
type StreamDecoder struct {
	pending []byte
}

// Write appends one token's bytes and returns the longest complete-rune
// prefix accumulated so far. The returned string may be empty when the
// piece ends mid-rune.
func (d *StreamDecoder) Write(piece []byte) string {
	d.pending = append(d.pending, piece...)

	// Walk back at most one rune's width to the start of the last rune.
	// If that rune is still missing continuation bytes, hold it back.
	complete := len(d.pending)
	for i := len(d.pending) - 1; i >= 0 && len(d.pending)-i <= utf8.UTFMax; i-- {
		if utf8.RuneStart(d.pending[i]) {
			if !utf8.FullRune(d.pending[i:]) {
				complete = i
			}
			break
		}
	}

	out := string(d.pending[:complete])
	d.pending = append(d.pending[:0], d.pending[complete:]...)
	return out
}

// Flush returns any bytes still held back, decoded permissively. Called
// once at end of generation.
func (d *StreamDecoder) Flush() string {
	out := string(d.pending)
	d.pending = d.pending[:0]
	return out
}
