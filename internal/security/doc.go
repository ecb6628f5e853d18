// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security encrypts the conversation history at rest.
//
// The scheme is AES-256-GCM with a PBKDF2-SHA-256 key derived from the
// user's passphrase. Every encryption draws a fresh salt and nonce, both
// carried inside the ciphertext envelope, so the document is self-contained
// and no key material touches disk.
package security
