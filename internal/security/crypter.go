// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks an encrypted document
// (format: ENC:base64(salt|nonce|ciphertext|tag)).
const EncryptedPrefix = "ENC:"

// NonceSize is the AES-GCM nonce size (96 bits).
const NonceSize = 12

// KeySize is the AES-256 key size.
const KeySize = 32

// SaltSize is the key-derivation salt size.
const SaltSize = 32

// PBKDF2Iterations follows the OWASP 2023 recommendation for PBKDF2-SHA-256.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCiphertext indicates the ciphertext envelope is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates a wrong passphrase or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// HELPERS
// =============================================================================

// ZeroBytes zeros sensitive byte slices to limit key material exposure in
// crash dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsEncrypted reports whether data carries the encrypted envelope prefix.
func IsEncrypted(data []byte) bool {
	return strings.HasPrefix(string(data), EncryptedPrefix)
}

// =============================================================================
// CRYPTER
// =============================================================================

// Crypter encrypts and decrypts documents with a passphrase-derived key.
// It satisfies the conversation store's Cipher interface. Safe for
// concurrent use.
type Crypter struct {
	passphrase string
	iterations int
}

// NewCrypter returns a crypter for the given passphrase.
func NewCrypter(passphrase string) *Crypter {
	return newCrypter(passphrase, PBKDF2Iterations)
}

func newCrypter(passphrase string, iterations int) *Crypter {
	return &Crypter{passphrase: passphrase, iterations: iterations}
}

// deriveKey derives the AES key for one salt.
func (c *Crypter) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(c.passphrase), salt, c.iterations, KeySize, sha256.New)
}

func (c *Crypter) aead(salt []byte) (cipher.AEAD, error) {
	key := c.deriveKey(salt)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext into the ENC: envelope. A fresh salt and nonce
// are drawn per call, so encrypting the same document twice never produces
// the same bytes.
func (c *Crypter) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	envelope := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	envelope = append(envelope, salt...)
	envelope = append(envelope, nonce...)
	envelope = append(envelope, sealed...)

	out := make([]byte, 0, len(EncryptedPrefix)+base64.StdEncoding.EncodedLen(len(envelope)))
	out = append(out, EncryptedPrefix...)
	out = base64.StdEncoding.AppendEncode(out, envelope)
	return out, nil
}

// Decrypt opens an ENC: envelope produced by Encrypt.
func (c *Crypter) Decrypt(data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, ErrInvalidCiphertext
	}

	envelope, err := base64.StdEncoding.DecodeString(string(data[len(EncryptedPrefix):]))
	if err != nil {
		return nil, ErrInvalidCiphertext
	}
	if len(envelope) < SaltSize+NonceSize {
		return nil, ErrInvalidCiphertext
	}

	salt := envelope[:SaltSize]
	nonce := envelope[SaltSize : SaltSize+NonceSize]
	sealed := envelope[SaltSize+NonceSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
