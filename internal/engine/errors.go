// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

// =============================================================================
// ERROR TYPES
// =============================================================================

// Error represents a failure at the inference boundary.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same Type, so errors.Is(err, ErrDecode) works on
// wrapped instances carrying extra context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes inference failures for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeLoadFailure
	ErrTypeEncoding
	ErrTypeDecode
	ErrTypePromptTooLong
)

// Sentinel errors for easy checking with errors.Is.
var (
	// ErrLoadFailure indicates the model or backend could not initialize.
	ErrLoadFailure = &Error{Type: ErrTypeLoadFailure, Message: "model load failed"}

	// ErrEncoding indicates tokenization failed on the given input.
	ErrEncoding = &Error{Type: ErrTypeEncoding, Message: "tokenization failed"}

	// ErrDecode indicates a backend decode failure; the request is aborted
	// and partial output discarded.
	ErrDecode = &Error{Type: ErrTypeDecode, Message: "decode failed"}

	// ErrPromptTooLong indicates the prompt exceeds the context window.
	ErrPromptTooLong = &Error{Type: ErrTypePromptTooLong, Message: "prompt exceeds context window"}
)

// NewError builds an Error of the given type wrapping cause.
func NewError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause}
}
