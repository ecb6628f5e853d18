// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine defines the boundary to the native inference backend.
//
// The backend itself (model loading, tensor compute, tokenizer tables) is an
// external collaborator; this package only names the capabilities the chat
// pipeline consumes: load a model, tokenize text, decode token batches into
// logits, detokenize single tokens, and test for the end-of-generation token.
//
// Implementations register themselves under a driver name, mirroring the
// database/sql driver pattern, and are selected through Open. The repository
// ships one pure-Go development driver (see the echo subpackage); a native
// llama.cpp-backed driver plugs in through the same interface.
package engine
