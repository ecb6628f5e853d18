// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat owns all conversation state: the registry of conversations,
// the active conversation id, and their durable persistence.
//
// The registry is the single source of truth for chat history. It is mutated
// only through Store operations (create, switch, append, delete) and is
// rewritten wholesale to one JSON document after every mutation, using an
// atomic replace so a crash loses at most the in-flight operation.
package chat
