// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant is the conversational front door: it ties the
// conversation store, the behavior policy, web retrieval and the model
// handle into one Ask operation, and exposes the session management
// surface the interfaces build on.
package assistant
