// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the chat pipeline:
// message roles, messages, and web sources attached to fact-checked replies.
//
// The JSON tags on these types define the durable conversation format
// (~/.mia/chats_history.json). Optional fields may be absent in documents
// written by older versions and default to their zero values on load.
package model
