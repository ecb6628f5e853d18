// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the full-screen chat TUI.
//
// The TUI is a Bubble Tea program wrapping the assistant: a scrollback
// viewport with the conversation transcript, a single-line input, and a
// spinner while a reply is generating. Generation streams token by token
// into the transcript and can be cancelled with Ctrl+C without leaving
// the program.
//
// Slash commands mirror the line-based REPL: /new, /list, /switch,
// /delete, /mode, /quit.
package ui
