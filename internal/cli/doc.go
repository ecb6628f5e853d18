// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mia command line: argument parsing, the
// one-shot ask command, the interactive chat REPL and the session, model
// and config management commands. The full-screen TUI lives in
// internal/ui; this package covers everything reachable without it.
package cli
