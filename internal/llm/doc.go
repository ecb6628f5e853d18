// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm owns the lifecycle of the loaded model: idempotent load,
// serialized generation and release that waits out in-flight work before
// freeing backend memory.
package llm
