// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package websearch retrieves web context for fact-checking replies.
//
// The client queries a DuckDuckGo-style HTML results page, extracts
// title/URL/snippet triples with precompiled regexes and renders them into a
// context block for the prompt. Retrieval is best-effort: any failure
// degrades to a fallback notice instead of an error, so a flaky network
// never blocks a reply.
package websearch
