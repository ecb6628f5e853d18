// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generate runs one token-by-token generation against a loaded
// model: prompt decode, the sampling chain (temperature, top-k, top-p,
// seeded draw), streaming detokenization and throughput accounting.
package generate
