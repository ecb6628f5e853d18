// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the Mia companion.
//
// Configuration lives at ~/.mia/config.toml. Loading order:
//   - Built-in defaults
//   - config.toml, when present
//   - MIA_* environment variable overrides
//
// followed by validation. Saving always writes TOML through an atomic
// replace so a crash cannot corrupt the previous config.
package config
