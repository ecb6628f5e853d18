// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mode decides how the assistant behaves for a given turn.
//
// A behavior mode bundles a persona instruction, a sampling temperature and
// a retrieval decision. The automatic mode inspects the user's text with a
// keyword classifier and picks between the casual and reflective personas;
// the other modes are explicit and fixed until changed.
package mode
