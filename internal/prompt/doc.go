// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt renders conversation state into the model's chat template.
//
// The template is ChatML: each turn is framed by <|im_start|>role and
// <|im_end|> markers, and the rendered prompt ends with an open assistant
// block for the model to complete.
package prompt
