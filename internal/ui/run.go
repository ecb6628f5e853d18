// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// run.go - program entry point for the chat TUI.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mia-companion/internal/assistant"
	"github.com/jeranaias/mia-companion/internal/config"
)

// Run starts the full-screen chat TUI and blocks until it exits.
func Run(cfg *config.Config, a *assistant.Assistant) error {
	if a.ActiveConversation() == "" {
		if _, err := a.NewConversation(); err != nil {
			return err
		}
	}

	p := tea.NewProgram(New(cfg, a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
