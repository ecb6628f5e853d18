// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - shared lipgloss styles for CLI output.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mia-companion/internal/ui/styles"
)

var (
	// promptStyle renders the REPL input prompt.
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// miaStyle renders the assistant name.
	miaStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// infoStyle renders secondary information.
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// errorStyle renders errors.
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// warnStyle renders warnings.
	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// sourceStyle renders web source citations.
	sourceStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// statStyle renders generation statistics.
	statStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)
