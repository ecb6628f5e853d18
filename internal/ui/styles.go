// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - lipgloss styles for the chat TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/mia-companion/internal/ui/styles"
)

var (
	// headerStyle renders the top status bar.
	headerStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(styles.Overlay)

	// footerStyle renders the key hints line.
	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// promptStyle renders the input prompt and user name.
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

	// statStyle renders timestamps and generation statistics.
	statStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// themeStyle maps the configured theme to a glamour standard style.
func themeStyle(theme string) string {
	switch theme {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		if termenv.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}
