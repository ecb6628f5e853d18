// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Bubble Tea model for the chat TUI.
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mia-companion/internal/assistant"
	"github.com/jeranaias/mia-companion/internal/config"
	"github.com/jeranaias/mia-companion/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streaming reply
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	state State

	cfg       *config.Config
	assistant *assistant.Assistant

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Markdown rendering (nil when disabled or unavailable)
	renderer *glamour.TermRenderer

	// In-flight generation; nil when idle.
	gen *generation

	// Text accumulated from the current stream, rendered live at the
	// bottom of the transcript until the reply lands in the store.
	// A plain string: Bubble Tea copies the model on every update, and
	// a copied strings.Builder panics on the next write.
	streaming string

	// Transient notice shown under the transcript (errors, command output).
	notice      string
	noticeStyle lipgloss.Style
}

// New builds the TUI model around a wired assistant.
func New(cfg *config.Config, a *assistant.Assistant) Model {
	input := textinput.New()
	input.Placeholder = "Message Mia (/help for commands)"
	input.Prompt = promptStyle.Render("> ")
	input.CharLimit = 4096
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	m := Model{
		cfg:         cfg,
		assistant:   a,
		input:       input,
		spinner:     sp,
		noticeStyle: infoStyle,
	}

	if cfg.UI.Markdown {
		if r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(themeStyle(cfg.UI.Theme)),
			glamour.WithWordWrap(80),
		); err == nil {
			m.renderer = r
		}
	}
	return m
}

// Init starts the spinner, cursor blink and the background model load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, loadModel(m.assistant))
}

// setNotice replaces the transient notice line.
func (m *Model) setNotice(text string, style lipgloss.Style) {
	m.notice = text
	m.noticeStyle = style
}
