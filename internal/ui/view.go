// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - transcript rendering for the chat TUI.
package ui

import (
	"fmt"
	"strings"

	"github.com/jeranaias/mia-companion/internal/model"
)

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := miaStyle.Render("Mia")
	status := infoStyle.Render(fmt.Sprintf(" · mode %s", m.assistant.Mode()))
	if !m.assistant.ModelLoaded() {
		status += warnStyle.Render(" · loading model")
	}
	return headerStyle.Width(m.width).Render(title + status)
}

func (m Model) footerView() string {
	var b strings.Builder
	if m.state == StateStreaming {
		b.WriteString(m.spinner.View())
		b.WriteString(infoStyle.Render("thinking... (Ctrl+C to cancel)"))
	} else if m.notice != "" {
		b.WriteString(m.noticeStyle.Render(m.notice))
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(footerStyle.Render("enter send · /help commands · ctrl+d quit"))
	return b.String()
}

// refreshTranscript re-renders the conversation into the viewport and
// pins the scroll position to the bottom.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.assistant.History("") {
		b.WriteString(m.renderMessage(msg))
		b.WriteByte('\n')
	}
	if m.state == StateStreaming {
		b.WriteString(miaStyle.Render("mia"))
		b.WriteString(": ")
		b.WriteString(m.streaming)
		b.WriteByte('\n')
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message) string {
	var b strings.Builder

	name := promptStyle.Render(msg.Role.DisplayName())
	body := msg.Content
	if msg.Role == model.RoleAssistant {
		name = miaStyle.Render(msg.Role.DisplayName())
		if m.renderer != nil {
			if out, err := m.renderer.Render(body); err == nil {
				body = strings.TrimSpace(out)
			}
		}
	}

	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(body)
	b.WriteByte('\n')

	for i, s := range msg.Sources {
		b.WriteString("  ")
		b.WriteString(sourceStyle.Render(fmt.Sprintf("[%d] %s", i+1, s.Title)))
		b.WriteByte(' ')
		b.WriteString(statStyle.Render(s.URL))
		b.WriteByte('\n')
	}
	return b.String()
}
