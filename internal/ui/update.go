// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Bubble Tea update loop for the chat TUI.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mia-companion/internal/chat"
	"github.com/jeranaias/mia-companion/internal/mode"
)

const (
	headerHeight = 2
	footerHeight = 3
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshTranscript()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case modelLoadedMsg:
		if msg.err != nil {
			m.setNotice("model load failed: "+msg.err.Error(), errorStyle)
		} else {
			m.setNotice("", infoStyle)
		}
		m.refreshTranscript()

	case tokenMsg:
		m.streaming += string(msg)
		m.refreshTranscript()
		if m.gen != nil {
			cmds = append(cmds, awaitGeneration(m.gen))
		}

	case replyMsg:
		m.gen = nil
		m.state = StateReady
		m.streaming = ""
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.setNotice("(cancelled)", warnStyle)
		case msg.err != nil:
			m.setNotice(msg.err.Error(), errorStyle)
		default:
			m.setNotice(fmt.Sprintf("%d tokens · %.1f tok/s", msg.reply.TokenCount, msg.reply.TokensPerSecond), statStyle)
		}
		m.refreshTranscript()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.gen != nil {
			m.gen.cancel()
			return m, nil
		}
		return m.quit()

	case tea.KeyCtrlD:
		return m.quit()

	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		if m.state == StateStreaming {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		if strings.HasPrefix(text, "/") {
			return m.handleSlash(text)
		}
		m.state = StateStreaming
		m.setNotice("", infoStyle)
		var cmd tea.Cmd
		m.gen, cmd = startGeneration(m.assistant, text)
		m.refreshTranscript()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSlash executes one /command typed into the input line.
func (m Model) handleSlash(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return m.quit()

	case "/help", "/h":
		m.setNotice("/new /list /switch <id> /delete <id> /mode [name] /quit · Ctrl+C cancels", infoStyle)

	case "/new":
		if _, err := m.assistant.NewConversation(); err != nil {
			m.setNotice(err.Error(), errorStyle)
			break
		}
		m.setNotice("started a new conversation", infoStyle)

	case "/list":
		var b strings.Builder
		active := m.assistant.ActiveConversation()
		for _, s := range m.assistant.Conversations() {
			marker := "  "
			if s.ID == active {
				marker = "* "
			}
			when := time.UnixMilli(s.LastActive).Format("Jan 02 15:04")
			fmt.Fprintf(&b, "%s%s  %s  %s  ", marker, chat.ShortID(s.ID), when, s.Name)
		}
		if b.Len() == 0 {
			b.WriteString("no conversations")
		}
		m.setNotice(strings.TrimSpace(b.String()), infoStyle)

	case "/switch":
		if len(rest) == 0 {
			m.setNotice("usage: /switch <id>", warnStyle)
			break
		}
		id, err := m.resolveConversation(rest[0])
		if err == nil {
			err = m.assistant.SwitchConversation(id)
		}
		if err != nil {
			m.setNotice(err.Error(), errorStyle)
			break
		}
		m.setNotice("switched to "+chat.ShortID(id), infoStyle)

	case "/delete":
		if len(rest) == 0 {
			m.setNotice("usage: /delete <id>", warnStyle)
			break
		}
		id, err := m.resolveConversation(rest[0])
		if err == nil {
			err = m.assistant.DeleteConversation(id)
		}
		if err != nil {
			m.setNotice(err.Error(), errorStyle)
			break
		}
		m.setNotice("deleted "+chat.ShortID(id), infoStyle)

	case "/mode":
		if len(rest) == 0 {
			m.setNotice("mode: "+m.assistant.Mode().String(), infoStyle)
			break
		}
		parsed, err := mode.Parse(rest[0])
		if err != nil {
			m.setNotice(err.Error(), errorStyle)
			break
		}
		m.assistant.SetMode(parsed)
		m.setNotice("mode: "+parsed.String(), infoStyle)

	default:
		m.setNotice("unknown command "+cmd+" (try /help)", warnStyle)
	}

	m.refreshTranscript()
	return m, nil
}

// quit exits the program, cancelling any in-flight generation first so
// the Ask goroutine cannot stay blocked on a stream nobody reads. The
// later model release waits on that goroutine.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.gen != nil {
		m.gen.cancel()
	}
	return m, tea.Quit
}

// resolveConversation matches an id prefix against the stored conversations.
func (m *Model) resolveConversation(prefix string) (string, error) {
	var match string
	for _, s := range m.assistant.Conversations() {
		if strings.HasPrefix(s.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = s.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no conversation matches %q", prefix)
	}
	return match, nil
}
