// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - async generation plumbing.
//
// One generation is one goroutine calling Assistant.Ask. Token pieces
// flow through a channel into the Bubble Tea update loop; the final
// reply (or error) follows on a second channel once Ask returns.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mia-companion/internal/assistant"
)

// tokenMsg carries one streamed piece of the reply.
type tokenMsg string

// replyMsg carries the completed reply or the generation error.
type replyMsg struct {
	reply assistant.Reply
	err   error
}

// modelLoadedMsg reports the result of the startup model load.
type modelLoadedMsg struct{ err error }

// generation tracks one in-flight Ask call.
type generation struct {
	pieces chan string
	result chan replyMsg
	cancel context.CancelFunc
}

// startGeneration kicks off Ask in a goroutine and returns the command
// that waits for its first message.
func startGeneration(a *assistant.Assistant, text string) (*generation, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	g := &generation{
		pieces: make(chan string, 32),
		result: make(chan replyMsg, 1),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		reply, err := a.Ask(ctx, text, func(piece string) {
			// The send must not outlive the reader: on quit the update
			// loop is gone and only cancellation unblocks this.
			select {
			case g.pieces <- piece:
			case <-ctx.Done():
			}
		})
		close(g.pieces)
		g.result <- replyMsg{reply: reply, err: err}
	}()

	return g, awaitGeneration(g)
}

// awaitGeneration blocks for the next token piece, falling through to
// the final result once the piece channel closes.
func awaitGeneration(g *generation) tea.Cmd {
	return func() tea.Msg {
		piece, ok := <-g.pieces
		if !ok {
			return <-g.result
		}
		return tokenMsg(piece)
	}
}

// loadModel loads the model off the update loop so the UI stays live.
func loadModel(a *assistant.Assistant) tea.Cmd {
	return func() tea.Msg {
		return modelLoadedMsg{err: a.LoadModel(context.Background())}
	}
}
