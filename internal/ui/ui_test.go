// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mia-companion/internal/assistant"
	"github.com/jeranaias/mia-companion/internal/chat"
	"github.com/jeranaias/mia-companion/internal/config"
	"github.com/jeranaias/mia-companion/internal/engine/echo"
	"github.com/jeranaias/mia-companion/internal/generate"
	"github.com/jeranaias/mia-companion/internal/llm"
	"github.com/jeranaias/mia-companion/internal/mode"
)

func newTestModel(t *testing.T, pieces ...string) Model {
	t.Helper()

	store, err := chat.Open(filepath.Join(t.TempDir(), "chats_history.json"))
	if err != nil {
		t.Fatal(err)
	}
	h := llm.NewHandle(echo.NewScripted(pieces...), llm.Config{
		ModelPath:     "test.gguf",
		ContextWindow: 512,
		MaxTokens:     64,
	})
	if err := h.EnsureLoaded(context.Background()); err != nil {
		t.Fatal(err)
	}

	a := assistant.New(store, h, nil, nil, generate.SamplerConfig{Seed: 1})
	if _, err := a.NewConversation(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.UI.Markdown = false

	m := New(cfg, a)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestTranscriptShowsGreeting(t *testing.T) {
	m := newTestModel(t, "hi")
	m.refreshTranscript()
	if !strings.Contains(m.viewport.View(), "How can I help you today?") {
		t.Error("transcript missing the greeting")
	}
}

func TestSlashModeSwitches(t *testing.T) {
	m := newTestModel(t, "hi")
	updated, _ := m.handleSlash("/mode reflective")
	m = updated.(Model)
	if got := m.assistant.Mode(); got != mode.Reflective {
		t.Errorf("mode = %v, want Reflective", got)
	}
	if !strings.Contains(m.notice, "reflective") {
		t.Errorf("notice = %q, want mode confirmation", m.notice)
	}
}

func TestSlashModeRejectsUnknown(t *testing.T) {
	m := newTestModel(t, "hi")
	updated, _ := m.handleSlash("/mode bogus")
	m = updated.(Model)
	if m.assistant.Mode() != mode.Automatic {
		t.Errorf("mode changed on invalid input: %v", m.assistant.Mode())
	}
}

func TestSlashNewStartsConversation(t *testing.T) {
	m := newTestModel(t, "hi")
	before := m.assistant.ActiveConversation()
	updated, _ := m.handleSlash("/new")
	m = updated.(Model)
	if after := m.assistant.ActiveConversation(); after == before {
		t.Error("active conversation did not change")
	}
}

func TestResolveConversationPrefix(t *testing.T) {
	m := newTestModel(t, "hi")
	id := m.assistant.ActiveConversation()

	got, err := m.resolveConversation(id[:4])
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("resolved %q, want %q", got, id)
	}

	if _, err := m.resolveConversation("zzzz"); err == nil {
		t.Error("expected error for unknown prefix")
	}
}

func TestStreamingTokensAppearInTranscript(t *testing.T) {
	m := newTestModel(t, "hi")
	m.state = StateStreaming

	updated, _ := m.Update(tokenMsg("Hel"))
	m = updated.(Model)
	updated, _ = m.Update(tokenMsg("lo"))
	m = updated.(Model)

	if !strings.Contains(m.viewport.View(), "Hello") {
		t.Error("streamed pieces not rendered")
	}
}

func TestGenerationRoundTrip(t *testing.T) {
	m := newTestModel(t, "All", " good!")

	gen, _ := startGeneration(m.assistant, "how are you?")
	m.gen = gen
	m.state = StateStreaming

	// Drain the stream the way the update loop would.
	for {
		msg := awaitGeneration(gen)()
		updated, _ := m.Update(msg)
		m = updated.(Model)
		if _, done := msg.(replyMsg); done {
			break
		}
	}

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	history := m.assistant.History("")
	last := history[len(history)-1].Content
	if last != "All good!" {
		t.Errorf("last message = %q, want %q", last, "All good!")
	}
}

func TestStreamingSurvivesModelCopies(t *testing.T) {
	m := newTestModel(t, "hi")
	m.state = StateStreaming

	// Bubble Tea copies the model on every update, and consecutive
	// updates can land at different stack addresses. Feed pieces
	// through copies made at different call depths and make sure the
	// accumulated stream stays intact.
	var feed func(depth int, msg tea.Msg)
	feed = func(depth int, msg tea.Msg) {
		if depth > 0 {
			feed(depth-1, msg)
			return
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}

	feed(0, tokenMsg("Hel"))
	feed(64, tokenMsg("lo"))
	feed(8, tokenMsg(" there"))

	if m.streaming != "Hello there" {
		t.Errorf("streaming = %q, want %q", m.streaming, "Hello there")
	}
}

func TestQuitCancelsInFlightGeneration(t *testing.T) {
	// A reply much longer than the stream buffer: without cancellation
	// the Ask goroutine wedges on the token channel once nobody reads.
	pieces := make([]string, 60)
	for i := range pieces {
		pieces[i] = "x "
	}
	m := newTestModel(t, pieces...)

	gen, _ := startGeneration(m.assistant, "tell me everything")
	m.gen = gen
	m.state = StateStreaming

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("Ctrl+D should quit")
	}

	// Releasing the model waits out the generation; it must not hang
	// on a stream nobody drains.
	done := make(chan error, 1)
	go func() { done <- m.assistant.UnloadModel() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("UnloadModel failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("UnloadModel still blocked after quit")
	}

	// Drain the generation so the Ask goroutine's final history write
	// lands before TempDir cleanup removes the directory.
	for range gen.pieces {
	}
	<-gen.result
}
