// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/mia-companion/internal/chat"
	"github.com/jeranaias/mia-companion/internal/generate"
	"github.com/jeranaias/mia-companion/internal/llm"
	"github.com/jeranaias/mia-companion/internal/mode"
	"github.com/jeranaias/mia-companion/internal/model"
	"github.com/jeranaias/mia-companion/internal/prompt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoActiveConversation is returned by Ask when no conversation is
	// selected.
	ErrNoActiveConversation = errors.New("no active conversation")

	// ErrEmptyMessage is returned by Ask for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// =============================================================================
// TYPES
// =============================================================================

// Searcher retrieves web context for fact-checking turns. Implemented by
// internal/websearch; nil disables retrieval.
type Searcher interface {
	Search(ctx context.Context, query string) (string, []model.Source)
}

// Reply is one completed assistant turn.
type Reply struct {
	Content         string
	TokenCount      int
	TokensPerSecond float64
	Sources         []model.Source
	Truncated       bool
}

// Assistant orchestrates one conversational turn end to end.
type Assistant struct {
	store  *chat.Store
	handle *llm.Handle
	search Searcher
	policy *mode.Policy

	base generate.SamplerConfig

	modeMu  sync.Mutex
	current mode.Mode
}

// New assembles an assistant. search may be nil; base supplies the sampling
// parameters shared by all modes (the per-turn temperature comes from the
// resolved directive).
func New(store *chat.Store, handle *llm.Handle, search Searcher, policy *mode.Policy, base generate.SamplerConfig) *Assistant {
	if policy == nil {
		policy = mode.NewPolicy(nil)
	}
	return &Assistant{
		store:  store,
		handle: handle,
		search: search,
		policy: policy,
		base:   base,
	}
}

// =============================================================================
// MODE
// =============================================================================

// SetMode switches the session behavior mode.
func (a *Assistant) SetMode(m mode.Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	a.current = m
}

// Mode returns the session behavior mode.
func (a *Assistant) Mode() mode.Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.current
}

// =============================================================================
// ASK
// =============================================================================

// Ask runs one conversational turn: resolve the behavior directive, retrieve
// web context when fact-checking, record the user message, generate the
// reply and record it with its sources and statistics.
//
// onToken, when non-nil, receives the reply as it streams. The user message
// stays in history even when generation fails, so a retry carries the
// context.
func (a *Assistant) Ask(ctx context.Context, text string, onToken func(string)) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	id := a.store.ActiveID()
	if id == "" {
		return Reply{}, ErrNoActiveConversation
	}

	directive := a.policy.Resolve(a.Mode(), text)

	retrieved := ""
	var sources []model.Source
	if directive.WantsRetrieval && a.search != nil {
		retrieved, sources = a.search.Search(ctx, text)
	}

	if err := a.store.Append(id, model.NewMessage(model.RoleUser, text)); err != nil {
		return Reply{}, err
	}

	sampler := a.base
	sampler.Temperature = directive.Temperature

	rendered := prompt.Render(directive.Instruction, retrieved, a.store.History(id))
	res, err := a.handle.Generate(ctx, rendered, sampler, onToken)
	if err != nil {
		return Reply{}, err
	}

	reply := model.NewMessage(model.RoleAssistant, res.Text)
	reply.Sources = sources
	reply.TokenCount = res.TokenCount
	reply.TokensPerSec = res.TokensPerSecond
	if err := a.store.Append(id, reply); err != nil {
		return Reply{}, err
	}

	return Reply{
		Content:         res.Text,
		TokenCount:      res.TokenCount,
		TokensPerSecond: res.TokensPerSecond,
		Sources:         sources,
		Truncated:       res.Truncated,
	}, nil
}

// =============================================================================
// SESSION AND MODEL SURFACE
// =============================================================================

// NewConversation creates a conversation and makes it active.
func (a *Assistant) NewConversation() (string, error) {
	return a.store.Create()
}

// Conversations lists all conversations, most recently active first.
func (a *Assistant) Conversations() []chat.Summary {
	return a.store.List()
}

// SwitchConversation makes id the active conversation.
func (a *Assistant) SwitchConversation(id string) error {
	return a.store.Switch(id)
}

// DeleteConversation removes a conversation.
func (a *Assistant) DeleteConversation(id string) error {
	return a.store.Delete(id)
}

// ActiveConversation returns the active conversation id, or "".
func (a *Assistant) ActiveConversation() string {
	return a.store.ActiveID()
}

// History returns the active conversation's messages, or the given
// conversation's when id is non-empty.
func (a *Assistant) History(id string) []model.Message {
	if id == "" {
		id = a.store.ActiveID()
	}
	return a.store.History(id)
}

// LoadModel loads the model if needed.
func (a *Assistant) LoadModel(ctx context.Context) error {
	return a.handle.EnsureLoaded(ctx)
}

// UnloadModel releases the model, waiting out in-flight generation.
func (a *Assistant) UnloadModel() error {
	return a.handle.Release()
}

// ModelLoaded reports whether the model is loaded.
func (a *Assistant) ModelLoaded() bool {
	return a.handle.Loaded()
}
