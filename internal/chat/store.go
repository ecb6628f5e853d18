// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jeranaias/mia-companion/internal/model"
	"github.com/jeranaias/mia-companion/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultCap is the per-conversation message cap. Once exceeded, the oldest
// messages are evicted first.
const DefaultCap = 15

// displayNameBudget is the rune budget for derived conversation names.
const displayNameBudget = 25

// DefaultGreeting seeds new conversations as the first assistant turn.
const DefaultGreeting = "Hi! I'm Mia. How can I help you today?"

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a conversation id does not exist.
// Use errors.Is(err, ErrNotFound) to check for it.
var ErrNotFound = &StoreError{Message: "conversation not found"}

// StoreError represents a conversation-store error.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// TYPES
// =============================================================================

// Cipher encrypts the durable document at rest. Implemented by
// internal/security; nil means plaintext.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// ShortID returns the display prefix of a conversation id. Ids are
// opaque strings; anything shorter than the prefix comes back unchanged.
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) <= 8 {
		return id
	}
	return string(runes[:8])
}

// Summary describes one conversation for listings.
type Summary struct {
	ID string
	// Name is derived from the first user message (or the first message if
	// no user message exists), truncated to a fixed budget.
	Name string
	// LastActive is the timestamp of the most recent message, in
	// milliseconds since the Unix epoch.
	LastActive int64
}

// Store owns the conversation registry. All access goes through its mutex;
// no other component holds a long-lived reference to the message slices.
type Store struct {
	mu sync.Mutex

	path     string
	cap      int
	greeting string
	cipher   Cipher

	conversations map[string][]model.Message
	activeID      string
}

// Option configures a Store.
type Option func(*Store)

// WithCap overrides the per-conversation message cap.
func WithCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.cap = n
		}
	}
}

// WithGreeting overrides the greeter message. Empty disables seeding.
func WithGreeting(greeting string) Option {
	return func(s *Store) { s.greeting = greeting }
}

// WithCipher encrypts the durable document at rest.
func WithCipher(c Cipher) Option {
	return func(s *Store) { s.cipher = c }
}

// =============================================================================
// OPEN
// =============================================================================

// Open loads the registry from the document at path, or starts empty if the
// file does not exist. When conversations exist, the most recently active
// one becomes active.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:          path,
		cap:           DefaultCap,
		greeting:      DefaultGreeting,
		conversations: make(map[string][]model.Message),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read conversation store: %w", err)
	}

	if s.cipher != nil {
		data, err = s.cipher.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt conversation store: %w", err)
		}
	}

	if err := json.Unmarshal(data, &s.conversations); err != nil {
		return nil, fmt.Errorf("failed to parse conversation store: %w", err)
	}

	if summaries := s.listLocked(); len(summaries) > 0 {
		s.activeID = summaries[0].ID
	}
	return s, nil
}

// =============================================================================
// MUTATING OPERATIONS
// =============================================================================

// Create inserts a new conversation, seeds it with the greeter message,
// makes it active and persists.
func (s *Store) Create() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	var messages []model.Message
	if s.greeting != "" {
		messages = append(messages, model.NewMessage(model.RoleAssistant, s.greeting))
	}
	s.conversations[id] = messages
	s.activeID = id

	if err := s.persistLocked(); err != nil {
		return "", err
	}
	return id, nil
}

// Switch makes id the active conversation.
func (s *Store) Switch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	s.activeID = id
	return nil
}

// Append adds a message to the conversation, creating it if absent.
// Timestamps are clamped monotonically non-decreasing within the
// conversation, the oldest messages are evicted once the cap is exceeded,
// and the registry is persisted.
func (s *Store) Append(id string, msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.conversations[id]
	if n := len(history); n > 0 && msg.Timestamp < history[n-1].Timestamp {
		msg.Timestamp = history[n-1].Timestamp
	}
	history = append(history, msg)

	// Evict oldest-first; relative order of the rest is preserved.
	if len(history) > s.cap {
		history = history[len(history)-s.cap:]
	}
	s.conversations[id] = history

	return s.persistLocked()
}

// Delete removes a conversation. When the active conversation is deleted,
// the most recently active remaining conversation becomes active, or none.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, id)

	if s.activeID == id {
		s.activeID = ""
		if summaries := s.listLocked(); len(summaries) > 0 {
			s.activeID = summaries[0].ID
		}
	}

	return s.persistLocked()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// ActiveID returns the active conversation id, or "" when none exists.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// History returns a copy of the conversation's messages in chronological
// order. A missing id yields an empty history, not an error.
func (s *Store) History(id string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.conversations[id]
	out := make([]model.Message, len(history))
	copy(out, history)
	return out
}

// List returns conversation summaries ordered by descending last activity.
// Ties keep a stable, deterministic order.
func (s *Store) List() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

func (s *Store) listLocked() []Summary {
	summaries := make([]Summary, 0, len(s.conversations))
	for id, history := range s.conversations {
		summaries = append(summaries, Summary{
			ID:         id,
			Name:       displayName(history),
			LastActive: lastActive(history),
		})
	}

	// Map iteration order is random; sort by id first so the stable sort
	// below breaks timestamp ties deterministically.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastActive > summaries[j].LastActive
	})
	return summaries
}

// displayName derives a listing name from the first user message, falling
// back to the first message of any role.
func displayName(history []model.Message) string {
	var content string
	for _, msg := range history {
		if msg.Role == model.RoleUser {
			content = msg.Content
			break
		}
	}
	if content == "" && len(history) > 0 {
		content = history[0].Content
	}
	if content == "" {
		return "New conversation"
	}

	content = util.CollapseSpace(content)
	runes := []rune(content)
	if len(runes) > displayNameBudget {
		return string(runes[:displayNameBudget]) + "..."
	}
	return content
}

func lastActive(history []model.Message) int64 {
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].Timestamp
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistLocked rewrites the full durable document. Callers hold s.mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.conversations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode conversation store: %w", err)
	}

	if s.cipher != nil {
		data, err = s.cipher.Encrypt(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt conversation store: %w", err)
		}
	}

	return util.AtomicWriteFile(s.path, data, 0644)
}
