package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/chatpdf-local/internal/domain"
	"github.com/google/uuid"
)

// Sender names used across the live chat view
const (
	DefaultSender = "You"
	SystemSender  = "System"
)

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// MessageStore holds the live, transient chat messages.
// Safe for concurrent use.
type MessageStore struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	now      func() int64
}

// NewMessageStore creates a store seeded with the default empty-conversation
// messages (welcome + usage hint).
func NewMessageStore() *MessageStore {
	s := &MessageStore{now: nowMillis}
	t := s.now()
	s.messages = []domain.ChatMessage{
		{
			ID:        "welcome",
			Sender:    SystemSender,
			Text:      "Welcome! Messages are kept locally on this device.",
			CreatedAt: t,
		},
		{
			ID:        "hint",
			Sender:    SystemSender,
			Text:      "Type a message below and hit Send to add to the chat.",
			CreatedAt: t + 1,
		},
	}
	return s
}

// Add appends a new message. Blank text is silently rejected; a sender that
// trims to empty defaults to "You". Reports whether a message was stored.
func (s *MessageStore) Add(sender, text string) (domain.ChatMessage, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.ChatMessage{}, false
	}

	name := strings.TrimSpace(sender)
	if name == "" {
		name = DefaultSender
	}

	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    name,
		Text:      trimmed,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg, true
}

// Ordered returns a copy of the messages sorted ascending by CreatedAt,
// with ties keeping insertion order. Mutating the result does not affect
// the store.
func (s *MessageStore) Ordered() []domain.ChatMessage {
	s.mu.Lock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Len reports the number of stored messages
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear removes all messages. Idempotent.
func (s *MessageStore) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

// Replace swaps the whole collection, normalizing each entry so malformed
// external input (e.g. a deserialized snapshot) cannot poison the store.
// Entries whose text is blank after trimming are dropped.
func (s *MessageStore) Replace(list []domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, 0, len(list))
	for _, m := range list {
		m.Text = strings.TrimSpace(m.Text)
		if m.Text == "" {
			continue
		}
		m.Sender = strings.TrimSpace(m.Sender)
		if m.Sender == "" {
			m.Sender = DefaultSender
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt == 0 {
			m.CreatedAt = s.now()
		}
		out = append(out, m)
	}
	s.messages = out
}
