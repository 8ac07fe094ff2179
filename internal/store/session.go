package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/Rrens/chatpdf-local/internal/domain"
	"github.com/Rrens/chatpdf-local/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Storage keys. The session list and the active pointer are written
// independently; a crash between the two writes can leave them out of sync,
// so every read of the active pointer fails soft when it dangles.
const (
	sessionsKey      = "chatpdf:local_sessions"
	activeSessionKey = "chatpdf:active_session_id"
)

// SessionStore manages named, durably stored conversations and mirrors the
// active one into the live MessageStore. Safe for concurrent use.
type SessionStore struct {
	kv   storage.Store
	chat *MessageStore
	pdf  *UploadStore
	log  zerolog.Logger

	mu       sync.Mutex
	sessions []domain.SessionSummary
	activeID string
	now      func() int64
}

// NewSessionStore loads persisted state from kv. Missing or corrupt data
// degrades to an empty list and no active pointer.
func NewSessionStore(kv storage.Store, chat *MessageStore, pdf *UploadStore, log zerolog.Logger) *SessionStore {
	s := &SessionStore{
		kv:   kv,
		chat: chat,
		pdf:  pdf,
		log:  log,
		now:  nowMillis,
	}
	s.load()
	return s
}

func (s *SessionStore) load() {
	ctx := context.Background()

	raw, ok, err := s.kv.Get(ctx, sessionsKey)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("failed to read stored sessions, starting empty")
	case ok:
		var parsed []domain.SessionSummary
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			s.log.Warn().Err(err).Msg("discarding corrupt session data")
			break
		}
		now := s.now()
		for i := range parsed {
			if parsed[i].CreatedAt == 0 {
				parsed[i].CreatedAt = now
			}
			if parsed[i].UpdatedAt == 0 {
				parsed[i].UpdatedAt = now
			}
			if parsed[i].Messages == nil {
				parsed[i].Messages = []domain.SessionMessage{}
			}
		}
		s.sessions = parsed
	}

	active, ok, err := s.kv.Get(ctx, activeSessionKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read active session pointer")
		return
	}
	if ok {
		// Kept even if it no longer matches a session; use sites treat a
		// dangling pointer as "no active session".
		s.activeID = active
	}
}

// persist writes both keys best-effort. Callers must hold s.mu.
func (s *SessionStore) persist(ctx context.Context) {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode sessions")
	} else if err := s.kv.Set(ctx, sessionsKey, string(data)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist sessions")
	}

	if s.activeID == "" {
		if err := s.kv.Delete(ctx, activeSessionKey); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear active session pointer")
		}
		return
	}
	if err := s.kv.Set(ctx, activeSessionKey, s.activeID); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist active session pointer")
	}
}

// findLocked returns a pointer into the backing slice. Callers must hold
// s.mu and must not retain the pointer past a reorder.
func (s *SessionStore) findLocked(id string) *domain.SessionSummary {
	if id == "" {
		return nil
	}
	for i := range s.sessions {
		if s.sessions[i].SessionID == id {
			return &s.sessions[i]
		}
	}
	return nil
}

// Create starts a fresh conversation and makes it active. When fileID is
// empty, the currently uploaded document's id and name are adopted
// best-effort. The live message view is cleared.
func (s *SessionStore) Create(ctx context.Context, fileID, fileName string) string {
	resolvedID, resolvedName := fileID, fileName
	if s.pdf != nil {
		if active := s.pdf.ActivePdf(); active != nil {
			if resolvedID == "" && active.ID != "" {
				resolvedID = active.ID
				resolvedName = active.Name
			} else if resolvedName == "" && resolvedID != "" && active.ID == resolvedID {
				resolvedName = active.Name
			}
		}
	}

	now := s.now()
	sess := domain.SessionSummary{
		SessionID: uuid.NewString(),
		FileID:    resolvedID,
		FileName:  resolvedName,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []domain.SessionMessage{},
	}

	s.mu.Lock()
	s.sessions = append([]domain.SessionSummary{sess}, s.sessions...)
	s.activeID = sess.SessionID
	s.persist(ctx)
	s.mu.Unlock()

	s.chat.Clear()
	return sess.SessionID
}

// Load replays a stored conversation into the live message view and marks it
// active. Returns false for an unknown id. Restoring the upload association
// for the session's file id is deferred until a files lookup endpoint exists.
func (s *SessionStore) Load(ctx context.Context, id string) bool {
	s.mu.Lock()
	sess := s.findLocked(id)
	if sess == nil {
		s.mu.Unlock()
		return false
	}
	msgs := make([]domain.SessionMessage, len(sess.Messages))
	copy(msgs, sess.Messages)
	s.activeID = id
	s.persist(ctx)
	s.mu.Unlock()

	s.chat.Clear()
	for _, m := range msgs {
		s.chat.Add(DefaultSender, m.Question)
		s.chat.Add(SystemSender, m.Answer)
	}
	return true
}

// Delete removes a session. Deleting the active session also clears the
// active pointer and the live message view. Returns false for an unknown id.
func (s *SessionStore) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.sessions {
		if s.sessions[i].SessionID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return false
	}

	wasActive := s.activeID == id
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if wasActive {
		s.activeID = ""
	}
	s.persist(ctx)
	s.mu.Unlock()

	if wasActive {
		s.chat.Clear()
	}
	return true
}

// AppendToActive records one question/answer exchange on the active session,
// creating one implicitly (associated with the current upload, if any) when
// none is active or the pointer dangles. The pair is mirrored into the live
// message view and the session list is reordered by recency.
func (s *SessionStore) AppendToActive(ctx context.Context, question, answer string) {
	s.mu.Lock()
	missing := s.findLocked(s.activeID) == nil
	s.mu.Unlock()
	if missing {
		s.Create(ctx, "", "")
	}

	now := s.now()
	s.mu.Lock()
	sess := s.findLocked(s.activeID)
	if sess == nil {
		s.mu.Unlock()
		return
	}
	sess.Messages = append(sess.Messages, domain.SessionMessage{
		Question:  question,
		Answer:    answer,
		Timestamp: now,
	})
	sess.UpdatedAt = now
	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].UpdatedAt > s.sessions[j].UpdatedAt
	})
	s.persist(ctx)
	s.mu.Unlock()

	s.chat.Add(DefaultSender, question)
	s.chat.Add(SystemSender, answer)
}

// SetSessions replaces the whole list, e.g. when importing
func (s *SessionStore) SetSessions(ctx context.Context, list []domain.SessionSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make([]domain.SessionSummary, len(list))
	copy(s.sessions, list)
	for i := range s.sessions {
		if s.sessions[i].Messages == nil {
			s.sessions[i].Messages = []domain.SessionMessage{}
		}
	}
	s.persist(ctx)
}

// ClearAll wipes every session, the active pointer, and the live messages
func (s *SessionStore) ClearAll(ctx context.Context) {
	s.mu.Lock()
	s.sessions = nil
	s.activeID = ""
	s.persist(ctx)
	s.mu.Unlock()

	s.chat.Clear()
}

// Ordered returns a copy of the sessions sorted descending by UpdatedAt,
// with ties keeping insertion order
func (s *SessionStore) Ordered() []domain.SessionSummary {
	s.mu.Lock()
	out := make([]domain.SessionSummary, len(s.sessions))
	copy(out, s.sessions)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	for i := range out {
		out[i].Messages = append([]domain.SessionMessage(nil), out[i].Messages...)
	}
	return out
}

// Find returns a copy of the session with the given id
func (s *SessionStore) Find(id string) (domain.SessionSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return domain.SessionSummary{}, false
	}
	out := *sess
	out.Messages = append([]domain.SessionMessage(nil), sess.Messages...)
	return out, true
}

// ActiveID returns the active session id, or empty when none is active
func (s *SessionStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}
