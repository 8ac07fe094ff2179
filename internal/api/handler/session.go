package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Rrens/chatpdf-local/internal/api/response"
	"github.com/Rrens/chatpdf-local/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// SessionHandler exposes the durable conversation list
type SessionHandler struct {
	sessions *store.SessionStore
	validate *validator.Validate
}

func NewSessionHandler(sessions *store.SessionStore) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		validate: validator.New(),
	}
}

type createSessionRequest struct {
	FileID   string `json:"file_id" validate:"omitempty,max=128"`
	FileName string `json:"file_name" validate:"omitempty,max=512"`
}

// List returns all sessions, most recently updated first
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"sessions":          h.sessions.Ordered(),
		"active_session_id": h.sessions.ActiveID(),
	})
}

// Create starts a fresh session. The body is optional; an empty one adopts
// the currently uploaded document.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "invalid session fields")
		return
	}

	id := h.sessions.Create(r.Context(), req.FileID, req.FileName)
	response.Created(w, map[string]string{
		"session_id": id,
	})
}

// Load replays a session into the live chat view
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sessions.Load(r.Context(), id) {
		response.NotFound(w, "session not found")
		return
	}
	response.OK(w, map[string]string{
		"session_id": id,
	})
}

// Delete removes a session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sessions.Delete(r.Context(), id) {
		response.NotFound(w, "session not found")
		return
	}
	response.NoContent(w)
}

// ClearAll wipes every session
func (h *SessionHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearAll(r.Context())
	response.NoContent(w)
}
