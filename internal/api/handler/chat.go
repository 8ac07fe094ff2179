package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/chatpdf-local/internal/api/response"
	"github.com/Rrens/chatpdf-local/internal/chat"
	"github.com/Rrens/chatpdf-local/internal/store"
	"github.com/go-playground/validator/v10"
)

// ChatHandler exposes the live message view and the send flow
type ChatHandler struct {
	actions  *chat.Actions
	messages *store.MessageStore
	validate *validator.Validate
}

func NewChatHandler(actions *chat.Actions, messages *store.MessageStore) *ChatHandler {
	return &ChatHandler{
		actions:  actions,
		messages: messages,
		validate: validator.New(),
	}
}

type sendRequest struct {
	Text string `json:"text" validate:"required"`
}

// ListMessages returns the live chat view in chronological order
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"messages": h.messages.Ordered(),
		"busy":     h.actions.Busy(),
	})
}

// Send runs the full send flow and returns the resulting view.
// Request/transport failures surface inside the message list, not as an
// HTTP error.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "text is required")
		return
	}

	h.actions.HandleSend(r.Context(), req.Text)

	response.OK(w, map[string]any{
		"messages": h.messages.Ordered(),
		"busy":     h.actions.Busy(),
	})
}

// ClearMessages empties the live chat view
func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	h.messages.Clear()
	response.NoContent(w)
}
