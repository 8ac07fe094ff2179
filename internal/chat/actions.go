// Package chat sequences the "send message" flow: optimistic user message,
// remote ask, then the answer or a synthesized error message.
package chat

import (
	"context"
	"sync"

	"github.com/Rrens/chatpdf-local/internal/apiclient"
	"github.com/Rrens/chatpdf-local/internal/store"
	"github.com/rs/zerolog"
)

const (
	sendErrorPrefix = "Sorry, something went wrong talking to the server: "
	fallbackReason  = "Failed to get an answer."
)

// Asker performs the remote question round trip
type Asker interface {
	AskQuestion(ctx context.Context, question, fileID string) (*apiclient.AskResult, error)
}

// Actions glues the message store to the request client. It does not guard
// against overlapping sends; the UI is expected to disable its control while
// Busy reports true.
type Actions struct {
	messages *store.MessageStore
	client   Asker
	log      zerolog.Logger

	mu   sync.Mutex
	busy bool
}

// NewActions creates an orchestrator over the given store and client
func NewActions(messages *store.MessageStore, client Asker, log zerolog.Logger) *Actions {
	return &Actions{messages: messages, client: client, log: log}
}

// HandleSend appends the user's message immediately, asks the remote
// endpoint, and appends either the answer or an error message. All failures
// (validation, transport, empty answer) surface as a System chat message;
// nothing propagates to the caller.
func (a *Actions) HandleSend(ctx context.Context, text string) {
	a.messages.Add(store.DefaultSender, text)

	a.setBusy(true)
	defer a.setBusy(false)

	res, err := a.client.AskQuestion(ctx, text, "")
	if err != nil {
		reason := err.Error()
		if reason == "" {
			reason = fallbackReason
		}
		a.log.Warn().Err(err).Msg("ask request failed")
		a.messages.Add(store.SystemSender, sendErrorPrefix+reason)
		return
	}

	a.messages.Add(store.SystemSender, res.Answer)
}

// Busy reports whether a send is in flight
func (a *Actions) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

func (a *Actions) setBusy(v bool) {
	a.mu.Lock()
	a.busy = v
	a.mu.Unlock()
}
