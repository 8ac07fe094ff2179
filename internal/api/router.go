package api

import (
	"net/http"
	"time"

	"github.com/Rrens/chatpdf-local/internal/api/handler"
	customMiddleware "github.com/Rrens/chatpdf-local/internal/api/middleware"
	"github.com/Rrens/chatpdf-local/internal/chat"
	"github.com/Rrens/chatpdf-local/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Stores groups the state containers the facade exposes
type Stores struct {
	Messages *store.MessageStore
	Uploads  *store.UploadStore
	Sessions *store.SessionStore
}

// NewRouter wires the local facade the hosting UI talks to
func NewRouter(actions *chat.Actions, stores Stores) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS: the browser UI may be served from a dev server on another port
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	chatHandler := handler.NewChatHandler(actions, stores.Messages)
	uploadHandler := handler.NewUploadHandler(stores.Uploads)
	sessionHandler := handler.NewSessionHandler(stores.Sessions)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", chatHandler.ListMessages)
			r.Delete("/messages", chatHandler.ClearMessages)
			r.Post("/send", chatHandler.Send)
		})

		r.Route("/upload", func(r chi.Router) {
			r.Post("/", uploadHandler.Upload)
			r.Get("/status", uploadHandler.Status)
			r.Post("/reset", uploadHandler.Reset)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)
			r.Post("/", sessionHandler.Create)
			r.Delete("/", sessionHandler.ClearAll)
			r.Post("/{id}/load", sessionHandler.Load)
			r.Delete("/{id}", sessionHandler.Delete)
		})
	})

	return r
}
