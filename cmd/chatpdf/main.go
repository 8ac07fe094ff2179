package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/chatpdf-local/internal/api"
	"github.com/Rrens/chatpdf-local/internal/apiclient"
	"github.com/Rrens/chatpdf-local/internal/chat"
	"github.com/Rrens/chatpdf-local/internal/config"
	"github.com/Rrens/chatpdf-local/internal/storage"
	storageredis "github.com/Rrens/chatpdf-local/internal/storage/redis"
	storagesqlite "github.com/Rrens/chatpdf-local/internal/storage/sqlite"
	"github.com/Rrens/chatpdf-local/internal/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try standard locations
	for _, p := range []string{".env", "../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage", cfg.Storage.Backend).
		Msg("Starting chatpdf local facade")

	kv, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session storage")
	}
	defer kv.Close()

	client := apiclient.NewClient(
		cfg.API.AskEndpoint,
		cfg.API.UploadEndpoint,
		cfg.API.DefaultFileID,
		cfg.API.Timeout,
	)

	messages := store.NewMessageStore()
	uploads := store.NewUploadStore(client)
	sessions := store.NewSessionStore(kv, messages, uploads, log.Logger)
	actions := chat.NewActions(messages, client, log.Logger)

	router := api.NewRouter(actions, api.Stores{
		Messages: messages,
		Uploads:  uploads,
		Sessions: sessions,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func openStorage(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return storagesqlite.New(cfg.SQLite.Path)
	case "redis":
		return storageredis.New(cfg.Redis)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
