package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err, "a missing config file falls back to defaults")

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "9dc50dff", cfg.API.DefaultFileID)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "chatpdf.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
api:
  ask_endpoint: http://example.test/ask
storage:
  backend: memory
`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "http://example.test/ask", cfg.API.AskEndpoint)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "9dc50dff", cfg.API.DefaultFileID, "unset fields keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ASK_ENDPOINT", "http://env.test/ask")
	t.Setenv("DEFAULT_FILE_ID", "abc123")
	t.Setenv("STORAGE_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://env.test/ask", cfg.API.AskEndpoint)
	assert.Equal(t, "abc123", cfg.API.DefaultFileID)
	assert.Equal(t, "redis", cfg.Storage.Backend)
}
