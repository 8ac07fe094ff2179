package redis

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/Rrens/chatpdf-local/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)

	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	s, err := New(config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SetGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "active", "s-1"))

	got, ok, err := s.Get(ctx, "active")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s-1", got)

	require.NoError(t, s.Delete(ctx, "active"))
	_, ok, err = s.Get(ctx, "active")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_ConnectionFailure(t *testing.T) {
	_, err := New(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}
