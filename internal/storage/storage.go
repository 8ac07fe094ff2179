package storage

import "context"

// Store is a durable string key-value store backing session persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key; the bool reports whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
