package eisenhower

import (
	"context"
	"io/fs"
)

type Database interface {
	Close() error
	Migrate(fs.FS) error
}

// KVRepo is a durable key/value namespace. Get returns an error wrapping
// ErrNotFound when the key is absent; an empty value is still found.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries or none.
	SetMany(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}
