package export

import (
	"context"
	"io"
)

// Writer streams a single document into storage
type Writer interface {
	io.WriteCloser
	// Abort discards everything written so far. The key keeps its previous
	// data.
	Abort() error
}

// Storage defines where rendered documents end up.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Write stores data with the given key.
	Write(ctx context.Context, key string, data []byte) error

	// NewWriter opens a streaming writer for the given key. The data becomes
	// visible once the writer has been closed without error.
	NewWriter(ctx context.Context, key string) (Writer, error)

	// Read retrieves data for the given key.
	// Returns os.ErrNotExist if the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns keys matching the given prefix, sorted alphabetically descending (newest first).
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data for the given key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the storage backend.
	Close() error
}
