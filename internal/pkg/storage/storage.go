package storage

import (
	"context"
	"io"
)

// Storage is the backing store for uploaded media. Paths are relative keys;
// the implementation decides where they land.
type Storage interface {
	// Save writes content under the given key, overwriting any existing object.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object stored under the given key. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object stored under the given key.
	Delete(ctx context.Context, path string) error
}
