package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read for a bucket that has never been written.
var ErrNotFound = errors.New("bucket not found")

// Bucket defines the interface for the key-value persistence backing the
// ledger. Each key holds the serialized form of one whole collection.
type Bucket interface {
	// Read returns the serialized collection stored under key, or
	// ErrNotFound if the key has never been written.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the serialized collection stored under key.
	Write(ctx context.Context, key string, value []byte) error

	Close() error
}
