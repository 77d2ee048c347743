package assets

import (
	"context"
	"io"
)

// Store persists downloaded image bytes under a content-addressed name.
type Store interface {
	// Exists reports whether the key already has an authoritative copy.
	// Stores that cannot probe cheaply may always return false; only the
	// primary (local) store is consulted for dedup.
	Exists(ctx context.Context, key string) bool
	Save(ctx context.Context, key string, r io.Reader) error
}
