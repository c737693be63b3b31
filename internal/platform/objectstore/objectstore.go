// Package objectstore abstracts the bucket that holds uploaded statement
// files and transaction attachments. The production implementation is
// backed by Google Cloud Storage; tests use the in-memory store.
package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound indicates the requested key does not exist in the bucket
var ErrObjectNotFound = errors.New("object not found")

// Store reads and writes opaque objects addressed by key
type Store interface {
	// Put streams r into the bucket under key and returns the object URL
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)

	// Get returns the object bytes for key, or ErrObjectNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// URL returns the canonical URL for a key without touching the bucket
	URL(key string) string

	// KeyFromURL extracts the object key from a URL previously returned by
	// Put or URL. Returns an error for URLs outside this store's bucket.
	KeyFromURL(url string) (string, error)
}
