// Package query implements the client's process-wide cache, keyed by logical
// query identity. The consistency model is invalidate-and-refetch: mutations
// never edit cached values in place, they evict the affected keys and let the
// next read go back to the server.
package query

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Key identifies one cached query, e.g. ["imports"] or
// ["imported-transactions", importID].
type Key []string

// NewKey builds a key from its parts.
func NewKey(parts ...string) Key {
	return Key(parts)
}

// String renders the key for map storage and logging.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether the key starts with the given prefix key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

// FetchFunc loads a query's value from the authoritative source.
type FetchFunc func(ctx context.Context) (any, error)

// Cache is a process-wide store of query results. Reads through Get populate
// it; Invalidate evicts entries so the next Get refetches.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
	logger  *slog.Logger
}

// NewCache creates an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]any),
		logger:  logger,
	}
}

// Get returns the cached value for key, fetching and storing it on a miss.
// A failed fetch caches nothing, so the next Get retries.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	if value, ok := c.entries[key.String()]; ok {
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key.String()] = value
	c.mu.Unlock()
	return value, nil
}

// Invalidate evicts the exact keys given.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key.String())
	}
}

// InvalidatePrefix evicts every entry whose key starts with prefix. Used for
// key families such as the trend caches, which are parameterized by period.
func (c *Cache) InvalidatePrefix(prefix Key) {
	prefixStr := prefix.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	for stored := range c.entries {
		if stored == prefixStr || strings.HasPrefix(stored, prefixStr+"/") {
			delete(c.entries, stored)
		}
	}
}

// Get is the typed read-through helper. The cache itself stores values as any;
// this keeps call sites free of type assertions.
func Get[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
