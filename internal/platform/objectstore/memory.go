package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read object body: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.URL(key), nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) URL(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}

func (s *MemoryStore) KeyFromURL(url string) (string, error) {
	prefix := fmt.Sprintf("gs://%s/", s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q is outside bucket %q", url, s.bucket)
	}
	return strings.TrimPrefix(url, prefix), nil
}
