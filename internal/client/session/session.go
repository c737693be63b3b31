// Package session holds the client's authentication state. The session is an
// explicit object passed to whoever needs it; there is no package-level state.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// state is the on-disk shape of a persisted session.
type state struct {
	Token    string `json:"token"`
	Verified bool   `json:"verified"`
}

// Session is the single source of truth for the client's token and
// verification flag. It is safe for concurrent use and persists itself to a
// state file so the token survives process restarts.
type Session struct {
	mu       sync.RWMutex
	path     string
	token    string
	verified bool
}

// Load reads a persisted session from path. A missing file yields an empty,
// unauthenticated session bound to the same path.
func Load(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var persisted state
	if err := json.Unmarshal(data, &persisted); err != nil {
		// A corrupt state file is treated as no session at all.
		return s, nil
	}

	s.token = persisted.Token
	s.verified = persisted.Verified
	return s, nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Verified reports whether the token has been accepted by the server.
func (s *Session) Verified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verified
}

// Authenticated reports whether the session carries a verified token.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.verified
}

// SetToken stores a freshly issued token, marks it verified and persists the
// session.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.verified = true
	return s.persistLocked()
}

// Clear wipes the token and verification flag and persists the empty session.
// It is called on explicit logout and whenever the server answers 401.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.verified = false
	return s.persistLocked()
}

func (s *Session) persistLocked() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(state{Token: s.token, Verified: s.verified})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
