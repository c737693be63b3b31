package service

import (
	"context"
	"crypto/subtle"

	"github.com/expense-ledger/internal/api/middleware"
	"github.com/expense-ledger/internal/config"
)

// AuthServiceImpl implements the AuthService interface in single-user mode:
// the only valid credentials are the ones configured in the environment.
type AuthServiceImpl struct {
	cfg *config.AuthConfig
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.AuthConfig) AuthService {
	return &AuthServiceImpl{cfg: cfg}
}

// Login verifies the configured credentials and issues a signed token
func (s *AuthServiceImpl) Login(_ context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	return middleware.IssueToken(s.cfg, username)
}
