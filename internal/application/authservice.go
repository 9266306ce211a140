// Package application contains the use-case services that sit between the
// HTTP adapter and the driven ports.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// ErrExchangeFailed is returned when the provider rejects an authorization
// code. The caller should route the user back to the authorization URL.
var ErrExchangeFailed = errors.New("authorization code exchange failed")

// AuthService orchestrates the delegation flow: it hands out the provider
// consent URL, exchanges callback codes for credentials, and manages the
// resulting sessions.
type AuthService struct {
	exchanger driven.CodeExchanger
	sessions  driven.SessionStore
	logger    *slog.Logger
}

// NewAuthService creates an AuthService over the given exchanger and session
// store.
func NewAuthService(exchanger driven.CodeExchanger, sessions driven.SessionStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		exchanger: exchanger,
		sessions:  sessions,
		logger:    logger,
	}
}

// AuthorizationURL returns the provider-hosted consent URL.
func (s *AuthService) AuthorizationURL() string {
	return s.exchanger.AuthCodeURL()
}

// CompleteAuthorization exchanges the one-time authorization code for a
// credential and issues a new session bound to it. No session is created when
// the exchange fails; the error wraps ErrExchangeFailed so callers can route
// the user to a retry path.
func (s *AuthService) CompleteAuthorization(ctx context.Context, code string) (string, error) {
	cred, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	id, err := s.sessions.Issue(ctx, cred)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}

	return id, nil
}

// Check reports whether id belongs to a live session. Lookup failures are
// logged and reported as not authenticated.
func (s *AuthService) Check(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	ok, err := s.sessions.Exists(ctx, id)
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return false
	}

	return ok
}

// Logout revokes id. Revoking an empty or unknown id is a no-op.
func (s *AuthService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, id)
}
