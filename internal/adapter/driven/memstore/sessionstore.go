// Package memstore implements the session store as an in-process map.
// Sessions do not survive a restart; deployments that need that use the
// sqlite store instead.
package memstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore maps opaque session identifiers to credentials, guarded by a
// read/write mutex for concurrent issue/resolve/revoke.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Credential
}

// New creates an empty in-memory session store.
func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]model.Credential),
	}
}

// Issue generates a fresh identifier, stores the credential under it and
// returns the identifier.
func (s *SessionStore) Issue(_ context.Context, cred model.Credential) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = cred

	return id, nil
}

// Resolve returns the credential bound to id, or driven.ErrSessionNotFound.
func (s *SessionStore) Resolve(_ context.Context, id string) (model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.sessions[id]
	if !ok {
		return model.Credential{}, driven.ErrSessionNotFound
	}

	return cred, nil
}

// Revoke removes id. Revoking an absent id is a no-op.
func (s *SessionStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Exists reports whether id is bound to a live session.
func (s *SessionStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[id]
	return ok, nil
}

// newSessionID returns 16 random bytes hex encoded. Identifiers are bearer
// secrets, so they come from crypto/rand rather than a seeded PRNG.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
