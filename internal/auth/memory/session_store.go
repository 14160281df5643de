// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/authgate/authgate/internal/auth"
)

// SessionStore implements auth.SessionStore with in-process maps. A
// user has at most one live session: Put replaces any session the user
// already holds. All access goes through one RWMutex, so readers see
// complete records and concurrent mutations never interleave.
type SessionStore struct {
	mu     sync.RWMutex
	byHash map[string]auth.Session // token hash -> session (stored by value)
	byUser map[ulid.ULID]string    // user id -> token hash
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		byHash: make(map[string]auth.Session),
		byUser: make(map[ulid.ULID]string),
	}
}

// Put stores the session, overwriting the user's previous one if any.
func (s *SessionStore) Put(_ context.Context, session *auth.Session) error {
	if session == nil {
		return oops.Code("SESSION_INVALID").Errorf("session cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byUser[session.UserID]; ok {
		delete(s.byHash, prev)
	}
	s.byHash[session.TokenHash] = *session
	s.byUser[session.UserID] = session.TokenHash
	return nil
}

// Get retrieves a session by token hash.
func (s *SessionStore) Get(_ context.Context, tokenHash string) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byHash[tokenHash]
	if !ok {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return &session, nil
}

// Delete removes a session by token hash, reporting whether it existed.
func (s *SessionStore) Delete(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byHash[tokenHash]
	if !ok {
		return false, nil
	}
	delete(s.byHash, tokenHash)
	if s.byUser[session.UserID] == tokenHash {
		delete(s.byUser, session.UserID)
	}
	return true, nil
}

// DeleteByUser removes the user's session if one exists.
func (s *SessionStore) DeleteByUser(_ context.Context, userID ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hash, ok := s.byUser[userID]; ok {
		delete(s.byHash, hash)
		delete(s.byUser, userID)
	}
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byHash)
}

// Compile-time interface check.
var _ auth.SessionStore = (*SessionStore)(nil)
