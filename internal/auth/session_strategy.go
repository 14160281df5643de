// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionStrategy authenticates requests carrying an opaque session
// cookie. Sessions are created on login, looked up on every gated
// request, and destroyed on logout.
type SessionStrategy struct {
	gate
	users      UserRepository
	sessions   SessionStore
	cookieName string
}

// NewSessionStrategy creates a SessionStrategy reading the cookie named
// cookieName.
func NewSessionStrategy(users UserRepository, sessions SessionStore, cookieName string) (*SessionStrategy, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session store is required")
	}
	if cookieName == "" {
		return nil, oops.Errorf("session cookie name is required")
	}
	return &SessionStrategy{users: users, sessions: sessions, cookieName: cookieName}, nil
}

// CookieName returns the name of the session cookie this strategy reads.
func (s *SessionStrategy) CookieName() string {
	return s.cookieName
}

// CreateSession mints a fresh opaque token for the user, stores its
// hash, and returns the plaintext token for the cookie.
func (s *SessionStrategy) CreateSession(ctx context.Context, userID ulid.ULID) (string, error) {
	token, hash, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	session, err := NewSession(userID, hash)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", userID.String()).
			Wrap(err)
	}

	return token, nil
}

// SessionFromRequest looks up the session named by the request's
// cookie. A missing cookie, an unknown token, and a destroyed session
// all report ErrNotFound.
func (s *SessionStrategy) SessionFromRequest(ctx context.Context, req Request) (*Session, error) {
	value, ok := req.Cookie(s.cookieName)
	if !ok || value == "" {
		return nil, oops.Code("SESSION_COOKIE_MISSING").Wrap(ErrNotFound)
	}
	return s.sessions.Get(ctx, HashSessionToken(value))
}

// ResolveUser resolves the session cookie to its owning user.
func (s *SessionStrategy) ResolveUser(ctx context.Context, req Request) (*User, error) {
	session, err := s.SessionFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, session.UserID)
}

// DestroySession removes the session named by the request's cookie.
// It returns true iff a session existed and was removed; a missing
// cookie is a no-op, not an error.
func (s *SessionStrategy) DestroySession(ctx context.Context, req Request) (bool, error) {
	value, ok := req.Cookie(s.cookieName)
	if !ok || value == "" {
		return false, nil
	}
	return s.sessions.Delete(ctx, HashSessionToken(value))
}

// SessionExpStrategy decorates a SessionStrategy with lazy expiry: a
// session older than the configured duration resolves as absent. There
// is no sweeper; expiry is checked at lookup and the stale record is
// dropped then.
type SessionExpStrategy struct {
	*SessionStrategy
	duration time.Duration
	now      func() time.Time
}

// ExpOption configures a SessionExpStrategy.
type ExpOption func(*SessionExpStrategy)

// WithClock replaces the strategy's time source. Tests use it to place
// lookups exactly around the expiry boundary.
func WithClock(now func() time.Time) ExpOption {
	return func(s *SessionExpStrategy) { s.now = now }
}

// NewSessionExpStrategy decorates inner with an expiry policy. A
// duration <= 0 means sessions never expire.
func NewSessionExpStrategy(inner *SessionStrategy, duration time.Duration, opts ...ExpOption) (*SessionExpStrategy, error) {
	if inner == nil {
		return nil, oops.Errorf("inner session strategy is required")
	}
	s := &SessionExpStrategy{
		SessionStrategy: inner,
		duration:        duration,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SessionFromRequest looks the session up through the inner strategy,
// then applies the expiry policy. An expired session is logically
// removed and reported exactly like a missing one.
func (s *SessionExpStrategy) SessionFromRequest(ctx context.Context, req Request) (*Session, error) {
	session, err := s.SessionStrategy.SessionFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if session.ExpiredAt(s.now(), s.duration) {
		// Best effort: the session is gone either way once it expired.
		_, _ = s.sessions.Delete(ctx, session.TokenHash) //nolint:errcheck
		return nil, oops.Code("SESSION_EXPIRED").Wrap(ErrNotFound)
	}

	return session, nil
}

// ResolveUser resolves the cookie through the expiry-checking lookup.
func (s *SessionExpStrategy) ResolveUser(ctx context.Context, req Request) (*User, error) {
	session, err := s.SessionFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, session.UserID)
}

// SessionDBStrategy is SessionExpStrategy over a persisted
// SessionStore: creation, lookup, and destruction become store
// round-trips and the expiry policy is reused unchanged. Unlike the
// in-memory backend it permits several concurrent sessions per user.
type SessionDBStrategy struct {
	*SessionExpStrategy
}

// NewSessionDBStrategy builds the session + expiry chain over the given
// persisted store.
func NewSessionDBStrategy(users UserRepository, sessions SessionStore, cookieName string, duration time.Duration, opts ...ExpOption) (*SessionDBStrategy, error) {
	inner, err := NewSessionStrategy(users, sessions, cookieName)
	if err != nil {
		return nil, err
	}
	exp, err := NewSessionExpStrategy(inner, duration, opts...)
	if err != nil {
		return nil, err
	}
	return &SessionDBStrategy{SessionExpStrategy: exp}, nil
}

// Compile-time interface checks.
var (
	_ Strategy = (*NullStrategy)(nil)
	_ Strategy = (*BasicStrategy)(nil)
	_ Strategy = (*SessionStrategy)(nil)
	_ Strategy = (*SessionExpStrategy)(nil)
	_ Strategy = (*SessionDBStrategy)(nil)
)
