// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/auth/memory"
)

const testCookie = "_my_session_id"

func newSessionFixture(t *testing.T) (*auth.SessionStrategy, *memory.UserRepository, *memory.SessionStore) {
	t.Helper()

	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	strategy, err := auth.NewSessionStrategy(users, sessions, testCookie)
	require.NoError(t, err)
	return strategy, users, sessions
}

func storeUser(t *testing.T, users auth.UserRepository, email string) *auth.User {
	t.Helper()

	user, err := auth.NewUser(email, "$argon2id$fake")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func cookieRequest(token string) fakeRequest {
	return fakeRequest{cookies: map[string]string{testCookie: token}}
}

func TestSessionStrategy_RoundTrip(t *testing.T) {
	ctx := context.Background()
	strategy, users, sessions := newSessionFixture(t)
	user := storeUser(t, users, "round@example.com")

	token, err := strategy.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, sessions.Len())

	resolved, err := strategy.ResolveUser(ctx, cookieRequest(token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	destroyed, err := strategy.DestroySession(ctx, cookieRequest(token))
	require.NoError(t, err)
	assert.True(t, destroyed)
	assert.Zero(t, sessions.Len())

	_, err = strategy.ResolveUser(ctx, cookieRequest(token))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestSessionStrategy_MissingCookie(t *testing.T) {
	strategy, _, _ := newSessionFixture(t)

	_, err := strategy.ResolveUser(context.Background(), fakeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	_, err = strategy.ResolveUser(context.Background(), cookieRequest(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestSessionStrategy_UnknownToken(t *testing.T) {
	strategy, _, _ := newSessionFixture(t)

	_, err := strategy.ResolveUser(context.Background(), cookieRequest("never-issued"))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestSessionStrategy_DestroyWithoutCookie(t *testing.T) {
	strategy, _, _ := newSessionFixture(t)

	destroyed, err := strategy.DestroySession(context.Background(), fakeRequest{})
	require.NoError(t, err, "missing cookie is a no-op")
	assert.False(t, destroyed)
}

func TestSessionStrategy_StoreHoldsOnlyHashes(t *testing.T) {
	ctx := context.Background()
	strategy, users, sessions := newSessionFixture(t)
	user := storeUser(t, users, "hash@example.com")

	token, err := strategy.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	_, err = sessions.Get(ctx, token)
	require.Error(t, err, "plaintext token must not be a store key")

	session, err := sessions.Get(ctx, auth.HashSessionToken(token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}

func TestNewSessionStrategy_Validation(t *testing.T) {
	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()

	_, err := auth.NewSessionStrategy(nil, sessions, testCookie)
	assert.Error(t, err)
	_, err = auth.NewSessionStrategy(users, nil, testCookie)
	assert.Error(t, err)
	_, err = auth.NewSessionStrategy(users, sessions, "")
	assert.Error(t, err)
}

func newExpFixture(t *testing.T, duration time.Duration, now *time.Time) (*auth.SessionExpStrategy, *memory.UserRepository, *memory.SessionStore) {
	t.Helper()

	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	inner, err := auth.NewSessionStrategy(users, sessions, testCookie)
	require.NoError(t, err)

	strategy, err := auth.NewSessionExpStrategy(inner, duration, auth.WithClock(func() time.Time {
		return *now
	}))
	require.NoError(t, err)
	return strategy, users, sessions
}

func TestSessionExpStrategy_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	duration := time.Minute

	strategy, users, sessions := newExpFixture(t, duration, &now)
	user := storeUser(t, users, "exp@example.com")

	token, err := strategy.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	created := now

	// Fresh session resolves.
	resolved, err := strategy.ResolveUser(ctx, cookieRequest(token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// Exactly at the deadline it is still live.
	now = created.Add(duration)
	_, err = strategy.ResolveUser(ctx, cookieRequest(token))
	require.NoError(t, err)

	// Past the deadline it is gone, and the stale record is dropped.
	now = created.Add(duration + time.Second)
	_, err = strategy.ResolveUser(ctx, cookieRequest(token))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
	assert.Zero(t, sessions.Len(), "expired session is removed at lookup")

	// Subsequent lookups behave exactly like a never-issued token.
	_, err = strategy.ResolveUser(ctx, cookieRequest(token))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestSessionExpStrategy_ZeroDurationNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	strategy, users, _ := newExpFixture(t, 0, &now)
	user := storeUser(t, users, "forever@example.com")

	token, err := strategy.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	now = now.Add(10 * 365 * 24 * time.Hour)
	resolved, err := strategy.ResolveUser(ctx, cookieRequest(token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestNewSessionExpStrategy_NilInner(t *testing.T) {
	_, err := auth.NewSessionExpStrategy(nil, time.Minute)
	assert.Error(t, err)
}

func TestSessionDBStrategy_Chain(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	strategy, err := auth.NewSessionDBStrategy(users, sessions, testCookie, time.Minute,
		auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	user := storeUser(t, users, "db@example.com")

	assert.Equal(t, testCookie, strategy.CookieName())
	assert.True(t, strategy.RequiresAuth("/api/v1/profile", []string{"/api/v1/status/"}))

	token, err := strategy.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	resolved, err := strategy.ResolveUser(ctx, cookieRequest(token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	now = now.Add(2 * time.Minute)
	_, err = strategy.ResolveUser(ctx, cookieRequest(token))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}
