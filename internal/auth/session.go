// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionTokenBytes is the size of a session token before hex encoding.
// 32 bytes gives 256 bits of entropy; tokens are never derivable from
// earlier ones.
const SessionTokenBytes = 32

// Session binds an opaque token to a user. Only the SHA-256 hash of
// the token is stored; the plaintext exists solely in the client's
// cookie. Expiry is a strategy concern evaluated lazily at lookup,
// which is why the record carries a creation time and no deadline.
type Session struct {
	TokenHash string
	UserID    ulid.ULID
	CreatedAt time.Time
}

// NewSession creates a validated Session stamped with the current time.
func NewSession(userID ulid.ULID, tokenHash string) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}

	return &Session{
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}

// ExpiredAt reports whether the session is expired at time t under the
// given time-to-live. A ttl <= 0 means the session never expires.
func (s *Session) ExpiredAt(t time.Time, ttl time.Duration) bool {
	return ttl > 0 && s.CreatedAt.Add(ttl).Before(t)
}

// GenerateSessionToken creates a secure random token and its hash.
// The plaintext token goes to the client; the hash is what gets stored.
func GenerateSessionToken() (token, hash string, err error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	hash = HashSessionToken(token)

	return token, hash, nil
}

// HashSessionToken computes the SHA-256 hash of a session token.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// SessionStore manages session persistence, keyed by token hash.
// Implementations are shared by concurrent requests: every mutation
// must be atomic and reads must observe a consistent snapshot.
type SessionStore interface {
	// Put stores a session. The in-memory backend additionally replaces
	// any prior session for the same user; the persisted backend keeps
	// concurrent sessions per user.
	Put(ctx context.Context, session *Session) error

	// Get retrieves a session by token hash. Returns ErrNotFound
	// (wrapped) on miss.
	Get(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session by token hash. Returns true iff a
	// session existed and was removed.
	Delete(ctx context.Context, tokenHash string) (bool, error)

	// DeleteByUser removes every session belonging to a user. Removing
	// nothing is not an error.
	DeleteByUser(ctx context.Context, userID ulid.ULID) error
}
