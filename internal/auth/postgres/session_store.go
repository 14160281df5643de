// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/authgate/authgate/internal/auth"
)

// SessionStore implements auth.SessionStore using PostgreSQL. Unlike
// the in-memory backend it keeps concurrent sessions per user; each is
// destroyed independently.
type SessionStore struct {
	db querier
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(db querier) *SessionStore {
	return &SessionStore{db: db}
}

// Put stores a session.
func (s *SessionStore) Put(ctx context.Context, session *auth.Session) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (token_hash, user_id, created_at)
		VALUES ($1, $2, $3)
	`,
		session.TokenHash,
		session.UserID.String(),
		session.CreatedAt,
	)
	if err != nil {
		return oops.Code("SESSION_PUT_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// Get retrieves a session by token hash.
func (s *SessionStore) Get(ctx context.Context, tokenHash string) (*auth.Session, error) {
	var (
		userIDStr string
		createdAt time.Time
	)
	err := s.db.QueryRow(ctx, `
		SELECT user_id, created_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash).Scan(&userIDStr, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &auth.Session{
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

// Delete removes a session by token hash, reporting whether it existed.
func (s *SessionStore) Delete(ctx context.Context, tokenHash string) (bool, error) {
	result, err := s.db.Exec(ctx, `
		DELETE FROM sessions WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return false, oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByUser removes every session belonging to a user.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID ulid.ULID) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM sessions WHERE user_id = $1
	`, userID.String())
	if err != nil {
		return oops.Code("SESSION_DELETE_BY_USER_FAILED").
			With("operation", "delete sessions by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.SessionStore = (*SessionStore)(nil)
