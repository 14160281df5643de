// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/authgate/authgate/internal/auth"
)

// UserRepository implements auth.UserRepository with in-process maps.
// Records are stored and returned by value so callers can mutate their
// copy freely; a change becomes visible only through Update.
type UserRepository struct {
	mu   sync.RWMutex
	byID map[ulid.ULID]auth.User
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[ulid.ULID]auth.User)}
}

// Create stores a new user, rejecting duplicate emails.
func (r *UserRepository) Create(_ context.Context, user *auth.User) error {
	if user == nil {
		return oops.Code("USER_INVALID").Errorf("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return oops.Code("USER_ALREADY_REGISTERED").
				With("email", user.Email).
				Wrap(auth.ErrAlreadyRegistered)
		}
	}
	r.byID[user.ID] = *user
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return &user, nil
}

// GetByEmail retrieves the first user with the email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	users, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return users[0], nil
}

// FindByEmail retrieves every user with the email, oldest first.
func (r *UserRepository) FindByEmail(_ context.Context, email string) ([]*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []*auth.User
	for _, user := range r.byID {
		if strings.EqualFold(user.Email, email) {
			u := user
			users = append(users, &u)
		}
	}
	// Map order is random; oldest-first keeps lookups deterministic.
	for i := 1; i < len(users); i++ {
		for j := i; j > 0 && users[j].CreatedAt.Before(users[j-1].CreatedAt); j-- {
			users[j], users[j-1] = users[j-1], users[j]
		}
	}
	return users, nil
}

// Update overwrites an existing user record.
func (r *UserRepository) Update(_ context.Context, user *auth.User) error {
	if user == nil {
		return oops.Code("USER_INVALID").Errorf("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return oops.Code("USER_NOT_FOUND").With("id", user.ID.String()).Wrap(auth.ErrNotFound)
	}
	record := *user
	record.UpdatedAt = time.Now()
	r.byID[user.ID] = record
	return nil
}

// SetResetToken stores tokenHash as the user's outstanding reset token.
func (r *UserRepository) SetResetToken(_ context.Context, id ulid.ULID, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	user.ResetTokenHash = &tokenHash
	user.UpdatedAt = time.Now()
	r.byID[id] = user
	return nil
}

// ConsumePasswordReset swaps in the new password hash and clears the
// reset token under one critical section, so a concurrent consume of
// the same token sees either the token or nothing, never both effects.
func (r *UserRepository) ConsumePasswordReset(_ context.Context, tokenHash, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, user := range r.byID {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash {
			user.PasswordHash = newPasswordHash
			user.ResetTokenHash = nil
			user.UpdatedAt = time.Now()
			r.byID[id] = user
			return nil
		}
	}
	return oops.Code("RESET_TOKEN_INVALID").Wrap(auth.ErrNotFound)
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
