// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// emailRegex accepts one non-space local part, an @, and a dotted domain.
// Deliverability is the mail system's problem, not ours.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account. The password is stored only as
// a PasswordHasher digest; the reset token only as a SHA-256 hash.
type User struct {
	ID             ulid.ULID
	Email          string
	PasswordHash   string
	ResetTokenHash *string // nil when no reset is outstanding
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates a validated User with a fresh ID.
func NewUser(email, passwordHash string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsLocked returns true if the account is currently locked out.
func (u *User) IsLocked() bool {
	return IsLockedOut(u.LockedUntil)
}

// RecordFailure increments the failure counter and sets lockout if the
// threshold is reached.
func (u *User) RecordFailure() {
	u.FailedAttempts++
	u.LockedUntil = ComputeLockoutTime(u.FailedAttempts)
	u.UpdatedAt = time.Now()
}

// RecordSuccess resets the failure counter and lockout.
func (u *User) RecordSuccess() {
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
}

// ValidateEmail validates an email address shape.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").With("email", email).Errorf("email is not valid")
	}
	return nil
}

// UserRepository manages user persistence. Implementations must make
// each mutating call atomic: a reader never observes a half-written
// record, and ConsumePasswordReset either swaps the password and clears
// the token together or does nothing.
type UserRepository interface {
	// Create stores a new user. Returns ErrAlreadyRegistered (wrapped)
	// when the email is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound (wrapped) on miss.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves the first user with the given email
	// (case-insensitive). Returns ErrNotFound (wrapped) on miss.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// FindByEmail retrieves every user with the given email. Duplicate
	// emails should not exist, but the basic strategy scans all
	// candidates defensively. An empty result is not an error.
	FindByEmail(ctx context.Context, email string) ([]*User, error)

	// Update overwrites an existing user record.
	Update(ctx context.Context, user *User) error

	// SetResetToken stores tokenHash as the user's outstanding reset
	// token, replacing any previous one.
	SetResetToken(ctx context.Context, id ulid.ULID, tokenHash string) error

	// ConsumePasswordReset finds the user holding tokenHash, writes
	// newPasswordHash and clears the token in the same update. Returns
	// ErrNotFound (wrapped) when no user holds the token, including
	// when it was already consumed.
	ConsumePasswordReset(ctx context.Context, tokenHash, newPasswordHash string) error
}
