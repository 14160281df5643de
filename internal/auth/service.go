// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Service provides the account operations the route layer calls:
// registration and credential checks. Session lifecycle lives on the
// session strategies; the reset flow on ResetService.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewService creates a Service.
func NewService(users UserRepository, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Service{users: users, hasher: hasher}, nil
}

// dummyPasswordHash is verified against when an email is unknown, so a
// login attempt costs the same whether or not the account exists. It is
// a fake digest no password hashes to, not a credential.
//
//nolint:gosec // G101: intentionally fake hash for timing-attack prevention.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an account for the email with the hashed password.
// Returns ErrAlreadyRegistered (wrapped) when the email is taken.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	return user, nil
}

// Authenticate verifies the email/password pair and returns the account
// on success. The stored hash is verified even when the email is
// unknown to keep response time independent of account existence, and
// the lockout check runs after verification for the same reason.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	exists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		exists = true
	}

	valid := s.hasher.Verify(password, targetHash)

	if !exists || !valid {
		if exists {
			user.RecordFailure()
			_ = s.users.Update(ctx, user) //nolint:errcheck // best effort
		}
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrNotFound)
	}

	if user.IsLocked() {
		return nil, oops.Code("AUTH_ACCOUNT_LOCKED").
			With("locked_until", user.LockedUntil).
			Wrap(ErrNotFound)
	}

	user.RecordSuccess()
	_ = s.users.Update(ctx, user) //nolint:errcheck // best effort, login succeeds regardless

	return user, nil
}

// ValidLogin reports whether the email/password pair is valid.
func (s *Service) ValidLogin(ctx context.Context, email, password string) bool {
	_, err := s.Authenticate(ctx, email, password)
	return err == nil
}
