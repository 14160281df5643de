// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/samber/oops"
)

// ResetTokenBytes is the size of a reset token before hex encoding.
const ResetTokenBytes = 32

// GenerateResetToken creates a secure random reset token and its hash.
// The plaintext token is handed to the user (mail delivery is not this
// package's job); only the hash is persisted.
func GenerateResetToken() (token, hash string, err error) {
	tokenBytes := make([]byte, ResetTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	hash = HashResetToken(token)

	return token, hash, nil
}

// HashResetToken computes the SHA-256 hash of a reset token.
func HashResetToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// ResetService handles the password reset workflow: issue a single-use
// token for an email, then trade the token for a new password. A user
// has at most one outstanding token; issuing again replaces it, and
// consuming clears it in the same update that writes the new password,
// so a consumed token cannot be replayed.
type ResetService struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewResetService creates a ResetService.
func NewResetService(users UserRepository, hasher PasswordHasher) (*ResetService, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &ResetService{users: users, hasher: hasher}, nil
}

// IssueResetToken generates a fresh reset token for the account with
// the given email and returns the plaintext. Returns ErrNotFound
// (wrapped) when no account has the email.
func (s *ResetService) IssueResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, hash, err := GenerateResetToken()
	if err != nil {
		return "", err
	}

	if err := s.users.SetResetToken(ctx, user.ID, hash); err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "store reset token").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	return token, nil
}

// ConsumeResetToken replaces the password of whichever account holds
// the token, clearing the token in the same update. An unknown,
// already-consumed, or empty token fails with ErrNotFound (wrapped).
func (s *ResetService) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return oops.Code("RESET_TOKEN_EMPTY").Wrap(ErrNotFound)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.users.ConsumePasswordReset(ctx, HashResetToken(token), newHash); err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "consume reset token").
			Wrap(err)
	}

	return nil
}
