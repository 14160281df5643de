// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Strategy is one interchangeable authentication scheme: a gate that
// decides whether a path needs authentication, and a resolver that
// turns request credentials into a user.
type Strategy interface {
	// RequiresAuth reports whether the path needs an authenticated
	// user, given the configured exclusion list.
	RequiresAuth(path string, excludedPaths []string) bool

	// ResolveUser resolves the requesting user from credentials carried
	// by the request. Every failure wraps ErrNotFound or
	// ErrMalformedCredentials; callers must not leak which.
	ResolveUser(ctx context.Context, req Request) (*User, error)
}

// RequiresAuth implements the shared gating rule. Authentication is
// required when the path or the exclusion list is empty. It is not
// required when the path (or the path with a trailing slash appended)
// exactly matches an entry, or when an entry ends in "*" and the path
// starts with the entry minus that marker. A "*" anywhere else in an
// entry is matched literally; broader glob semantics are unsupported.
func RequiresAuth(path string, excludedPaths []string) bool {
	if path == "" || len(excludedPaths) == 0 {
		return true
	}
	for _, entry := range excludedPaths {
		if entry == "" {
			continue
		}
		if path == entry || path+"/" == entry {
			return false
		}
		if prefix, ok := strings.CutSuffix(entry, "*"); ok && strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// gate supplies the shared RequiresAuth rule to every strategy.
type gate struct{}

func (gate) RequiresAuth(path string, excludedPaths []string) bool {
	return RequiresAuth(path, excludedPaths)
}

// NullStrategy gates requests but can never resolve a user: with a
// non-empty exclusion list, every path outside it fails authentication.
// It is the AUTH_TYPE=none scheme and the base the other strategies
// extend by composition.
type NullStrategy struct {
	gate
}

// NewNullStrategy creates a NullStrategy.
func NewNullStrategy() *NullStrategy {
	return &NullStrategy{}
}

// ResolveUser always fails: the null scheme has no credentials to read.
func (*NullStrategy) ResolveUser(context.Context, Request) (*User, error) {
	return nil, oops.Code("AUTH_NO_RESOLVER").Wrap(ErrNotFound)
}

// basicPrefix is the scheme token of an HTTP Basic Authorization
// header. The comparison is case-sensitive.
const basicPrefix = "Basic "

// BasicStrategy authenticates requests carrying an HTTP Basic
// Authorization header against the user store.
type BasicStrategy struct {
	gate
	users  UserRepository
	hasher PasswordHasher
}

// NewBasicStrategy creates a BasicStrategy.
func NewBasicStrategy(users UserRepository, hasher PasswordHasher) (*BasicStrategy, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &BasicStrategy{users: users, hasher: hasher}, nil
}

// ExtractCredentials pulls email and password out of the Authorization
// header. The header must carry the exact "Basic " prefix, a valid
// base64 payload decoding to UTF-8 text, and a colon; the email is
// everything before the first colon, the password everything after.
func (s *BasicStrategy) ExtractCredentials(req Request) (email, password string, err error) {
	header := req.Header("Authorization")
	if header == "" {
		return "", "", oops.Code("AUTH_HEADER_MISSING").Wrap(ErrMalformedCredentials)
	}

	payload, ok := strings.CutPrefix(header, basicPrefix)
	if !ok {
		return "", "", oops.Code("AUTH_SCHEME_MISMATCH").Wrap(ErrMalformedCredentials)
	}

	raw, decErr := base64.StdEncoding.DecodeString(payload)
	if decErr != nil {
		return "", "", oops.Code("AUTH_BAD_BASE64").Wrap(ErrMalformedCredentials)
	}
	if !utf8.Valid(raw) {
		return "", "", oops.Code("AUTH_NOT_TEXT").Wrap(ErrMalformedCredentials)
	}

	email, password, ok = strings.Cut(string(raw), ":")
	if !ok {
		return "", "", oops.Code("AUTH_NO_SEPARATOR").Wrap(ErrMalformedCredentials)
	}

	return email, password, nil
}

// ResolveUser extracts Basic credentials and verifies them against
// every user holding the email. Duplicate emails should not exist, but
// the linear scan keeps a stray duplicate from shadowing the real
// account; the first verified match wins.
func (s *BasicStrategy) ResolveUser(ctx context.Context, req Request) (*User, error) {
	email, password, err := s.ExtractCredentials(req)
	if err != nil {
		return nil, err
	}

	candidates, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "find users by email").
			Wrap(err)
	}

	for _, candidate := range candidates {
		if s.hasher.Verify(password, candidate.PasswordHash) {
			return candidate, nil
		}
	}

	return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrNotFound)
}
