// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import "errors"

// Sentinel errors shared by repositories and strategies. Richer context
// is layered on top with oops codes; errors.Is against these sentinels
// is the stable part of the contract.
var (
	// ErrNotFound is returned when a user, session, or reset token does
	// not exist. Expired and destroyed sessions report it too, so a
	// caller cannot tell a timed-out session from one that never was.
	ErrNotFound = errors.New("not found")

	// ErrMalformedCredentials is returned when credentials cannot be
	// decoded from a request (bad header encoding or shape).
	ErrMalformedCredentials = errors.New("malformed credentials")

	// ErrAlreadyRegistered is returned when registering an email that
	// already has an account.
	ErrAlreadyRegistered = errors.New("already registered")
)
