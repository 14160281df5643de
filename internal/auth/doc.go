// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

// Package auth implements the authentication core: password hashing,
// users and sessions, the interchangeable request-gating strategies,
// and the password reset workflow.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their
// constructors (NewUser, NewSession); direct struct initialization
// bypasses validation. Repository implementations receive
// pre-validated values from these constructors.
//
// # Strategies
//
// A Strategy decides whether a request path needs authentication and,
// when it does, resolves the requesting user:
//   - NullStrategy - gates but never resolves anyone
//   - BasicStrategy - HTTP Basic credentials against the user store
//   - SessionStrategy - opaque session cookie against a SessionStore
//   - SessionExpStrategy - decorates SessionStrategy with lazy expiry
//   - SessionDBStrategy - SessionExpStrategy over a persisted store
//
// Strategies report every resolution failure as an error wrapping
// ErrNotFound or ErrMalformedCredentials. Callers at the HTTP boundary
// must collapse all of them to a single unauthorized response; the
// distinct kinds exist for logging only.
package auth
