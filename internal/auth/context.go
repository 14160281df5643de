// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

import "context"

// contextKey is a private type to avoid collisions with other packages.
type contextKey int

const userKey contextKey = iota

// SetUser returns a context carrying the resolved user.
func SetUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user resolved for this request, or nil
// when the request was not authenticated.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userKey).(*User)
	return user
}
