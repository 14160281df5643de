// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package auth

// Request is the view of an inbound request the core needs: enough to
// gate on the path and to pull credentials out of headers, cookies, and
// form fields. It is implemented once per hosting framework at the
// boundary so strategies never touch framework types.
type Request interface {
	// Path returns the request path.
	Path() string

	// Header returns the named header value, or "" when absent.
	Header(name string) string

	// Cookie returns the named cookie value and whether it was present.
	Cookie(name string) (string, bool)

	// FormValue returns the named form field, or "" when absent.
	FormValue(name string) string
}
