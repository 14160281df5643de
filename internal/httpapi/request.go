// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

// Package httpapi exposes the authentication service over HTTP.
package httpapi

import (
	"net/http"

	"github.com/authgate/authgate/internal/auth"
)

// httpRequest adapts *http.Request to the transport-neutral auth.Request.
type httpRequest struct {
	r *http.Request
}

// WrapRequest makes an *http.Request consumable by auth strategies.
func WrapRequest(r *http.Request) auth.Request {
	return httpRequest{r: r}
}

func (h httpRequest) Path() string {
	return h.r.URL.Path
}

func (h httpRequest) Header(name string) string {
	return h.r.Header.Get(name)
}

func (h httpRequest) Cookie(name string) (string, bool) {
	c, err := h.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (h httpRequest) FormValue(name string) string {
	return h.r.FormValue(name)
}
