// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/oklog/ulid/v2"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/observability"
	"github.com/authgate/authgate/pkg/errutil"
)

// SessionManager is the slice of the session strategy the handlers need to
// issue and revoke sessions. Satisfied by SessionStrategy and its
// decorators.
type SessionManager interface {
	CookieName() string
	CreateSession(ctx context.Context, userID ulid.ULID) (string, error)
	DestroySession(ctx context.Context, req auth.Request) (bool, error)
}

// Handler serves the authentication API routes.
type Handler struct {
	svc      *auth.Service
	resets   *auth.ResetService
	sessions SessionManager
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewHandler creates the route handler. sessions may be nil when the
// configured strategy does not issue sessions; metrics may be nil.
func NewHandler(svc *auth.Service, resets *auth.ResetService, sessions SessionManager, metrics *observability.Metrics, logger *slog.Logger) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("httpapi: service is required")
	}
	if resets == nil {
		return nil, errors.New("httpapi: reset service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:      svc,
		resets:   resets,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Routes returns the API mux. Authentication gating is applied by
// Middleware.Wrap, not here.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", h.handleStatus)
	mux.HandleFunc("GET /api/v1/status/{$}", h.handleStatus)
	mux.HandleFunc("POST /api/v1/users", h.handleRegister)
	mux.HandleFunc("POST /api/v1/sessions", h.handleLogin)
	mux.HandleFunc("DELETE /api/v1/sessions", h.handleLogout)
	mux.HandleFunc("GET /api/v1/profile", h.handleProfile)
	mux.HandleFunc("POST /api/v1/reset_password", h.handleResetIssue)
	mux.HandleFunc("PUT /api/v1/reset_password", h.handleResetConsume)
	return mux
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, "/api/v1/status", http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/users"

	email := r.FormValue("email")
	if email == "" {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "email missing"})
		return
	}
	password := r.FormValue("password")
	if password == "" {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "password missing"})
		return
	}

	_, err := h.svc.Register(r.Context(), email, password)
	if errors.Is(err, auth.ErrAlreadyRegistered) {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"message": "email already registered"})
		return
	}
	if err != nil {
		errutil.LogError(h.logger, "user registration failed", err)
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "invalid registration"})
		return
	}

	h.respond(w, route, http.StatusOK, map[string]string{
		"email":   email,
		"message": "user created",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/sessions"

	email := r.FormValue("email")
	if email == "" {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "email missing"})
		return
	}
	password := r.FormValue("password")
	if password == "" {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "password missing"})
		return
	}

	user, err := h.svc.Authenticate(r.Context(), email, password)
	if err != nil {
		// Unknown email, wrong password, and locked account all look the
		// same to the client.
		errutil.LogError(h.logger, "login failed", err)
		h.respond(w, route, http.StatusUnauthorized, map[string]string{"error": "wrong password"})
		return
	}

	if h.sessions != nil {
		token, err := h.sessions.CreateSession(r.Context(), user.ID)
		if err != nil {
			errutil.LogError(h.logger, "session creation failed", err)
			h.respond(w, route, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     h.sessions.CookieName(),
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if h.metrics != nil {
			h.metrics.SessionsCreatedTotal.Inc()
		}
	}

	h.respond(w, route, http.StatusOK, map[string]string{
		"email":   user.Email,
		"message": "logged in",
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/sessions"

	if h.sessions == nil {
		h.respond(w, route, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	destroyed, err := h.sessions.DestroySession(r.Context(), WrapRequest(r))
	if err != nil {
		errutil.LogError(h.logger, "session destruction failed", err)
		h.respond(w, route, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if !destroyed {
		h.respond(w, route, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsDestroyedTotal.Inc()
	}

	// Expire the cookie client-side as well.
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessions.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.respond(w, route, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/profile"

	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.respond(w, route, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	h.respond(w, route, http.StatusOK, map[string]string{"email": user.Email})
}

func (h *Handler) handleResetIssue(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/reset_password"

	email := r.FormValue("email")
	if email == "" {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "email missing"})
		return
	}

	token, err := h.resets.IssueResetToken(r.Context(), email)
	if errors.Is(err, auth.ErrNotFound) {
		h.respond(w, route, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}
	if err != nil {
		errutil.LogError(h.logger, "reset token issue failed", err)
		h.respond(w, route, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if h.metrics != nil {
		h.metrics.ResetTokensIssuedTotal.Inc()
	}

	h.respond(w, route, http.StatusOK, map[string]string{
		"email":       email,
		"reset_token": token,
	})
}

func (h *Handler) handleResetConsume(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/reset_password"

	email := r.FormValue("email")
	token := r.FormValue("reset_token")
	newPassword := r.FormValue("new_password")
	if email == "" || token == "" || newPassword == "" {
		h.respond(w, route, http.StatusBadRequest, map[string]string{"error": "missing form field"})
		return
	}

	if err := h.resets.ConsumeResetToken(r.Context(), token, newPassword); err != nil {
		// Invalid, consumed, and never-issued tokens are indistinguishable.
		errutil.LogError(h.logger, "password reset failed", err)
		h.respond(w, route, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	h.respond(w, route, http.StatusOK, map[string]string{
		"email":   email,
		"message": "Password updated",
	})
}

func (h *Handler) respond(w http.ResponseWriter, route string, status int, body any) {
	if h.metrics != nil {
		h.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client went away
	json.NewEncoder(w).Encode(body)
}
