// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/observability"
	"github.com/authgate/authgate/pkg/errutil"
)

// Middleware gates requests behind an authentication strategy. Requests to
// excluded paths pass through untouched; everything else must resolve to a
// user, which is then injected into the request context.
type Middleware struct {
	strategy auth.Strategy
	name     string
	excluded []string
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewMiddleware creates authentication middleware. name labels the strategy
// in metrics and logs. metrics may be nil.
func NewMiddleware(strategy auth.Strategy, name string, excluded []string, metrics *observability.Metrics, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{
		strategy: strategy,
		name:     name,
		excluded: excluded,
		metrics:  metrics,
		logger:   logger,
	}
}

// Wrap returns a handler that authenticates the request before passing it
// to next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.strategy == nil || !m.strategy.RequiresAuth(r.URL.Path, m.excluded) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.strategy.ResolveUser(r.Context(), WrapRequest(r))
		if err != nil {
			// The reason stays in the log; the client sees a uniform 401.
			errutil.LogError(m.logger, "authentication failed", err)
			m.recordAttempt("failure")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}

		m.recordAttempt("success")
		next.ServeHTTP(w, r.WithContext(auth.SetUser(r.Context(), user)))
	})
}

func (m *Middleware) recordAttempt(result string) {
	if m.metrics != nil {
		m.metrics.AuthAttemptsTotal.WithLabelValues(m.name, result).Inc()
	}
}
