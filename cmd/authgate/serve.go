// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/auth/memory"
	"github.com/authgate/authgate/internal/auth/postgres"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/httpapi"
	"github.com/authgate/authgate/internal/logging"
	"github.com/authgate/authgate/internal/observability"
	"github.com/authgate/authgate/internal/store"
	"github.com/authgate/authgate/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication API server",
		Long: `Start the HTTP API server with the configured authentication
strategy, plus a metrics and health endpoint on a separate listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("auth_type", "", "authentication strategy (none, basic, session, session_exp, session_db)")
	cmd.Flags().String("listen.addr", "", "API listen address")
	cmd.Flags().String("listen.metrics_addr", "", "metrics/health listen address")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.SetDefault("authgate", version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	var users auth.UserRepository
	if cfg.Database.URL != "" {
		var err error
		pool, err = store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		users = postgres.NewUserRepository(pool)
		logger.Info("using postgres user repository")
	} else {
		users = memory.NewUserRepository()
		logger.Info("using in-memory user repository")
	}

	hasher := auth.NewArgon2idHasher()

	svc, err := auth.NewService(users, hasher)
	if err != nil {
		return err
	}
	resets, err := auth.NewResetService(users, hasher)
	if err != nil {
		return err
	}

	strategy, sessions, err := buildStrategy(cfg, users, hasher, pool)
	if err != nil {
		return err
	}

	obs := observability.NewServer(cfg.Listen.MetricsAddr, func() bool {
		if pool == nil {
			return true
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})

	obsErrCh, err := obs.Start()
	if err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if stopErr := obs.Stop(stopCtx); stopErr != nil {
			errutil.LogError(logger, "failed to stop observability server", stopErr)
		}
	}()

	handler, err := httpapi.NewHandler(svc, resets, sessions, obs.Metrics(), logger)
	if err != nil {
		return err
	}
	mw := httpapi.NewMiddleware(strategy, cfg.AuthType, cfg.ExcludedPaths, obs.Metrics(), logger)

	apiSrv := &http.Server{
		Addr:              cfg.Listen.Addr,
		Handler:           mw.Wrap(handler.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	apiErrCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", cfg.Listen.Addr, "auth_type", cfg.AuthType)
		if serveErr := apiSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			apiErrCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-apiErrCh:
		return oops.Code("API_SERVER_FAILED").Wrap(serveErr)
	case obsErr := <-obsErrCh:
		if obsErr != nil {
			return oops.Code("OBSERVABILITY_SERVER_FAILED").Wrap(obsErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("API_SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("api server stopped")
	return nil
}

// buildStrategy assembles the configured authentication strategy and, when
// the strategy issues sessions, the session manager for the HTTP handlers.
// auth_type "none" disables gating entirely.
func buildStrategy(cfg config.Config, users auth.UserRepository, hasher auth.PasswordHasher, pool *pgxpool.Pool) (auth.Strategy, httpapi.SessionManager, error) {
	switch cfg.AuthType {
	case config.AuthTypeNone:
		return nil, nil, nil

	case config.AuthTypeBasic:
		strategy, err := auth.NewBasicStrategy(users, hasher)
		if err != nil {
			return nil, nil, err
		}
		return strategy, nil, nil

	case config.AuthTypeSession:
		strategy, err := auth.NewSessionStrategy(users, memory.NewSessionStore(), cfg.Session.CookieName)
		if err != nil {
			return nil, nil, err
		}
		return strategy, strategy, nil

	case config.AuthTypeSessionExp:
		inner, err := auth.NewSessionStrategy(users, memory.NewSessionStore(), cfg.Session.CookieName)
		if err != nil {
			return nil, nil, err
		}
		strategy, err := auth.NewSessionExpStrategy(inner, cfg.SessionDuration())
		if err != nil {
			return nil, nil, err
		}
		return strategy, strategy, nil

	case config.AuthTypeSessionDB:
		if pool == nil {
			return nil, nil, oops.Code("CONFIG_DATABASE_REQUIRED").
				Errorf("auth type %q requires a database connection", cfg.AuthType)
		}
		strategy, err := auth.NewSessionDBStrategy(users, postgres.NewSessionStore(pool), cfg.Session.CookieName, cfg.SessionDuration())
		if err != nil {
			return nil, nil, err
		}
		return strategy, strategy, nil

	default:
		return nil, nil, oops.Code("CONFIG_INVALID_AUTH_TYPE").
			Errorf("unknown auth type %q", cfg.AuthType)
	}
}
