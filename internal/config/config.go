// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

// Package config loads and validates service configuration from defaults,
// an optional YAML file, environment variables, and command-line flags,
// in ascending priority.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Auth strategy selectors accepted by AUTH_TYPE.
const (
	AuthTypeNone       = "none"
	AuthTypeBasic      = "basic"
	AuthTypeSession    = "session"
	AuthTypeSessionExp = "session_exp"
	AuthTypeSessionDB  = "session_db"
)

// Config holds the full service configuration.
type Config struct {
	AuthType string         `koanf:"auth_type"`
	Listen   ListenConfig   `koanf:"listen"`
	Session  SessionConfig  `koanf:"session"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`

	// ExcludedPaths lists request paths served without authentication.
	// Entries ending in "*" match by prefix.
	ExcludedPaths []string `koanf:"excluded_paths"`
}

// ListenConfig holds the HTTP listener addresses.
type ListenConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	CookieName string `koanf:"cookie_name"`

	// DurationSeconds is the session lifetime. Zero or negative means
	// sessions never expire.
	DurationSeconds int `koanf:"duration_seconds"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		AuthType: AuthTypeNone,
		Listen: ListenConfig{
			Addr:        ":8080",
			MetricsAddr: ":9090",
		},
		Session: SessionConfig{
			CookieName:      "_my_session_id",
			DurationSeconds: 0,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
		ExcludedPaths: []string{
			"/api/v1/status/",
			"/api/v1/users/",
			"/api/v1/sessions/",
			"/api/v1/reset_password/",
			"/healthz/*",
		},
	}
}

// envMap translates the flat environment variable names into koanf keys.
// Unknown variables are skipped.
func envMap(key string) string {
	switch key {
	case "AUTH_TYPE":
		return "auth_type"
	case "SESSION_COOKIE_NAME":
		return "session.cookie_name"
	case "SESSION_DURATION_SECONDS":
		return "session.duration_seconds"
	case "DATABASE_URL":
		return "database.url"
	case "LISTEN_ADDR":
		return "listen.addr"
	case "METRICS_ADDR":
		return "listen.metrics_addr"
	case "LOG_FORMAT":
		return "log.format"
	case "LOG_LEVEL":
		return "log.level"
	default:
		return ""
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (when non-empty), then environment variables, then flags. Later sources
// win.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	cfg := Default()
	if err := k.Load(structsProvider(cfg), nil); err != nil {
		return Config{}, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.
				Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider("", ".", envMap), nil); err != nil {
		return Config{}, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	switch c.AuthType {
	case AuthTypeNone, AuthTypeBasic, AuthTypeSession, AuthTypeSessionExp, AuthTypeSessionDB:
	default:
		return oops.
			Code("CONFIG_INVALID_AUTH_TYPE").
			With("auth_type", c.AuthType).
			Errorf("unknown auth type %q", c.AuthType)
	}

	if c.AuthType == AuthTypeSessionDB && c.Database.URL == "" {
		return oops.
			Code("CONFIG_DATABASE_REQUIRED").
			Errorf("auth type %q requires database.url", AuthTypeSessionDB)
	}

	if c.Session.CookieName == "" {
		return oops.
			Code("CONFIG_COOKIE_NAME_EMPTY").
			Errorf("session.cookie_name must not be empty")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return oops.
			Code("CONFIG_INVALID_LOG_FORMAT").
			With("format", c.Log.Format).
			Errorf("log.format must be json or text")
	}

	return nil
}

// SessionDuration returns the configured session lifetime. A zero or
// negative configuration yields zero, meaning sessions never expire.
func (c Config) SessionDuration() time.Duration {
	if c.Session.DurationSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Session.DurationSeconds) * time.Second
}

// structsProvider loads a Config's defaults into koanf without pulling in a
// struct-walking dependency. Only the keys the rest of Load overrides need
// to be present.
type defaultsProvider struct {
	cfg Config
}

func structsProvider(cfg Config) *defaultsProvider {
	return &defaultsProvider{cfg: cfg}
}

// ReadBytes is unused; defaults are supplied via Read.
func (p *defaultsProvider) ReadBytes() ([]byte, error) {
	return nil, oops.Errorf("defaultsProvider does not support ReadBytes")
}

// Read returns the default configuration as a nested key map.
func (p *defaultsProvider) Read() (map[string]any, error) {
	excluded := make([]any, 0, len(p.cfg.ExcludedPaths))
	for _, path := range p.cfg.ExcludedPaths {
		excluded = append(excluded, path)
	}

	return map[string]any{
		"auth_type": p.cfg.AuthType,
		"listen": map[string]any{
			"addr":         p.cfg.Listen.Addr,
			"metrics_addr": p.cfg.Listen.MetricsAddr,
		},
		"session": map[string]any{
			"cookie_name":      p.cfg.Session.CookieName,
			"duration_seconds": p.cfg.Session.DurationSeconds,
		},
		"database": map[string]any{
			"url": p.cfg.Database.URL,
		},
		"log": map[string]any{
			"format": p.cfg.Log.Format,
			"level":  strings.ToLower(p.cfg.Log.Level),
		},
		"excluded_paths": excluded,
	}, nil
}
