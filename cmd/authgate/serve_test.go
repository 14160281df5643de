// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/auth/memory"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/pkg/errutil"
)

func buildStrategyFor(t *testing.T, authType string) (auth.Strategy, error) {
	t.Helper()

	cfg := config.Default()
	cfg.AuthType = authType
	strategy, _, err := buildStrategy(cfg, memory.NewUserRepository(), auth.NewArgon2idHasher(), nil)
	return strategy, err
}

func TestBuildStrategy_None(t *testing.T) {
	strategy, err := buildStrategyFor(t, config.AuthTypeNone)
	require.NoError(t, err)
	assert.Nil(t, strategy, "auth type none disables gating")
}

func TestBuildStrategy_Basic(t *testing.T) {
	strategy, err := buildStrategyFor(t, config.AuthTypeBasic)
	require.NoError(t, err)
	assert.IsType(t, &auth.BasicStrategy{}, strategy)
}

func TestBuildStrategy_Session(t *testing.T) {
	cfg := config.Default()
	cfg.AuthType = config.AuthTypeSession

	strategy, sessions, err := buildStrategy(cfg, memory.NewUserRepository(), auth.NewArgon2idHasher(), nil)
	require.NoError(t, err)
	assert.IsType(t, &auth.SessionStrategy{}, strategy)
	assert.NotNil(t, sessions, "session strategy should double as session manager")
}

func TestBuildStrategy_SessionExp(t *testing.T) {
	strategy, err := buildStrategyFor(t, config.AuthTypeSessionExp)
	require.NoError(t, err)
	assert.IsType(t, &auth.SessionExpStrategy{}, strategy)
}

func TestBuildStrategy_SessionDBWithoutPool(t *testing.T) {
	_, err := buildStrategyFor(t, config.AuthTypeSessionDB)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_DATABASE_REQUIRED")
}

func TestBuildStrategy_Unknown(t *testing.T) {
	_, err := buildStrategyFor(t, "oauth")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID_AUTH_TYPE")
}
