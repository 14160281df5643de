// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/pkg/errutil"
)

func TestRunMigrate_MissingDatabaseURL(t *testing.T) {
	cmd := NewMigrateCmd()

	err := runMigrate(cmd, config.Default(), &migrateConfig{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestRunMigrate_InvalidDatabaseURL(t *testing.T) {
	cmd := NewMigrateCmd()

	cfg := config.Default()
	cfg.Database.URL = "invalid://url"

	err := runMigrate(cmd, cfg, &migrateConfig{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}
