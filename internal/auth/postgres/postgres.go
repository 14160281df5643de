// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

// Package postgres provides PostgreSQL-backed implementations of the
// auth repositories. Atomicity of mutations comes from the database:
// every write is a single statement, so concurrent requests never
// observe half-applied updates.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier abstracts statement execution so *pgxpool.Pool and
// pgxmock.PgxPoolIface are interchangeable in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
