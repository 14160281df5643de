// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

// Package memory provides process-local, mutex-guarded implementations
// of the auth repositories. They back the simple session schemes and
// keep development and tests off the database. State lives for the
// process only; nothing is replicated or persisted.
package memory
