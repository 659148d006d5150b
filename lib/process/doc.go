// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for Draftroom
// binaries. These functions centralize the two legitimate raw I/O
// patterns that exist before or after the structured logger:
//
//   - Fatal error reporting to stderr when the logger may not be
//     initialized (pre-logger).
//   - Process exit after an unrecoverable error in main().
//
// All other raw output in service binaries should go through the
// structured logger or this package (lib/version is the other
// exception, for --version output).
package process
