// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Draftroom packages.
//
// [RequireClosed] encapsulates the timeout safety valve pattern
// (select with time.After fallback) so that individual tests do not
// need direct time.After calls when waiting on a completion channel.
// Engine timing itself runs against lib/clock fakes; the wall-clock
// timeout here only bounds how long a broken test can hang.
//
// Helpers call t.Fatalf on failure rather than returning errors, since
// test setup failures are not recoverable.
//
// This package has no Draftroom-internal dependencies.
package testutil
