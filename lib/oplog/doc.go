// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package oplog implements the per-document operation log that gives
// concurrent edits a single total order.
//
// Every accepted operation receives a monotonically increasing
// revision number, starting at 1. The log is append-only: operations
// are never rewritten or removed for the lifetime of the room that
// owns the log.
//
// Conflict resolution is deliberately simple. Operations address
// disjoint parts of the workflow graph by path, and two operations
// conflict only when their paths are equal. A conflict is resolved
// last-write-wins on the client-supplied timestamps, at whole-path
// granularity via Transform. This is not operational transformation
// in the general sense: there is no position shifting and no intent
// preservation, which is sufficient for graph property updates where
// edits replace values wholesale.
package oplog
