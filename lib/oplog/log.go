// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import "sync"

// Log is the append-only operation history of one document. It is
// safe for concurrent use by multiple goroutines.
type Log struct {
	mu         sync.Mutex
	operations []Operation
	revision   int64
	transforms map[transformKey]Operation
}

// transformKey memoizes Transform results by operation ID pair. The
// pair is ordered: Transform(a, b) and Transform(b, a) are distinct
// computations with distinct results.
type transformKey struct {
	first  string
	second string
}

// NewLog returns an empty log. The first applied operation receives
// revision 1.
func NewLog() *Log {
	return &Log{
		transforms: make(map[transformKey]Operation),
	}
}

// Apply assigns the next revision to op, appends it to the history,
// and returns the stamped operation. Apply never rejects: conflict
// resolution happens in Transform before submission, and by the time
// an operation reaches Apply it is part of the document's history
// unconditionally.
func (l *Log) Apply(op Operation) Operation {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.revision++
	op.Revision = l.revision
	l.operations = append(l.operations, op)
	return op
}

// Transform rebases operation a against a concurrent operation b and
// returns the adjusted a. Operations on different paths commute and a
// is returned unchanged. On the same path the client timestamps
// decide: if a is older than b, a is returned unchanged; otherwise a
// adopts b's value, so the earlier write wins the path.
//
// Results are memoized by the (a.ID, b.ID) pair. A replayed pair
// returns the previously computed result without rework.
func (l *Log) Transform(a, b Operation) Operation {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := transformKey{first: a.ID, second: b.ID}
	if cached, ok := l.transforms[key]; ok {
		return cached
	}

	transformed := a
	if a.Path == b.Path && a.Timestamp >= b.Timestamp {
		transformed.Value = b.Value
	}

	l.transforms[key] = transformed
	return transformed
}

// Since returns every operation with a revision strictly greater than
// the given one, in log order. Since(0) returns the full history; a
// revision at or beyond the newest returns nil. The returned slice is
// a copy and safe for the caller to retain.
func (l *Log) Since(revision int64) []Operation {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Revisions are dense and ascending: operation i holds revision
	// i+1, so the suffix after the requested revision starts at index
	// revision.
	if revision < 0 {
		revision = 0
	}
	if revision >= int64(len(l.operations)) {
		return nil
	}
	suffix := l.operations[revision:]
	out := make([]Operation, len(suffix))
	copy(out, suffix)
	return out
}

// Revision returns the most recently assigned revision, or 0 when the
// log is empty.
func (l *Log) Revision() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}
