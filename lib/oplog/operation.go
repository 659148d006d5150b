// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"github.com/oklog/ulid/v2"

	"github.com/draftroom-io/draftroom/lib/ref"
)

// Operation is a single mutation of the shared workflow graph.
//
// Timestamp is set by the submitting client in Unix milliseconds and
// is trusted as-is for conflict resolution. Client clocks are not
// synchronized, so the ordering it induces is approximate; the
// revision number, assigned by the log on acceptance, is the
// authoritative total order.
type Operation struct {
	// ID uniquely identifies the operation. Client-supplied when
	// present, otherwise minted with NewOperationID.
	ID string `json:"id"`

	// Kind is the mutation type.
	Kind Kind `json:"type"`

	// Path addresses the part of the graph the operation touches
	// (e.g. "nodes/node-1/title"). Paths are opaque to the engine;
	// equality is the only comparison.
	Path string `json:"path"`

	// Value is the new content at the path. Structure depends on the
	// kind and is opaque to the engine.
	Value any `json:"value,omitempty"`

	// OldValue is the content the client observed before its edit.
	// Carried for clients that implement undo; the engine never reads
	// it.
	OldValue any `json:"old_value,omitempty"`

	// Timestamp is the client wall clock at edit time, Unix
	// milliseconds.
	Timestamp int64 `json:"timestamp"`

	// UserID is the operation's author. Stamped by the room on
	// submission, overriding anything the client sent.
	UserID ref.UserID `json:"user_id"`

	// Revision is the log position assigned on acceptance. Zero on
	// operations that have not been applied yet; on inbound
	// operations it holds the last revision the client had seen.
	Revision int64 `json:"revision"`
}

// NewOperationID returns a fresh unique operation identifier.
func NewOperationID() string {
	return ulid.Make().String()
}
