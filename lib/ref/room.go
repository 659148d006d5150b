// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// roomPrefix marks every room identifier. The prefix keeps room IDs
// distinguishable from raw document IDs in logs and API paths.
const roomPrefix = "room_"

// RoomID is a validated room identifier. Rooms are one-per-document and
// their identifier is always derived from the document:
// "room_" + document ID. Use RoomIDForDocument to mint one and
// ParseRoomID to accept one from the outside.
//
// RoomID is an immutable value type. The zero value is not valid; use
// IsZero to check.
type RoomID struct {
	id string
}

// RoomIDForDocument returns the room identifier hosting the given
// document. The derivation is deterministic, so every caller holding
// the same DocumentID converges on the same room.
func RoomIDForDocument(document DocumentID) RoomID {
	return RoomID{id: roomPrefix + document.id}
}

// ParseRoomID validates and wraps a raw room identifier string. The
// string must carry the "room_" prefix followed by a valid document
// identifier.
func ParseRoomID(raw string) (RoomID, error) {
	remainder, ok := strings.CutPrefix(raw, roomPrefix)
	if !ok {
		return RoomID{}, fmt.Errorf("room ID %q: missing %q prefix", raw, roomPrefix)
	}
	if err := validateIdentifier(remainder, "room ID document part"); err != nil {
		return RoomID{}, err
	}
	return RoomID{id: raw}, nil
}

// String returns the full room identifier (e.g. "room_wf-123").
func (r RoomID) String() string { return r.id }

// IsZero reports whether the RoomID is the zero value.
func (r RoomID) IsZero() bool { return r.id == "" }

// Document returns the DocumentID the room hosts. Panics if called on
// a zero-value RoomID.
func (r RoomID) Document() DocumentID {
	if r.id == "" {
		panic("RoomID.Document called on zero value")
	}
	return DocumentID{id: strings.TrimPrefix(r.id, roomPrefix)}
}

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (r RoomID) MarshalText() ([]byte, error) {
	return []byte(r.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// identifier; an empty input produces the zero value (unset room).
func (r *RoomID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = RoomID{}
		return nil
	}
	parsed, err := ParseRoomID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
