// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable identifiers for the
// collaboration engine: users, workflow documents, and the rooms that
// host them.
//
// All constructors validate their inputs and return errors for invalid
// identifiers. Once constructed, a ref is an immutable value type that
// works as a map key and serializes as a plain string via
// encoding.TextMarshaler.
//
// Room identifiers are never minted freely: a RoomID is always derived
// from the document it hosts ("room_" + document ID), so the mapping
// between documents and rooms is deterministic in both directions.
package ref
