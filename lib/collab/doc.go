// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package collab implements the collaboration engine: rooms that host
// concurrent editing sessions on one workflow document each, clients
// that bind a connection to a room, and the manager that owns the
// room registry.
//
// A Room is the authoritative conflict-resolution and fan-out point
// for its document. Inbound operations are rebased against concurrent
// history via the document's operation log, accepted in revision
// order, and broadcast to every member. Cursors and chat ride the
// same fan-out without revisioning.
//
// The Manager enforces two global invariants: one room per document
// (deterministic identity, lazy creation) and at most one room per
// user (joining a second document leaves the first). A janitor
// goroutine evicts rooms idle past a threshold.
//
// All types are safe for concurrent use. Blocking is kept out of the
// engine: a client's SendFunc must hand the envelope off without
// waiting on the network, so a slow connection degrades only its own
// delivery.
package collab
