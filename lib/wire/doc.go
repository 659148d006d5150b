// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the transport-agnostic message envelope and
// event payloads exchanged between the collaboration engine and
// connected clients.
//
// Every message is an Envelope: {"type": <event name>, "data": {...}}.
// The engine produces operation, cursor_update, user_joined,
// user_left, and chat_message events; hosts additionally produce a
// room_state bootstrap message on connect and error messages for
// protocol violations. Inbound messages reuse the same envelope with
// the server-assigned fields (user_id, revision) absent or ignored.
//
// Payload field names are part of the protocol and never change
// spelling; structs here are the single source of truth for them.
package wire
