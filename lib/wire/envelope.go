// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package wire

// Event names carried in the envelope's "type" field. These are wire
// constants shared with every client implementation.
const (
	// EventOperation carries an accepted (revision-stamped) operation.
	EventOperation = "operation"

	// EventCursorUpdate carries a collaborator's cursor position.
	EventCursorUpdate = "cursor_update"

	// EventUserJoined announces a new room member to the others.
	EventUserJoined = "user_joined"

	// EventUserLeft announces a departed member.
	EventUserLeft = "user_left"

	// EventChatMessage carries a room chat message.
	EventChatMessage = "chat_message"

	// EventRoomState is the bootstrap snapshot a host sends to a
	// freshly connected client before any other traffic.
	EventRoomState = "room_state"

	// EventError reports a protocol violation back to the offending
	// client.
	EventError = "error"
)

// Envelope is the outer frame of every message in both directions.
//
// On the outbound path Data holds one of the typed payload structs in
// this package. On the inbound path, decoding into an Envelope leaves
// Data as a map[string]any for the payload handlers to pick fields
// from; missing fields take documented defaults there.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Payload returns the envelope's data as a field map. Returns nil if
// the data is absent or not an object; handlers treat a nil map the
// same as an empty payload.
func (e Envelope) Payload() map[string]any {
	payload, ok := e.Data.(map[string]any)
	if !ok {
		return nil
	}
	return payload
}
