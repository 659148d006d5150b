// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"github.com/draftroom-io/draftroom/lib/oplog"
	"github.com/draftroom-io/draftroom/lib/ref"
)

// OperationPayload is the broadcast form of an accepted operation.
// It mirrors oplog.Operation minus old_value, which is client-local
// undo state and never echoed to the room.
type OperationPayload struct {
	ID        string     `json:"id"`
	Kind      oplog.Kind `json:"type"`
	Path      string     `json:"path"`
	Value     any        `json:"value"`
	UserID    ref.UserID `json:"user_id"`
	Revision  int64      `json:"revision"`
	Timestamp int64      `json:"timestamp"`
}

// CursorPayload is the broadcast form of a cursor update. NodeID is
// empty when the cursor is not anchored to a node.
type CursorPayload struct {
	UserID    ref.UserID `json:"user_id"`
	UserName  string     `json:"user_name"`
	UserColor string     `json:"user_color"`
	NodeID    string     `json:"node_id"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
}

// Member describes one room participant. Used both as the
// user_joined payload and as an entry in the room state's users list.
type Member struct {
	UserID    ref.UserID `json:"user_id"`
	UserName  string     `json:"user_name"`
	UserColor string     `json:"user_color"`
}

// UserLeftPayload announces a departed member. Only the identifier is
// sent; recipients already hold the rest from the join announcement.
type UserLeftPayload struct {
	UserID ref.UserID `json:"user_id"`
}

// ChatPayload is the broadcast and history form of a chat message.
type ChatPayload struct {
	ID        string     `json:"id"`
	UserID    ref.UserID `json:"user_id"`
	UserName  string     `json:"user_name"`
	Message   string     `json:"message"`
	Timestamp int64      `json:"timestamp"`
}

// CursorPosition is the snapshot form of a cursor: position only, the
// identity fields live in the accompanying users list.
type CursorPosition struct {
	UserID ref.UserID `json:"user_id"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	NodeID string     `json:"node_id"`
}

// RoomState is the bootstrap snapshot for a newly connected client:
// enough to render the room without replaying history. ChatHistory
// carries only the most recent messages; earlier ones are reachable
// through the room's retained window, not the snapshot.
type RoomState struct {
	RoomID      ref.RoomID       `json:"room_id"`
	DocumentID  ref.DocumentID   `json:"document_id"`
	Revision    int64            `json:"revision"`
	Users       []Member         `json:"users"`
	Cursors     []CursorPosition `json:"cursors"`
	ChatHistory []ChatPayload    `json:"chat_history"`
}

// ErrorPayload reports a protocol violation to the offending client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewOperationEvent frames an accepted operation for broadcast.
func NewOperationEvent(op oplog.Operation) Envelope {
	return Envelope{
		Type: EventOperation,
		Data: OperationPayload{
			ID:        op.ID,
			Kind:      op.Kind,
			Path:      op.Path,
			Value:     op.Value,
			UserID:    op.UserID,
			Revision:  op.Revision,
			Timestamp: op.Timestamp,
		},
	}
}

// NewCursorEvent frames a cursor update for broadcast.
func NewCursorEvent(cursor CursorPayload) Envelope {
	return Envelope{Type: EventCursorUpdate, Data: cursor}
}

// NewUserJoinedEvent frames a join announcement.
func NewUserJoinedEvent(member Member) Envelope {
	return Envelope{Type: EventUserJoined, Data: member}
}

// NewUserLeftEvent frames a leave announcement.
func NewUserLeftEvent(userID ref.UserID) Envelope {
	return Envelope{Type: EventUserLeft, Data: UserLeftPayload{UserID: userID}}
}

// NewChatEvent frames a chat message for broadcast.
func NewChatEvent(message ChatPayload) Envelope {
	return Envelope{Type: EventChatMessage, Data: message}
}

// NewRoomStateEvent frames the bootstrap snapshot.
func NewRoomStateEvent(state RoomState) Envelope {
	return Envelope{Type: EventRoomState, Data: state}
}

// NewErrorEvent frames a protocol violation report.
func NewErrorEvent(message string) Envelope {
	return Envelope{Type: EventError, Data: ErrorPayload{Message: message}}
}
