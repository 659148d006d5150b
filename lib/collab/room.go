// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/draftroom-io/draftroom/lib/clock"
	"github.com/draftroom-io/draftroom/lib/oplog"
	"github.com/draftroom-io/draftroom/lib/ref"
	"github.com/draftroom-io/draftroom/lib/wire"
)

const (
	// chatHistoryLimit caps the retained chat history per room. When
	// the cap is exceeded the oldest messages are dropped.
	chatHistoryLimit = 100

	// chatSnapshotLimit is how many recent chat messages the
	// bootstrap snapshot carries.
	chatSnapshotLimit = 20
)

// Cursor is one user's ephemeral pointer position. A new update
// replaces the previous cursor wholesale; there is no field merging.
type Cursor struct {
	UserID     ref.UserID
	UserName   string
	UserColor  string
	NodeID     string
	X          float64
	Y          float64
	LastUpdate time.Time
}

// ChatMessage is one entry in a room's bounded chat history.
// Timestamp is the server clock at posting time, Unix milliseconds.
type ChatMessage struct {
	ID        string
	UserID    ref.UserID
	UserName  string
	Message   string
	Timestamp int64
}

// RoomSummary is the listing form of a room, served by the rooms API.
type RoomSummary struct {
	RoomID       ref.RoomID     `json:"room_id"`
	DocumentID   ref.DocumentID `json:"document_id"`
	MemberCount  int            `json:"member_count"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}

// Room hosts the collaboration session for one workflow document: the
// operation log, the member set, live cursors, and the chat history.
// All methods are safe for concurrent use.
type Room struct {
	id       ref.RoomID
	document ref.DocumentID
	clock    clock.Clock
	logger   *slog.Logger

	mu           sync.Mutex
	log          *oplog.Log
	members      map[ref.UserID]*Client
	cursors      map[ref.UserID]Cursor
	chat         []ChatMessage
	createdAt    time.Time
	lastActivity time.Time
}

// NewRoom creates an empty room for the given document. The room ID
// is derived from the document ID. lastActivity starts at creation
// time, so an empty room that nobody edits ages toward eviction from
// the moment it exists.
func NewRoom(document ref.DocumentID, clk clock.Clock, logger *slog.Logger) *Room {
	if clk == nil {
		panic("collab.NewRoom: clock is required")
	}
	if logger == nil {
		panic("collab.NewRoom: logger is required")
	}
	now := clk.Now()
	return &Room{
		id:           ref.RoomIDForDocument(document),
		document:     document,
		clock:        clk,
		logger:       logger,
		log:          oplog.NewLog(),
		members:      make(map[ref.UserID]*Client),
		cursors:      make(map[ref.UserID]Cursor),
		createdAt:    now,
		lastActivity: now,
	}
}

// ID returns the room identifier ("room_" + document ID).
func (r *Room) ID() ref.RoomID { return r.id }

// DocumentID returns the hosted document's identifier.
func (r *Room) DocumentID() ref.DocumentID { return r.document }

// CreatedAt returns the room's creation time.
func (r *Room) CreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createdAt
}

// LastActivity returns the time of the room's most recent operation,
// cursor update, or chat message (or creation, whichever is latest).
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// Revision returns the document's current revision.
func (r *Room) Revision() int64 {
	return r.log.Revision()
}

// IsMember reports whether the user is currently in the room.
func (r *Room) IsMember(userID ref.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[userID]
	return ok
}

// Join adds the client to the room and announces it to the other
// members. Joining is idempotent on user ID: if the user is already a
// member the room is unchanged and Join returns false.
func (r *Room) Join(client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[client.userID]; exists {
		return false
	}
	r.members[client.userID] = client
	r.broadcastLocked(wire.NewUserJoinedEvent(wire.Member{
		UserID:    client.userID,
		UserName:  client.userName,
		UserColor: client.color,
	}), client.userID)
	return true
}

// Leave removes the user's membership and cursor and announces the
// departure to the remaining members. Returns false if the user was
// not a member.
func (r *Room) Leave(userID ref.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[userID]; !exists {
		return false
	}
	delete(r.members, userID)
	delete(r.cursors, userID)
	r.broadcastLocked(wire.NewUserLeftEvent(userID), ref.UserID{})
	return true
}

// ApplyOperation accepts an operation from the given user: stamps the
// author, rebases it against every logged operation past the client's
// revision that another user authored (oldest first), appends it to
// the log, and broadcasts the accepted form to every member, the
// originator included (its confirmation). Returns the stamped
// operation.
func (r *Room) ApplyOperation(op oplog.Operation, userID ref.UserID) oplog.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()

	op.UserID = userID
	for _, existing := range r.log.Since(op.Revision) {
		if existing.UserID != userID {
			op = r.log.Transform(op, existing)
		}
	}
	applied := r.log.Apply(op)

	r.broadcastLocked(wire.NewOperationEvent(applied), ref.UserID{})
	r.lastActivity = r.clock.Now()
	return applied
}

// UpdateCursor replaces the user's cursor and broadcasts it to every
// member except the originator, who is already looking at it.
func (r *Room) UpdateCursor(cursor Cursor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cursors[cursor.UserID] = cursor
	r.broadcastLocked(wire.NewCursorEvent(wire.CursorPayload{
		UserID:    cursor.UserID,
		UserName:  cursor.UserName,
		UserColor: cursor.UserColor,
		NodeID:    cursor.NodeID,
		X:         cursor.X,
		Y:         cursor.Y,
	}), cursor.UserID)
	r.lastActivity = r.clock.Now()
}

// AddChatMessage appends a message to the room chat, trims the
// history to the retention cap, and broadcasts it to all members.
// Returns the stored message.
func (r *Room) AddChatMessage(userID ref.UserID, userName, message string) ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := ChatMessage{
		ID:        ulid.Make().String(),
		UserID:    userID,
		UserName:  userName,
		Message:   message,
		Timestamp: r.clock.Now().UnixMilli(),
	}
	r.chat = append(r.chat, entry)
	if len(r.chat) > chatHistoryLimit {
		// Copy into a fresh slice so the dropped prefix does not pin
		// the old backing array.
		trimmed := make([]ChatMessage, chatHistoryLimit)
		copy(trimmed, r.chat[len(r.chat)-chatHistoryLimit:])
		r.chat = trimmed
	}

	r.broadcastLocked(wire.NewChatEvent(chatPayload(entry)), ref.UserID{})
	r.lastActivity = r.clock.Now()
	return entry
}

// ChatHistory returns a copy of the retained chat history, oldest
// first.
func (r *Room) ChatHistory() []ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := make([]ChatMessage, len(r.chat))
	copy(history, r.chat)
	return history
}

// State captures the bootstrap snapshot for a newly connected client:
// identity, current revision, the member and cursor sets, and the
// most recent chat messages. Lists are sorted by user ID so the
// snapshot is deterministic.
func (r *Room) State() wire.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]wire.Member, 0, len(r.members))
	for _, member := range r.members {
		users = append(users, wire.Member{
			UserID:    member.userID,
			UserName:  member.userName,
			UserColor: member.color,
		})
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].UserID.String() < users[j].UserID.String()
	})

	cursors := make([]wire.CursorPosition, 0, len(r.cursors))
	for _, cursor := range r.cursors {
		cursors = append(cursors, wire.CursorPosition{
			UserID: cursor.UserID,
			X:      cursor.X,
			Y:      cursor.Y,
			NodeID: cursor.NodeID,
		})
	}
	sort.Slice(cursors, func(i, j int) bool {
		return cursors[i].UserID.String() < cursors[j].UserID.String()
	})

	chatTail := r.chat
	if len(chatTail) > chatSnapshotLimit {
		chatTail = chatTail[len(chatTail)-chatSnapshotLimit:]
	}
	history := make([]wire.ChatPayload, 0, len(chatTail))
	for _, entry := range chatTail {
		history = append(history, chatPayload(entry))
	}

	return wire.RoomState{
		RoomID:      r.id,
		DocumentID:  r.document,
		Revision:    r.log.Revision(),
		Users:       users,
		Cursors:     cursors,
		ChatHistory: history,
	}
}

// Summary returns the listing form of the room.
func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomSummary{
		RoomID:       r.id,
		DocumentID:   r.document,
		MemberCount:  len(r.members),
		CreatedAt:    r.createdAt,
		LastActivity: r.lastActivity,
	}
}

// broadcastLocked fans an envelope out to every member except the
// excluded user (a zero exclude reaches everyone). A failed delivery
// is logged and discarded: one member's dead or slow transport never
// blocks the others and never surfaces to the caller that triggered
// the broadcast. Callers must hold r.mu.
func (r *Room) broadcastLocked(envelope wire.Envelope, exclude ref.UserID) {
	for memberID, member := range r.members {
		if !exclude.IsZero() && memberID == exclude {
			continue
		}
		if err := member.Send(envelope); err != nil {
			r.logger.Warn("broadcast delivery failed",
				"room_id", r.id,
				"user_id", memberID,
				"event", envelope.Type,
				"consecutive_failures", member.ConsecutiveSendFailures(),
				"error", err,
			)
		}
	}
}

// claimColor picks a palette color no current member uses, falling
// back to the first entry when the palette is exhausted.
func (r *Room) claimColor() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	used := make(map[string]bool, len(r.members))
	for _, member := range r.members {
		used[member.color] = true
	}
	for _, color := range palette {
		if !used[color] {
			return color
		}
	}
	return palette[0]
}

// member returns the client for a user, if present.
func (r *Room) member(userID ref.UserID) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.members[userID]
	return client, ok
}

// memberClients returns a snapshot of the current member clients.
func (r *Room) memberClients() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients := make([]*Client, 0, len(r.members))
	for _, client := range r.members {
		clients = append(clients, client)
	}
	return clients
}

// chatPayload converts a stored chat message to its wire form.
func chatPayload(entry ChatMessage) wire.ChatPayload {
	return wire.ChatPayload{
		ID:        entry.ID,
		UserID:    entry.UserID,
		UserName:  entry.UserName,
		Message:   entry.Message,
		Timestamp: entry.Timestamp,
	}
}
