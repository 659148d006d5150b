// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/draftroom-io/draftroom/lib/clock"
	"github.com/draftroom-io/draftroom/lib/ref"
)

const (
	// DefaultSweepInterval is how often the janitor scans for idle
	// rooms when no interval is configured.
	DefaultSweepInterval = 300 * time.Second

	// DefaultMaxRoomIdle is the idle threshold past which a room is
	// evicted when none is configured.
	DefaultMaxRoomIdle = 3600 * time.Second
)

// Manager owns the room registry for one hosting process. It creates
// rooms lazily per document, tracks which room each user currently
// occupies, and enforces that a user is in at most one room at a
// time. Construct one Manager at startup and inject it into every
// connection handler; there is no package-level instance.
type Manager struct {
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	rooms     map[ref.RoomID]*Room
	userRooms map[ref.UserID]ref.RoomID
}

// NewManager creates an empty registry.
func NewManager(clk clock.Clock, logger *slog.Logger) *Manager {
	if clk == nil {
		panic("collab.NewManager: clock is required")
	}
	if logger == nil {
		panic("collab.NewManager: logger is required")
	}
	return &Manager{
		clock:     clk,
		logger:    logger,
		rooms:     make(map[ref.RoomID]*Room),
		userRooms: make(map[ref.UserID]ref.RoomID),
	}
}

// RoomFor returns the room hosting the given document, creating it on
// first use. Concurrent callers for the same document converge on the
// same instance.
func (m *Manager) RoomFor(document ref.DocumentID) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomForLocked(document)
}

func (m *Manager) roomForLocked(document ref.DocumentID) *Room {
	roomID := ref.RoomIDForDocument(document)
	if room, exists := m.rooms[roomID]; exists {
		return room
	}
	room := NewRoom(document, m.clock, m.logger)
	m.rooms[roomID] = room
	m.logger.Info("room created", "room_id", roomID, "document_id", document)
	return room
}

// Join places the user in the room for the given document and returns
// the room together with the user's client. If the user is currently
// in a different room, that room is left first, so a user occupies at
// most one room at any time. If the user is already in this room, the
// existing client is returned; callers rewire its transport hooks,
// which makes a reconnect on the same document seamless.
func (m *Manager) Join(document ref.DocumentID, userID ref.UserID, userName string) (*Room, *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.roomForLocked(document)

	if previousID, tracked := m.userRooms[userID]; tracked && previousID != room.id {
		if previous, exists := m.rooms[previousID]; exists {
			previous.Leave(userID)
		}
	}

	if existing, ok := room.member(userID); ok {
		m.userRooms[userID] = room.id
		return room, existing
	}

	client := NewClient(userID, userName, room)
	room.Join(client)
	m.userRooms[userID] = room.id
	m.logger.Info("user joined room",
		"room_id", room.id,
		"user_id", userID,
		"user_name", userName,
		"user_color", client.color,
	)
	return room, client
}

// Leave removes the user from their current room and clears the
// tracking entry. Unknown users are a no-op.
func (m *Manager) Leave(userID ref.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, tracked := m.userRooms[userID]
	if !tracked {
		return
	}
	if room, exists := m.rooms[roomID]; exists {
		room.Leave(userID)
	}
	delete(m.userRooms, userID)
	m.logger.Info("user left room", "room_id", roomID, "user_id", userID)
}

// GetRoom looks a room up by its identifier.
func (m *Manager) GetRoom(roomID ref.RoomID) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, exists := m.rooms[roomID]
	return room, exists
}

// ListRooms returns a summary of every live room, sorted by room ID.
func (m *Manager) ListRooms() []RoomSummary {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mu.Unlock()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].RoomID.String() < summaries[j].RoomID.String()
	})
	return summaries
}

// EvictIdle removes every room whose last activity is older than
// maxIdle: each member is forcibly left, its tracking entry cleared,
// and its transport closed, then the room is dropped from the
// registry. Member transports that misbehave during disconnect cannot
// abort the sweep. Returns the number of rooms evicted.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	evicted := 0
	for roomID, room := range m.rooms {
		idle := now.Sub(room.LastActivity())
		if idle <= maxIdle {
			continue
		}
		members := room.memberClients()
		for _, client := range members {
			room.Leave(client.userID)
			delete(m.userRooms, client.userID)
			client.Close()
		}
		delete(m.rooms, roomID)
		evicted++
		m.logger.Info("evicted idle room",
			"room_id", roomID,
			"document_id", room.document,
			"idle", idle,
			"members_disconnected", len(members),
		)
	}
	return evicted
}

// RunJanitor periodically evicts idle rooms until the context is
// cancelled. Non-positive durations fall back to the defaults.
func (m *Manager) RunJanitor(ctx context.Context, sweepInterval, maxIdle time.Duration) {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	if maxIdle <= 0 {
		maxIdle = DefaultMaxRoomIdle
	}

	m.logger.Info("janitor started", "sweep_interval", sweepInterval, "max_room_idle", maxIdle)
	ticker := m.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := m.EvictIdle(maxIdle); evicted > 0 {
				m.logger.Info("janitor sweep complete", "evicted", evicted)
			}
		case <-ctx.Done():
			m.logger.Info("janitor stopped")
			return
		}
	}
}
