// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/draftroom-io/draftroom/lib/collab"
	"github.com/draftroom-io/draftroom/lib/ref"
	"github.com/draftroom-io/draftroom/lib/wire"
)

const (
	// sendQueueSize bounds the per-connection outbound buffer. A
	// client that cannot drain this many envelopes has its
	// deliveries marked failed until it catches up.
	sendQueueSize = 256

	// writeTimeout bounds a single websocket write.
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity is caller-supplied and unauthenticated; origin policy
	// is left to the fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket upgrades the connection and runs the collaboration
// session: the user joins the document's room, receives a room_state
// snapshot, and exchanges envelopes with the room until disconnect.
// A user has one live connection at a time; a reconnect takes over
// the user's client and the displaced connection is closed.
func handleWebsocket(manager *collab.Manager, registry *sessionRegistry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		document, err := ref.ParseDocumentID(mux.Vars(r)["document_id"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		userID, err := ref.ParseUserID(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		userName := r.URL.Query().Get("user_name")
		if userName == "" {
			userName = userID.String()
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
			return
		}

		room, client := manager.Join(document, userID, userName)
		session := newSession(conn, client, logger.With(
			"room_id", room.ID(),
			"user_id", userID,
		))
		session.run(manager, room, registry)
	}
}

// sessionRegistry tracks each user's live session. Reconnects claim
// the user's client out from under the previous connection, and a
// stale connection's teardown checks the registry before touching the
// shared client, so it cannot detach a newer session's transport.
type sessionRegistry struct {
	mu     sync.Mutex
	owners map[ref.UserID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{owners: make(map[ref.UserID]*session)}
}

// claim records s as the user's live session and wires the client's
// transport hooks under the registry lock, so concurrent claims for
// one user install hooks in claim order and the last claimant's hooks
// win. The disconnect hook goes in first so an eviction racing this
// setup still closes the connection; the snapshot enters the queue
// before the send hook, so room_state is the first envelope the
// client receives, ahead of any broadcast. Returns the displaced
// session, if any.
func (g *sessionRegistry) claim(userID ref.UserID, s *session, snapshot wire.Envelope) *session {
	g.mu.Lock()
	defer g.mu.Unlock()

	previous := g.owners[userID]
	g.owners[userID] = s

	s.client.SetCloseFunc(s.close)
	_ = s.enqueue(snapshot)
	s.client.SetSendFunc(s.enqueue)
	return previous
}

// release clears the user's registry entry if s still owns it. A
// false return means a newer session has taken over the client and
// the caller must leave it alone.
func (g *sessionRegistry) release(userID ref.UserID, s *session) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.owners[userID] != s {
		return false
	}
	delete(g.owners, userID)
	return true
}

// session pumps envelopes between one websocket connection and the
// collaboration engine. Writes go through a buffered queue serviced
// by a dedicated goroutine, so the engine's broadcasts never block on
// the network; reads run on the handler goroutine.
type session struct {
	conn   *websocket.Conn
	client *collab.Client
	logger *slog.Logger

	sendQueue chan wire.Envelope

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn *websocket.Conn, client *collab.Client, logger *slog.Logger) *session {
	return &session{
		conn:      conn,
		client:    client,
		logger:    logger,
		sendQueue: make(chan wire.Envelope, sendQueueSize),
		done:      make(chan struct{}),
	}
}

// run services the connection until the client disconnects, commits a
// protocol violation, is displaced by a reconnect, or the engine
// evicts the room.
func (s *session) run(manager *collab.Manager, room *collab.Room, registry *sessionRegistry) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	if previous := registry.claim(s.client.UserID(), s, wire.NewRoomStateEvent(room.State())); previous != nil {
		previous.close()
	}

	s.readLoop()

	// Only the client's current transport owner may detach it and
	// leave the room. A displaced session skips this: the user is
	// still present through the connection that took over.
	if registry.release(s.client.UserID(), s) {
		manager.Leave(s.client.UserID())
		s.client.SetSendFunc(nil)
	}
	s.close()
	<-writerDone
}

// enqueue is the client's send hook: a non-blocking handoff into the
// writer's queue. Broadcasts run with the room lock held, so this
// must never wait on the network.
func (s *session) enqueue(envelope wire.Envelope) error {
	select {
	case <-s.done:
		return errors.New("session closed")
	default:
	}
	select {
	case s.sendQueue <- envelope:
		return nil
	default:
		return errors.New("send queue full")
	}
}

// close signals both loops to unwind. Idempotent; also installed as
// the client's disconnect hook, invoked by the engine when an idle
// room is evicted.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// writeLoop drains the send queue onto the connection. It owns the
// connection teardown: closing the socket here unblocks the read
// loop, whichever side initiated the shutdown.
func (s *session) writeLoop() {
	defer s.conn.Close()
	for {
		select {
		case envelope := <-s.sendQueue:
			if err := s.write(envelope); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				s.close()
				return
			}
		case <-s.done:
			// Deliver what was queued before the close signal; the
			// error envelope preceding a protocol-violation close
			// rides this path.
			for {
				select {
				case envelope := <-s.sendQueue:
					if err := s.write(envelope); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *session) write(envelope wire.Envelope) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(envelope)
}

// readLoop decodes inbound envelopes and dispatches them until the
// connection drops or a protocol violation ends the session.
func (s *session) readLoop() {
	for {
		var envelope wire.Envelope
		if err := s.conn.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		if !s.dispatch(envelope) {
			return
		}
	}
}

// dispatch routes one inbound envelope to the matching client
// handler. Returns false when the session must end.
func (s *session) dispatch(envelope wire.Envelope) bool {
	payload := envelope.Payload()
	switch envelope.Type {
	case wire.EventOperation:
		if _, err := s.client.HandleOperation(payload); err != nil {
			s.logger.Warn("rejected operation", "error", err)
			_ = s.enqueue(wire.NewErrorEvent(err.Error()))
			return false
		}
	case wire.EventCursorUpdate:
		s.client.HandleCursorUpdate(payload)
	case wire.EventChatMessage:
		s.client.HandleChatMessage(payload)
	default:
		s.logger.Debug("ignoring unknown envelope type", "type", envelope.Type)
	}
	return true
}
