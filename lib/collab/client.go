// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/draftroom-io/draftroom/lib/oplog"
	"github.com/draftroom-io/draftroom/lib/ref"
	"github.com/draftroom-io/draftroom/lib/wire"
)

// SendFunc delivers one envelope to a client's transport. It must
// hand the envelope off without blocking on the network (enqueue into
// a per-connection writer, not a direct socket write): broadcasts run
// with the room lock held, and one stalled connection must not delay
// fan-out to the rest. Returning an error (queue full, connection
// gone) marks the delivery failed for this client only.
type SendFunc func(wire.Envelope) error

// Client binds one user's connection to a room and translates inbound
// wire payloads into room calls. The transport hooks are optional and
// settable after construction: a Client may exist, and even receive
// broadcasts, before its transport is wired; sends during that window
// are silent no-ops.
type Client struct {
	userID   ref.UserID
	userName string
	color    string
	room     *Room

	mu        sync.Mutex
	sendFunc  SendFunc
	closeFunc func()

	// sendFailures counts consecutive failed deliveries. One
	// successful delivery resets it. Read by the room when logging
	// broadcast failures, so a persistently dead connection is
	// visible in the logs with its failure streak.
	sendFailures atomic.Int64
}

// NewClient creates a client for the given user and room and claims a
// color from the palette, preferring one no current member uses. The
// client is not yet a room member; pass it to Room.Join (or use
// Manager.Join, which does both).
func NewClient(userID ref.UserID, userName string, room *Room) *Client {
	if room == nil {
		panic("collab.NewClient: room is required")
	}
	return &Client{
		userID:   userID,
		userName: userName,
		color:    room.claimColor(),
		room:     room,
	}
}

// UserID returns the user this client represents.
func (c *Client) UserID() ref.UserID { return c.userID }

// UserName returns the user's display name.
func (c *Client) UserName() string { return c.userName }

// Color returns the palette color claimed at construction.
func (c *Client) Color() string { return c.color }

// Room returns the room this client was created for.
func (c *Client) Room() *Room { return c.room }

// SetSendFunc installs (or replaces) the transport delivery hook.
// Passing nil detaches the transport; subsequent sends become no-ops.
func (c *Client) SetSendFunc(send SendFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendFunc = send
}

// SetCloseFunc installs the hook invoked when the engine forcibly
// disconnects the client (idle-room eviction). Typically closes the
// underlying connection so the session's read loop terminates.
func (c *Client) SetCloseFunc(closeFunc func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeFunc = closeFunc
}

// Send delivers one envelope through the transport hook. A missing
// hook is a silent no-op. A hook that returns an error or panics
// counts as a failed delivery; the error is returned for the caller
// (the broadcasting room) to record.
func (c *Client) Send(envelope wire.Envelope) error {
	c.mu.Lock()
	send := c.sendFunc
	c.mu.Unlock()

	if send == nil {
		return nil
	}
	if err := invokeSend(send, envelope); err != nil {
		c.sendFailures.Add(1)
		return err
	}
	c.sendFailures.Store(0)
	return nil
}

// invokeSend calls the transport hook, converting a panic into an
// error so a misbehaving transport cannot take down the broadcasting
// goroutine.
func invokeSend(send SendFunc, envelope wire.Envelope) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("send hook panicked: %v", recovered)
		}
	}()
	return send(envelope)
}

// ConsecutiveSendFailures returns the current failed-delivery streak.
func (c *Client) ConsecutiveSendFailures() int64 {
	return c.sendFailures.Load()
}

// Close invokes the disconnect hook, if any. Panics in the hook are
// swallowed: eviction must proceed past a misbehaving transport.
func (c *Client) Close() {
	c.mu.Lock()
	closeFunc := c.closeFunc
	c.mu.Unlock()

	if closeFunc == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	closeFunc()
}

// HandleOperation builds an operation from an inbound payload and
// submits it to the room. Payload fields: "id" (default: freshly
// minted), "type" (one of the six operation kinds; missing defaults
// to "update", an unrecognized tag is an error), "path", "value",
// "old_value", "revision" (the last revision the client saw, default
// 0), "timestamp" (client clock in Unix milliseconds, default: server
// now). Returns the revision-stamped operation on acceptance.
func (c *Client) HandleOperation(payload map[string]any) (oplog.Operation, error) {
	kind := oplog.KindUpdate
	if raw, present := payload["type"]; present {
		tag, ok := raw.(string)
		if !ok {
			return oplog.Operation{}, fmt.Errorf("operation type must be a string, got %T", raw)
		}
		parsed, err := oplog.ParseKind(tag)
		if err != nil {
			return oplog.Operation{}, err
		}
		kind = parsed
	}

	id := stringField(payload, "id", "")
	if id == "" {
		id = oplog.NewOperationID()
	}

	timestamp := c.room.clock.Now().UnixMilli()
	if _, present := payload["timestamp"]; present {
		timestamp = int64(numberField(payload, "timestamp", float64(timestamp)))
	}

	op := oplog.Operation{
		ID:        id,
		Kind:      kind,
		Path:      stringField(payload, "path", ""),
		Value:     payload["value"],
		OldValue:  payload["old_value"],
		Timestamp: timestamp,
		Revision:  int64(numberField(payload, "revision", 0)),
	}
	return c.room.ApplyOperation(op, c.userID), nil
}

// HandleCursorUpdate builds a cursor from an inbound payload and
// stores it in the room. Payload fields: "node_id" (default none),
// "x", "y" (default 0).
func (c *Client) HandleCursorUpdate(payload map[string]any) {
	c.room.UpdateCursor(Cursor{
		UserID:     c.userID,
		UserName:   c.userName,
		UserColor:  c.color,
		NodeID:     stringField(payload, "node_id", ""),
		X:          numberField(payload, "x", 0),
		Y:          numberField(payload, "y", 0),
		LastUpdate: c.room.clock.Now(),
	})
}

// HandleChatMessage posts the payload's "message" (default empty) to
// the room chat.
func (c *Client) HandleChatMessage(payload map[string]any) {
	c.room.AddChatMessage(c.userID, c.userName, stringField(payload, "message", ""))
}

// stringField picks a string out of a decoded payload, tolerating a
// missing key or a non-string value.
func stringField(payload map[string]any, key, fallback string) string {
	value, ok := payload[key].(string)
	if !ok {
		return fallback
	}
	return value
}

// numberField picks a number out of a decoded payload. JSON decoding
// produces float64; integer types appear when payloads are built in
// process.
func numberField(payload map[string]any, key string, fallback float64) float64 {
	switch value := payload[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return fallback
	}
}
