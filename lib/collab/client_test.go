// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package collab_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/draftroom-io/draftroom/lib/collab"
	"github.com/draftroom-io/draftroom/lib/oplog"
	"github.com/draftroom-io/draftroom/lib/wire"
)

func TestClientAccessors(t *testing.T) {
	room, _ := newTestRoom(t, "wf-accessors")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)

	if client.UserID() != userID(t, "alice") {
		t.Errorf("UserID() = %v, want alice", client.UserID())
	}
	if client.UserName() != "Alice" {
		t.Errorf("UserName() = %q, want %q", client.UserName(), "Alice")
	}
	if client.Room() != room {
		t.Error("Room() returned a different room")
	}
	if client.Color() != testPalette[0] {
		t.Errorf("Color() = %q, want %q", client.Color(), testPalette[0])
	}
}

func TestHandleOperationDefaults(t *testing.T) {
	room, _ := newTestRoom(t, "wf-op")
	alice, _ := joinMember(t, room, "alice", "Alice")

	applied, err := alice.HandleOperation(map[string]any{})
	if err != nil {
		t.Fatalf("HandleOperation: %v", err)
	}
	if applied.Kind != oplog.KindUpdate {
		t.Errorf("kind = %v, want %v", applied.Kind, oplog.KindUpdate)
	}
	if applied.ID == "" {
		t.Error("operation ID not minted")
	}
	if applied.Timestamp != epoch.UnixMilli() {
		t.Errorf("timestamp = %d, want server clock %d", applied.Timestamp, epoch.UnixMilli())
	}
	if applied.Revision != 1 {
		t.Errorf("revision = %d, want 1", applied.Revision)
	}
	if applied.UserID != alice.UserID() {
		t.Errorf("author = %v, want alice", applied.UserID)
	}
}

func TestHandleOperationHonorsPayloadFields(t *testing.T) {
	room, _ := newTestRoom(t, "wf-op2")
	alice, _ := joinMember(t, room, "alice", "Alice")

	applied, err := alice.HandleOperation(map[string]any{
		"id":        "op-77",
		"type":      "insert",
		"path":      "nodes.n9",
		"value":     map[string]any{"title": "New node"},
		"old_value": "previous",
		"timestamp": float64(12345),
		"revision":  float64(0),
	})
	if err != nil {
		t.Fatalf("HandleOperation: %v", err)
	}
	if applied.ID != "op-77" {
		t.Errorf("id = %q, want %q", applied.ID, "op-77")
	}
	if applied.Kind != oplog.KindInsert {
		t.Errorf("kind = %v, want %v", applied.Kind, oplog.KindInsert)
	}
	if applied.Path != "nodes.n9" {
		t.Errorf("path = %q, want %q", applied.Path, "nodes.n9")
	}
	if applied.Timestamp != 12345 {
		t.Errorf("timestamp = %d, want 12345", applied.Timestamp)
	}
	if applied.OldValue != "previous" {
		t.Errorf("old value = %v, want %q", applied.OldValue, "previous")
	}
	value, ok := applied.Value.(map[string]any)
	if !ok || value["title"] != "New node" {
		t.Errorf("value = %+v, want the payload map", applied.Value)
	}
}

func TestHandleOperationKindErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "unknown kind",
			payload: map[string]any{"type": "explode"},
			want:    "unknown operation kind",
		},
		{
			name:    "non-string kind",
			payload: map[string]any{"type": float64(7)},
			want:    "must be a string",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, _ := newTestRoom(t, "wf-kind")
			alice, _ := joinMember(t, room, "alice", "Alice")

			_, err := alice.HandleOperation(tt.payload)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
			if got := room.Revision(); got != 0 {
				t.Errorf("revision after rejected operation = %d, want 0", got)
			}
		})
	}
}

func TestHandleCursorUpdateDefaults(t *testing.T) {
	room, _ := newTestRoom(t, "wf-cursor-defaults")
	alice, _ := joinMember(t, room, "alice", "Alice")

	alice.HandleCursorUpdate(map[string]any{})

	cursors := room.State().Cursors
	if len(cursors) != 1 {
		t.Fatalf("cursor count = %d, want 1", len(cursors))
	}
	got := cursors[0]
	if got.UserID != alice.UserID() || got.X != 0 || got.Y != 0 || got.NodeID != "" {
		t.Errorf("cursor = %+v, want alice at the zero position", got)
	}
}

func TestHandleChatMessageDefaultsEmpty(t *testing.T) {
	room, _ := newTestRoom(t, "wf-chat-defaults")
	alice, _ := joinMember(t, room, "alice", "Alice")

	alice.HandleChatMessage(map[string]any{})

	history := room.ChatHistory()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Message != "" {
		t.Errorf("message = %q, want empty", history[0].Message)
	}
	if history[0].UserName != "Alice" {
		t.Errorf("author name = %q, want %q", history[0].UserName, "Alice")
	}
}

func TestSendWithoutTransport(t *testing.T) {
	room, _ := newTestRoom(t, "wf-send")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)

	if err := client.Send(wire.NewErrorEvent("ping")); err != nil {
		t.Fatalf("Send without transport: %v", err)
	}
	if got := client.ConsecutiveSendFailures(); got != 0 {
		t.Errorf("failure streak = %d, want 0", got)
	}
}

func TestSetSendFuncNilDetaches(t *testing.T) {
	room, _ := newTestRoom(t, "wf-detach")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)
	transport := &captureTransport{}
	client.SetSendFunc(transport.send)
	client.SetSendFunc(nil)

	if err := client.Send(wire.NewErrorEvent("ping")); err != nil {
		t.Fatalf("Send after detach: %v", err)
	}
	if got := len(transport.all()); got != 0 {
		t.Errorf("detached transport received %d envelopes, want 0", got)
	}
}

func TestSendFailureStreakResets(t *testing.T) {
	room, _ := newTestRoom(t, "wf-streak")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)
	transport := &captureTransport{}
	client.SetSendFunc(transport.send)

	transport.fail(errors.New("queue full"))
	for n := 0; n < 3; n++ {
		if err := client.Send(wire.NewErrorEvent("ping")); err == nil {
			t.Fatal("expected error, got nil")
		}
	}
	if got := client.ConsecutiveSendFailures(); got != 3 {
		t.Errorf("failure streak = %d, want 3", got)
	}

	transport.fail(nil)
	if err := client.Send(wire.NewErrorEvent("ping")); err != nil {
		t.Fatalf("Send after recovery: %v", err)
	}
	if got := client.ConsecutiveSendFailures(); got != 0 {
		t.Errorf("failure streak after recovery = %d, want 0", got)
	}
}

func TestSendPanicBecomesError(t *testing.T) {
	room, _ := newTestRoom(t, "wf-panic")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)
	client.SetSendFunc(func(wire.Envelope) error {
		panic("boom")
	})

	err := client.Send(wire.NewErrorEvent("ping"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "send hook panicked") {
		t.Errorf("error = %q, want the panic converted to an error", err)
	}
	if got := client.ConsecutiveSendFailures(); got != 1 {
		t.Errorf("failure streak = %d, want 1", got)
	}
}

func TestClose(t *testing.T) {
	room, _ := newTestRoom(t, "wf-close")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)

	// Without a hook Close is a no-op.
	client.Close()

	closed := false
	client.SetCloseFunc(func() { closed = true })
	client.Close()
	if !closed {
		t.Error("close hook not invoked")
	}
}

func TestClosePanicSwallowed(t *testing.T) {
	room, _ := newTestRoom(t, "wf-close2")
	client := collab.NewClient(userID(t, "alice"), "Alice", room)
	client.SetCloseFunc(func() { panic("boom") })
	client.Close()
}
