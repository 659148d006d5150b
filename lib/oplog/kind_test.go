// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package oplog_test

import (
	"encoding/json"
	"testing"

	"github.com/draftroom-io/draftroom/lib/oplog"
)

func TestKindRoundTrip(t *testing.T) {
	kinds := []oplog.Kind{
		oplog.KindInsert,
		oplog.KindDelete,
		oplog.KindUpdate,
		oplog.KindMove,
		oplog.KindConnect,
		oplog.KindDisconnect,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			parsed, err := oplog.ParseKind(kind.String())
			if err != nil {
				t.Fatalf("ParseKind(%q): %v", kind.String(), err)
			}
			if parsed != kind {
				t.Errorf("ParseKind(%q) = %v, want %v", kind.String(), parsed, kind)
			}
		})
	}
}

func TestKindWireNames(t *testing.T) {
	tests := []struct {
		kind oplog.Kind
		want string
	}{
		{oplog.KindInsert, "insert"},
		{oplog.KindDelete, "delete"},
		{oplog.KindUpdate, "update"},
		{oplog.KindMove, "move"},
		{oplog.KindConnect, "connect"},
		{oplog.KindDisconnect, "disconnect"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseKindUnknown(t *testing.T) {
	for _, name := range []string{"", "INSERT", "replace", "insert "} {
		if _, err := oplog.ParseKind(name); err == nil {
			t.Errorf("ParseKind(%q): expected error", name)
		}
	}
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(oplog.KindUpdate)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if got, want := string(data), `"update"`; got != want {
		t.Errorf("marshaled = %s, want %s", got, want)
	}

	var kind oplog.Kind
	if err := json.Unmarshal([]byte(`"move"`), &kind); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if kind != oplog.KindMove {
		t.Errorf("unmarshaled = %v, want %v", kind, oplog.KindMove)
	}

	if err := json.Unmarshal([]byte(`"teleport"`), &kind); err == nil {
		t.Error("expected error unmarshaling unknown kind")
	}
}

func TestKindZeroValueRejected(t *testing.T) {
	var zero oplog.Kind
	if _, err := zero.MarshalText(); err == nil {
		t.Error("expected error marshaling zero-value kind")
	}
}
