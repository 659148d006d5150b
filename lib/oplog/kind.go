// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import "fmt"

// Kind identifies the graph mutation an operation performs. Kinds are
// wire constants: their text forms appear in every operation payload,
// so changing them breaks protocol compatibility.
//
// The zero value is invalid. Operations must carry one of the six
// named kinds; anything else is rejected at decode time.
type Kind uint8

const (
	// KindInsert adds a node or edge at the operation's path.
	KindInsert Kind = iota + 1

	// KindDelete removes the node or edge at the path.
	KindDelete

	// KindUpdate replaces a property value at the path.
	KindUpdate

	// KindMove repositions a node (the value carries the new
	// coordinates).
	KindMove

	// KindConnect attaches an edge between two nodes.
	KindConnect

	// KindDisconnect detaches an edge.
	KindDisconnect
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindUpdate:
		return "update"
	case KindMove:
		return "move"
	case KindConnect:
		return "connect"
	case KindDisconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseKind parses an operation kind from its wire name.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "insert":
		return KindInsert, nil
	case "delete":
		return KindDelete, nil
	case "update":
		return KindUpdate, nil
	case "move":
		return KindMove, nil
	case "connect":
		return KindConnect, nil
	case "disconnect":
		return KindDisconnect, nil
	default:
		return 0, fmt.Errorf("unknown operation kind: %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler so operations encode
// the kind as its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindInsert, KindDelete, KindUpdate, KindMove, KindConnect, KindDisconnect:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid operation kind %d", uint8(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. Rejects unknown
// kinds.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
