// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// DocumentID is a validated workflow document identifier. Like UserID
// it is opaque: the engine never interprets the value, it only keys
// rooms by it and derives the room identifier from it.
//
// DocumentID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type DocumentID struct {
	id string
}

// ParseDocumentID validates and wraps a raw document identifier string.
func ParseDocumentID(raw string) (DocumentID, error) {
	if err := validateIdentifier(raw, "document ID"); err != nil {
		return DocumentID{}, err
	}
	return DocumentID{id: raw}, nil
}

// String returns the raw identifier string.
func (d DocumentID) String() string { return d.id }

// IsZero reports whether the DocumentID is the zero value.
func (d DocumentID) IsZero() bool { return d.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (d DocumentID) MarshalText() ([]byte, error) {
	return []byte(d.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// identifier; an empty input produces the zero value (unset document).
func (d *DocumentID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = DocumentID{}
		return nil
	}
	parsed, err := ParseDocumentID(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
