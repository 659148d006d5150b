// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// UserID is a validated collaborator identifier. Draftroom trusts the
// embedding application for authentication, so the value is opaque: any
// non-empty string without whitespace or control characters is
// accepted, whether it is a UUID, a database key, or a session token.
//
// UserID is an immutable value type. The zero value is not valid; use
// IsZero to check.
type UserID struct {
	id string
}

// ParseUserID validates and wraps a raw user identifier string.
func ParseUserID(raw string) (UserID, error) {
	if err := validateIdentifier(raw, "user ID"); err != nil {
		return UserID{}, err
	}
	return UserID{id: raw}, nil
}

// String returns the raw identifier string.
func (u UserID) String() string { return u.id }

// IsZero reports whether the UserID is the zero value (uninitialized).
func (u UserID) IsZero() bool { return u.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (u UserID) MarshalText() ([]byte, error) {
	return []byte(u.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// identifier; an empty input produces the zero value (unset user).
func (u *UserID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*u = UserID{}
		return nil
	}
	parsed, err := ParseUserID(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
