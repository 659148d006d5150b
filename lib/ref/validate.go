// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// maxIdentifierLength bounds user and document identifiers. Both end up
// as map keys, log fields, and wire payload values; 255 bytes is far
// beyond anything a legitimate caller mints and keeps log lines sane.
const maxIdentifierLength = 255

// validateIdentifier checks that a raw identifier is usable as an
// opaque key: non-empty, within the length bound, and free of
// whitespace and control characters. Identifiers are caller-minted
// (session tokens, database keys, UUIDs), so no structural format is
// imposed beyond that.
func validateIdentifier(raw, label string) error {
	if raw == "" {
		return fmt.Errorf("%s is empty", label)
	}
	if len(raw) > maxIdentifierLength {
		return fmt.Errorf("%s is %d bytes, maximum is %d", label, len(raw), maxIdentifierLength)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c <= ' ' || c == 0x7f {
			return fmt.Errorf("%s %q: invalid character at position %d", label, raw, i)
		}
	}
	return nil
}
