// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package collab

// palette is the fixed set of member colors. Clients claim the first
// entry not already in use in their room; a ninth concurrent member
// falls back to the first entry and shares it. The values are part of
// the protocol surface: clients render remote cursors and chat
// authors in these colors without further negotiation.
var palette = [...]string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#FFA07A",
	"#98D8C8",
	"#F7DC6F",
	"#BB8FCE",
	"#85C1E2",
}
