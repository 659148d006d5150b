// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// Draftroom service.
//
// Configuration is loaded from a single file specified by either the
// DRAFTROOM_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search. This ensures
// deterministic, auditable configuration with no hidden overrides.
//
// Durations are written as Go duration strings ("300s", "1h") and
// validated by [Config.Validate]; an unset duration is zero, which
// downstream components replace with their built-in defaults.
//
// Key exports:
//
//   - [Config] -- master struct with Listen, Log, Rooms
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Draftroom packages.
package config
