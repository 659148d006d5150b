// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides HTTP server lifecycle scaffolding for the
// Draftroom service binary.
//
// [HTTPServer] manages a TCP listener: bind, readiness signaling,
// resolved-address reporting (for OS-assigned ports), and graceful
// shutdown when the serve context is cancelled. The caller provides
// the http.Handler; routing and websocket upgrades live with the
// binary, not here.
//
// The binary composes this in its own main() rather than subclassing
// a framework. The package provides a building block, not a runtime.
package service
