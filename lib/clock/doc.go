// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code
// injects Real(); tests inject Fake() and drive time explicitly with
// Advance, so activity tracking and the idle-room janitor can be
// tested without real sleeps.
package clock
