// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draftroom.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	origConfig := os.Getenv("DRAFTROOM_CONFIG")
	defer os.Setenv("DRAFTROOM_CONFIG", origConfig)
	os.Unsetenv("DRAFTROOM_CONFIG")

	cfg, err := resolveConfig("", "", "", "")
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8787" {
		t.Errorf("listen = %q, want 127.0.0.1:8787", cfg.Listen)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want text", cfg.Log.Format)
	}
}

func TestResolveConfigExplicitPath(t *testing.T) {
	path := writeConfigFile(t, "listen: 0.0.0.0:9000\nlog:\n  level: debug\n")

	cfg, err := resolveConfig(path, "", "", "")
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("listen = %q, want 0.0.0.0:9000", cfg.Listen)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestResolveConfigEnvFallback(t *testing.T) {
	origConfig := os.Getenv("DRAFTROOM_CONFIG")
	defer os.Setenv("DRAFTROOM_CONFIG", origConfig)

	path := writeConfigFile(t, "listen: 10.0.0.1:7000\n")
	os.Setenv("DRAFTROOM_CONFIG", path)

	cfg, err := resolveConfig("", "", "", "")
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Listen != "10.0.0.1:7000" {
		t.Errorf("listen = %q, want 10.0.0.1:7000", cfg.Listen)
	}
}

func TestResolveConfigFlagOverrides(t *testing.T) {
	path := writeConfigFile(t, "listen: 0.0.0.0:9000\nlog:\n  level: debug\n  format: text\n")

	cfg, err := resolveConfig(path, "127.0.0.1:4444", "warn", "json")
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:4444" {
		t.Errorf("listen = %q, want the flag override 127.0.0.1:4444", cfg.Listen)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want json", cfg.Log.Format)
	}
}

func TestResolveConfigRejectsInvalidOverride(t *testing.T) {
	origConfig := os.Getenv("DRAFTROOM_CONFIG")
	defer os.Setenv("DRAFTROOM_CONFIG", origConfig)
	os.Unsetenv("DRAFTROOM_CONFIG")

	if _, err := resolveConfig("", "", "loud", ""); err == nil {
		t.Fatal("expected error for invalid log level override, got nil")
	}
}

func TestResolveConfigMissingFile(t *testing.T) {
	if _, err := resolveConfig("/nonexistent/draftroom.yaml", "", "", ""); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}
