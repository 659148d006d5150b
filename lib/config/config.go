// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the Draftroom service.
type Config struct {
	// Listen is the TCP address the HTTP server binds to.
	Listen string `yaml:"listen"`

	// Log configures the structured logger.
	Log LogConfig `yaml:"log"`

	// Rooms configures room lifecycle maintenance.
	Rooms RoomsConfig `yaml:"rooms"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is the minimum record level: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format selects the handler: text or json.
	// Default: text
	Format string `yaml:"format"`
}

// RoomsConfig configures room lifecycle maintenance.
type RoomsConfig struct {
	// SweepInterval is how often the janitor scans for idle rooms,
	// as a duration string. Default: 300s
	SweepInterval string `yaml:"sweep_interval"`

	// MaxRoomIdle is the inactivity threshold past which a room is
	// evicted, as a duration string. Default: 1h
	MaxRoomIdle string `yaml:"max_room_idle"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file, so a sparse file only
// needs the fields it changes.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:8787",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Rooms: RoomsConfig{
			SweepInterval: "300s",
			MaxRoomIdle:   "1h",
		},
	}
}

// Load loads configuration from the DRAFTROOM_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit
// path. There are no fallbacks - if DRAFTROOM_CONFIG is not set,
// this fails. This ensures deterministic, auditable configuration
// with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("DRAFTROOM_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("DRAFTROOM_CONFIG environment variable not set; " +
			"set it to the path of your draftroom.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging
// the file's values over the defaults.
//
// The config file is the single source of truth. Environment
// variables do not override config values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, fmt.Errorf("listen is required"))
	}

	if _, err := c.Log.ParseLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format))
	}

	if _, err := c.Rooms.ParseSweepInterval(); err != nil {
		errs = append(errs, fmt.Errorf("rooms.sweep_interval: %w", err))
	}
	if _, err := c.Rooms.ParseMaxRoomIdle(); err != nil {
		errs = append(errs, fmt.Errorf("rooms.max_room_idle: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ParseLevel maps the configured level name onto a slog.Level. An
// empty level means info.
func (c LogConfig) ParseLevel() (slog.Level, error) {
	switch c.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %q", c.Level)
}

// ParseSweepInterval returns the janitor sweep interval, or zero
// when unset. Downstream components replace a zero duration with
// their built-in default.
func (c RoomsConfig) ParseSweepInterval() (time.Duration, error) {
	return parseDuration(c.SweepInterval)
}

// ParseMaxRoomIdle returns the idle eviction threshold, or zero when
// unset. Downstream components replace a zero duration with their
// built-in default.
func (c RoomsConfig) ParseMaxRoomIdle() (time.Duration, error) {
	return parseDuration(c.MaxRoomIdle)
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", raw)
	}
	return d, nil
}
