// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

// draftroom-service hosts the Draftroom collaboration engine: a
// websocket endpoint where editor clients join per-document rooms and
// exchange operations, cursors, and chat, plus a small read-only HTTP
// API for inspecting live rooms.
//
// Configuration comes from a YAML file (see lib/config) named by
// --config or the DRAFTROOM_CONFIG environment variable; individual
// flags override file values. An optional .env file in the working
// directory is loaded first and can supply DRAFTROOM_* variables
// during development.
//
// On startup:
//  1. Resolves configuration (flags over file over defaults).
//  2. Installs the structured logger (text or JSON per config).
//  3. Starts the room janitor, which evicts idle rooms on a timer.
//  4. Serves HTTP until SIGINT/SIGTERM, then drains gracefully.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/draftroom-io/draftroom/lib/clock"
	"github.com/draftroom-io/draftroom/lib/collab"
	"github.com/draftroom-io/draftroom/lib/config"
	"github.com/draftroom-io/draftroom/lib/process"
	"github.com/draftroom-io/draftroom/lib/service"
	"github.com/draftroom-io/draftroom/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath string
		listen     string
		logLevel   string
		logFormat  string
	)

	flagSet := pflag.NewFlagSet("draftroom-service", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to draftroom.yaml (default: $DRAFTROOM_CONFIG)")
	flagSet.StringVar(&listen, "listen", "", "listen address override (host:port)")
	flagSet.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flagSet.StringVar(&logFormat, "log-format", "", "log format override (text, json)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match the other
	// Draftroom binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("draftroom-service")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// An optional .env file can supply DRAFTROOM_* variables during
	// development. A missing file is not an error.
	_ = godotenv.Load()

	cfg, err := resolveConfig(configPath, listen, logLevel, logFormat)
	if err != nil {
		return err
	}

	level, err := cfg.Log.ParseLevel()
	if err != nil {
		return err
	}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	sweepInterval, err := cfg.Rooms.ParseSweepInterval()
	if err != nil {
		return err
	}
	maxRoomIdle, err := cfg.Rooms.ParseMaxRoomIdle()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := collab.NewManager(clock.Real(), logger)

	// Start the idle-room janitor.
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		manager.RunJanitor(ctx, sweepInterval, maxRoomIdle)
	}()

	// Start the HTTP server hosting the websocket endpoint and the
	// inspection API.
	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.Listen,
		Handler: newRouter(manager, logger),
		Logger:  logger,
	})

	httpDone := make(chan error, 1)
	go func() {
		httpDone <- httpServer.Serve(ctx)
	}()

	select {
	case <-httpServer.Ready():
		logger.Info("draftroom service ready",
			"address", httpServer.Addr().String(),
			"version", version.Short(),
		)
	case <-ctx.Done():
		return ctx.Err()
	}

	// Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	// Wait for the server and janitor to drain.
	if err := <-httpDone; err != nil {
		logger.Error("http server error", "error", err)
	}
	<-janitorDone

	return nil
}

// resolveConfig loads the configuration for this invocation: an
// explicit --config path wins, then DRAFTROOM_CONFIG, then built-in
// defaults. Non-empty flag overrides are applied before validation.
func resolveConfig(configPath, listen, logLevel, logFormat string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case configPath != "":
		cfg, err = config.LoadFile(configPath)
	case os.Getenv("DRAFTROOM_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if listen != "" {
		cfg.Listen = listen
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Draftroom collaboration service.

Hosts per-document collaboration rooms over websockets. Clients
connect to /ws/{document_id} with user_id and user_name query
parameters, receive a room_state snapshot, and then exchange
operation, cursor_update, and chat_message frames with the room.

Configuration is read from the YAML file named by --config or the
DRAFTROOM_CONFIG environment variable; flags override file values.
Without either, built-in defaults serve on 127.0.0.1:8787.

Usage:
  draftroom-service [flags]

Examples:
  # Serve with built-in defaults
  draftroom-service

  # Serve a specific config with debug logging
  draftroom-service --config /etc/draftroom/draftroom.yaml --log-level debug

  # Override the listen address
  draftroom-service --listen 0.0.0.0:9000

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
