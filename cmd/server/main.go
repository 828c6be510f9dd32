// Package main is the entry point for the assignment server.
//
// main stays minimal: read configuration, build the logger, hand both to
// internal/server and block until shutdown. Users are provisioned with
// cmd/admin; the server never creates accounts.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/assignment-hub/internal/config"
	"github.com/sakif/assignment-hub/internal/logging"
	"github.com/sakif/assignment-hub/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		slog.Error("invalid logging configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if cfg.SecretGenerated {
		logger.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		closeLog()
		os.Exit(1)
	}
}
