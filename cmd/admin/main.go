// Command admin provisions accounts. The server has no sign-up endpoint:
// every professor and student is created here.
//
//	admin adduser -email E -name N -role professor|student [-password P]
//	admin seed
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/config"
	"github.com/sakif/assignment-hub/internal/logging"
	sqliteRepo "github.com/sakif/assignment-hub/internal/repository/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("creating database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		logger.Error("opening database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli := &commandLine{
		users:       db,
		assignments: db,
		passwords:   auth.NewPasswordService(),
		out:         os.Stdout,
		logger:      logger,
	}
	runErr := cli.run(os.Args)
	db.Close()

	if runErr != nil {
		if !errors.Is(runErr, errHelp) {
			fmt.Fprintln(os.Stderr, "error:", runErr)
		}
		os.Exit(1)
	}
}
