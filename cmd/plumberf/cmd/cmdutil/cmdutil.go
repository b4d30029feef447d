// Package cmdutil holds the setup shared by the plumberf commands.
package cmdutil

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"plumberf/internal/app/repository/pg"
	"plumberf/internal/app/repository/sqlite"
	"plumberf/internal/config"
	"plumberf/internal/logger"
)

// Verbose forces debug logging.
var Verbose bool

// Setup loads and validates the configuration and builds the logger.
func Setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if Verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.IsDevelopment(), level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// OpenDB opens the configured database without wrapping it in a store.
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseDriver == "sqlite3" {
		return sqlite.Open(cfg.DatabaseURL)
	}
	return pg.Open(cfg.DatabaseURL)
}
