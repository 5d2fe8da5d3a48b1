package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/config"
	"github.com/otwartedane/mcod/pkg/db"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/server"
)

// newApp loads the configuration, connects to the database and wires the
// services used by the administrative commands. No HTTP listener is
// created and token issuing is unavailable.
func newApp() (*server.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	audit.SetErrorLogger(logger)

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	s := server.New(cfg, server.NewStores(database), nil, logger)
	s.DB = database
	return s, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
