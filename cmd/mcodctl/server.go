package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/config"
	"github.com/otwartedane/mcod/pkg/db"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/endpoints"
)

const shutdownTimeout = 30 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the portal API server",
	Long: `Run the portal API server.

To run the server requires the environment variables MCOD_JWT_SECRET and
DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.
The harvest scheduler is started together with the server unless
harvester_enabled is false. SIGHUP re-reads the harvested data sources.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fail("Failed to load configuration", err)
		}
		if err := cfg.Validate(); err != nil {
			fail("Invalid configuration", err)
		}

		// Validate required environment variables first (fail fast)
		secret := cfg.JWTSecret()
		if secret == "" {
			fail("Missing secret", errors.New("MCOD_JWT_SECRET environment variable is required"))
		}
		if db.URL() == "" {
			fail("Missing database", errors.New("DATABASE_URL environment variable is required"))
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			fmt.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fail("Migration failed", err)
			}
		}

		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			fail("Unable to create logger", err)
		}
		defer func() { _ = logger.Sync() }()
		audit.SetErrorLogger(logger)

		database, err := db.Connect(db.Config{})
		if err != nil {
			fail("Unable to connect to DB", err)
		}

		tokens, err := auth.NewTokenIssuer([]byte(secret), cfg.TokenTTL())
		if err != nil {
			fail("Unable to create token issuer", err)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, database, tokens, logger, host, port)
		endpoints.RegisterAll(s)

		if err := serve(s, host, port); err != nil {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}

// serve runs s until SIGINT or SIGTERM, then drains active requests
func serve(s *server.Server, host, port string) error {
	ctx, stop := signalContext()
	defer stop()

	if s.Config.HarvesterEnabled {
		if err := s.Harvester.Start(ctx); err != nil {
			return fmt.Errorf("starting harvest scheduler: %w", err)
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				reload(ctx, s)
			case <-ctx.Done():
				return
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("running server", zap.String("address", fmt.Sprintf("http://%s:%s", host, port)))
		errc <- s.Start()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// reload re-reads the harvested data sources. Other settings only
// change on restart.
func reload(ctx context.Context, s *server.Server) {
	if !s.Config.HarvesterEnabled {
		s.Logger.Info("harvester disabled, nothing to reload")
		return
	}
	if err := s.Harvester.Sync(ctx); err != nil {
		s.Logger.Error("syncing harvest schedule failed", zap.Error(err))
		return
	}
	s.Logger.Info("harvest schedule reloaded", zap.Int("sources", len(s.Harvester.Entries())))
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
