package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/votestore/internal/adapter/httpserver"
	"github.com/pscheid92/votestore/internal/adapter/metrics"
	"github.com/pscheid92/votestore/internal/adapter/postgres"
	"github.com/pscheid92/votestore/internal/platform/config"
	"github.com/pscheid92/votestore/internal/platform/logging"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupStore(connector *postgres.Connector, clock clockwork.Clock) *postgres.Store {
	store := postgres.NewStore(connector, clock)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to ensure votes schema", "error", err)
		os.Exit(1)
	}

	return store
}

func databaseHealthCheck(connector *postgres.Connector) httpserver.HealthCheck {
	return httpserver.HealthCheck{
		Name: "database",
		Check: func(ctx context.Context) error {
			db, err := connector.Acquire(ctx)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	connector := postgres.NewConnector(cfg)
	store := setupStore(connector, clock)

	registry := metrics.NewRegistry()
	voteMetrics := metrics.NewVoteMetrics(registry)

	healthChecks := []httpserver.HealthCheck{databaseHealthCheck(connector)}

	srv := httpserver.NewServer(cfg, store, voteMetrics, registry, healthChecks, clock)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
