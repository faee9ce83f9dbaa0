// Package httpserver exposes the vote engine over HTTP. It is a thin adapter:
// every route maps onto exactly one store operation.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/votestore/internal/adapter/metrics"
	"github.com/pscheid92/votestore/internal/domain"
	"github.com/pscheid92/votestore/internal/platform/config"
)

// voteStore is the engine surface the HTTP layer consumes.
type voteStore interface {
	Record(ctx context.Context, userQuery, botResponse, evaluationJSON string, vote domain.Value, comment string) error
	Fetch(ctx context.Context, q domain.FetchQuery) []domain.Vote
	Statistics(ctx context.Context) domain.Statistics
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	store        voteStore
	metrics      *metrics.VoteMetrics
	registry     *prometheus.Registry
	healthChecks []HealthCheck

	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, store voteStore, voteMetrics *metrics.VoteMetrics, registry *prometheus.Registry, healthChecks []HealthCheck, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		store:        store,
		metrics:      voteMetrics,
		registry:     registry,
		healthChecks: healthChecks,
		clock:        clock,
		startTime:    clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
