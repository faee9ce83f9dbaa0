package httpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/votestore/internal/adapter/metrics"
	"github.com/pscheid92/votestore/internal/domain"
	"github.com/pscheid92/votestore/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus"
)

// --- Mock implementations ---

type mockVoteStore struct {
	recordFn     func(ctx context.Context, userQuery, botResponse, evaluationJSON string, vote domain.Value, comment string) error
	fetchFn      func(ctx context.Context, q domain.FetchQuery) []domain.Vote
	statisticsFn func(ctx context.Context) domain.Statistics

	lastFetchQuery *domain.FetchQuery
}

func (m *mockVoteStore) Record(ctx context.Context, userQuery, botResponse, evaluationJSON string, vote domain.Value, comment string) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, userQuery, botResponse, evaluationJSON, vote, comment)
	}
	return errors.New("not implemented")
}

func (m *mockVoteStore) Fetch(ctx context.Context, q domain.FetchQuery) []domain.Vote {
	m.lastFetchQuery = &q
	if m.fetchFn != nil {
		return m.fetchFn(ctx, q)
	}
	return []domain.Vote{}
}

func (m *mockVoteStore) Statistics(ctx context.Context) domain.Statistics {
	if m.statisticsFn != nil {
		return m.statisticsFn(ctx)
	}
	return domain.EmptyStatistics()
}

// --- Test server helpers ---

type serverOption func(*serverOptions)

type serverOptions struct {
	healthChecks []HealthCheck
}

func withHealthChecks(checks ...HealthCheck) serverOption {
	return func(o *serverOptions) {
		o.healthChecks = checks
	}
}

func newTestServer(t *testing.T, store voteStore, opts ...serverOption) *Server {
	t.Helper()

	var options serverOptions
	for _, opt := range opts {
		opt(&options)
	}

	cfg := &config.Config{AppEnv: "test", Port: "0"}
	registry := prometheus.NewRegistry()
	voteMetrics := metrics.NewVoteMetrics(registry)

	return NewServer(cfg, store, voteMetrics, registry, options.healthChecks, clockwork.NewFakeClock())
}
