// Package postgres implements the vote storage engine on PostgreSQL: the
// connection provider, the schema manager, and the vote store.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pscheid92/votestore/internal/platform/config"
	apperrors "github.com/pscheid92/votestore/internal/platform/errors"
)

// descriptorLogPrefixLen bounds how much of the connection descriptor reaches
// the logs. The full string carries credentials and must never be logged.
const descriptorLogPrefixLen = 25

// Connector resolves the configured connection descriptor into a live
// database handle. Every operation acquires its own handle and closes it on
// every exit path; no long-lived pool is kept.
type Connector struct {
	databaseURL string
}

// NewConnector creates a Connector from explicit configuration.
func NewConnector(cfg *config.Config) *Connector {
	return &Connector{databaseURL: cfg.DatabaseURL}
}

// Acquire opens and pings a fresh connection handle. It fails with a
// configuration error when no descriptor is configured and with a connection
// error when the transport cannot be established.
func (c *Connector) Acquire(ctx context.Context) (*sql.DB, error) {
	if c.databaseURL == "" {
		slog.Error("Database connection URL not configured")
		return nil, apperrors.ConfigurationError("database connection URL not found")
	}

	databaseURL := normalizeScheme(c.databaseURL)
	databaseURL = requireEncryptedTransport(databaseURL)

	slog.Info("Connecting to database", "url_prefix", truncateDescriptor(databaseURL))

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		slog.Error("Failed to open database connection", "error", err)
		return nil, apperrors.ConnectionError("failed to open database connection", err)
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		slog.Error("Failed to reach database", "error", err)
		return nil, apperrors.ConnectionError("failed to reach database", err)
	}

	return db, nil
}

// normalizeScheme rewrites the legacy postgres:// scheme token to the
// canonical postgresql:// form, first occurrence only.
func normalizeScheme(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") {
		slog.Info("Converting postgres:// URL to postgresql:// format")
		return strings.Replace(databaseURL, "postgres://", "postgresql://", 1)
	}
	return databaseURL
}

// requireEncryptedTransport appends sslmode=require when the descriptor does
// not choose an sslmode itself. Explicit plaintext opt-outs are rejected by
// the configuration layer in production, not here.
func requireEncryptedTransport(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	if u.Query().Get("sslmode") != "" {
		return databaseURL
	}

	if strings.Contains(databaseURL, "?") {
		return databaseURL + "&sslmode=require"
	}
	return databaseURL + "?sslmode=require"
}

func truncateDescriptor(databaseURL string) string {
	if len(databaseURL) <= descriptorLogPrefixLen {
		return databaseURL
	}
	return databaseURL[:descriptorLogPrefixLen] + "..."
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("Failed to close database connection", "error", err)
	}
}
