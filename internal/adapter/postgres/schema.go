package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	apperrors "github.com/pscheid92/votestore/internal/platform/errors"
)

// createVotesTable is the authoritative schema contract for the votes
// relation. Column set and constraints must not drift; external consumers
// depend on this exact shape.
const createVotesTable = `
	CREATE TABLE IF NOT EXISTS votes (
		id SERIAL PRIMARY KEY,
		user_query TEXT,
		bot_response TEXT,
		evaluation_json TEXT,
		vote TEXT CHECK (vote IN ('yes', 'no')),
		comment TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// EnsureSchema creates the votes relation if it does not exist. It is
// idempotent: running it against an initialized database changes nothing.
// Any partially-applied change is rolled back, and the connection is released
// on every exit path.
func (s *Store) EnsureSchema(ctx context.Context) error {
	slog.Info("Initializing votes schema")

	db, err := s.connector.Acquire(ctx)
	if err != nil {
		return apperrors.SchemaError("failed to acquire connection for schema initialization", err)
	}
	defer closeQuietly(db)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.SchemaError("failed to begin schema transaction", err)
	}

	if _, err := tx.ExecContext(ctx, createVotesTable); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Failed to roll back schema transaction", "error", rbErr)
		}
		return apperrors.SchemaError("failed to create votes table", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.SchemaError("failed to commit schema transaction", err)
	}

	slog.Info("Votes schema initialized")
	verifySchema(ctx, db)
	return nil
}

// verifySchema runs a read-only diagnostic pass after initialization. Its
// failures are logged and never surfaced; the creation step already succeeded.
func verifySchema(ctx context.Context, db *sql.DB) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'votes')
	`).Scan(&exists)
	if err != nil {
		slog.Warn("Schema verification query failed", "error", err)
		return
	}
	slog.Info("Votes table exists", "exists", exists)

	if !exists {
		return
	}

	var rowCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&rowCount); err != nil {
		slog.Warn("Schema row count query failed", "error", err)
		return
	}
	slog.Info("Votes table row count", "rows", rowCount)
}
