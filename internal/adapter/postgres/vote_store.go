package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/votestore/internal/domain"
	apperrors "github.com/pscheid92/votestore/internal/platform/errors"
)

// voteColumns must match the Scan order in scanVote.
const voteColumns = `id, user_query, bot_response, evaluation_json, vote, comment, timestamp`

// dateLayout is the only accepted form for fetch date bounds.
const dateLayout = "2006-01-02"

// statisticsWindowDays is the trailing window for the votes-per-day breakdown.
const statisticsWindowDays = 30

// Store persists and aggregates votes. Each public operation acquires its own
// connection through the Connector and releases it unconditionally; any
// serialization between concurrent calls is the database's concern.
type Store struct {
	connector *Connector
	clock     clockwork.Clock
}

// NewStore creates a Store on top of the given connector. The clock anchors
// the statistics window and is injectable for tests.
func NewStore(connector *Connector, clock clockwork.Clock) *Store {
	return &Store{connector: connector, clock: clock}
}

// Record inserts exactly one vote. The vote value is validated before any
// connection is opened; the timestamp is assigned by the database's
// insertion-time default. An insertion failure is rolled back and surfaced as
// a write error.
func (s *Store) Record(ctx context.Context, userQuery, botResponse, evaluationJSON string, vote domain.Value, comment string) error {
	slog.Info("Attempting to record vote", "vote", string(vote))

	if !vote.Valid() {
		slog.Error("Invalid vote value", "vote", string(vote))
		return apperrors.ValidationError("vote must be 'yes' or 'no'").WithField("vote", string(vote))
	}

	db, err := s.connector.Acquire(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.WriteError("failed to begin vote transaction", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (user_query, bot_response, evaluation_json, vote, comment)
		VALUES ($1, $2, $3, $4, $5)
	`, userQuery, botResponse, evaluationJSON, string(vote), comment)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Failed to roll back vote transaction", "error", rbErr)
		}
		return apperrors.WriteError("failed to insert vote", err).WithField("vote", string(vote))
	}

	if err := tx.Commit(); err != nil {
		return apperrors.WriteError("failed to commit vote", err).WithField("vote", string(vote))
	}

	// Diagnostic only; the insert is already committed and a failure here
	// must not invalidate it.
	var countForValue int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE vote = $1`, string(vote)).Scan(&countForValue); err != nil {
		slog.Warn("Post-insert count check failed", "vote", string(vote), "error", err)
	} else {
		slog.Info("Vote recorded", "vote", string(vote), "total_for_value", countForValue)
	}

	return nil
}

// Fetch returns votes matching the query, most recent first. The read path is
// best-effort: any failure is logged and degrades to an empty slice, never an
// error.
func (s *Store) Fetch(ctx context.Context, q domain.FetchQuery) []domain.Vote {
	db, err := s.connector.Acquire(ctx)
	if err != nil {
		slog.Error("Failed to acquire connection for fetch", "error", err)
		return []domain.Vote{}
	}
	defer closeQuietly(db)

	query, args := buildFetchQuery(q)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("Failed to execute fetch query", "error", err)
		return []domain.Vote{}
	}
	defer rows.Close()

	votes := make([]domain.Vote, 0)
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			slog.Error("Failed to scan vote row", "error", err)
			return []domain.Vote{}
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		slog.Error("Failed while iterating vote rows", "error", err)
		return []domain.Vote{}
	}

	slog.Info("Fetched votes", "count", len(votes))
	return votes
}

func scanVote(rows *sql.Rows) (domain.Vote, error) {
	var (
		vote                                            domain.Vote
		userQuery, botResponse, evalJSON, value, remark sql.NullString
	)
	err := rows.Scan(&vote.ID, &userQuery, &botResponse, &evalJSON, &value, &remark, &vote.Timestamp)
	if err != nil {
		return domain.Vote{}, err
	}

	vote.UserQuery = userQuery.String
	vote.BotResponse = botResponse.String
	vote.EvaluationJSON = evalJSON.String
	vote.Vote = domain.Value(value.String)
	vote.Comment = remark.String
	return vote, nil
}

// buildFetchQuery composes the filtered, ordered, optionally paginated SELECT.
// All filter values are bound parameters. An unparseable date bound is logged
// and dropped rather than raised; the offset only applies when a limit is set.
func buildFetchQuery(q domain.FetchQuery) (string, []any) {
	var conditions []string
	var args []any

	if q.Vote != "" {
		args = append(args, q.Vote)
		conditions = append(conditions, fmt.Sprintf("vote = $%d", len(args)))
	}

	if q.StartDate != "" {
		if _, err := time.Parse(dateLayout, q.StartDate); err != nil {
			slog.Error("Invalid start_date format, dropping bound", "start_date", q.StartDate, "error", err)
		} else {
			args = append(args, q.StartDate)
			conditions = append(conditions, fmt.Sprintf("DATE(timestamp) >= $%d", len(args)))
		}
	}

	if q.EndDate != "" {
		if _, err := time.Parse(dateLayout, q.EndDate); err != nil {
			slog.Error("Invalid end_date format, dropping bound", "end_date", q.EndDate, "error", err)
		} else {
			args = append(args, q.EndDate)
			conditions = append(conditions, fmt.Sprintf("DATE(timestamp) <= $%d", len(args)))
		}
	}

	query := "SELECT " + voteColumns + " FROM votes"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	if q.Limit != nil {
		args = append(args, *q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

// Statistics aggregates all recorded votes. Like the fetch path it never
// fails toward the caller: any error degrades to the zero-valued shape.
func (s *Store) Statistics(ctx context.Context) domain.Statistics {
	db, err := s.connector.Acquire(ctx)
	if err != nil {
		slog.Error("Failed to acquire connection for statistics", "error", err)
		return domain.EmptyStatistics()
	}
	defer closeQuietly(db)

	var total, yes, no, withComments int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&total); err != nil {
		slog.Error("Statistics total count failed", "error", err)
		return domain.EmptyStatistics()
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE vote = 'yes'`).Scan(&yes); err != nil {
		slog.Error("Statistics yes count failed", "error", err)
		return domain.EmptyStatistics()
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE vote = 'no'`).Scan(&no); err != nil {
		slog.Error("Statistics no count failed", "error", err)
		return domain.EmptyStatistics()
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE comment != ''`).Scan(&withComments); err != nil {
		slog.Error("Statistics comment count failed", "error", err)
		return domain.EmptyStatistics()
	}

	perDay, err := s.votesPerDay(ctx, db)
	if err != nil {
		slog.Error("Statistics per-day query failed", "error", err)
		return domain.EmptyStatistics()
	}

	slog.Info("Vote statistics retrieved", "total_votes", total)
	return domain.NewStatistics(total, yes, no, withComments, perDay)
}

// votesPerDay groups votes by calendar date over the trailing window, oldest
// date first. Days without votes are absent from the map.
func (s *Store) votesPerDay(ctx context.Context, db *sql.DB) (map[string]int, error) {
	windowStart := s.clock.Now().UTC().AddDate(0, 0, -statisticsWindowDays).Format(dateLayout)

	rows, err := db.QueryContext(ctx, `
		SELECT DATE(timestamp) AS day, COUNT(*) AS count
		FROM votes
		WHERE DATE(timestamp) >= $1
		GROUP BY day
		ORDER BY day
	`, windowStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perDay := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		perDay[day.Format(dateLayout)] = count
	}
	return perDay, rows.Err()
}
