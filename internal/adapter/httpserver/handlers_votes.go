package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/votestore/internal/domain"
	apperrors "github.com/pscheid92/votestore/internal/platform/errors"
)

func (s *Server) registerVoteRoutes() {
	s.echo.POST("/api/votes", s.handleRecordVote)
	s.echo.GET("/api/votes", s.handleFetchVotes)
	s.echo.GET("/api/votes/statistics", s.handleVoteStatistics)
}

type recordVoteRequest struct {
	UserQuery      string `json:"user_query"`
	BotResponse    string `json:"bot_response"`
	EvaluationJSON string `json:"evaluation_json"`
	Vote           string `json:"vote"`
	Comment        string `json:"comment"`
}

func (s *Server) handleRecordVote(c echo.Context) error {
	ctx := c.Request().Context()

	var req recordVoteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	timer := s.clock.Now()
	err := s.store.Record(ctx, req.UserQuery, req.BotResponse, req.EvaluationJSON, domain.Value(req.Vote), req.Comment)
	s.metrics.StoreDuration.WithLabelValues("record").Observe(s.clock.Since(timer).Seconds())

	if err != nil {
		s.metrics.RecordFailures.WithLabelValues(string(apperrors.AsStructuredError(err).Type)).Inc()
		return err
	}

	s.metrics.VotesRecorded.WithLabelValues(req.Vote).Inc()

	response := map[string]string{
		"status":  "ok",
		"receipt": uuid.New().String(),
	}
	if err := c.JSON(http.StatusCreated, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleFetchVotes(c echo.Context) error {
	ctx := c.Request().Context()

	query, err := parseFetchQuery(c)
	if err != nil {
		return err
	}

	timer := s.clock.Now()
	votes := s.store.Fetch(ctx, query)
	s.metrics.StoreDuration.WithLabelValues("fetch").Observe(s.clock.Since(timer).Seconds())

	response := map[string]any{
		"votes": votes,
		"count": len(votes),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// parseFetchQuery maps query parameters onto a domain.FetchQuery. Only the
// pagination numbers can fail validation here; the filter values pass through
// to the store, which treats them best-effort.
func parseFetchQuery(c echo.Context) (domain.FetchQuery, error) {
	query := domain.FetchQuery{
		Vote:      c.QueryParam("vote"),
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return domain.FetchQuery{}, apperrors.ValidationError("limit must be a non-negative integer").WithField("limit", raw)
		}
		query.Limit = &limit
	}

	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return domain.FetchQuery{}, apperrors.ValidationError("offset must be a non-negative integer").WithField("offset", raw)
		}
		query.Offset = offset
	}

	return query, nil
}

func (s *Server) handleVoteStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	timer := s.clock.Now()
	stats := s.store.Statistics(ctx)
	s.metrics.StoreDuration.WithLabelValues("statistics").Observe(s.clock.Since(timer).Seconds())

	if err := c.JSON(http.StatusOK, stats); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
