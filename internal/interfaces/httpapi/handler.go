package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/platform/cachekey"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type Handler struct {
	data      usecase.FootballData
	dashboard *usecase.DashboardService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(data usecase.FootballData, dashboard *usecase.DashboardService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		data:      data,
		dashboard: dashboard,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	q := newQueryReader(r)
	req := leaguesQuery{Season: q.Int("season")}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.data.Leagues(ctx, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, leagueToDTO))
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	q := newQueryReader(r)
	req := fixturesQuery{
		Date:     q.String("date"),
		LeagueID: q.Int64("league"),
		Season:   q.Int("season"),
	}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.data.FixturesByDate(ctx, date, req.LeagueID, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "date", req.Date, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, fixtureToDTO))
}

func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPredictions")
	defer span.End()

	q := newQueryReader(r)
	req := fixtureQuery{
		FixtureID:     q.PathInt64("fixtureID"),
		MinConfidence: q.OptionalFloat("min_confidence"),
	}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	minConfidence := h.dashboard.MinConfidence()
	if req.MinConfidence != nil {
		minConfidence = *req.MinConfidence
	}

	result, err := h.data.Predictions(ctx, req.FixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, func(p prediction.Prediction) predictionDTO {
		return predictionToDTO(p, minConfidence)
	}))
}

func (h *Handler) ListLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineups")
	defer span.End()

	q := newQueryReader(r)
	req := fixtureQuery{FixtureID: q.PathInt64("fixtureID")}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.data.Lineups(ctx, req.FixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "list lineups failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, lineupToDTO))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	q := newQueryReader(r)
	req := standingsQuery{
		LeagueID: q.Int64("league"),
		Season:   q.Int("season"),
	}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.data.Standings(ctx, req.LeagueID, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", req.LeagueID, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, standingToDTO))
}

func (h *Handler) GetTeamStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStatistics")
	defer span.End()

	q := newQueryReader(r)
	req := teamStatsQuery{
		TeamID:   q.PathInt64("teamID"),
		LeagueID: q.Int64("league"),
		Season:   q.Int("season"),
	}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.data.TeamStats(ctx, req.TeamID, req.LeagueID, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "get team statistics failed", "team_id", req.TeamID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, teamStatsToDTO))
}

func (h *Handler) ListTeamFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamFixtures")
	defer span.End()

	q := newQueryReader(r)
	req := teamFixturesQuery{
		TeamID: q.PathInt64("teamID"),
		Season: q.Int("season"),
		Status: q.String("status"),
	}
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.data.TeamFixtures(ctx, req.TeamID, req.Season, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "list team fixtures failed", "team_id", req.TeamID, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, result.Meta, result.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, toList(result, fixtureToDTO))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	q := newQueryReader(r)
	req := dashboardQuery{
		fixturesQuery: fixturesQuery{
			Date:     q.String("date"),
			LeagueID: q.Int64("league"),
			Season:   q.Int("season"),
		},
		MinConfidence: q.OptionalFloat("min_confidence"),
	}
	withPredictions := q.Bool("predictions", true)
	withLineups := q.Bool("lineups", false)
	withTeamStats := q.Bool("team_stats", false)
	withModel := q.Bool("model", false)
	if err := h.validateQuery(ctx, q, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dashboard, err := h.dashboard.Get(ctx, usecase.DashboardQuery{
		Date:            date,
		LeagueID:        req.LeagueID,
		Season:          req.Season,
		MinConfidence:   req.MinConfidence,
		WithPredictions: withPredictions,
		WithLineups:     withLineups,
		WithTeamStats:   withTeamStats,
		WithModel:       withModel,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "date", req.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	annotateMeta(span, dashboard.Meta, dashboard.Unrecognized)
	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}

func (h *Handler) validateQuery(ctx context.Context, q *queryReader, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateQuery")
	defer span.End()

	if err := q.Err(); err != nil {
		return err
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseDate(value string) (cachekey.Date, error) {
	date, err := cachekey.ParseDate(value)
	if err != nil {
		return cachekey.Date{}, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	return date, nil
}
