package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/platform/cachekey"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	DefaultMinConfidence    = 35.0
	defaultDashboardWorkers = 8
	finishedStatusForModel  = fixture.StatusFinished
)

type DashboardQuery struct {
	Date     cachekey.Date
	LeagueID int64
	Season   int
	// MinConfidence overrides the service default when set.
	MinConfidence *float64

	WithPredictions bool
	WithLineups     bool
	WithTeamStats   bool
	WithModel       bool
}

// FixtureCard is one fixture with whatever extras could be loaded for it.
// Errors holds a readable line per extra that failed; the card is still returned.
type FixtureCard struct {
	Fixture    fixture.Fixture
	Prediction *prediction.Prediction
	Verdict    prediction.Verdict
	Model      *prediction.Prediction
	Lineups    []lineup.Lineup
	HomeStats  *teamstats.Stats
	AwayStats  *teamstats.Stats
	Stale      bool
	Errors     []string
}

type Dashboard struct {
	Date          cachekey.Date
	MinConfidence float64
	Meta          Meta
	Unrecognized  int
	Cards         []FixtureCard
}

type DashboardConfig struct {
	MaxWorkers int
	ModelSeed  uint64
	Logger     *logging.Logger

	// MinConfidence falls back to DefaultMinConfidence when nil; 0 is a valid
	// threshold that shows every rated prediction.
	MinConfidence *float64
}

type DashboardService struct {
	data          FootballData
	maxWorkers    int
	minConfidence float64
	seed          uint64
	logger        *logging.Logger
}

func NewDashboardService(data FootballData, cfg DashboardConfig) *DashboardService {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultDashboardWorkers
	}
	minConfidence := DefaultMinConfidence
	if cfg.MinConfidence != nil {
		minConfidence = *cfg.MinConfidence
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &DashboardService{
		data:          data,
		maxWorkers:    cfg.MaxWorkers,
		minConfidence: minConfidence,
		seed:          cfg.ModelSeed,
		logger:        cfg.Logger.Named("dashboard"),
	}
}

// MinConfidence is the threshold used when a query does not set one.
func (s *DashboardService) MinConfidence() float64 {
	return s.minConfidence
}

// Get loads the fixtures of a day and decorates each one independently. Only a
// failure to load the fixture list itself is returned as an error.
func (s *DashboardService) Get(ctx context.Context, query DashboardQuery) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get",
		attribute.String("matchday.date", query.Date.String()),
		attribute.Int64("matchday.league_id", query.LeagueID),
	)
	defer span.End()

	if query.Date.IsZero() {
		return Dashboard{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	minConfidence := s.minConfidence
	if query.MinConfidence != nil {
		if *query.MinConfidence < 0 || *query.MinConfidence > 100 {
			return Dashboard{}, fmt.Errorf("%w: min confidence must be within [0, 100]", ErrInvalidInput)
		}
		minConfidence = *query.MinConfidence
	}

	fixtures, err := s.data.FixturesByDate(ctx, query.Date, query.LeagueID, query.Season)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list fixtures for dashboard: %w", err)
	}

	out := Dashboard{
		Date:          query.Date,
		MinConfidence: minConfidence,
		Meta:          fixtures.Meta,
		Unrecognized:  fixtures.Unrecognized,
		Cards:         make([]FixtureCard, len(fixtures.Items)),
	}
	for i, item := range fixtures.Items {
		out.Cards[i] = FixtureCard{Fixture: item, Stale: fixtures.Meta.Stale}
	}
	span.SetAttributes(attribute.Int("matchday.fixtures", len(out.Cards)))
	if len(out.Cards) == 0 || !query.decorates() {
		return out, nil
	}

	pool, err := ants.NewPool(min(s.maxWorkers, len(out.Cards)))
	if err != nil {
		return Dashboard{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range out.Cards {
		card := &out.Cards[i]
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			s.decorate(ctx, query, minConfidence, card)
		}); err != nil {
			workers.Done()
			s.logger.WarnContext(ctx, "dashboard task rejected", "fixture_id", card.Fixture.ID, "error", err)
			card.Errors = append(card.Errors, "details skipped: worker pool unavailable")
		}
	}
	workers.Wait()

	return out, nil
}

func (q DashboardQuery) decorates() bool {
	return q.WithPredictions || q.WithLineups || q.WithTeamStats || q.WithModel
}

func (s *DashboardService) decorate(ctx context.Context, query DashboardQuery, minConfidence float64, card *FixtureCard) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.decorate",
		attribute.Int64("matchday.fixture_id", card.Fixture.ID),
	)
	defer span.End()

	if query.WithPredictions {
		s.attachPrediction(ctx, minConfidence, card)
	}
	if query.WithLineups {
		s.attachLineups(ctx, card)
	}
	if query.WithTeamStats {
		s.attachTeamStats(ctx, query, card)
	}
	if query.WithModel {
		s.attachModel(ctx, query, card)
	}
}

func (s *DashboardService) attachPrediction(ctx context.Context, minConfidence float64, card *FixtureCard) {
	result, err := s.data.Predictions(ctx, card.Fixture.ID)
	if err != nil {
		card.Errors = append(card.Errors, describeFailure("prediction", err))
		return
	}
	card.Stale = card.Stale || result.Meta.Stale

	item, ok := result.First()
	if !ok {
		card.Errors = append(card.Errors, "prediction: none published for this fixture")
		return
	}
	card.Prediction = &item
	card.Verdict = item.Evaluate(minConfidence)
}

func (s *DashboardService) attachLineups(ctx context.Context, card *FixtureCard) {
	result, err := s.data.Lineups(ctx, card.Fixture.ID)
	if err != nil {
		card.Errors = append(card.Errors, describeFailure("lineups", err))
		return
	}
	card.Stale = card.Stale || result.Meta.Stale
	card.Lineups = result.Items
}

func (s *DashboardService) attachTeamStats(ctx context.Context, query DashboardQuery, card *FixtureCard) {
	leagueID, season := scopeOf(card.Fixture, query)
	if leagueID <= 0 || season <= 0 {
		card.Errors = append(card.Errors, "team statistics: league and season unknown for this fixture")
		return
	}

	var (
		home, away       Result[teamstats.Stats]
		homeErr, awayErr error
		wg               conc.WaitGroup
	)
	wg.Go(func() { home, homeErr = s.data.TeamStats(ctx, card.Fixture.HomeTeamID, leagueID, season) })
	wg.Go(func() { away, awayErr = s.data.TeamStats(ctx, card.Fixture.AwayTeamID, leagueID, season) })
	wg.Wait()

	if homeErr != nil {
		card.Errors = append(card.Errors, describeFailure("home team statistics", homeErr))
	} else if item, ok := home.First(); ok {
		card.HomeStats = &item
		card.Stale = card.Stale || home.Meta.Stale
	}
	if awayErr != nil {
		card.Errors = append(card.Errors, describeFailure("away team statistics", awayErr))
	} else if item, ok := away.First(); ok {
		card.AwayStats = &item
		card.Stale = card.Stale || away.Meta.Stale
	}
}

func (s *DashboardService) attachModel(ctx context.Context, query DashboardQuery, card *FixtureCard) {
	_, season := scopeOf(card.Fixture, query)
	if season <= 0 {
		card.Errors = append(card.Errors, "model estimate: season unknown for this fixture")
		return
	}

	var (
		home, away       Result[fixture.Fixture]
		homeErr, awayErr error
		wg               conc.WaitGroup
	)
	wg.Go(func() {
		home, homeErr = s.data.TeamFixtures(ctx, card.Fixture.HomeTeamID, season, finishedStatusForModel)
	})
	wg.Go(func() {
		away, awayErr = s.data.TeamFixtures(ctx, card.Fixture.AwayTeamID, season, finishedStatusForModel)
	})
	wg.Wait()

	if err := errors.Join(homeErr, awayErr); err != nil {
		card.Errors = append(card.Errors, describeFailure("model estimate", err))
		return
	}
	card.Stale = card.Stale || home.Meta.Stale || away.Meta.Stale

	estimate := prediction.Heuristic(prediction.HeuristicInput{
		FixtureID:   card.Fixture.ID,
		HomeTeamID:  card.Fixture.HomeTeamID,
		AwayTeamID:  card.Fixture.AwayTeamID,
		HomeHistory: home.Items,
		AwayHistory: away.Items,
	}, s.seed)
	card.Model = &estimate
}

func scopeOf(item fixture.Fixture, query DashboardQuery) (int64, int) {
	leagueID, season := item.LeagueID, item.Season
	if leagueID <= 0 {
		leagueID = query.LeagueID
	}
	if season <= 0 {
		season = query.Season
	}
	return leagueID, season
}

func describeFailure(what string, err error) string {
	if errors.Is(err, ErrDependencyUnavailable) {
		return what + ": provider unreachable and nothing cached"
	}
	return fmt.Sprintf("%s: %v", what, err)
}
