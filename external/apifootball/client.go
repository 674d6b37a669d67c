// Package apifootball reads football data from api-sports (API-Football v3)
// and football-data.org style payloads. Every successful response is cached;
// when the provider fails, the last cached payload is served instead.
package apifootball

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/cachekey"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

// Fetch outcomes reported to the Recorder.
const (
	OutcomeNetwork    = "network"
	OutcomeCacheFresh = "cache_fresh"
	OutcomeCacheStale = "cache_stale"
	OutcomeFailed     = "failed"
)

type Recorder interface {
	ObserveFetch(resource, outcome string)
	ObserveUpstreamLatency(resource string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, string) {}
func (nopRecorder) ObserveUpstreamLatency(string, time.Duration, error) {}

// TTLConfig sets how long a cached payload counts as fresh, per resource. It
// only decides Meta.Stale on fallback; it never suppresses a network fetch.
type TTLConfig struct {
	Leagues      time.Duration
	Fixtures     time.Duration
	Predictions  time.Duration
	Standings    time.Duration
	TeamStats    time.Duration
	Lineups      time.Duration
	TeamFixtures time.Duration
}

func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Leagues:      24 * time.Hour,
		Fixtures:     time.Hour,
		Predictions:  time.Hour,
		Standings:    time.Hour,
		TeamStats:    time.Hour,
		Lineups:      time.Hour,
		TeamFixtures: 6 * time.Hour,
	}
}

func (c TTLConfig) withDefaults() TTLConfig {
	d := DefaultTTLConfig()
	for _, pair := range []struct {
		dst *time.Duration
		def time.Duration
	}{
		{&c.Leagues, d.Leagues},
		{&c.Fixtures, d.Fixtures},
		{&c.Predictions, d.Predictions},
		{&c.Standings, d.Standings},
		{&c.TeamStats, d.TeamStats},
		{&c.Lineups, d.Lineups},
		{&c.TeamFixtures, d.TeamFixtures},
	} {
		if *pair.dst <= 0 {
			*pair.dst = pair.def
		}
	}
	return c
}

type resource struct {
	name string
	path string
	ttl  time.Duration
}

type ClientConfig struct {
	Fetcher  Fetcher
	Store    *cache.Store
	Logger   *logging.Logger
	TTL      TTLConfig
	Recorder Recorder
}

type Client struct {
	fetcher  Fetcher
	store    *cache.Store
	logger   *logging.Logger
	recorder Recorder
	flight   resilience.SingleFlight[[]byte]
	now      func() time.Time

	leagues      resource
	fixtures     resource
	predictions  resource
	standings    resource
	teamStats    resource
	lineups      resource
	teamFixtures resource
}

var _ usecase.FootballData = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	store := cfg.Store
	if store == nil {
		store = cache.NewStore(cache.NewMemoryBackend(), cache.StoreOptions{Logger: logger})
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	ttl := cfg.TTL.withDefaults()

	return &Client{
		fetcher:  cfg.Fetcher,
		store:    store,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,

		leagues:      resource{name: "leagues", path: "/leagues", ttl: ttl.Leagues},
		fixtures:     resource{name: "fixtures", path: "/fixtures", ttl: ttl.Fixtures},
		predictions:  resource{name: "predictions", path: "/predictions", ttl: ttl.Predictions},
		standings:    resource{name: "standings", path: "/standings", ttl: ttl.Standings},
		teamStats:    resource{name: "team_statistics", path: "/teams/statistics", ttl: ttl.TeamStats},
		lineups:      resource{name: "lineups", path: "/fixtures/lineups", ttl: ttl.Lineups},
		teamFixtures: resource{name: "team_fixtures", path: "/fixtures", ttl: ttl.TeamFixtures},
	}
}

func (c *Client) Leagues(ctx context.Context, season int) (usecase.Result[league.League], error) {
	if season < 0 {
		return usecase.Result[league.League]{}, invalidInput("season must not be negative")
	}
	params := []cachekey.Param{cachekey.OptionalInt("season", int64(season))}
	return fetchResource(ctx, c, c.leagues, params, NormalizeLeagues)
}

func (c *Client) FixturesByDate(ctx context.Context, date cachekey.Date, leagueID int64, season int) (usecase.Result[fixture.Fixture], error) {
	switch {
	case date.IsZero():
		return usecase.Result[fixture.Fixture]{}, invalidInput("date is required")
	case leagueID < 0:
		return usecase.Result[fixture.Fixture]{}, invalidInput("league id must not be negative")
	case season < 0:
		return usecase.Result[fixture.Fixture]{}, invalidInput("season must not be negative")
	}
	params := []cachekey.Param{
		cachekey.P("date", date),
		cachekey.OptionalInt("league", leagueID),
		cachekey.OptionalInt("season", int64(season)),
	}
	return fetchResource(ctx, c, c.fixtures, params, NormalizeFixtures)
}

func (c *Client) Predictions(ctx context.Context, fixtureID int64) (usecase.Result[prediction.Prediction], error) {
	if fixtureID <= 0 {
		return usecase.Result[prediction.Prediction]{}, invalidInput("fixture id must be greater than zero")
	}
	params := []cachekey.Param{cachekey.P("fixture", fixtureID)}
	return fetchResource(ctx, c, c.predictions, params, func(payload []byte) ([]prediction.Prediction, int) {
		return NormalizePredictions(payload, fixtureID)
	})
}

func (c *Client) Standings(ctx context.Context, leagueID int64, season int) (usecase.Result[standing.Standing], error) {
	switch {
	case leagueID <= 0:
		return usecase.Result[standing.Standing]{}, invalidInput("league id must be greater than zero")
	case season <= 0:
		return usecase.Result[standing.Standing]{}, invalidInput("season must be greater than zero")
	}
	params := []cachekey.Param{
		cachekey.P("league", leagueID),
		cachekey.P("season", season),
	}
	return fetchResource(ctx, c, c.standings, params, NormalizeStandings)
}

func (c *Client) TeamStats(ctx context.Context, teamID, leagueID int64, season int) (usecase.Result[teamstats.Stats], error) {
	switch {
	case teamID <= 0:
		return usecase.Result[teamstats.Stats]{}, invalidInput("team id must be greater than zero")
	case leagueID < 0:
		return usecase.Result[teamstats.Stats]{}, invalidInput("league id must not be negative")
	case season < 0:
		return usecase.Result[teamstats.Stats]{}, invalidInput("season must not be negative")
	}
	params := []cachekey.Param{
		cachekey.P("team", teamID),
		cachekey.OptionalInt("league", leagueID),
		cachekey.OptionalInt("season", int64(season)),
	}
	return fetchResource(ctx, c, c.teamStats, params, NormalizeTeamStats)
}

func (c *Client) Lineups(ctx context.Context, fixtureID int64) (usecase.Result[lineup.Lineup], error) {
	if fixtureID <= 0 {
		return usecase.Result[lineup.Lineup]{}, invalidInput("fixture id must be greater than zero")
	}
	params := []cachekey.Param{cachekey.P("fixture", fixtureID)}
	return fetchResource(ctx, c, c.lineups, params, func(payload []byte) ([]lineup.Lineup, int) {
		return NormalizeLineups(payload, fixtureID)
	})
}

func (c *Client) TeamFixtures(ctx context.Context, teamID int64, season int, status string) (usecase.Result[fixture.Fixture], error) {
	switch {
	case teamID <= 0:
		return usecase.Result[fixture.Fixture]{}, invalidInput("team id must be greater than zero")
	case season < 0:
		return usecase.Result[fixture.Fixture]{}, invalidInput("season must not be negative")
	}
	params := []cachekey.Param{
		cachekey.P("team", teamID),
		cachekey.OptionalInt("season", int64(season)),
		cachekey.OptionalString("status", status),
	}
	return fetchResource(ctx, c, c.teamFixtures, params, NormalizeFixtures)
}

func fetchResource[T any](
	ctx context.Context,
	c *Client,
	res resource,
	params []cachekey.Param,
	normalize func([]byte) ([]T, int),
) (usecase.Result[T], error) {
	ctx, span := startSpan(ctx, "apifootball."+res.name)
	defer span.End()

	key := cachekey.Build(res.name, params...)
	payload, meta, err := c.load(ctx, res, key, params)
	if err != nil {
		return usecase.Result[T]{}, err
	}

	items, gaps := normalize(payload)
	if gaps > 0 {
		c.logger.DebugContext(ctx, "unrecognized records skipped",
			"resource", res.name,
			"key", key,
			"count", gaps,
		)
	}

	return usecase.Result[T]{
		Items:        items,
		Meta:         meta,
		Unrecognized: gaps,
	}, nil
}

// load fetches from the network and stores the payload; on any fetch error it
// serves the cached payload, flagged stale once it is older than the TTL.
func (c *Client) load(ctx context.Context, res resource, key string, params []cachekey.Param) ([]byte, usecase.Meta, error) {
	if c.fetcher == nil {
		return nil, usecase.Meta{}, fmt.Errorf("football api fetcher is not configured")
	}

	// Waiters on the same key share this fetch, so it must outlive the caller
	// that happened to start it. The fetcher's own timeout still bounds it.
	sharedCtx := context.WithoutCancel(ctx)
	payload, fetchErr, _ := c.flight.Do(key, func() ([]byte, error) {
		start := c.now()
		raw, err := c.fetcher.Fetch(sharedCtx, res.path, params)
		c.recorder.ObserveUpstreamLatency(res.name, c.now().Sub(start), err)
		if err != nil {
			return nil, err
		}
		c.store.Put(sharedCtx, key, raw)
		return raw, nil
	})
	if fetchErr == nil {
		c.recorder.ObserveFetch(res.name, OutcomeNetwork)
		return payload, usecase.Meta{Source: usecase.SourceNetwork, StoredAt: c.now()}, nil
	}

	entry, fresh, ok := c.store.Lookup(ctx, key, res.ttl)
	if !ok {
		c.recorder.ObserveFetch(res.name, OutcomeFailed)
		c.logger.ErrorContext(ctx, "football api fetch failed without cache fallback",
			"resource", res.name,
			"key", key,
			"error", fetchErr,
		)
		return nil, usecase.Meta{}, &FetchFailed{Resource: res.name, Key: key, Cause: fetchErr}
	}

	stale := !fresh
	outcome := OutcomeCacheFresh
	if stale {
		outcome = OutcomeCacheStale
	}
	c.recorder.ObserveFetch(res.name, outcome)
	c.logger.WarnContext(ctx, "serving cached football data after fetch failure",
		"resource", res.name,
		"key", key,
		"stale", stale,
		"stored_at", entry.StoredAt,
		"error", fetchErr,
	)

	return entry.Payload, usecase.Meta{
		Source:        usecase.SourceCache,
		StoredAt:      entry.StoredAt,
		Stale:         stale,
		FallbackCause: fetchErr.Error(),
	}, nil
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", usecase.ErrInvalidInput, msg)
}
