package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/platform/cachekey"
)

type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
)

// Meta describes where a result came from.
type Meta struct {
	Source        Source
	StoredAt      time.Time
	Stale         bool
	FallbackCause string
}

// Result is a normalized resource. Unrecognized counts records that matched no
// known response shape and were skipped.
type Result[T any] struct {
	Items        []T
	Meta         Meta
	Unrecognized int
}

// First returns the first item, if any.
func (r Result[T]) First() (T, bool) {
	var zero T
	if len(r.Items) == 0 {
		return zero, false
	}
	return r.Items[0], true
}

// FootballData is the resilient read side of the football statistics provider.
// Zero/empty optional arguments mean "not set".
type FootballData interface {
	Leagues(ctx context.Context, season int) (Result[league.League], error)
	FixturesByDate(ctx context.Context, date cachekey.Date, leagueID int64, season int) (Result[fixture.Fixture], error)
	Predictions(ctx context.Context, fixtureID int64) (Result[prediction.Prediction], error)
	Standings(ctx context.Context, leagueID int64, season int) (Result[standing.Standing], error)
	TeamStats(ctx context.Context, teamID, leagueID int64, season int) (Result[teamstats.Stats], error)
	Lineups(ctx context.Context, fixtureID int64) (Result[lineup.Lineup], error)
	TeamFixtures(ctx context.Context, teamID int64, season int, status string) (Result[fixture.Fixture], error)
}
