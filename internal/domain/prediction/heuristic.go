package prediction

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

const (
	formWindow    = 5
	homeAdvantage = 0.08
	noiseStdDev   = 0.03
)

// HeuristicInput carries the recent fixtures of both teams. Fixtures that are
// not finished are ignored.
type HeuristicInput struct {
	FixtureID   int64
	HomeTeamID  int64
	AwayTeamID  int64
	HomeHistory []fixture.Fixture
	AwayHistory []fixture.Fixture
}

// Features are the engineered inputs of the heuristic, each roughly in [-1,1].
type Features struct {
	FormDiff       float64
	GoalDiffDiff   float64
	HeadToHead     float64
	HomeAdvantage  float64
	SampleSizeHome int
	SampleSizeAway int
}

// Extract builds the feature vector for in.
func Extract(in HeuristicInput) Features {
	homeRecent := recentFinished(in.HomeHistory, in.HomeTeamID)
	awayRecent := recentFinished(in.AwayHistory, in.AwayTeamID)

	return Features{
		FormDiff:       form(homeRecent, in.HomeTeamID) - form(awayRecent, in.AwayTeamID),
		GoalDiffDiff:   (goalDiff(homeRecent, in.HomeTeamID) - goalDiff(awayRecent, in.AwayTeamID)) / 2,
		HeadToHead:     headToHead(in.HomeHistory, in.HomeTeamID, in.AwayTeamID),
		HomeAdvantage:  homeAdvantage,
		SampleSizeHome: len(homeRecent),
		SampleSizeAway: len(awayRecent),
	}
}

// Heuristic scores a fixture from recent form. The same seed and input always
// produce the same prediction.
func Heuristic(in HeuristicInput, seed uint64) Prediction {
	f := Extract(in)

	strength := 0.45*f.FormDiff + 0.35*f.GoalDiffDiff + 0.2*f.HeadToHead + f.HomeAdvantage
	rng := rand.New(rand.NewPCG(seed, uint64(in.FixtureID)))
	strength += rng.NormFloat64() * noiseStdDev

	draw := clamp(0.3-0.12*math.Abs(strength), 0.15, 0.3)
	homeShare := 1 / (1 + math.Exp(-4*strength))
	home := (1 - draw) * homeShare
	away := 1 - draw - home

	p := Prediction{
		FixtureID: in.FixtureID,
		Source:    SourceHeuristic,
		Probabilities: Probabilities{
			Home: percent(home),
			Draw: percent(draw),
			Away: percent(away),
		},
	}

	switch {
	case home >= away && home >= draw:
		p.WinnerTeamID = in.HomeTeamID
		p.WinnerLabel = "home"
	case away >= home && away >= draw:
		p.WinnerTeamID = in.AwayTeamID
		p.WinnerLabel = "away"
	default:
		p.WinnerLabel = "draw"
	}
	if f.SampleSizeHome == 0 || f.SampleSizeAway == 0 {
		p.WinnerComment = "limited history"
	}
	return p
}

func recentFinished(history []fixture.Fixture, teamID int64) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(history))
	for _, fx := range history {
		if _, _, ok := fx.GoalsFor(teamID); ok {
			out = append(out, fx)
		}
	}
	slices.SortStableFunc(out, func(a, b fixture.Fixture) int {
		return cmp.Compare(b.Kickoff.At.UnixNano(), a.Kickoff.At.UnixNano())
	})
	if len(out) > formWindow {
		out = out[:formWindow]
	}
	return out
}

// form is points per game scaled to [0,1]; 0.5 without history.
func form(recent []fixture.Fixture, teamID int64) float64 {
	if len(recent) == 0 {
		return 0.5
	}
	points := 0
	for _, fx := range recent {
		scored, conceded, _ := fx.GoalsFor(teamID)
		switch {
		case scored > conceded:
			points += 3
		case scored == conceded:
			points++
		}
	}
	return float64(points) / float64(3*len(recent))
}

// goalDiff is the mean goal difference per game clamped to [-1,1].
func goalDiff(recent []fixture.Fixture, teamID int64) float64 {
	if len(recent) == 0 {
		return 0
	}
	total := 0
	for _, fx := range recent {
		scored, conceded, _ := fx.GoalsFor(teamID)
		total += scored - conceded
	}
	return clamp(float64(total)/float64(len(recent))/3, -1, 1)
}

func headToHead(history []fixture.Fixture, teamID, opponentID int64) float64 {
	var played, points int
	for _, fx := range history {
		if fx.HomeTeamID != opponentID && fx.AwayTeamID != opponentID {
			continue
		}
		scored, conceded, ok := fx.GoalsFor(teamID)
		if !ok {
			continue
		}
		played++
		switch {
		case scored > conceded:
			points += 3
		case scored == conceded:
			points++
		}
	}
	if played == 0 {
		return 0
	}
	return float64(points)/float64(3*played)*2 - 1
}

func percent(v float64) *float64 {
	p := math.Round(v*1000) / 10
	return &p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
