package fixture

import "time"

// Status short codes used by the provider.
const (
	StatusNotStarted = "NS"
	StatusFinished   = "FT"
)

// Kickoff is the scheduled start. Known is false when the provider sent no
// usable timestamp.
type Kickoff struct {
	At    time.Time
	Known bool
}

var KickoffUnknown = Kickoff{}

func KickoffAt(t time.Time) Kickoff {
	if t.IsZero() {
		return KickoffUnknown
	}
	return Kickoff{At: t.UTC(), Known: true}
}

type Fixture struct {
	ID           int64
	Kickoff      Kickoff
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	LeagueID     int64
	LeagueName   string
	Season       int
	Round        string
	Status       string
	HomeGoals    *int
	AwayGoals    *int
	Venue        string
}

// Finished reports whether both scores are known.
func (f Fixture) Finished() bool {
	return f.HomeGoals != nil && f.AwayGoals != nil
}

// GoalsFor returns goals scored and conceded by teamID in a finished fixture.
func (f Fixture) GoalsFor(teamID int64) (scored, conceded int, ok bool) {
	if !f.Finished() {
		return 0, 0, false
	}
	switch teamID {
	case f.HomeTeamID:
		return *f.HomeGoals, *f.AwayGoals, true
	case f.AwayTeamID:
		return *f.AwayGoals, *f.HomeGoals, true
	default:
		return 0, 0, false
	}
}
