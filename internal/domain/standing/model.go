package standing

// Standing is one league table row.
type Standing struct {
	LeagueID       int64
	Season         int
	Group          string
	Rank           int
	TeamID         int64
	TeamName       string
	Points         int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
	Description    string
}
