package teamstats

// Split holds a home/away/total breakdown.
type Split struct {
	Home  int
	Away  int
	Total int
}

// Stats is a team's season summary in one league.
type Stats struct {
	TeamID        int64
	TeamName      string
	LeagueID      int64
	Season        int
	Form          string
	Played        Split
	Wins          Split
	Draws         Split
	Losses        Split
	GoalsFor      int
	GoalsAgainst  int
	CleanSheets   int
	FailedToScore int
}
