package lineup

type Player struct {
	ID       int64
	Name     string
	Number   int
	Position string
}

// Lineup is one team's announced line-up for a fixture.
type Lineup struct {
	FixtureID   int64
	TeamID      int64
	TeamName    string
	Formation   string
	Coach       string
	Starters    []Player
	Substitutes []Player
}
