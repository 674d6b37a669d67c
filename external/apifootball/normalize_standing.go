package apifootball

import "github.com/riskibarqy/matchday/internal/domain/standing"

type standingScope struct {
	leagueID int64
	season   int
	group    string
}

// api-sports row: {rank, team:{id,name}, points, goalsDiff, group, form,
// description, all:{played,win,draw,lose,goals:{for,against}}}
func decodeStandingRowV1(scope standingScope, row map[string]any) (standing.Standing, bool) {
	team := getMap(row, "team")
	all := getMap(row, "all")
	rank := getInt(row, "rank")
	if team == nil || all == nil || rank <= 0 {
		return standing.Standing{}, false
	}

	goals := getMap(all, "goals")
	return standing.Standing{
		LeagueID:       scope.leagueID,
		Season:         scope.season,
		Group:          firstNonEmpty(getString(row, "group"), scope.group),
		Rank:           rank,
		TeamID:         getInt64(team, "id"),
		TeamName:       getString(team, "name"),
		Points:         getInt(row, "points"),
		Played:         getInt(all, "played"),
		Won:            getInt(all, "win"),
		Draw:           getInt(all, "draw"),
		Lost:           getInt(all, "lose"),
		GoalsFor:       getInt(goals, "for"),
		GoalsAgainst:   getInt(goals, "against"),
		GoalDifference: getInt(row, "goalsDiff"),
		Form:           getString(row, "form"),
		Description:    getString(row, "description"),
	}, true
}

// football-data row: {position, team:{id,name}, playedGames, won, draw, lost,
// points, goalsFor, goalsAgainst, goalDifference, form}
func decodeStandingRowV2(scope standingScope, row map[string]any) (standing.Standing, bool) {
	team := getMap(row, "team")
	position := getInt(row, "position")
	if _, ok := row["playedGames"]; team == nil || position <= 0 || !ok {
		return standing.Standing{}, false
	}

	return standing.Standing{
		LeagueID:       scope.leagueID,
		Season:         scope.season,
		Group:          scope.group,
		Rank:           position,
		TeamID:         getInt64(team, "id"),
		TeamName:       firstNonEmpty(getString(team, "name"), getString(team, "shortName")),
		Points:         getInt(row, "points"),
		Played:         getInt(row, "playedGames"),
		Won:            getInt(row, "won"),
		Draw:           getInt(row, "draw"),
		Lost:           getInt(row, "lost"),
		GoalsFor:       getInt(row, "goalsFor"),
		GoalsAgainst:   getInt(row, "goalsAgainst"),
		GoalDifference: getInt(row, "goalDifference"),
		Form:           getString(row, "form"),
	}, true
}

func decodeStandingRows(scope standingScope, rows []any) ([]standing.Standing, int) {
	decoders := []func(map[string]any) (standing.Standing, bool){
		func(row map[string]any) (standing.Standing, bool) { return decodeStandingRowV1(scope, row) },
		func(row map[string]any) (standing.Standing, bool) { return decodeStandingRowV2(scope, row) },
	}
	return decodeEach(rows, decoders...)
}

// NormalizeStandings flattens every table in payload into rows. Records may be
// api-sports league envelopes ({league:{standings:[[rows]]}}), football-data
// groups ({group, table:[rows]}) or bare rows.
func NormalizeStandings(payload []byte) ([]standing.Standing, int) {
	records, top, ok := decodeRecords(payload)
	if !ok {
		return nil, 1
	}

	topScope := standingScope{
		leagueID: getInt64(getMap(top, "competition"), "id"),
		season:   seasonYear(top["season"]),
	}
	if topScope.season == 0 {
		topScope.season = seasonYear(getMap(top, "filters")["season"])
	}

	var out []standing.Standing
	gaps := 0
	collect := func(scope standingScope, rows []any) {
		items, n := decodeStandingRows(scope, rows)
		out = append(out, items...)
		gaps += n
	}

	for _, raw := range records {
		rec := asMap(raw)
		if lg := getMap(rec, "league"); lg != nil && getSlice(lg, "standings") != nil {
			scope := standingScope{leagueID: getInt64(lg, "id"), season: getInt(lg, "season")}
			for _, group := range getSlice(lg, "standings") {
				if rows, ok := group.([]any); ok {
					collect(scope, rows)
					continue
				}
				collect(scope, []any{group})
			}
			continue
		}
		if table := getSlice(rec, "table"); table != nil {
			scope := topScope
			scope.group = firstNonEmpty(getString(rec, "group"), getString(rec, "stage"))
			collect(scope, table)
			continue
		}
		collect(topScope, []any{raw})
	}
	return out, gaps
}
