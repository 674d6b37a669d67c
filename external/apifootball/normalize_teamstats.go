package apifootball

import "github.com/riskibarqy/matchday/internal/domain/teamstats"

func splitOf(src map[string]any) teamstats.Split {
	return teamstats.Split{
		Home:  getInt(src, "home"),
		Away:  getInt(src, "away"),
		Total: getInt(src, "total"),
	}
}

// api-sports: {league:{id,season}, team:{id,name}, form,
// fixtures:{played,wins,draws,loses each {home,away,total}},
// goals:{for:{total:{total}}, against:{total:{total}}},
// clean_sheet:{total}, failed_to_score:{total}}
func decodeTeamStatsV1(rec map[string]any) (teamstats.Stats, bool) {
	team := getMap(rec, "team")
	fixtures := getMap(rec, "fixtures")
	if team == nil || fixtures == nil || getInt64(team, "id") <= 0 {
		return teamstats.Stats{}, false
	}

	lg := getMap(rec, "league")
	return teamstats.Stats{
		TeamID:        getInt64(team, "id"),
		TeamName:      getString(team, "name"),
		LeagueID:      getInt64(lg, "id"),
		Season:        getInt(lg, "season"),
		Form:          getString(rec, "form"),
		Played:        splitOf(getMap(fixtures, "played")),
		Wins:          splitOf(getMap(fixtures, "wins")),
		Draws:         splitOf(getMap(fixtures, "draws")),
		Losses:        splitOf(getMap(fixtures, "loses")),
		GoalsFor:      getInt(getPath(rec, "goals", "for", "total"), "total"),
		GoalsAgainst:  getInt(getPath(rec, "goals", "against", "total"), "total"),
		CleanSheets:   getInt(getMap(rec, "clean_sheet"), "total"),
		FailedToScore: getInt(getMap(rec, "failed_to_score"), "total"),
	}, true
}

// football-data has no statistics endpoint; its table row for the team is
// the closest summary: {team:{id,name}, playedGames, won, draw, lost,
// goalsFor, goalsAgainst, form}. Only totals are known.
func decodeTeamStatsV2(rec map[string]any) (teamstats.Stats, bool) {
	team := getMap(rec, "team")
	if _, ok := rec["playedGames"]; team == nil || !ok || getInt64(team, "id") <= 0 {
		return teamstats.Stats{}, false
	}
	return teamstats.Stats{
		TeamID:       getInt64(team, "id"),
		TeamName:     firstNonEmpty(getString(team, "name"), getString(team, "shortName")),
		Form:         getString(rec, "form"),
		Played:       teamstats.Split{Total: getInt(rec, "playedGames")},
		Wins:         teamstats.Split{Total: getInt(rec, "won")},
		Draws:        teamstats.Split{Total: getInt(rec, "draw")},
		Losses:       teamstats.Split{Total: getInt(rec, "lost")},
		GoalsFor:     getInt(rec, "goalsFor"),
		GoalsAgainst: getInt(rec, "goalsAgainst"),
	}, true
}

func NormalizeTeamStats(payload []byte) ([]teamstats.Stats, int) {
	records, _, ok := decodeRecords(payload)
	if !ok {
		return nil, 1
	}
	return decodeEach(records, decodeTeamStatsV1, decodeTeamStatsV2)
}
