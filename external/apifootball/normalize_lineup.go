package apifootball

import "github.com/riskibarqy/matchday/internal/domain/lineup"

// api-sports: {team:{id,name}, formation, coach:{name},
// startXI:[{player:{id,name,number,pos}}], substitutes:[...]}
func decodeLineupV1(fixtureID int64) func(map[string]any) (lineup.Lineup, bool) {
	return func(rec map[string]any) (lineup.Lineup, bool) {
		team := getMap(rec, "team")
		if team == nil || rec["startXI"] == nil {
			return lineup.Lineup{}, false
		}
		return lineup.Lineup{
			FixtureID:   fixtureID,
			TeamID:      getInt64(team, "id"),
			TeamName:    getString(team, "name"),
			Formation:   getString(rec, "formation"),
			Coach:       getString(getMap(rec, "coach"), "name"),
			Starters:    playersV1(getSlice(rec, "startXI")),
			Substitutes: playersV1(getSlice(rec, "substitutes")),
		}, true
	}
}

func playersV1(items []any) []lineup.Player {
	out := make([]lineup.Player, 0, len(items))
	for _, raw := range items {
		p := getMap(asMap(raw), "player")
		if p == nil {
			p = asMap(raw)
		}
		if p == nil {
			continue
		}
		out = append(out, lineup.Player{
			ID:       getInt64(p, "id"),
			Name:     getString(p, "name"),
			Number:   getInt(p, "number"),
			Position: getString(p, "pos"),
		})
	}
	return out
}

// football-data team block: {id, name, formation, coach:{name},
// lineup:[{id,name,position,shirtNumber}], bench:[...]}
func decodeLineupV2(fixtureID int64) func(map[string]any) (lineup.Lineup, bool) {
	return func(team map[string]any) (lineup.Lineup, bool) {
		if getInt64(team, "id") <= 0 || team["lineup"] == nil {
			return lineup.Lineup{}, false
		}
		return lineup.Lineup{
			FixtureID:   fixtureID,
			TeamID:      getInt64(team, "id"),
			TeamName:    firstNonEmpty(getString(team, "name"), getString(team, "shortName")),
			Formation:   getString(team, "formation"),
			Coach:       getString(getMap(team, "coach"), "name"),
			Starters:    playersV2(getSlice(team, "lineup")),
			Substitutes: playersV2(getSlice(team, "bench")),
		}, true
	}
}

func playersV2(items []any) []lineup.Player {
	out := make([]lineup.Player, 0, len(items))
	for _, raw := range items {
		p := asMap(raw)
		if p == nil {
			continue
		}
		out = append(out, lineup.Player{
			ID:       getInt64(p, "id"),
			Name:     getString(p, "name"),
			Number:   getInt(p, "shirtNumber"),
			Position: getString(p, "position"),
		})
	}
	return out
}

// NormalizeLineups decodes one fixture's line-ups. football-data returns the
// match itself, whose homeTeam/awayTeam blocks carry the line-ups.
func NormalizeLineups(payload []byte, fixtureID int64) ([]lineup.Lineup, int) {
	records, _, ok := decodeRecords(payload)
	if !ok {
		return nil, 1
	}

	expanded := make([]any, 0, len(records))
	for _, raw := range records {
		rec := asMap(raw)
		if rec["homeTeam"] != nil || rec["awayTeam"] != nil {
			for _, side := range []string{"homeTeam", "awayTeam"} {
				if team := getMap(rec, side); team != nil {
					expanded = append(expanded, team)
				}
			}
			continue
		}
		expanded = append(expanded, raw)
	}
	return decodeEach(expanded, decodeLineupV1(fixtureID), decodeLineupV2(fixtureID))
}
