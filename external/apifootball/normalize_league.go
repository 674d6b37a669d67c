package apifootball

import "github.com/riskibarqy/matchday/internal/domain/league"

// api-sports: {league:{id,name,type,logo}, country:{name}, seasons:[{year,current}]}
func decodeLeagueV1(rec map[string]any) (league.League, bool) {
	inner := getMap(rec, "league")
	id := getInt64(inner, "id")
	if inner == nil || id <= 0 {
		return league.League{}, false
	}

	out := league.League{
		ID:      id,
		Name:    getString(inner, "name"),
		Type:    getString(inner, "type"),
		LogoURL: getString(inner, "logo"),
		Country: getString(getMap(rec, "country"), "name"),
	}
	for _, raw := range getSlice(rec, "seasons") {
		season := asMap(raw)
		if current, _ := season["current"].(bool); current {
			out.Season = getInt(season, "year")
		}
	}
	return out, true
}

// football-data: {id, name, type, emblem, area:{name}, currentSeason:{startDate}}
func decodeLeagueV2(rec map[string]any) (league.League, bool) {
	id := getInt64(rec, "id")
	if id <= 0 || getString(rec, "name") == "" {
		return league.League{}, false
	}
	return league.League{
		ID:      id,
		Name:    getString(rec, "name"),
		Type:    getString(rec, "type"),
		LogoURL: firstNonEmpty(getString(rec, "emblem"), getString(rec, "emblemUrl")),
		Country: getString(getMap(rec, "area"), "name"),
		Season:  seasonYear(rec["currentSeason"]),
	}, true
}

// NormalizeLeagues returns the leagues in payload and the number of records
// that matched no known shape.
func NormalizeLeagues(payload []byte) ([]league.League, int) {
	records, _, ok := decodeRecords(payload)
	if !ok {
		return nil, 1
	}
	return decodeEach(records, decodeLeagueV1, decodeLeagueV2)
}
