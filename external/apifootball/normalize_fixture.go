package apifootball

import (
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

// football-data status names mapped onto the api-sports short codes.
var v2StatusCodes = map[string]string{
	"SCHEDULED": fixture.StatusNotStarted,
	"TIMED":     fixture.StatusNotStarted,
	"IN_PLAY":   "LIVE",
	"PAUSED":    "HT",
	"FINISHED":  fixture.StatusFinished,
	"AWARDED":   "AWD",
	"POSTPONED": "PST",
	"SUSPENDED": "SUSP",
	"CANCELLED": "CANC",
}

// api-sports: {fixture:{id,date,timestamp,status:{short},venue:{name}},
// league:{id,name,season,round}, teams:{home,away}, goals:{home,away}}
func decodeFixtureV1(rec map[string]any) (fixture.Fixture, bool) {
	core := getMap(rec, "fixture")
	teams := getMap(rec, "teams")
	id := getInt64(core, "id")
	if core == nil || teams == nil || id <= 0 {
		return fixture.Fixture{}, false
	}

	home := getMap(teams, "home")
	away := getMap(teams, "away")
	lg := getMap(rec, "league")
	goals := getMap(rec, "goals")

	return fixture.Fixture{
		ID:           id,
		Kickoff:      kickoffOf(getString(core, "date"), getInt64(core, "timestamp")),
		HomeTeamID:   getInt64(home, "id"),
		HomeTeamName: getString(home, "name"),
		AwayTeamID:   getInt64(away, "id"),
		AwayTeamName: getString(away, "name"),
		LeagueID:     getInt64(lg, "id"),
		LeagueName:   getString(lg, "name"),
		Season:       getInt(lg, "season"),
		Round:        getString(lg, "round"),
		Status:       getString(getMap(core, "status"), "short"),
		HomeGoals:    getIntPtr(goals, "home"),
		AwayGoals:    getIntPtr(goals, "away"),
		Venue:        getString(getMap(core, "venue"), "name"),
	}, true
}

// football-data: {id, utcDate, status, matchday, homeTeam, awayTeam,
// competition:{id,name}, season:{startDate}, score:{fullTime:{home,away}}}
func decodeFixtureV2(rec map[string]any) (fixture.Fixture, bool) {
	id := getInt64(rec, "id")
	home := getMap(rec, "homeTeam")
	away := getMap(rec, "awayTeam")
	if id <= 0 || home == nil || away == nil {
		return fixture.Fixture{}, false
	}

	competition := getMap(rec, "competition")
	fullTime := getPath(rec, "score", "fullTime")
	homeGoals := getIntPtr(fullTime, "home")
	if homeGoals == nil {
		homeGoals = getIntPtr(fullTime, "homeTeam")
	}
	awayGoals := getIntPtr(fullTime, "away")
	if awayGoals == nil {
		awayGoals = getIntPtr(fullTime, "awayTeam")
	}

	status := strings.ToUpper(getString(rec, "status"))
	if code, ok := v2StatusCodes[status]; ok {
		status = code
	}

	round := ""
	if md := getInt(rec, "matchday"); md > 0 {
		round = "Matchday " + getString(rec, "matchday")
	}

	return fixture.Fixture{
		ID:           id,
		Kickoff:      kickoffOf(getString(rec, "utcDate"), 0),
		HomeTeamID:   getInt64(home, "id"),
		HomeTeamName: firstNonEmpty(getString(home, "name"), getString(home, "shortName")),
		AwayTeamID:   getInt64(away, "id"),
		AwayTeamName: firstNonEmpty(getString(away, "name"), getString(away, "shortName")),
		LeagueID:     getInt64(competition, "id"),
		LeagueName:   getString(competition, "name"),
		Season:       seasonYear(rec["season"]),
		Round:        round,
		Status:       status,
		HomeGoals:    homeGoals,
		AwayGoals:    awayGoals,
		Venue:        getString(rec, "venue"),
	}, true
}

// kickoffOf prefers the ISO date and falls back to a unix timestamp.
func kickoffOf(date string, unix int64) fixture.Kickoff {
	if t, ok := parseProviderTime(date); ok {
		return fixture.KickoffAt(t)
	}
	if unix > 0 {
		return fixture.KickoffAt(time.Unix(unix, 0))
	}
	return fixture.KickoffUnknown
}

func NormalizeFixtures(payload []byte) ([]fixture.Fixture, int) {
	records, _, ok := decodeRecords(payload)
	if !ok {
		return nil, 1
	}
	return decodeEach(records, decodeFixtureV1, decodeFixtureV2)
}
