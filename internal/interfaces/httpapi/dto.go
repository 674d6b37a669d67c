package httpapi

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type metaDTO struct {
	Source        string `json:"source"`
	Stale         bool   `json:"stale"`
	StoredAt      string `json:"storedAt,omitempty"`
	FallbackCause string `json:"fallbackCause,omitempty"`
	Unrecognized  int    `json:"unrecognized"`
}

type listDTO[D any] struct {
	Items []D     `json:"items"`
	Meta  metaDTO `json:"meta"`
}

type leagueDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Type    string `json:"type,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
	Season  int    `json:"season,omitempty"`
}

type fixtureSideDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Goals *int   `json:"goals"`
}

type fixtureDTO struct {
	ID         int64          `json:"id"`
	KickoffAt  *string        `json:"kickoffAt"`
	Home       fixtureSideDTO `json:"home"`
	Away       fixtureSideDTO `json:"away"`
	LeagueID   int64          `json:"leagueId,omitempty"`
	LeagueName string         `json:"leagueName,omitempty"`
	Season     int            `json:"season,omitempty"`
	Round      string         `json:"round,omitempty"`
	Status     string         `json:"status,omitempty"`
	Venue      string         `json:"venue,omitempty"`
}

type probabilitiesDTO struct {
	Home *float64 `json:"home"`
	Draw *float64 `json:"draw"`
	Away *float64 `json:"away"`
}

type predictionDTO struct {
	FixtureID     int64            `json:"fixtureId"`
	Source        string           `json:"source"`
	WinnerTeamID  int64            `json:"winnerTeamId,omitempty"`
	WinnerLabel   string           `json:"winnerLabel,omitempty"`
	WinnerComment string           `json:"winnerComment,omitempty"`
	Advice        string           `json:"advice,omitempty"`
	Probabilities probabilitiesDTO `json:"probabilities"`
	Confidence    *float64         `json:"confidence"`
	Verdict       string           `json:"verdict"`
}

type standingDTO struct {
	LeagueID       int64  `json:"leagueId"`
	Season         int    `json:"season"`
	Group          string `json:"group,omitempty"`
	Rank           int    `json:"rank"`
	TeamID         int64  `json:"teamId"`
	TeamName       string `json:"teamName"`
	Points         int    `json:"points"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Form           string `json:"form,omitempty"`
	Description    string `json:"description,omitempty"`
}

type splitDTO struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

type teamStatsDTO struct {
	TeamID        int64    `json:"teamId"`
	TeamName      string   `json:"teamName"`
	LeagueID      int64    `json:"leagueId"`
	Season        int      `json:"season"`
	Form          string   `json:"form,omitempty"`
	Played        splitDTO `json:"played"`
	Wins          splitDTO `json:"wins"`
	Draws         splitDTO `json:"draws"`
	Losses        splitDTO `json:"losses"`
	GoalsFor      int      `json:"goalsFor"`
	GoalsAgainst  int      `json:"goalsAgainst"`
	CleanSheets   int      `json:"cleanSheets"`
	FailedToScore int      `json:"failedToScore"`
}

type lineupPlayerDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
}

type lineupDTO struct {
	FixtureID   int64             `json:"fixtureId"`
	TeamID      int64             `json:"teamId"`
	TeamName    string            `json:"teamName"`
	Formation   string            `json:"formation,omitempty"`
	Coach       string            `json:"coach,omitempty"`
	Starters    []lineupPlayerDTO `json:"starters"`
	Substitutes []lineupPlayerDTO `json:"substitutes"`
}

type fixtureCardDTO struct {
	Fixture    fixtureDTO     `json:"fixture"`
	Prediction *predictionDTO `json:"prediction,omitempty"`
	Model      *predictionDTO `json:"model,omitempty"`
	Lineups    []lineupDTO    `json:"lineups,omitempty"`
	HomeStats  *teamStatsDTO  `json:"homeStats,omitempty"`
	AwayStats  *teamStatsDTO  `json:"awayStats,omitempty"`
	Stale      bool           `json:"stale"`
	Errors     []string       `json:"errors,omitempty"`
}

type dashboardDTO struct {
	Date          string           `json:"date"`
	MinConfidence float64          `json:"minConfidence"`
	Fixtures      []fixtureCardDTO `json:"fixtures"`
	Meta          metaDTO          `json:"meta"`
}

func toList[T, D any](result usecase.Result[T], convert func(T) D) listDTO[D] {
	items := make([]D, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}
	return listDTO[D]{Items: items, Meta: metaToDTO(result.Meta, result.Unrecognized)}
}

func metaToDTO(meta usecase.Meta, unrecognized int) metaDTO {
	out := metaDTO{
		Source:        string(meta.Source),
		Stale:         meta.Stale,
		FallbackCause: meta.FallbackCause,
		Unrecognized:  unrecognized,
	}
	if !meta.StoredAt.IsZero() {
		out.StoredAt = meta.StoredAt.UTC().Format(time.RFC3339)
	}
	return out
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:      v.ID,
		Name:    v.Name,
		Country: v.Country,
		Type:    v.Type,
		LogoURL: v.LogoURL,
		Season:  v.Season,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	out := fixtureDTO{
		ID:         v.ID,
		Home:       fixtureSideDTO{ID: v.HomeTeamID, Name: v.HomeTeamName, Goals: v.HomeGoals},
		Away:       fixtureSideDTO{ID: v.AwayTeamID, Name: v.AwayTeamName, Goals: v.AwayGoals},
		LeagueID:   v.LeagueID,
		LeagueName: v.LeagueName,
		Season:     v.Season,
		Round:      v.Round,
		Status:     v.Status,
		Venue:      v.Venue,
	}
	if v.Kickoff.Known {
		at := v.Kickoff.At.UTC().Format(time.RFC3339)
		out.KickoffAt = &at
	}
	return out
}

func predictionToDTO(v prediction.Prediction, minConfidence float64) predictionDTO {
	out := predictionDTO{
		FixtureID:     v.FixtureID,
		Source:        string(v.Source),
		WinnerTeamID:  v.WinnerTeamID,
		WinnerLabel:   v.WinnerLabel,
		WinnerComment: v.WinnerComment,
		Advice:        v.Advice,
		Probabilities: probabilitiesDTO{
			Home: v.Probabilities.Home,
			Draw: v.Probabilities.Draw,
			Away: v.Probabilities.Away,
		},
		Verdict: string(v.Evaluate(minConfidence)),
	}
	if confidence, ok := v.Confidence(); ok {
		out.Confidence = &confidence
	}
	return out
}

func standingToDTO(v standing.Standing) standingDTO {
	return standingDTO{
		LeagueID:       v.LeagueID,
		Season:         v.Season,
		Group:          v.Group,
		Rank:           v.Rank,
		TeamID:         v.TeamID,
		TeamName:       v.TeamName,
		Points:         v.Points,
		Played:         v.Played,
		Won:            v.Won,
		Draw:           v.Draw,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Form:           v.Form,
		Description:    v.Description,
	}
}

func splitToDTO(v teamstats.Split) splitDTO {
	return splitDTO{Home: v.Home, Away: v.Away, Total: v.Total}
}

func teamStatsToDTO(v teamstats.Stats) teamStatsDTO {
	return teamStatsDTO{
		TeamID:        v.TeamID,
		TeamName:      v.TeamName,
		LeagueID:      v.LeagueID,
		Season:        v.Season,
		Form:          v.Form,
		Played:        splitToDTO(v.Played),
		Wins:          splitToDTO(v.Wins),
		Draws:         splitToDTO(v.Draws),
		Losses:        splitToDTO(v.Losses),
		GoalsFor:      v.GoalsFor,
		GoalsAgainst:  v.GoalsAgainst,
		CleanSheets:   v.CleanSheets,
		FailedToScore: v.FailedToScore,
	}
}

func lineupPlayersToDTO(players []lineup.Player) []lineupPlayerDTO {
	out := make([]lineupPlayerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, lineupPlayerDTO{ID: p.ID, Name: p.Name, Number: p.Number, Position: p.Position})
	}
	return out
}

func lineupToDTO(v lineup.Lineup) lineupDTO {
	return lineupDTO{
		FixtureID:   v.FixtureID,
		TeamID:      v.TeamID,
		TeamName:    v.TeamName,
		Formation:   v.Formation,
		Coach:       v.Coach,
		Starters:    lineupPlayersToDTO(v.Starters),
		Substitutes: lineupPlayersToDTO(v.Substitutes),
	}
}

func dashboardToDTO(v usecase.Dashboard) dashboardDTO {
	cards := make([]fixtureCardDTO, 0, len(v.Cards))
	for _, card := range v.Cards {
		item := fixtureCardDTO{
			Fixture: fixtureToDTO(card.Fixture),
			Stale:   card.Stale,
			Errors:  card.Errors,
		}
		if card.Prediction != nil {
			p := predictionToDTO(*card.Prediction, v.MinConfidence)
			item.Prediction = &p
		}
		if card.Model != nil {
			m := predictionToDTO(*card.Model, v.MinConfidence)
			item.Model = &m
		}
		for _, l := range card.Lineups {
			item.Lineups = append(item.Lineups, lineupToDTO(l))
		}
		if card.HomeStats != nil {
			s := teamStatsToDTO(*card.HomeStats)
			item.HomeStats = &s
		}
		if card.AwayStats != nil {
			s := teamStatsToDTO(*card.AwayStats)
			item.AwayStats = &s
		}
		cards = append(cards, item)
	}

	return dashboardDTO{
		Date:          v.Date.String(),
		MinConfidence: v.MinConfidence,
		Fixtures:      cards,
		Meta:          metaToDTO(v.Meta, v.Unrecognized),
	}
}
