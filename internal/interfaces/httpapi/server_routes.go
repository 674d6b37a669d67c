package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday/internal/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Metrics) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
}

func registerFootballRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/predictions", handler.ListPredictions)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/lineups", handler.ListLineups)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/teams/{teamID}/statistics", handler.GetTeamStatistics)
	mux.HandleFunc("GET /v1/teams/{teamID}/fixtures", handler.ListTeamFixtures)
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
}
