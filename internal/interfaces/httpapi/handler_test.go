package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/domain/standing"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/metrics"
	usecasemock "github.com/riskibarqy/matchday/internal/mocks/usecase"
	"github.com/riskibarqy/matchday/internal/platform/cachekey"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func newTestRouter(t *testing.T) (http.Handler, *usecasemock.FootballData) {
	t.Helper()

	data := usecasemock.NewFootballData(t)
	dashboard := usecase.NewDashboardService(data, usecase.DashboardConfig{Logger: logging.NewNop()})
	handler := NewHandler(data, dashboard, logging.NewNop())
	router := NewRouter(handler, RouterConfig{
		Logger:             logging.NewNop(),
		CORSAllowedOrigins: []string{"*"},
		Metrics:            metrics.New(nil),
	})
	return router, data
}

func serve(router http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	_ = sonic.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func TestHandler_StandingsCarriesMeta(t *testing.T) {
	router, data := newTestRouter(t)
	storedAt := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	data.On("Standings", mock.Anything, int64(39), 2023).Return(usecase.Result[standing.Standing]{
		Items: []standing.Standing{{LeagueID: 39, Season: 2023, Rank: 1, TeamID: 50, TeamName: "Manchester City", Points: 91}},
		Meta: usecase.Meta{
			Source:        usecase.SourceCache,
			StoredAt:      storedAt,
			Stale:         true,
			FallbackCause: "upstream returned 500",
		},
		Unrecognized: 1,
	}, nil).Once()

	rec, body := serve(router, "/v1/standings?league=39&season=2023")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := dataOf(t, body)
	items, _ := payload["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	meta, _ := payload["meta"].(map[string]any)
	if meta["source"] != "cache" || meta["stale"] != true {
		t.Fatalf("unexpected meta: %v", meta)
	}
	if meta["storedAt"] != "2024-05-01T08:00:00Z" {
		t.Fatalf("unexpected storedAt: %v", meta["storedAt"])
	}
	if got, _ := meta["unrecognized"].(float64); got != 1 {
		t.Fatalf("expected unrecognized=1, got %v", meta["unrecognized"])
	}
}

func TestHandler_StandingsRequireLeagueAndSeason(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{
		"/v1/standings?league=39",
		"/v1/standings?season=2023",
		"/v1/standings?league=abc&season=2023",
	} {
		rec, _ := serve(router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_TeamScopeIsOptional(t *testing.T) {
	router, data := newTestRouter(t)
	data.On("TeamStats", mock.Anything, int64(33), int64(0), 0).
		Return(usecase.Result[teamstats.Stats]{Meta: usecase.Meta{Source: usecase.SourceNetwork}}, nil).Once()
	data.On("TeamFixtures", mock.Anything, int64(33), 0, "").
		Return(usecase.Result[fixture.Fixture]{Meta: usecase.Meta{Source: usecase.SourceNetwork}}, nil).Once()

	for _, target := range []string{"/v1/teams/33/statistics", "/v1/teams/33/fixtures"} {
		rec, _ := serve(router, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d: %s", target, rec.Code, rec.Body.String())
		}
	}

	for _, target := range []string{
		"/v1/teams/33/statistics?league=-1",
		"/v1/teams/33/statistics?season=1850",
		"/v1/teams/33/fixtures?season=-2023",
	} {
		rec, _ := serve(router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_FixtureDateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{"/v1/fixtures", "/v1/fixtures?date=2024-13-01", "/v1/fixtures?date=01-05-2024"} {
		rec, _ := serve(router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_FixturesUnavailable(t *testing.T) {
	router, data := newTestRouter(t)
	date := cachekey.NewDate(2024, time.May, 1)
	data.On("FixturesByDate", mock.Anything, date, int64(0), 0).
		Return(usecase.Result[fixture.Fixture]{}, fmt.Errorf("fetch fixtures: %w", usecase.ErrDependencyUnavailable)).Once()

	rec, body := serve(router, "/v1/fixtures?date=2024-05-01")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	errorObj, _ := body["error"].(map[string]any)
	if errorObj["status"] != "UNAVAILABLE" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestHandler_PredictionVerdict(t *testing.T) {
	router, data := newTestRouter(t)
	home := 45.0
	data.On("Predictions", mock.Anything, int64(77)).Return(usecase.Result[prediction.Prediction]{
		Items: []prediction.Prediction{{FixtureID: 77, Source: prediction.SourceProvider, Probabilities: prediction.Probabilities{Home: &home}}},
		Meta:  usecase.Meta{Source: usecase.SourceNetwork},
	}, nil).Twice()

	_, body := serve(router, "/v1/fixtures/77/predictions?min_confidence=50")
	items, _ := dataOf(t, body)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(items))
	}
	if got := items[0].(map[string]any)["verdict"]; got != "below_threshold" {
		t.Fatalf("expected below_threshold, got %v", got)
	}

	_, body = serve(router, "/v1/fixtures/77/predictions")
	items, _ = dataOf(t, body)["items"].([]any)
	if got := items[0].(map[string]any)["verdict"]; got != "shown" {
		t.Fatalf("expected shown with default threshold, got %v", got)
	}
}

func TestHandler_PathIDValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{"/v1/fixtures/abc/predictions", "/v1/fixtures/0/lineups", "/v1/teams/-3/statistics?league=39&season=2023"} {
		rec, _ := serve(router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_Dashboard(t *testing.T) {
	router, data := newTestRouter(t)
	date := cachekey.NewDate(2024, time.May, 1)
	data.On("FixturesByDate", mock.Anything, date, int64(39), 2023).Return(usecase.Result[fixture.Fixture]{
		Items: []fixture.Fixture{{ID: 1, HomeTeamID: 10, AwayTeamID: 20, LeagueID: 39, Season: 2023}},
		Meta:  usecase.Meta{Source: usecase.SourceNetwork},
	}, nil).Once()
	data.On("Predictions", mock.Anything, int64(1)).
		Return(usecase.Result[prediction.Prediction]{}, fmt.Errorf("fetch predictions: %w", usecase.ErrDependencyUnavailable)).Once()

	rec, body := serve(router, "/v1/dashboard?date=2024-05-01&league=39&season=2023")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := dataOf(t, body)
	fixtures, _ := payload["fixtures"].([]any)
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture card, got %d", len(fixtures))
	}
	card := fixtures[0].(map[string]any)
	errs, _ := card["errors"].([]any)
	if len(errs) != 1 {
		t.Fatalf("expected one card error, got %v", card["errors"])
	}
	if kickoff, ok := card["fixture"].(map[string]any)["kickoffAt"]; !ok || kickoff != nil {
		t.Fatalf("expected explicit null kickoff for unknown time, got %v", kickoff)
	}
}

func TestHandler_DashboardRejectsBadFlags(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := serve(router, "/v1/dashboard?date=2024-05-01&lineups=maybe")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec, _ := serve(router, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
}
