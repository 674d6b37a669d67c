package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/platform/cachekey"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc, cfg FetcherConfig) *HTTPFetcher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "secret-key"
	}
	cfg.HTTPClient = srv.Client()
	if cfg.Timeout > 0 {
		cfg.HTTPClient.Timeout = cfg.Timeout
	}
	return NewHTTPFetcher(cfg)
}

func TestHTTPFetcher_SendsAuthHeaderAndPresentParams(t *testing.T) {
	t.Parallel()

	var gotKey, gotQuery, gotPath string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-apisports-key")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
	}, FetcherConfig{})

	raw, err := f.Fetch(context.Background(), "/fixtures", []cachekey.Param{
		cachekey.P("date", cachekey.NewDate(2024, time.May, 1)),
		cachekey.OptionalInt("league", 0),
		cachekey.P("season", 2023),
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(raw) != `{"errors":[],"response":[]}` {
		t.Fatalf("unexpected body %s", raw)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotPath != "/fixtures" || gotQuery != "date=2024-05-01&season=2023" {
		t.Fatalf("unexpected request path=%s query=%s", gotPath, gotQuery)
	}
}

func TestHTTPFetcher_CustomAuthHeader(t *testing.T) {
	t.Parallel()

	var got string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Auth-Token")
		_, _ = w.Write([]byte(`{"competitions":[]}`))
	}, FetcherConfig{AuthHeader: "X-Auth-Token", APIKey: "fd-token"})

	if _, err := f.Fetch(context.Background(), "competitions", nil); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != "fd-token" {
		t.Fatalf("expected X-Auth-Token header, got %q", got)
	}
}

func TestHTTPFetcher_RateLimitedKeepsHeaders(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too many requests"}`))
	}, FetcherConfig{})

	_, err := f.Fetch(context.Background(), "/leagues", nil)

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !upstreamErr.RateLimited() || upstreamErr.RetryAfter != 30*time.Second {
		t.Fatalf("unexpected rate limit details: status=%d retryAfter=%s", upstreamErr.Status, upstreamErr.RetryAfter)
	}
	if remaining, ok := upstreamErr.RateLimitRemaining(); !ok || remaining != 0 {
		t.Fatalf("expected remaining=0, got=%d ok=%v", remaining, ok)
	}
	if !strings.Contains(upstreamErr.Body, "Too many requests") {
		t.Fatalf("expected body to be kept, got %q", upstreamErr.Body)
	}
}

func TestHTTPFetcher_ProviderErrorsBodyIsUpstreamError(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"requests":"You have reached the request limit for the day"},"response":[]}`))
	}, FetcherConfig{})

	_, err := f.Fetch(context.Background(), "/predictions", []cachekey.Param{cachekey.P("fixture", 1)})

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Status != http.StatusOK || !strings.Contains(upstreamErr.Reason, "request limit") {
		t.Fatalf("unexpected upstream error: %+v", upstreamErr)
	}
}

func TestHTTPFetcher_InvalidJSONIsUpstreamError(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}, FetcherConfig{})

	_, err := f.Fetch(context.Background(), "/leagues", nil)
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) || upstreamErr.Reason != "invalid json" {
		t.Fatalf("expected invalid json UpstreamError, got %v", err)
	}
}

func TestHTTPFetcher_TimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, FetcherConfig{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := f.Fetch(context.Background(), "/leagues", nil)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !transportErr.Timeout() {
		t.Fatalf("expected timeout, got %v", transportErr)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestHTTPFetcher_CircuitBreakerFailsFast(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, FetcherConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}})

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), "/leagues", nil); err == nil {
			t.Fatalf("expected upstream failure")
		}
	}

	_, err := f.Fetch(context.Background(), "/leagues", nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit transport error, got %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected provider to be hit twice, got=%d", got)
	}
}

func TestHTTPFetcher_ClientErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, FetcherConfig{CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}})

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), "/leagues", nil)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			t.Fatalf("expected 404s to leave the breaker closed")
		}
	}
	if state := f.Breaker().State(); state != resilience.CircuitStateClosed {
		t.Fatalf("expected closed breaker, got %s", state)
	}
}

func TestHTTPFetcher_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slow") == "1" {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
				return
			}
		}
		_, _ = w.Write([]byte(`{"response":[]}`))
	}, FetcherConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}})

	slow := []cachekey.Param{cachekey.P("slow", "1")}
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := f.Fetch(ctx, "/fixtures", slow)
		cancel()
		if err == nil {
			t.Fatalf("expected the impatient caller to get an error")
		}
	}

	if state := f.Breaker().State(); state != resilience.CircuitStateClosed {
		t.Fatalf("expected caller cancellations to leave the breaker closed, got %s", state)
	}
	if _, err := f.Fetch(context.Background(), "/fixtures", nil); err != nil {
		t.Fatalf("expected healthy provider to answer, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	if got := parseRetryAfter("120", now); got != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", got)
	}
	if got := parseRetryAfter(now.Add(time.Minute).Format(http.TimeFormat), now); got != time.Minute {
		t.Fatalf("expected 1m, got %s", got)
	}
	if got := parseRetryAfter("soon", now); got != 0 {
		t.Fatalf("expected 0 for garbage, got %s", got)
	}
}
