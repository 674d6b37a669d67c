package apifootball

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/matchday/internal/platform/cachekey"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

const (
	DefaultBaseURL    = "https://v3.football.api-sports.io"
	DefaultAuthHeader = "x-apisports-key"
	DefaultTimeout    = 15 * time.Second

	maxBodyBytes = 6 << 20
)

// Fetcher performs one GET against the provider and returns the raw body.
type Fetcher interface {
	Fetch(ctx context.Context, path string, params []cachekey.Param) ([]byte, error)
}

type FetcherConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	AuthHeader     string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// HTTPFetcher talks to the provider over HTTP. It never retries.
type HTTPFetcher struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	authHeader string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	now        func() time.Time
}

func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = DefaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	authHeader := strings.TrimSpace(cfg.AuthHeader)
	if authHeader == "" {
		authHeader = DefaultAuthHeader
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)

	return &HTTPFetcher{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		authHeader: authHeader,
		logger:     logger,
		breaker:    breaker,
		now:        time.Now,
	}
}

// Breaker returns the circuit breaker, or nil when it is disabled.
func (f *HTTPFetcher) Breaker() *resilience.CircuitBreaker {
	return f.breaker
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string, params []cachekey.Param) ([]byte, error) {
	fullURL := f.buildURL(path, params)

	if f.breaker != nil {
		if err := f.breaker.Allow(); err != nil {
			return nil, &TransportError{Op: "circuit", URL: fullURL, Err: err}
		}
	}

	raw, err := f.execute(ctx, fullURL)
	if f.breaker != nil {
		switch {
		case err != nil && ctx.Err() != nil:
			// The caller gave up; that says nothing about the provider.
			f.breaker.RecordAbandoned()
		case isCircuitFailure(err):
			f.breaker.RecordFailure()
		default:
			f.breaker.RecordSuccess()
		}
	}
	if err != nil {
		f.logger.WarnContext(ctx, "football api request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return raw, nil
}

func (f *HTTPFetcher) execute(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set(f.authHeader, f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: "read", URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			Status:     resp.StatusCode,
			URL:        fullURL,
			Body:       abbreviateBody(raw),
			Header:     resp.Header.Clone(),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), f.now()),
		}
	}

	if !sonic.Valid(raw) {
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			URL:    fullURL,
			Reason: "invalid json",
			Body:   abbreviateBody(raw),
			Header: resp.Header.Clone(),
		}
	}
	if msg, ok := providerErrors(raw); ok {
		return nil, &UpstreamError{
			Status:     resp.StatusCode,
			URL:        fullURL,
			Reason:     "provider errors: " + msg,
			Body:       abbreviateBody(raw),
			Header:     resp.Header.Clone(),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), f.now()),
		}
	}

	return raw, nil
}

func (f *HTTPFetcher) buildURL(path string, params []cachekey.Param) string {
	values := url.Values{}
	for _, p := range params {
		if p.Present() {
			values.Set(p.Name, p.Render())
		}
	}

	fullURL := f.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return fullURL
}

// providerErrors reports a non-empty top-level "errors" member. api-sports
// answers quota and auth problems with HTTP 200 and such a body.
func providerErrors(raw []byte) (string, bool) {
	var envelope struct {
		Errors any `json:"errors"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return "", false
	}

	switch typed := envelope.Errors.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return "", false
		}
	case []any:
		if len(typed) == 0 {
			return "", false
		}
	case string:
		if strings.TrimSpace(typed) == "" {
			return "", false
		}
	default:
		return "", false
	}

	msg, err := sonic.MarshalString(envelope.Errors)
	if err != nil {
		return "unreadable errors block", true
	}
	return abbreviateBody([]byte(msg)), true
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	var transportErr *TransportError
	if crerr.As(err, &transportErr) {
		return true
	}
	var upstreamErr *UpstreamError
	if crerr.As(err, &upstreamErr) {
		return upstreamErr.Status == http.StatusTooManyRequests || upstreamErr.Status >= http.StatusInternalServerError
	}
	return false
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
