package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/usecase"
)

// TransportError means the provider could not be reached or did not answer in
// time. An open circuit breaker is reported the same way.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UpstreamError is an answer the provider gave that cannot be used: a non-2xx
// status, a body that is not JSON, or a 2xx carrying a provider "errors" block.
type UpstreamError struct {
	Status     int
	URL        string
	Reason     string
	Body       string
	Header     http.Header
	RetryAfter time.Duration
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("provider status=%d %s body=%s", e.Status, e.Reason, e.Body)
	}
	return fmt.Sprintf("provider status=%d body=%s", e.Status, e.Body)
}

func (e *UpstreamError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// RateLimitRemaining reads the provider's remaining quota header, if sent.
func (e *UpstreamError) RateLimitRemaining() (int, bool) {
	for _, name := range []string{"X-RateLimit-Remaining", "X-RateLimit-Requests-Remaining"} {
		raw := strings.TrimSpace(e.Header.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

// FetchFailed is the only error a Client returns for provider trouble: the
// fetch failed and no cached payload existed for the key.
type FetchFailed struct {
	Resource string
	Key      string
	Cause    error
}

func (e *FetchFailed) Error() string {
	return fmt.Sprintf("fetch %s failed and no cached data is available: %v", e.Resource, e.Cause)
}

func (e *FetchFailed) Unwrap() error {
	return e.Cause
}

func (e *FetchFailed) Is(target error) bool {
	return target == usecase.ErrDependencyUnavailable
}

// RetryAfter surfaces the provider's Retry-After when the failed fetch was
// answered with one.
func (e *FetchFailed) RetryAfter() time.Duration {
	var upstream *UpstreamError
	if errors.As(e.Cause, &upstream) {
		return upstream.RetryAfter
	}
	return 0
}

func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
