package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchday/internal/platform/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantExposed string
	}{
		{
			name:        "configured origin",
			allowed:     []string{"https://matchday.example.com"},
			method:      http.MethodGet,
			origin:      "https://matchday.example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://matchday.example.com",
			wantExposed: "X-Request-ID,Retry-After",
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      "https://matchday.example.com",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantExposed: "X-Request-ID,Retry-After",
		},
		{
			name:       "unconfigured origin",
			allowed:    []string{"https://allowed.example.com"},
			method:     http.MethodGet,
			origin:     "https://not-allowed.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin header",
			allowed:    []string{"*"},
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/dashboard", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
			if got := rec.Header().Get("Access-Control-Expose-Headers"); got != tt.wantExposed {
				t.Fatalf("unexpected Access-Control-Expose-Headers: %q", got)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", "/metrics", " /healthz "} {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
	for _, path := range []string{"/v1/dashboard", "/v1/leagues", "/"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestRequestLogging_RecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Format: logging.FormatJSON, Level: logging.LevelInfo, Output: &buf})

	handler := RequestID(fixedGenerator("req-1"), RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/standings?league=39&season=2023", nil)
	req.RemoteAddr = "203.0.113.7:5123"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := sonic.UnmarshalString(line, &entry); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("expected request_id=req-1, got %v", entry["request_id"])
	}
	if status, _ := entry["status"].(float64); int(status) != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %v", entry["status"])
	}
	if entry["path"] != "/v1/standings" {
		t.Fatalf("expected path without query, got %v", entry["path"])
	}
	if entry["client_ip"] != "203.0.113.7" {
		t.Fatalf("expected client_ip 203.0.113.7, got %v", entry["client_ip"])
	}
}
