package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday/internal/metrics"
	"github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type RouterConfig struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	// Metrics is optional; when set /metrics is served and request latency is recorded.
	Metrics *metrics.Metrics
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.Metrics)
	registerFootballRoutes(mux, handler)

	// The metrics middleware must see the same *http.Request the mux fills Pattern on.
	var routed http.Handler = mux
	if cfg.Metrics != nil {
		routed = cfg.Metrics.Middleware(mux)
	}
	return RequestTracing(RequestID(id.NewRandomGenerator(), RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, routed)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
