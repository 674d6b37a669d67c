package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riskibarqy/matchday/external/apifootball"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday/internal/metrics"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

// NewHTTPServer wires the cache store, provider client and API. The returned
// cleanup releases the cache backend and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg)
	}

	backend, closeBackend, err := openCacheBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	storeOpts := cache.StoreOptions{Logger: logger.Named("cache")}
	if m != nil {
		storeOpts.Observer = m
	}
	store := cache.NewStore(backend, storeOpts)

	fetcher := apifootball.NewHTTPFetcher(apifootball.FetcherConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		APIKey:     cfg.FootballAPIKey,
		AuthHeader: cfg.FootballAPIAuthHeader,
		Timeout:    cfg.FootballAPITimeout,
		Logger:     logger.Named("apifootball"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMax,
		},
	})
	if breaker := fetcher.Breaker(); breaker != nil {
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("football api circuit state changed", "from", string(from), "to", string(to))
			if m != nil {
				m.ObserveCircuitState(from, to)
			}
		})
	}

	clientCfg := apifootball.ClientConfig{
		Fetcher: fetcher,
		Store:   store,
		Logger:  logger.Named("apifootball"),
		TTL: apifootball.TTLConfig{
			Leagues:      cfg.CacheTTL.Leagues,
			Fixtures:     cfg.CacheTTL.Fixtures,
			Predictions:  cfg.CacheTTL.Predictions,
			Standings:    cfg.CacheTTL.Standings,
			TeamStats:    cfg.CacheTTL.TeamStats,
			Lineups:      cfg.CacheTTL.Lineups,
			TeamFixtures: cfg.CacheTTL.TeamFixtures,
		},
	}
	if m != nil {
		clientCfg.Recorder = m
	}
	client := apifootball.NewClient(clientCfg)

	dashboard := usecase.NewDashboardService(client, usecase.DashboardConfig{
		MaxWorkers:    cfg.DashboardMaxWorkers,
		MinConfidence: &cfg.DashboardMinConfidence,
		ModelSeed:     cfg.ModelSeed,
		Logger:        logger,
	})

	handler := httpapi.NewHandler(client, dashboard, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            m,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeBackend, nil
}

func openCacheBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		logger.Info("cache backend ready", "backend", cfg.CacheBackend)
		return cache.NewMemoryBackend(), noop, nil
	case config.CacheBackendSQLite:
		backend, err := cache.OpenSQLiteBackend(ctx, cfg.CacheSQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		logger.Info("cache backend ready", "backend", cfg.CacheBackend, "path", cfg.CacheSQLitePath)
		return backend, backend.Close, nil
	default:
		backend, err := cache.NewFileBackend(cfg.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file cache: %w", err)
		}
		logger.Info("cache backend ready", "backend", config.CacheBackendFile, "dir", backend.Dir())
		return backend, noop, nil
	}
}
