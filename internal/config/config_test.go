package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("FOOTBALL_API_KEY", "test-key")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("FOOTBALL_API_KEY", "  ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without FOOTBALL_API_KEY")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FootballAPIBaseURL != "https://v3.football.api-sports.io" {
		t.Fatalf("unexpected base url: %q", cfg.FootballAPIBaseURL)
	}
	if cfg.FootballAPIAuthHeader != "x-apisports-key" {
		t.Fatalf("unexpected auth header: %q", cfg.FootballAPIAuthHeader)
	}
	if cfg.FootballAPITimeout != 15*time.Second {
		t.Fatalf("unexpected api timeout: %s", cfg.FootballAPITimeout)
	}
	if cfg.CacheBackend != CacheBackendFile || cfg.CacheDir != "cache_api_sports" {
		t.Fatalf("unexpected cache defaults: backend=%q dir=%q", cfg.CacheBackend, cfg.CacheDir)
	}
	if cfg.CacheTTL.Leagues != 24*time.Hour || cfg.CacheTTL.Fixtures != time.Hour || cfg.CacheTTL.TeamFixtures != 6*time.Hour {
		t.Fatalf("unexpected cache ttl defaults: %+v", cfg.CacheTTL)
	}
	if cfg.DashboardMinConfidence != 35 {
		t.Fatalf("expected min confidence 35, got=%v", cfg.DashboardMinConfidence)
	}
	if cfg.DashboardMaxWorkers != 8 {
		t.Fatalf("expected 8 dashboard workers, got=%d", cfg.DashboardMaxWorkers)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
}

func TestLoad_CacheBackendValidation(t *testing.T) {
	setRequired(t)

	t.Run("sqlite accepted", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "SQLite")
		t.Setenv("CACHE_SQLITE_PATH", "/tmp/matchday.db")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CacheBackend != CacheBackendSQLite || cfg.CacheSQLitePath != "/tmp/matchday.db" {
			t.Fatalf("unexpected sqlite config: %q %q", cfg.CacheBackend, cfg.CacheSQLitePath)
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "redis")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown CACHE_BACKEND")
		}
	})
}

func TestLoad_CacheTTLParsing(t *testing.T) {
	setRequired(t)

	t.Run("override", func(t *testing.T) {
		t.Setenv("CACHE_TTL_PREDICTIONS", "30m")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CacheTTL.Predictions != 30*time.Minute {
			t.Fatalf("unexpected predictions ttl: %s", cfg.CacheTTL.Predictions)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("CACHE_TTL_STANDINGS", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL_STANDINGS")
		}
	})

	t.Run("negative", func(t *testing.T) {
		t.Setenv("CACHE_TTL_LINEUPS", "-1m")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative CACHE_TTL_LINEUPS")
		}
	})
}

func TestLoad_CircuitValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("FOOTBALL_API_CIRCUIT_FAILURE_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero failure count")
	}
}

func TestLoad_DashboardValidation(t *testing.T) {
	setRequired(t)

	t.Run("confidence out of range", func(t *testing.T) {
		t.Setenv("DASHBOARD_MIN_CONFIDENCE", "120")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for DASHBOARD_MIN_CONFIDENCE > 100")
		}
	})

	t.Run("seed parsing", func(t *testing.T) {
		t.Setenv("MODEL_SEED", "7")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ModelSeed != 7 {
			t.Fatalf("expected seed 7, got=%d", cfg.ModelSeed)
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRequired(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_SERVICE_NAME", "matchday-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "matchday-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	setRequired(t)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}
