package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
	CacheBackendMemory = "memory"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	CORSAllowedOrigins []string

	FootballAPIBaseURL             string
	FootballAPIKey                 string
	FootballAPIAuthHeader          string
	FootballAPITimeout             time.Duration
	FootballAPICircuitEnabled      bool
	FootballAPICircuitFailureCount int
	FootballAPICircuitOpenTimeout  time.Duration
	FootballAPICircuitHalfOpenMax  int

	CacheBackend    string
	CacheDir        string
	CacheSQLitePath string
	CacheTTL        CacheTTL

	DashboardMaxWorkers    int
	DashboardMinConfidence float64
	ModelSeed              uint64

	MetricsEnabled bool
	PprofEnabled   bool
	PprofAddr      string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// CacheTTL holds the freshness window per provider resource.
type CacheTTL struct {
	Leagues      time.Duration
	Fixtures     time.Duration
	Predictions  time.Duration
	Standings    time.Duration
	TeamStats    time.Duration
	Lineups      time.Duration
	TeamFixtures time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "matchday-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	// Dashboard requests fan out to the provider, so the write window is wider than one fetch.
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	if err := loadFootballAPI(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadCache(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadDashboard(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFootballAPI(cfg *Config) error {
	cfg.FootballAPIBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("FOOTBALL_API_BASE_URL", "https://v3.football.api-sports.io")), "/")
	cfg.FootballAPIKey = strings.TrimSpace(getEnv("FOOTBALL_API_KEY", ""))
	if cfg.FootballAPIKey == "" {
		return fmt.Errorf("FOOTBALL_API_KEY is required")
	}
	cfg.FootballAPIAuthHeader = strings.TrimSpace(getEnv("FOOTBALL_API_AUTH_HEADER", "x-apisports-key"))

	timeout, err := time.ParseDuration(getEnv("FOOTBALL_API_TIMEOUT", "15s"))
	if err != nil {
		return fmt.Errorf("parse FOOTBALL_API_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("FOOTBALL_API_TIMEOUT must be > 0")
	}
	cfg.FootballAPITimeout = timeout

	circuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse FOOTBALL_API_CIRCUIT_ENABLED: %w", err)
	}
	cfg.FootballAPICircuitEnabled = circuitEnabled

	failureCount, err := getEnvAsInt("FOOTBALL_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse FOOTBALL_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return fmt.Errorf("FOOTBALL_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.FootballAPICircuitFailureCount = failureCount

	openTimeout, err := time.ParseDuration(getEnv("FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("parse FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openTimeout <= 0 {
		return fmt.Errorf("FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.FootballAPICircuitOpenTimeout = openTimeout

	halfOpenMax, err := getEnvAsInt("FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return fmt.Errorf("parse FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenMax < 1 {
		return fmt.Errorf("FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.FootballAPICircuitHalfOpenMax = halfOpenMax

	return nil
}

func loadCache(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendFile)))
	switch backend {
	case CacheBackendFile, CacheBackendSQLite, CacheBackendMemory:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s, %s", backend, CacheBackendFile, CacheBackendSQLite, CacheBackendMemory)
	}
	cfg.CacheBackend = backend
	cfg.CacheDir = strings.TrimSpace(getEnv("CACHE_DIR", "cache_api_sports"))
	cfg.CacheSQLitePath = strings.TrimSpace(getEnv("CACHE_SQLITE_PATH", "cache_api_sports.db"))

	ttls := []struct {
		env      string
		fallback string
		dst      *time.Duration
	}{
		{"CACHE_TTL_LEAGUES", "24h", &cfg.CacheTTL.Leagues},
		{"CACHE_TTL_FIXTURES", "1h", &cfg.CacheTTL.Fixtures},
		{"CACHE_TTL_PREDICTIONS", "1h", &cfg.CacheTTL.Predictions},
		{"CACHE_TTL_STANDINGS", "1h", &cfg.CacheTTL.Standings},
		{"CACHE_TTL_TEAM_STATS", "1h", &cfg.CacheTTL.TeamStats},
		{"CACHE_TTL_LINEUPS", "1h", &cfg.CacheTTL.Lineups},
		{"CACHE_TTL_TEAM_FIXTURES", "6h", &cfg.CacheTTL.TeamFixtures},
	}
	for _, item := range ttls {
		value, err := time.ParseDuration(getEnv(item.env, item.fallback))
		if err != nil {
			return fmt.Errorf("parse %s: %w", item.env, err)
		}
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", item.env)
		}
		*item.dst = value
	}

	return nil
}

func loadDashboard(cfg *Config) error {
	workers, err := getEnvAsInt("DASHBOARD_MAX_WORKERS", 8)
	if err != nil {
		return fmt.Errorf("parse DASHBOARD_MAX_WORKERS: %w", err)
	}
	if workers < 1 {
		return fmt.Errorf("DASHBOARD_MAX_WORKERS must be >= 1")
	}
	cfg.DashboardMaxWorkers = workers

	minConfidence, err := strconv.ParseFloat(getEnv("DASHBOARD_MIN_CONFIDENCE", "35"), 64)
	if err != nil {
		return fmt.Errorf("parse DASHBOARD_MIN_CONFIDENCE: %w", err)
	}
	if minConfidence < 0 || minConfidence > 100 {
		return fmt.Errorf("DASHBOARD_MIN_CONFIDENCE must be within [0, 100]")
	}
	cfg.DashboardMinConfidence = minConfidence

	seed, err := strconv.ParseUint(getEnv("MODEL_SEED", "42"), 10, 64)
	if err != nil {
		return fmt.Errorf("parse MODEL_SEED: %w", err)
	}
	cfg.ModelSeed = seed

	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	uploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if uploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeUploadRate = uploadRate

	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
