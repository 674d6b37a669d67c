package observability

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// profileSampleRate is handed to the runtime mutex and block profilers; they
// are off by default and pyroscope reports nothing for them without it.
const profileSampleRate = 5

// Stack owns the process-wide telemetry started at boot: OpenTelemetry export
// through uptrace, continuous profiling, and the pprof debug listener.
type Stack struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	profiler        *pyroscope.Profiler
	pprofSrv        *http.Server
	pprofAddr       string
}

// Start brings up every enabled component. On error, anything already started
// is torn down before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	s.shutdownTracing = startTracing(cfg, logger)

	profiler, err := startProfiler(cfg, logger)
	if err != nil {
		_ = s.Shutdown(context.Background())
		return nil, errors.Wrap(err, "start pyroscope")
	}
	s.profiler = profiler

	if err := s.startPprof(cfg); err != nil {
		_ = s.Shutdown(context.Background())
		return nil, errors.Wrap(err, "start pprof")
	}

	return s, nil
}

// PprofAddr is the bound debug listener address, empty when pprof is off.
func (s *Stack) PprofAddr() string {
	return s.pprofAddr
}

// Shutdown stops components in reverse start order and reports every failure.
func (s *Stack) Shutdown(ctx context.Context) error {
	var errs error
	if s.pprofSrv != nil {
		if err := s.pprofSrv.Shutdown(ctx); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "stop pprof"))
		} else {
			s.logger.Info("pprof server stopped")
		}
		s.pprofSrv = nil
	}
	if s.profiler != nil {
		if err := s.profiler.Stop(); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "stop pyroscope"))
		}
		s.profiler = nil
	}
	if s.shutdownTracing != nil {
		if err := s.shutdownTracing(ctx); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "shutdown uptrace"))
		}
		s.shutdownTracing = nil
	}
	return errs
}

func startTracing(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return nil
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return uptrace.Shutdown
}

func startProfiler(cfg config.Config, logger *logging.Logger) (*pyroscope.Profiler, error) {
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return nil, nil
	}

	runtime.SetMutexProfileFraction(profileSampleRate)
	runtime.SetBlockProfileRate(profileSampleRate)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":           cfg.AppEnv,
			"service":       cfg.ServiceName,
			"cache_backend": cfg.CacheBackend,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return profiler, nil
}

// startPprof binds synchronously so a taken port fails boot instead of being
// logged from a goroutine.
func (s *Stack) startPprof(cfg config.Config) error {
	if !cfg.PprofEnabled {
		s.logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

	s.pprofSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.pprofAddr = ln.Addr().String()

	srv := s.pprofSrv
	go func() {
		s.logger.Info("pprof server starting", "addr", s.pprofAddr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("pprof server failed", "error", err)
		}
	}()

	return nil
}
