// Package profiling starts the optional pprof listener and Pyroscope agent.
package profiling

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime"
	"time"

	"github.com/grafana/pyroscope-go"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
)

// Config controls both profilers. Both are off by default.
type Config struct {
	PprofEnabled bool   `env:"ENABLE_PROFILING" yaml:"pprof_enabled"`
	PprofAddr    string `env:"PPROF_ADDR"       yaml:"pprof_addr"`

	PyroscopeEnabled     bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"pyroscope_enabled"`
	PyroscopeServerURL   string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_server_url"`
	PyroscopeEnvironment string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"pyroscope_environment"`
}

const (
	defaultPprofAddr     = "localhost:6060"
	defaultPyroscopeURL  = "http://pyroscope:4040"
	defaultPyroscopeEnv  = "development"
	pprofReadHeaderLimit = 10 * time.Second
)

// SetDefaults fills unset addresses.
func (c *Config) SetDefaults() {
	if c.PprofAddr == "" {
		c.PprofAddr = defaultPprofAddr
	}
	if c.PyroscopeServerURL == "" {
		c.PyroscopeServerURL = defaultPyroscopeURL
	}
	if c.PyroscopeEnvironment == "" {
		c.PyroscopeEnvironment = defaultPyroscopeEnv
	}
}

// Profiler owns the running profilers.
type Profiler struct {
	pprof     *http.Server
	pyroscope *pyroscope.Profiler
}

// Start launches whatever cfg enables. The returned Profiler is never nil.
func Start(cfg Config, serviceName, version string, log logger.Logger) (*Profiler, error) {
	cfg.SetDefaults()
	p := &Profiler{}

	if cfg.PprofEnabled {
		p.pprof = &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           pprofMux(),
			ReadHeaderTimeout: pprofReadHeaderLimit,
		}
		go func() {
			log.Info("Starting pprof server", logger.String("address", cfg.PprofAddr))
			if err := p.pprof.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("pprof server error", logger.Error(err))
			}
		}()
	}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: serviceName,
			ServerAddress:   cfg.PyroscopeServerURL,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
			},
			Tags: map[string]string{
				"environment": cfg.PyroscopeEnvironment,
				"version":     version,
				"hostname":    hostname(),
				"go_version":  runtime.Version(),
			},
		})
		if err != nil {
			return p, fmt.Errorf("start pyroscope: %w", err)
		}
		p.pyroscope = profiler
		log.Info("Pyroscope continuous profiling started",
			logger.String("server", cfg.PyroscopeServerURL),
			logger.String("environment", cfg.PyroscopeEnvironment),
		)
	}

	return p, nil
}

// Stop shuts down both profilers.
func (p *Profiler) Stop() error {
	var errs []error
	if p.pprof != nil {
		errs = append(errs, p.pprof.Close())
	}
	if p.pyroscope != nil {
		errs = append(errs, p.pyroscope.Stop())
	}
	return errors.Join(errs...)
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
