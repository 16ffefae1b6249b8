package gin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the status reported by health and readiness endpoints.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const readinessTimeout = 5 * time.Second

// HealthResponse is the body of GET /health and GET /ready.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) CheckResult

// HealthOptions configures the health endpoints.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	StartTime      time.Time
	Checks         map[string]ReadinessCheck
}

var startOnce = struct {
	sync.Once
	at time.Time
}{}

// RegisterHealthRoutes adds:
//   - GET/HEAD /health  liveness, always 200 while the process serves
//   - GET /ready        readiness, 503 when any check is unhealthy
func RegisterHealthRoutes(router *gin.Engine, opts HealthOptions) {
	if opts.StartTime.IsZero() {
		startOnce.Do(func() { startOnce.at = time.Now() })
		opts.StartTime = startOnce.at
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  HealthStatusHealthy,
			Service: opts.ServiceName,
			Version: opts.ServiceVersion,
			Uptime:  time.Since(opts.StartTime).Truncate(time.Second).String(),
		})
	})
	router.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/ready", readinessHandler(opts))
}

func readinessHandler(opts HealthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: opts.ServiceName,
			Version: opts.ServiceVersion,
			Checks:  make(map[string]CheckResult, len(opts.Checks)),
		}

		for name, check := range opts.Checks {
			start := time.Now()
			result := check(ctx)
			if result.Latency == "" {
				result.Latency = time.Since(start).String()
			}
			resp.Checks[name] = result

			switch result.Status {
			case HealthStatusUnhealthy:
				resp.Status = HealthStatusUnhealthy
			case HealthStatusDegraded:
				if resp.Status == HealthStatusHealthy {
					resp.Status = HealthStatusDegraded
				}
			case HealthStatusHealthy:
			}
		}

		status := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
