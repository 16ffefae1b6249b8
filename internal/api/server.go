package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/circuitbreaker"
	infragin "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/gin"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/metrics"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/config"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

// Default timeout values. Writes allow for a full ranking against a slow upstream.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 120 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// CircuitStater reports the upstream circuit state.
type CircuitStater interface {
	CircuitState() circuitbreaker.State
}

// NewServer creates a new HTTP server using the infrastructure gin package.
func NewServer(
	handler *Handler,
	cfg *config.Config,
	tp *telemetry.Provider,
	upstream CircuitStater,
	log logger.Logger,
) *infragin.Server {
	return infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithCORS(cfg.CORS).
		WithJWTAuth(cfg.Auth.JWTSecret).
		WithReadinessCheck("oncrawl", upstreamReadiness(upstream)).
		WithMiddleware(metrics.NewHTTPMetrics(tp.Registerer(), telemetry.Namespace).Middleware()).
		WithRoutes(func(router *gin.Engine, api *gin.RouterGroup) {
			SetupServiceRoutes(router, api, handler, tp)
		}).
		Build()
}

// upstreamReadiness fails while the OnCrawl circuit is open and reports
// degraded while it is probing.
func upstreamReadiness(upstream CircuitStater) infragin.ReadinessCheck {
	return func(context.Context) infragin.CheckResult {
		switch state := upstream.CircuitState(); state {
		case circuitbreaker.StateOpen:
			return infragin.CheckResult{Status: infragin.HealthStatusUnhealthy, Message: "circuit " + state.String()}
		case circuitbreaker.StateHalfOpen:
			return infragin.CheckResult{Status: infragin.HealthStatusDegraded, Message: "circuit " + state.String()}
		default:
			return infragin.CheckResult{Status: infragin.HealthStatusHealthy}
		}
	}
}
