package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/jwt"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
)

// RouteSetup registers service routes. api is the /api/v1 group, already
// wrapped in JWT auth when a secret was configured.
type RouteSetup func(router *gin.Engine, api *gin.RouterGroup)

// ServerBuilder provides a fluent API for building the HTTP server.
type ServerBuilder struct {
	config      *Config
	logger      logger.Logger
	setupRoutes RouteSetup
	readiness   map[string]ReadinessCheck
	jwtSecret   string
	middleware  []gin.HandlerFunc
}

// NewServerBuilder creates a builder with default configuration.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config:    NewConfig(serviceName, port),
		readiness: make(map[string]ReadinessCheck),
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

func (b *ServerBuilder) WithCORS(cfg CORSConfig) *ServerBuilder {
	b.config.CORS = cfg
	return b
}

func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithJWTAuth protects /api/v1 with HMAC bearer tokens. An empty secret
// leaves the group open.
func (b *ServerBuilder) WithJWTAuth(secret string) *ServerBuilder {
	b.jwtSecret = secret
	return b
}

// WithReadinessCheck adds a named check to GET /ready.
func (b *ServerBuilder) WithReadinessCheck(name string, check ReadinessCheck) *ServerBuilder {
	b.readiness[name] = check
	return b
}

// WithMiddleware appends handlers that run on every route, after CORS.
func (b *ServerBuilder) WithMiddleware(mw ...gin.HandlerFunc) *ServerBuilder {
	b.middleware = append(b.middleware, mw...)
	return b
}

func (b *ServerBuilder) WithRoutes(setup RouteSetup) *ServerBuilder {
	b.setupRoutes = setup
	return b
}

// Build creates the server. Health routes are always registered outside
// the authenticated group.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.NewNop()
	}

	setup := func(router *gin.Engine) {
		if len(b.middleware) > 0 {
			router.Use(b.middleware...)
		}

		RegisterHealthRoutes(router, HealthOptions{
			ServiceName:    b.config.ServiceName,
			ServiceVersion: b.config.ServiceVersion,
			Checks:         b.readiness,
		})

		if b.setupRoutes != nil {
			b.setupRoutes(router, ProtectedGroup(router, "/api/v1", b.jwtSecret))
		}
	}

	return NewServer(b.config, b.logger, setup)
}

// ProtectedGroup creates a router group guarded by JWT auth when secret is set.
func ProtectedGroup(router *gin.Engine, path, secret string) *gin.RouterGroup {
	group := router.Group(path)
	if secret != "" {
		group.Use(jwt.Middleware(secret))
	}
	return group
}
