// Package api exposes the linking service over HTTP.
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/projects"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/service"
)

// Handler holds HTTP request handlers
type Handler struct {
	client       *oncrawl.Client
	classifier   *gaps.Classifier
	priority     *service.PriorityService
	metrics      *service.MetricsService
	projects     *projects.Registry
	maxPageLimit int
	logger       logger.Logger
}

// HandlerDeps are the components a Handler serves from.
type HandlerDeps struct {
	Client     *oncrawl.Client
	Classifier *gaps.Classifier
	Priority   *service.PriorityService
	Metrics    *service.MetricsService
	Projects   *projects.Registry
	// MaxPageLimit caps the page listing endpoints.
	MaxPageLimit int
}

// NewHandler creates a new handler instance
func NewHandler(deps HandlerDeps, log logger.Logger) *Handler {
	return &Handler{
		client:       deps.Client,
		classifier:   deps.Classifier,
		priority:     deps.Priority,
		metrics:      deps.Metrics,
		projects:     deps.Projects,
		maxPageLimit: deps.MaxPageLimit,
		logger:       log,
	}
}

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
