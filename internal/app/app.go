// Package app wires the linking components from configuration. The HTTP
// service and the report CLI share it.
package app

import (
	"fmt"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/config"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/projects"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/service"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

// App holds the constructed components.
type App struct {
	Config     *config.Config
	Logger     logger.Logger
	Telemetry  *telemetry.Provider
	Client     *oncrawl.Client
	Classifier *gaps.Classifier
	Priority   *service.PriorityService
	Metrics    *service.MetricsService
	Projects   *projects.Registry
}

// NewLogger creates the service logger from configuration.
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, err
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// New builds every component. It fails without an OnCrawl API token.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	registry, err := cfg.ProjectRegistry()
	if err != nil {
		return nil, fmt.Errorf("project registry: %w", err)
	}

	tp := telemetry.NewProvider()

	client, err := oncrawl.NewClient(cfg.ClientConfig(), tp, log)
	if err != nil {
		return nil, fmt.Errorf("oncrawl client: %w", err)
	}

	classifier := gaps.NewClassifier(client, cfg.GapThresholds(), tp, log)
	limits := service.Limits{Default: cfg.Service.DefaultLimit, Max: cfg.Service.MaxLimit}

	return &App{
		Config:     cfg,
		Logger:     log,
		Telemetry:  tp,
		Client:     client,
		Classifier: classifier,
		Priority:   service.NewPriorityService(client, classifier, limits, tp, log),
		Metrics:    service.NewMetricsService(client, classifier),
		Projects:   registry,
	}, nil
}
