package main

import (
	"context"
	"fmt"
	"os"

	infraconfig "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/config"
	infralogger "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/profiling"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/api"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/app"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load(infraconfig.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	profiler, err := profiling.Start(cfg.Profiling, cfg.Service.Name, cfg.Service.Version, log)
	if err != nil {
		log.Warn("Profiling failed to start", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	log.Info("Starting internal linking service",
		infralogger.String("name", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Service.Port),
		infralogger.Bool("debug", cfg.Service.Debug),
		infralogger.Bool("auth", cfg.Auth.JWTSecret != ""),
	)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize service", infralogger.Error(err))
		return 1
	}

	handler := api.NewHandler(api.HandlerDeps{
		Client:       a.Client,
		Classifier:   a.Classifier,
		Priority:     a.Priority,
		Metrics:      a.Metrics,
		Projects:     a.Projects,
		MaxPageLimit: cfg.Service.MaxPageLimit,
	}, log)
	server := api.NewServer(handler, cfg, a.Telemetry, a.Client, log)

	if active, ok := a.Projects.Active(); ok {
		log.Info("Default project",
			infralogger.String("project", active.Key),
			infralogger.CrawlID(active.Project.CrawlID),
		)
	}

	if runErr := server.Run(context.Background()); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return 1
	}

	log.Info("Internal linking service exited cleanly")
	return 0
}
