package main

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/config"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/app"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/config"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "linkgap",
		Short:         "Find pages that need internal links",
		Long:          `linkgap ranks crawled pages by internal-linking gaps using the OnCrawl Data API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", infraconfig.GetConfigPath("config.yml"), "config file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newCrawlsCommand(opts))
	cmd.AddCommand(newPriorityCommand(opts))

	return cmd
}

// build loads configuration and wires the components. Logs go to stderr so
// stdout carries only the report.
func (o *rootOptions) build() (*app.App, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if o.debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return app.New(cfg, log.With(logger.String("service", "linkgap")))
}
