package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/report"
)

func newCrawlsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "crawls",
		Short: "List crawls whose data can be queried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build()
			if err != nil {
				return err
			}
			defer func() { _ = a.Logger.Sync() }()

			crawls, err := a.Client.LiveCrawls(cmd.Context())
			if err != nil {
				return fmt.Errorf("list live crawls: %w", err)
			}
			if len(crawls) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No live crawls available")
				return nil
			}

			report.NewTableWriter(cmd.OutOrStdout()).WriteLiveCrawls(crawls)
			return nil
		},
	}
}
