package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/projects"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/report"
)

type priorityOptions struct {
	crawlID      string
	project      string
	market       string
	category     string
	limit        int
	format       string
	skipExcluded bool
}

func newPriorityCommand(root *rootOptions) *cobra.Command {
	opts := &priorityOptions{}

	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Rank pages by internal-linking priority",
		Long: `Rank pages by internal-linking priority.

Without --crawl-id or --project the first live crawl is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("limit") && opts.limit < 1 {
				return fmt.Errorf("%w: --limit must be at least 1", domain.ErrInvalidLimit)
			}

			w, ok := report.NewWriter(opts.format, cmd.OutOrStdout())
			if !ok {
				return fmt.Errorf("unknown format %q (want json, markdown or table)", opts.format)
			}

			a, err := root.build()
			if err != nil {
				return err
			}
			defer func() { _ = a.Logger.Sync() }()

			crawlID, projectKey, err := opts.resolveCrawl(a.Projects)
			if err != nil {
				return err
			}

			resp, err := a.Priority.GetPriorityPages(cmd.Context(), &domain.PriorityRequest{
				CrawlID:  crawlID,
				Market:   opts.market,
				Category: opts.category,
				Limit:    opts.limit,
			})
			if err != nil {
				return err
			}

			if opts.skipExcluded {
				dropped := dropExcluded(resp, a.Projects)
				a.Logger.Debug("Dropped excluded pages", logger.Int("count", dropped))
			}

			return w.Write(&report.Report{
				Project:     projectKey,
				GeneratedAt: time.Now().UTC(),
				Ranking:     resp,
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.crawlID, "crawl-id", "", "crawl to rank (default: first live crawl)")
	f.StringVar(&opts.project, "project", "", "configured project key whose crawl to rank")
	f.StringVar(&opts.market, "market", domain.MarketGlobal, "market code, or global")
	f.StringVar(&opts.category, "category", domain.CategoryAll, "all, poor or moderate")
	f.IntVar(&opts.limit, "limit", 0, "maximum pages per classification and in the output")
	f.StringVarP(&opts.format, "format", "f", report.FormatTable, "output format: json, markdown or table")
	f.BoolVar(&opts.skipExcluded, "skip-excluded", false, "drop pages on the configured excluded domains")
	cmd.MarkFlagsMutuallyExclusive("crawl-id", "project")

	return cmd
}

// resolveCrawl maps --project to its crawl. An empty crawl ID defers to the
// first live crawl.
func (o *priorityOptions) resolveCrawl(reg *projects.Registry) (crawlID, projectKey string, err error) {
	if o.project == "" {
		return o.crawlID, "", nil
	}
	sel, err := reg.Switch(o.project)
	if err != nil {
		return "", "", err
	}
	return sel.Project.CrawlID, sel.Key, nil
}

// dropExcluded removes ranked pages on excluded domains and returns how many
// were removed.
func dropExcluded(resp *domain.PriorityResponse, reg *projects.Registry) int {
	kept := resp.Pages[:0]
	for _, p := range resp.Pages {
		if !reg.IsExcluded(p.URL) {
			kept = append(kept, p)
		}
	}
	dropped := len(resp.Pages) - len(kept)
	resp.Pages = kept
	resp.Total = len(kept)
	return dropped
}
