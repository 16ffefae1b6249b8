package service

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
)

// MetricsService builds crawl overviews. Each figure is fetched independently
// and degrades to zero or nil on failure.
type MetricsService struct {
	crawls     CrawlResolver
	classifier *gaps.Classifier
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(crawls CrawlResolver, classifier *gaps.Classifier) *MetricsService {
	return &MetricsService{crawls: crawls, classifier: classifier}
}

type countFunc func(ctx context.Context) (int, error)

type aggFunc func(ctx context.Context) (json.RawMessage, error)

// TechnicalSummary counts every gap class of crawlID and fetches both
// distributions.
func (s *MetricsService) TechnicalSummary(ctx context.Context, crawlID string) *domain.TechnicalSummary {
	summary := &domain.TechnicalSummary{CrawlID: crawlID}

	var g errgroup.Group
	s.gapCounts(ctx, &g, crawlID,
		&summary.OrphanedCount, &summary.LowInlinksCount,
		&summary.DeepPagesCount, &summary.NotInSitemapCount,
	)
	s.distributions(ctx, &g, crawlID, &summary.InlinksDistribution, &summary.DepthDistribution)
	_ = g.Wait()

	return summary
}

// DashboardMetrics resolves the crawl like the ranking does and returns its
// overview.
func (s *MetricsService) DashboardMetrics(ctx context.Context, crawlID string) (*domain.DashboardMetrics, error) {
	crawlID, err := resolveCrawlID(ctx, s.crawls, crawlID)
	if err != nil {
		return nil, err
	}

	m := &domain.DashboardMetrics{CrawlID: crawlID}

	var g errgroup.Group
	g.Go(s.count(ctx, "total_pages", &m.TotalPages, func(ctx context.Context) (int, error) {
		return s.classifier.TotalPages(ctx, crawlID)
	}))
	s.gapCounts(ctx, &g, crawlID, &m.OrphanedPages, &m.LowInlinksPages, &m.DeepPages, &m.NotInSitemapPages)
	s.distributions(ctx, &g, crawlID, &m.InlinksDistribution, &m.DepthDistribution)
	_ = g.Wait()

	return m, nil
}

func (s *MetricsService) gapCounts(ctx context.Context, g *errgroup.Group, crawlID string, orphaned, low, deep, sitemap *int) {
	th := s.classifier.Thresholds()

	targets := []struct {
		gap domain.Gap
		dst *int
		fn  countFunc
	}{
		{domain.GapOrphaned, orphaned, func(ctx context.Context) (int, error) {
			return hits(s.classifier.Orphaned(ctx, crawlID, 1))
		}},
		{domain.GapLowInlinks, low, func(ctx context.Context) (int, error) {
			return hits(s.classifier.LowInlinks(ctx, crawlID, th.MaxInlinks, 1))
		}},
		{domain.GapDeepPage, deep, func(ctx context.Context) (int, error) {
			return hits(s.classifier.Deep(ctx, crawlID, th.MinDepth, 1))
		}},
		{domain.GapNotInSitemap, sitemap, func(ctx context.Context) (int, error) {
			return hits(s.classifier.NotInSitemap(ctx, crawlID, 1))
		}},
	}

	for _, t := range targets {
		g.Go(s.count(ctx, string(t.gap), t.dst, t.fn))
	}
}

func (s *MetricsService) distributions(ctx context.Context, g *errgroup.Group, crawlID string, inlinks, depth *json.RawMessage) {
	g.Go(s.aggregate(ctx, "inlinks_distribution", inlinks, func(ctx context.Context) (json.RawMessage, error) {
		return s.classifier.InlinksDistribution(ctx, crawlID)
	}))
	g.Go(s.aggregate(ctx, "depth_distribution", depth, func(ctx context.Context) (json.RawMessage, error) {
		return s.classifier.DepthDistribution(ctx, crawlID)
	}))
}

func (s *MetricsService) count(ctx context.Context, name string, dst *int, fn countFunc) func() error {
	return func() error {
		n, err := fn(ctx)
		if err != nil {
			logger.FromContext(ctx).Warn("Dashboard count failed",
				logger.String("metric", name),
				logger.Error(err),
			)
			return nil
		}
		*dst = n
		return nil
	}
}

func (s *MetricsService) aggregate(ctx context.Context, name string, dst *json.RawMessage, fn aggFunc) func() error {
	return func() error {
		raw, err := fn(ctx)
		if err != nil {
			logger.FromContext(ctx).Warn("Dashboard aggregation failed",
				logger.String("metric", name),
				logger.Error(err),
			)
			return nil
		}
		*dst = raw
		return nil
	}
}

// hits reads total_hits from a limit-1 query.
func hits(res *oncrawl.PageResult, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	return res.Meta.TotalHits, nil
}
