// Package gaps classifies crawled pages into internal-linking gaps by querying
// the OnCrawl Data API.
package gaps

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

// Querier is the part of the OnCrawl client the classifier needs.
type Querier interface {
	QueryPages(ctx context.Context, crawlID string, q oncrawl.PageQuery) (*oncrawl.PageResult, error)
	AggregatePages(ctx context.Context, crawlID string, aggs []oncrawl.Aggregation) (json.RawMessage, error)
}

// Thresholds bound the low-inlink and deep-page classes.
type Thresholds struct {
	MaxInlinks int
	MinDepth   int
}

var (
	rankingFields = []string{
		oncrawl.FieldURL, oncrawl.FieldInlinks, oncrawl.FieldDepth,
		oncrawl.FieldStatusCode, oncrawl.FieldTitle, oncrawl.FieldWordCount,
	}
	sitemapFields = []string{
		oncrawl.FieldURL, oncrawl.FieldInlinks, oncrawl.FieldDepth,
		oncrawl.FieldStatusCode, oncrawl.FieldTitle, oncrawl.FieldInSitemap,
	}
)

// Classifier issues the gap queries.
type Classifier struct {
	querier    Querier
	thresholds Thresholds
	telemetry  *telemetry.Provider
	logger     logger.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(q Querier, th Thresholds, tp *telemetry.Provider, log logger.Logger) *Classifier {
	return &Classifier{querier: q, thresholds: th, telemetry: tp, logger: log}
}

// Thresholds returns the configured bounds.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Orphaned returns fetched 200 pages with no inlinks, deepest first.
func (c *Classifier) Orphaned(ctx context.Context, crawlID string, limit int) (*oncrawl.PageResult, error) {
	return c.querier.QueryPages(ctx, crawlID, oncrawl.PageQuery{
		Limit:  limit,
		Fields: rankingFields,
		OQL:    oncrawl.FetchedOK(oncrawl.Equals(oncrawl.FieldInlinks, 0)),
		Sort:   []oncrawl.SortSpec{{Field: oncrawl.FieldDepth, Order: oncrawl.SortDesc}},
	})
}

// LowInlinks returns pages with 1..maxInlinks inlinks, fewest first.
func (c *Classifier) LowInlinks(ctx context.Context, crawlID string, maxInlinks, limit int) (*oncrawl.PageResult, error) {
	return c.querier.QueryPages(ctx, crawlID, oncrawl.PageQuery{
		Limit:  limit,
		Fields: rankingFields,
		OQL: oncrawl.FetchedOK(
			oncrawl.Gt(oncrawl.FieldInlinks, 0),
			oncrawl.Lte(oncrawl.FieldInlinks, maxInlinks),
		),
		Sort: []oncrawl.SortSpec{{Field: oncrawl.FieldInlinks, Order: oncrawl.SortAsc}},
	})
}

// Deep returns pages at depth >= minDepth, deepest first.
func (c *Classifier) Deep(ctx context.Context, crawlID string, minDepth, limit int) (*oncrawl.PageResult, error) {
	return c.querier.QueryPages(ctx, crawlID, oncrawl.PageQuery{
		Limit:  limit,
		Fields: oncrawl.DefaultPageFields,
		OQL:    oncrawl.FetchedOK(oncrawl.Gte(oncrawl.FieldDepth, minDepth)),
		Sort:   []oncrawl.SortSpec{{Field: oncrawl.FieldDepth, Order: oncrawl.SortDesc}},
	})
}

// NotInSitemap returns pages missing from the sitemaps, fewest inlinks first.
func (c *Classifier) NotInSitemap(ctx context.Context, crawlID string, limit int) (*oncrawl.PageResult, error) {
	return c.querier.QueryPages(ctx, crawlID, oncrawl.PageQuery{
		Limit:  limit,
		Fields: sitemapFields,
		OQL:    oncrawl.FetchedOK(oncrawl.Equals(oncrawl.FieldInSitemap, false)),
		Sort:   []oncrawl.SortSpec{{Field: oncrawl.FieldInlinks, Order: oncrawl.SortAsc}},
	})
}

// TotalPages counts fetched 200 pages.
func (c *Classifier) TotalPages(ctx context.Context, crawlID string) (int, error) {
	res, err := c.querier.QueryPages(ctx, crawlID, oncrawl.PageQuery{
		Limit:  1,
		Fields: []string{oncrawl.FieldURL},
		OQL:    oncrawl.FetchedOK(),
	})
	if err != nil {
		return 0, err
	}
	return res.Meta.TotalHits, nil
}

// Classify runs the query for gap using the configured thresholds.
func (c *Classifier) Classify(ctx context.Context, crawlID string, gap domain.Gap, limit int) (*oncrawl.PageResult, error) {
	switch gap {
	case domain.GapOrphaned:
		return c.Orphaned(ctx, crawlID, limit)
	case domain.GapLowInlinks:
		return c.LowInlinks(ctx, crawlID, c.thresholds.MaxInlinks, limit)
	case domain.GapDeepPage:
		return c.Deep(ctx, crawlID, c.thresholds.MinDepth, limit)
	case domain.GapNotInSitemap:
		return c.NotInSitemap(ctx, crawlID, limit)
	default:
		return nil, fmt.Errorf("no query for gap %q", gap)
	}
}

// Result is one classification. A failed fetch carries Err and no pages.
type Result struct {
	Gap   domain.Gap
	Pages []domain.Page
	Err   error
}

// Classifications holds one Result per gap in domain.RankingOrder.
type Classifications []Result

// FetchAll runs the ranking classifications concurrently, each capped at
// limit. Failures are logged and counted, never returned: a failed
// classification contributes no pages.
func (c *Classifier) FetchAll(ctx context.Context, crawlID string, limit int) Classifications {
	results := make(Classifications, len(domain.RankingOrder))

	var g errgroup.Group
	for i, gap := range domain.RankingOrder {
		g.Go(func() error {
			results[i] = c.fetchOne(ctx, crawlID, gap, limit)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Classifier) fetchOne(ctx context.Context, crawlID string, gap domain.Gap, limit int) Result {
	ctx, span := c.telemetry.StartSpan(ctx, "gaps.classify",
		attribute.String("gap", string(gap)),
		attribute.String("crawl_id", crawlID),
		attribute.Int("limit", limit),
	)

	res, err := c.Classify(ctx, crawlID, gap, limit)
	telemetry.EndSpan(span, err)

	if err != nil {
		c.telemetry.RecordClassificationFailure(string(gap))
		logger.FromContext(ctx).Warn("Classification degraded to empty",
			logger.String("gap", string(gap)),
			logger.CrawlID(crawlID),
			logger.Error(err),
		)
		return Result{Gap: gap, Err: err}
	}

	return Result{Gap: gap, Pages: res.URLs}
}
