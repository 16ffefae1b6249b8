// Package service ranks pages needing internal links and builds the dashboard
// overview for a crawl.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

// ErrNoLiveCrawl is returned when no crawl ID was given and none is live.
var ErrNoLiveCrawl = errors.New("no live crawls available")

// CrawlResolver lists the crawls whose data can be queried.
type CrawlResolver interface {
	LiveCrawls(ctx context.Context) ([]oncrawl.LiveCrawl, error)
}

// Fetcher runs the ranking classifications for a crawl.
type Fetcher interface {
	FetchAll(ctx context.Context, crawlID string, limit int) gaps.Classifications
}

// Limits bound the ranking size.
type Limits struct {
	Default int
	Max     int
}

// PriorityService produces the ranked priority page list.
type PriorityService struct {
	crawls    CrawlResolver
	fetcher   Fetcher
	limits    Limits
	telemetry *telemetry.Provider
	logger    logger.Logger
}

// NewPriorityService creates a new priority service.
func NewPriorityService(
	crawls CrawlResolver,
	fetcher Fetcher,
	limits Limits,
	tp *telemetry.Provider,
	log logger.Logger,
) *PriorityService {
	return &PriorityService{
		crawls:    crawls,
		fetcher:   fetcher,
		limits:    limits,
		telemetry: tp,
		logger:    log,
	}
}

// ResolveCrawlID returns crawlID, or the first live crawl when it is empty.
// A failed live-crawl listing counts as no live crawl.
func (s *PriorityService) ResolveCrawlID(ctx context.Context, crawlID string) (string, error) {
	return resolveCrawlID(ctx, s.crawls, crawlID)
}

func resolveCrawlID(ctx context.Context, crawls CrawlResolver, crawlID string) (string, error) {
	if crawlID != "" {
		return crawlID, nil
	}

	live, err := crawls.LiveCrawls(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("Listing live crawls failed",
			logger.Error(err),
		)
		return "", ErrNoLiveCrawl
	}
	if len(live) == 0 {
		return "", ErrNoLiveCrawl
	}

	return live[0].CrawlID, nil
}

// GetPriorityPages ranks pages by internal-linking priority. Classification
// failures shrink the result instead of failing the call.
func (s *PriorityService) GetPriorityPages(ctx context.Context, req *domain.PriorityRequest) (*domain.PriorityResponse, error) {
	startTime := time.Now()

	if err := req.Validate(s.limits.Default, s.limits.Max); err != nil {
		s.logger.Warn("Invalid priority request",
			logger.Error(err),
		)
		return nil, fmt.Errorf("validation error: %w", err)
	}

	crawlID, err := s.ResolveCrawlID(ctx, req.CrawlID)
	if err != nil {
		return nil, err
	}

	ctx, span := s.telemetry.StartSpan(ctx, "service.priority_pages",
		attribute.String("crawl_id", crawlID),
		attribute.String("market", req.Market),
		attribute.String("category", req.Category),
		attribute.Int("limit", req.Limit),
	)
	defer telemetry.EndSpan(span, nil)

	results := s.fetcher.FetchAll(ctx, crawlID, req.Limit)
	pages := mergeAndRank(results, req.Market, req.Category, req.Limit)

	took := time.Since(startTime)
	s.telemetry.RecordRanking(len(pages), took)
	span.SetAttributes(attribute.Int("pages", len(pages)))

	logger.FromContext(ctx).Info("Ranked priority pages",
		logger.CrawlID(crawlID),
		logger.String("market", req.Market),
		logger.String("category", req.Category),
		logger.Int("limit", req.Limit),
		logger.Int("pages", len(pages)),
		logger.Duration("took", took),
	)

	return &domain.PriorityResponse{
		CrawlID:  crawlID,
		Market:   req.Market,
		Category: req.Category,
		Pages:    pages,
		Total:    len(pages),
	}, nil
}

// mergeAndRank folds the classifications into one record per URL, orders by
// score, truncates to limit and only then applies the category filter.
func mergeAndRank(results gaps.Classifications, market, category string, limit int) []*domain.PageRecord {
	byURL := make(map[string]*domain.PageRecord)
	ordered := make([]*domain.PageRecord, 0)

	for _, gap := range domain.RankingOrder {
		for _, res := range results {
			if res.Gap != gap || res.Err != nil {
				continue
			}
			for _, page := range res.Pages {
				if page.URL == "" || !domain.MatchesMarket(page.URL, market) {
					continue
				}
				if rec, ok := byURL[page.URL]; ok {
					rec.AddGap(gap)
					continue
				}
				rec := domain.NewPageRecord(page, gap)
				byURL[page.URL] = rec
				ordered = append(ordered, rec)
			}
		}
	}

	slices.SortStableFunc(ordered, func(a, b *domain.PageRecord) int {
		switch {
		case a.PriorityScore > b.PriorityScore:
			return -1
		case a.PriorityScore < b.PriorityScore:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	if category == domain.CategoryAll {
		return ordered
	}

	filtered := make([]*domain.PageRecord, 0, len(ordered))
	for _, rec := range ordered {
		if domain.MatchesCategory(rec, category) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
