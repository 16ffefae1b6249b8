package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/service"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

type fakeResolver struct {
	live  []oncrawl.LiveCrawl
	err   error
	calls int
}

func (f *fakeResolver) LiveCrawls(context.Context) ([]oncrawl.LiveCrawl, error) {
	f.calls++
	return f.live, f.err
}

type fakeFetcher struct {
	results gaps.Classifications
	crawlID string
	limit   int
}

func (f *fakeFetcher) FetchAll(_ context.Context, crawlID string, limit int) gaps.Classifications {
	f.crawlID = crawlID
	f.limit = limit
	return f.results
}

func page(url string, depth int) domain.Page {
	return domain.Page{URL: url, Depth: depth, StatusCode: 200}
}

func classifications(orphaned, low, deep []domain.Page) gaps.Classifications {
	return gaps.Classifications{
		{Gap: domain.GapOrphaned, Pages: orphaned},
		{Gap: domain.GapLowInlinks, Pages: low},
		{Gap: domain.GapDeepPage, Pages: deep},
	}
}

func newPriorityService(resolver service.CrawlResolver, fetcher service.Fetcher) *service.PriorityService {
	return service.NewPriorityService(resolver, fetcher, service.Limits{Default: 100, Max: 5000},
		telemetry.NewProvider(), logger.NewNop())
}

func urls(pages []*domain.PageRecord) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.URL
	}
	return out
}

func TestMergeAndRank_DeduplicatesAndRescores(t *testing.T) {
	t.Parallel()

	a := page("https://squareup.com/us/en/a", 5)
	results := classifications([]domain.Page{a}, nil, []domain.Page{a, a})

	got := service.MergeAndRank(results, domain.MarketGlobal, domain.CategoryAll, 100)

	require.Len(t, got, 1)
	assert.Equal(t, []domain.Gap{domain.GapOrphaned, domain.GapDeepPage}, got[0].TechnicalGaps)
	assert.InDelta(t, 100.0, got[0].PriorityScore, 1e-9)
}

func TestMergeAndRank_OrdersByScoreStable(t *testing.T) {
	t.Parallel()

	results := classifications(
		[]domain.Page{page("https://squareup.com/us/o1", 2), page("https://squareup.com/us/o2", 2)},
		[]domain.Page{page("https://squareup.com/us/l1", 2)},
		[]domain.Page{page("https://squareup.com/us/d1", 4)},
	)

	got := service.MergeAndRank(results, domain.MarketGlobal, domain.CategoryAll, 100)

	assert.Equal(t, []string{
		"https://squareup.com/us/l1",
		"https://squareup.com/us/o1",
		"https://squareup.com/us/o2",
		"https://squareup.com/us/d1",
	}, urls(got))
	assert.InDelta(t, 50.0, got[0].PriorityScore, 1e-9)
	assert.InDelta(t, 42.5, got[1].PriorityScore, 1e-9)
}

func TestMergeAndRank_TruncatesBeforeCategoryFilter(t *testing.T) {
	t.Parallel()

	x := page("https://squareup.com/us/x", 5)
	results := classifications(
		[]domain.Page{x},
		[]domain.Page{page("https://squareup.com/us/y", 2)},
		[]domain.Page{x, page("https://squareup.com/us/z", 4)},
	)

	got := service.MergeAndRank(results, domain.MarketGlobal, domain.CategoryModerate, 2)

	assert.Equal(t, []string{"https://squareup.com/us/y"}, urls(got))
}

func TestMergeAndRank_MarketExcludesTopScorer(t *testing.T) {
	t.Parallel()

	gb := page("https://squareup.com/gb/en/top", 6)
	results := classifications(
		[]domain.Page{gb},
		[]domain.Page{page("https://squareup.com/us/en/low", 2)},
		[]domain.Page{gb},
	)

	got := service.MergeAndRank(results, "us", domain.CategoryAll, 10)

	assert.Equal(t, []string{"https://squareup.com/us/en/low"}, urls(got))
}

func TestMergeAndRank_SkipsFailedAndEmptyURLs(t *testing.T) {
	t.Parallel()

	results := gaps.Classifications{
		{Gap: domain.GapOrphaned, Pages: []domain.Page{page("", 3)}},
		{Gap: domain.GapLowInlinks, Err: errors.New("timeout")},
		{Gap: domain.GapDeepPage, Pages: []domain.Page{page("https://squareup.com/us/d", 4)}},
	}

	got := service.MergeAndRank(results, domain.MarketGlobal, domain.CategoryAll, 10)

	assert.Equal(t, []string{"https://squareup.com/us/d"}, urls(got))
}

func TestMergeAndRank_Idempotent(t *testing.T) {
	t.Parallel()

	a := page("https://squareup.com/us/a", 6)
	build := func() gaps.Classifications {
		return classifications(
			[]domain.Page{a, page("https://squareup.com/us/b", 1)},
			[]domain.Page{page("https://squareup.com/us/c", 2)},
			[]domain.Page{a, page("https://squareup.com/us/d", 7)},
		)
	}

	first := service.MergeAndRank(build(), domain.MarketGlobal, domain.CategoryPoor, 3)
	second := service.MergeAndRank(build(), domain.MarketGlobal, domain.CategoryPoor, 3)

	assert.Equal(t, first, second)
}

func TestGetPriorityPages_ResolvesFirstLiveCrawl(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{live: []oncrawl.LiveCrawl{{CrawlID: "live-1"}, {CrawlID: "live-2"}}}
	fetcher := &fakeFetcher{results: classifications(
		[]domain.Page{page("https://squareup.com/us/a", 2)}, nil, nil,
	)}

	resp, err := newPriorityService(resolver, fetcher).GetPriorityPages(context.Background(), &domain.PriorityRequest{})
	require.NoError(t, err)

	assert.Equal(t, "live-1", resp.CrawlID)
	assert.Equal(t, domain.MarketGlobal, resp.Market)
	assert.Equal(t, domain.CategoryAll, resp.Category)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "live-1", fetcher.crawlID)
	assert.Equal(t, 100, fetcher.limit)
}

func TestGetPriorityPages_ExplicitCrawlSkipsResolution(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{}
	fetcher := &fakeFetcher{results: classifications(nil, nil, nil)}

	resp, err := newPriorityService(resolver, fetcher).GetPriorityPages(context.Background(),
		&domain.PriorityRequest{CrawlID: "crawl-9", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, "crawl-9", resp.CrawlID)
	assert.Equal(t, 0, resolver.calls)
	assert.Equal(t, 20, fetcher.limit)
}

func TestGetPriorityPages_NoLiveCrawl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver *fakeResolver
	}{
		{"empty list", &fakeResolver{}},
		{"listing failed", &fakeResolver{err: errors.New("upstream down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newPriorityService(tt.resolver, &fakeFetcher{}).GetPriorityPages(context.Background(),
				&domain.PriorityRequest{})
			require.ErrorIs(t, err, service.ErrNoLiveCrawl)
		})
	}
}

func TestGetPriorityPages_AllClassificationsFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("503")
	fetcher := &fakeFetcher{results: gaps.Classifications{
		{Gap: domain.GapOrphaned, Err: boom},
		{Gap: domain.GapLowInlinks, Err: boom},
		{Gap: domain.GapDeepPage, Err: boom},
	}}

	resp, err := newPriorityService(&fakeResolver{}, fetcher).GetPriorityPages(context.Background(),
		&domain.PriorityRequest{CrawlID: "crawl-1"})
	require.NoError(t, err)

	require.NotNil(t, resp.Pages)
	assert.Empty(t, resp.Pages)
	assert.Equal(t, 0, resp.Total)
}

func TestGetPriorityPages_InvalidLimit(t *testing.T) {
	t.Parallel()

	_, err := newPriorityService(&fakeResolver{}, &fakeFetcher{}).GetPriorityPages(context.Background(),
		&domain.PriorityRequest{CrawlID: "crawl-1", Limit: 5001})
	require.ErrorIs(t, err, domain.ErrInvalidLimit)
}
