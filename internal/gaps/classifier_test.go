package gaps_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/gaps"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

// fakeQuerier answers page queries by their sort field, which is unique per
// classification.
type fakeQuerier struct {
	mu      sync.Mutex
	queries []oncrawl.PageQuery
	aggs    [][]oncrawl.Aggregation
	pages   map[string][]domain.Page
	fail    map[string]error
	total   int
}

func (f *fakeQuerier) QueryPages(_ context.Context, _ string, q oncrawl.PageQuery) (*oncrawl.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)

	key := queryKey(q)
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	return &oncrawl.PageResult{URLs: f.pages[key], Meta: oncrawl.Meta{TotalHits: f.total}}, nil
}

func (f *fakeQuerier) AggregatePages(_ context.Context, _ string, aggs []oncrawl.Aggregation) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aggs = append(f.aggs, aggs)
	return json.RawMessage(`[]`), nil
}

// queryKey names the classification a query belongs to.
func queryKey(q oncrawl.PageQuery) string {
	for _, c := range q.OQL.And {
		switch {
		case c.Field == oncrawl.FieldInlinks && c.Op == oncrawl.OpEquals:
			return string(domain.GapOrphaned)
		case c.Field == oncrawl.FieldInlinks && c.Op == oncrawl.OpLte:
			return string(domain.GapLowInlinks)
		case c.Field == oncrawl.FieldDepth && c.Op == oncrawl.OpGte:
			return string(domain.GapDeepPage)
		case c.Field == oncrawl.FieldInSitemap:
			return string(domain.GapNotInSitemap)
		}
	}
	return "total"
}

func newClassifier(q gaps.Querier) *gaps.Classifier {
	return gaps.NewClassifier(q, gaps.Thresholds{MaxInlinks: 3, MinDepth: 4}, telemetry.NewProvider(), logger.NewNop())
}

func TestClassify_BuildsQueries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		gap      domain.Gap
		sort     oncrawl.SortSpec
		last     oncrawl.Condition
		hasField string
	}{
		{domain.GapOrphaned, oncrawl.SortSpec{Field: "depth", Order: "desc"}, oncrawl.Equals("nb_inlinks", 0), "word_count"},
		{domain.GapLowInlinks, oncrawl.SortSpec{Field: "nb_inlinks", Order: "asc"}, oncrawl.Lte("nb_inlinks", 3), "word_count"},
		{domain.GapDeepPage, oncrawl.SortSpec{Field: "depth", Order: "desc"}, oncrawl.Gte("depth", 4), "title"},
		{domain.GapNotInSitemap, oncrawl.SortSpec{Field: "nb_inlinks", Order: "asc"}, oncrawl.Equals("in_sitemap", false), "in_sitemap"},
	}

	for _, tt := range tests {
		t.Run(string(tt.gap), func(t *testing.T) {
			t.Parallel()

			q := &fakeQuerier{}
			_, err := newClassifier(q).Classify(context.Background(), "crawl-1", tt.gap, 25)
			require.NoError(t, err)
			require.Len(t, q.queries, 1)

			got := q.queries[0]
			assert.Equal(t, 25, got.Limit)
			assert.Equal(t, []oncrawl.SortSpec{tt.sort}, got.Sort)
			assert.Contains(t, got.Fields, tt.hasField)

			conds := got.OQL.And
			require.GreaterOrEqual(t, len(conds), 3)
			assert.Equal(t, oncrawl.Equals("fetched", true), conds[0])
			assert.Equal(t, oncrawl.Equals("status_code", 200), conds[1])
			assert.Equal(t, tt.last, conds[len(conds)-1])
		})
	}
}

func TestClassify_UnknownGap(t *testing.T) {
	t.Parallel()

	_, err := newClassifier(&fakeQuerier{}).Classify(context.Background(), "crawl-1", domain.Gap("stale"), 10)
	require.Error(t, err)
}

func TestFetchAll_OrderAndIsolation(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream 500")
	q := &fakeQuerier{
		pages: map[string][]domain.Page{
			"orphaned": {{URL: "https://squareup.com/us/en/a", Depth: 6}},
			"deep_page": {
				{URL: "https://squareup.com/us/en/b", Depth: 5},
				{URL: "https://squareup.com/us/en/c", Depth: 4},
			},
		},
		fail: map[string]error{"low_inlinks": boom},
	}

	results := newClassifier(q).FetchAll(context.Background(), "crawl-1", 100)

	require.Len(t, results, 3)
	assert.Equal(t, domain.GapOrphaned, results[0].Gap)
	assert.Len(t, results[0].Pages, 1)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, domain.GapLowInlinks, results[1].Gap)
	assert.Empty(t, results[1].Pages)
	assert.ErrorIs(t, results[1].Err, boom)

	assert.Equal(t, domain.GapDeepPage, results[2].Gap)
	assert.Len(t, results[2].Pages, 2)

	assert.Len(t, q.queries, 3)
	for _, got := range q.queries {
		assert.Equal(t, 100, got.Limit)
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{total: 8421}
	n, err := newClassifier(q).TotalPages(context.Background(), "crawl-1")
	require.NoError(t, err)
	assert.Equal(t, 8421, n)

	require.Len(t, q.queries, 1)
	assert.Equal(t, 1, q.queries[0].Limit)
	assert.Equal(t, []string{"url"}, q.queries[0].Fields)
}

func TestDistributions(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	c := newClassifier(q)

	_, err := c.InlinksDistribution(context.Background(), "crawl-1")
	require.NoError(t, err)
	_, err = c.DepthDistribution(context.Background(), "crawl-1")
	require.NoError(t, err)

	require.Len(t, q.aggs, 2)

	body, err := json.Marshal(q.aggs[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `{"name":"0","to":1}`)
	assert.Contains(t, string(body), `{"name":"50+","from":51}`)

	depth := q.aggs[1][0]
	assert.Equal(t, []oncrawl.AggField{{Name: "depth"}}, depth.Fields)
	assert.Len(t, depth.OQL.And, 2)
}
