package gaps

import (
	"context"
	"encoding/json"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
)

// inlinkRanges buckets pages by inlink count. To is exclusive.
var inlinkRanges = []oncrawl.Range{
	{Name: "0", To: oncrawl.Bound(1)},
	{Name: "1-3", From: oncrawl.Bound(1), To: oncrawl.Bound(4)},
	{Name: "4-10", From: oncrawl.Bound(4), To: oncrawl.Bound(11)},
	{Name: "11-50", From: oncrawl.Bound(11), To: oncrawl.Bound(51)},
	{Name: "50+", From: oncrawl.Bound(51)},
}

// InlinksDistribution counts fetched 200 pages per inlink range.
func (c *Classifier) InlinksDistribution(ctx context.Context, crawlID string) (json.RawMessage, error) {
	return c.querier.AggregatePages(ctx, crawlID, []oncrawl.Aggregation{{
		Fields: []oncrawl.AggField{{Name: oncrawl.FieldInlinks, Ranges: inlinkRanges}},
		OQL:    oncrawl.FetchedOK(),
	}})
}

// DepthDistribution counts fetched 200 pages per crawl depth.
func (c *Classifier) DepthDistribution(ctx context.Context, crawlID string) (json.RawMessage, error) {
	return c.querier.AggregatePages(ctx, crawlID, []oncrawl.Aggregation{{
		Fields: []oncrawl.AggField{{Name: oncrawl.FieldDepth}},
		OQL:    oncrawl.FetchedOK(),
	}})
}
