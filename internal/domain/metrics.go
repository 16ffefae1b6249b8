package domain

import "encoding/json"

// TechnicalSummary counts each gap class for a crawl. Distributions are the
// raw upstream aggregation payloads and are nil when their query failed.
type TechnicalSummary struct {
	CrawlID             string          `json:"crawl_id"`
	InlinksDistribution json.RawMessage `json:"inlinks_distribution"`
	DepthDistribution   json.RawMessage `json:"depth_distribution"`
	OrphanedCount       int             `json:"orphaned_count"`
	LowInlinksCount     int             `json:"low_inlinks_count"`
	DeepPagesCount      int             `json:"deep_pages_count"`
	NotInSitemapCount   int             `json:"not_in_sitemap_count"`
}

// DashboardMetrics is the overview shown above the ranking.
type DashboardMetrics struct {
	CrawlID             string          `json:"crawl_id"`
	TotalPages          int             `json:"total_pages"`
	OrphanedPages       int             `json:"orphaned_pages"`
	LowInlinksPages     int             `json:"low_inlinks_pages"`
	DeepPages           int             `json:"deep_pages"`
	NotInSitemapPages   int             `json:"not_in_sitemap_pages"`
	InlinksDistribution json.RawMessage `json:"inlinks_distribution"`
	DepthDistribution   json.RawMessage `json:"depth_distribution"`
}
