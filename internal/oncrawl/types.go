package oncrawl

import (
	"encoding/json"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
)

// Crawl link statuses and crawl states.
const (
	LinkStatusLive = "live"
	StatusDone     = "done"
	StatusRunning  = "running"
)

// Project is an OnCrawl project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartURL    string `json:"start_url,omitempty"`
	LastCrawlID string `json:"last_crawl_id,omitempty"`
}

// Crawl holds the crawl details used to decide whether data can be queried.
type Crawl struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id,omitempty"`
	Status      string          `json:"status"`
	LinkStatus  string          `json:"link_status"`
	FetchedURLs int             `json:"fetched_urls"`
	CrawlConfig json.RawMessage `json:"crawl_config,omitempty"`
}

// IsLive reports whether the crawl's data is still queryable.
func (c *Crawl) IsLive() bool {
	return c.LinkStatus == LinkStatusLive
}

// LiveCrawl is the latest crawl of a project whose data is live.
type LiveCrawl struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	CrawlID     string          `json:"crawl_id"`
	Status      string          `json:"status"`
	LinkStatus  string          `json:"link_status"`
	CrawlConfig json.RawMessage `json:"crawl_config,omitempty"`
}

// PageField describes one queryable page field.
type PageField struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Arity      string   `json:"arity,omitempty"`
	CanDisplay bool     `json:"can_display"`
	CanFilter  bool     `json:"can_filter"`
	CanSort    bool     `json:"can_sort"`
	Actions    []string `json:"actions,omitempty"`
}

// Meta is the pagination metadata of a query.
type Meta struct {
	TotalHits int `json:"total_hits"`
}

// PageResult is the response of a pages query.
type PageResult struct {
	URLs []domain.Page `json:"urls"`
	Meta Meta          `json:"meta"`
}

// ConnectionStatus reports whether the API token works.
type ConnectionStatus struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ProjectCount int    `json:"project_count,omitempty"`
	Error        string `json:"error,omitempty"`
}
