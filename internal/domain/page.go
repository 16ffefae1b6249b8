package domain

import "slices"

// Gap is a named technical deficiency attributed to a page.
type Gap string

const (
	GapOrphaned     Gap = "orphaned"
	GapLowInlinks   Gap = "low_inlinks"
	GapDeepPage     Gap = "deep_page"
	GapNotInSitemap Gap = "not_in_sitemap"
)

// RankingOrder is the fixed order in which classifications are merged.
var RankingOrder = []Gap{GapOrphaned, GapLowInlinks, GapDeepPage}

// Page is one crawled URL as returned by the OnCrawl pages endpoint. JSON
// names follow the upstream field names.
type Page struct {
	URL        string `json:"url"`
	Inlinks    int    `json:"nb_inlinks"`
	Depth      int    `json:"depth"`
	StatusCode int    `json:"status_code"`
	Title      string `json:"title,omitempty"`
	WordCount  int    `json:"word_count,omitempty"`
	InSitemap  *bool  `json:"in_sitemap,omitempty"`
}

// PageRecord is a page within one ranking run, with the gaps found for it.
type PageRecord struct {
	Page

	TechnicalGaps []Gap   `json:"technical_gaps"`
	PriorityScore float64 `json:"priority_score"`
}

// NewPageRecord starts a ranking record with a single gap.
func NewPageRecord(page Page, gap Gap) *PageRecord {
	rec := &PageRecord{Page: page, TechnicalGaps: []Gap{gap}}
	rec.PriorityScore = Score(rec.TechnicalGaps, rec.Depth)
	return rec
}

// AddGap appends gap when absent and recomputes the score from the full set.
// It reports whether the gap was new.
func (p *PageRecord) AddGap(gap Gap) bool {
	if p.HasGap(gap) {
		return false
	}
	p.TechnicalGaps = append(p.TechnicalGaps, gap)
	p.PriorityScore = Score(p.TechnicalGaps, p.Depth)
	return true
}

// HasGap reports whether gap is already attributed to the page.
func (p *PageRecord) HasGap(gap Gap) bool {
	return slices.Contains(p.TechnicalGaps, gap)
}
