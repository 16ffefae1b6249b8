package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidLimit is returned for a limit outside [1, max].
var ErrInvalidLimit = errors.New("invalid limit")

// PriorityRequest asks for a ranking of pages needing internal links.
type PriorityRequest struct {
	// CrawlID is optional; the first live crawl is used when empty.
	CrawlID  string `json:"crawl_id,omitempty"`
	Market   string `json:"market"`
	Category string `json:"category"`
	// Limit caps each classification query and the ranked output.
	Limit int `json:"limit"`
}

// Validate fills defaults and checks the limit. A zero Limit means unset;
// callers reject an explicit zero before building the request.
func (r *PriorityRequest) Validate(defaultLimit, maxLimit int) error {
	if r.Market == "" {
		r.Market = MarketGlobal
	}
	if r.Category == "" {
		r.Category = CategoryAll
	}
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit < 1 || r.Limit > maxLimit {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidLimit, r.Limit, maxLimit)
	}
	return nil
}

// PriorityResponse is the ranked output.
type PriorityResponse struct {
	CrawlID  string        `json:"crawl_id"`
	Market   string        `json:"market"`
	Category string        `json:"category"`
	Pages    []*PageRecord `json:"pages"`
	Total    int           `json:"total"`
}
