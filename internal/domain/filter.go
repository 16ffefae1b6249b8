package domain

import (
	"slices"
	"strings"
)

const (
	// MarketGlobal matches every URL. The comparison is exact.
	MarketGlobal = "global"

	CategoryAll      = "all"
	CategoryPoor     = "poor"
	CategoryModerate = "moderate"
)

// marketPatterns are substring patterns per market code. Matching is a coarse
// locale heuristic on the lowercased URL, not path parsing.
var marketPatterns = map[string][]string{
	"us": {"/us/", "/en-us/", "squareup.com/us"},
	"ca": {"/ca/", "/en-ca/", "squareup.com/ca"},
	"gb": {"/gb/", "/en-gb/", "squareup.com/gb"},
	"au": {"/au/", "/en-au/", "squareup.com/au"},
	"ie": {"/ie/", "/en-ie/", "squareup.com/ie"},
	"es": {"/es/", "/es-es/", "squareup.com/es"},
	"jp": {"/jp/", "/ja-jp/", "squareup.com/jp"},
	"fr": {"/fr/", "/fr-fr/", "squareup.com/fr"},
}

// Markets returns the known market codes, sorted.
func Markets() []string {
	codes := make([]string, 0, len(marketPatterns))
	for code := range marketPatterns {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// MatchesMarket reports whether url belongs to market. Unknown markets match nothing.
func MatchesMarket(url, market string) bool {
	if market == MarketGlobal {
		return true
	}

	lowered := strings.ToLower(url)
	for _, pattern := range marketPatterns[strings.ToLower(market)] {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether page falls in the severity category.
// Unrecognised categories match everything.
func MatchesCategory(page *PageRecord, category string) bool {
	switch category {
	case CategoryPoor:
		return page.HasGap(GapOrphaned) || len(page.TechnicalGaps) >= 2
	case CategoryModerate:
		return len(page.TechnicalGaps) == 1 && !page.HasGap(GapOrphaned)
	default:
		return true
	}
}
