package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
)

func TestMatchesMarket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		market string
		want   bool
	}{
		{"global matches anything", "https://example.com/whatever", "global", true},
		{"us path segment", "https://squareup.com/us/en/point-of-sale", "us", true},
		{"us locale segment", "https://example.com/en-us/pricing", "us", true},
		{"us host path", "https://squareup.com/us", "us", true},
		{"case-insensitive url", "https://SquareUp.com/US/EN/Payments", "us", true},
		{"case-insensitive market code", "https://squareup.com/gb/en", "GB", true},
		{"other market excluded", "https://squareup.com/ca/en/payments", "us", false},
		{"substring not segment", "https://example.com/campus/news", "us", false},
		{"substring inside longer path still matches", "https://example.com/bonus/fr/x", "fr", true},
		{"spain uses es-es", "https://squareup.com/es-es/tpv", "es", true},
		{"japan uses ja-jp", "https://squareup.com/ja-jp/pos", "jp", true},
		{"france uses fr-fr", "https://example.com/fr-fr/caisse", "fr", true},
		{"unknown market matches nothing", "https://squareup.com/us/en", "mx", false},
		{"Global wildcard is exact", "https://example.com/", "Global", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.MatchesMarket(tt.url, tt.market))
		})
	}
}

func TestMatchesCategory(t *testing.T) {
	t.Parallel()

	page := func(gaps ...domain.Gap) *domain.PageRecord {
		return &domain.PageRecord{Page: domain.Page{URL: "https://squareup.com/us/en/a"}, TechnicalGaps: gaps}
	}

	tests := []struct {
		name     string
		page     *domain.PageRecord
		category string
		want     bool
	}{
		{"poor keeps orphaned", page(domain.GapOrphaned), "poor", true},
		{"poor keeps two non-orphaned gaps", page(domain.GapDeepPage, domain.GapNotInSitemap), "poor", true},
		{"poor drops single low inlinks", page(domain.GapLowInlinks), "poor", false},
		{"moderate keeps single deep page", page(domain.GapDeepPage), "moderate", true},
		{"moderate drops orphaned", page(domain.GapOrphaned), "moderate", false},
		{"moderate drops multi-gap", page(domain.GapLowInlinks, domain.GapDeepPage), "moderate", false},
		{"all keeps everything", page(domain.GapOrphaned), "all", true},
		{"unknown category keeps everything", page(domain.GapDeepPage), "critical", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.MatchesCategory(tt.page, tt.category))
		})
	}
}

func TestMarkets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"au", "ca", "es", "fr", "gb", "ie", "jp", "us"}, domain.Markets())
}

func TestPriorityRequest_Validate(t *testing.T) {
	t.Parallel()

	req := domain.PriorityRequest{}
	require.NoError(t, req.Validate(100, 5000))
	assert.Equal(t, domain.PriorityRequest{Market: "global", Category: "all", Limit: 100}, req)

	for _, limit := range []int{-1, 5001} {
		bad := domain.PriorityRequest{Limit: limit}
		require.ErrorIs(t, bad.Validate(100, 5000), domain.ErrInvalidLimit)
	}
}
