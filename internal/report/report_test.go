package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/report"
)

func sampleReport() *report.Report {
	a := domain.NewPageRecord(domain.Page{URL: "https://squareup.com/us/en/a", Depth: 5}, domain.GapOrphaned)
	a.AddGap(domain.GapDeepPage)
	b := domain.NewPageRecord(domain.Page{URL: "https://squareup.com/us/en/b", Inlinks: 2, Depth: 2}, domain.GapLowInlinks)

	return &report.Report{
		Project:     "square_global",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Ranking: &domain.PriorityResponse{
			CrawlID:  "crawl-1",
			Market:   "us",
			Category: domain.CategoryAll,
			Pages:    []*domain.PageRecord{a, b},
			Total:    2,
		},
	}
}

func TestGapCounts(t *testing.T) {
	t.Parallel()

	counts := sampleReport().GapCounts()
	assert.Equal(t, 1, counts[domain.GapOrphaned])
	assert.Equal(t, 1, counts[domain.GapLowInlinks])
	assert.Equal(t, 1, counts[domain.GapDeepPage])
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	for _, format := range []string{report.FormatJSON, report.FormatMarkdown, report.FormatTable} {
		w, ok := report.NewWriter(format, &bytes.Buffer{})
		assert.True(t, ok, format)
		assert.NotNil(t, w, format)
	}

	_, ok := report.NewWriter("csv", &bytes.Buffer{})
	assert.False(t, ok)
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.NewMarkdownWriter(&buf).Write(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "# Internal Linking Priorities")
	assert.Contains(t, out, "square_global")
	assert.Contains(t, out, "## Gap Summary")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "## Priority Pages")
	assert.Contains(t, out, "https://squareup.com/us/en/a")
	assert.Contains(t, out, "orphaned, deep_page")
	assert.Contains(t, out, "100.0")
	assert.Contains(t, out, "no internal links")
}

func TestMarkdownWriter_EmptyRanking(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Ranking.Pages = []*domain.PageRecord{}
	r.Ranking.Total = 0

	var buf bytes.Buffer
	require.NoError(t, report.NewMarkdownWriter(&buf).Write(r))

	out := buf.String()
	assert.Contains(t, out, "No pages matched")
	assert.NotContains(t, out, "## Priority Pages")
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.NewJSONWriter(&buf).Write(sampleReport()))

	var got struct {
		Project string                  `json:"project"`
		Ranking domain.PriorityResponse `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "square_global", got.Project)
	assert.Equal(t, 2, got.Ranking.Total)
	assert.Equal(t, []domain.Gap{domain.GapOrphaned, domain.GapDeepPage}, got.Ranking.Pages[0].TechnicalGaps)
}

func TestTableWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := report.NewTableWriter(&buf)
	require.NoError(t, w.Write(sampleReport()))
	assert.Contains(t, buf.String(), "https://squareup.com/us/en/b")
	assert.Contains(t, buf.String(), "50.0")

	buf.Reset()
	w.WriteLiveCrawls([]oncrawl.LiveCrawl{{ProjectName: "Square Global", CrawlID: "crawl-1", Status: "done", LinkStatus: "live"}})
	assert.Contains(t, buf.String(), "Square Global")
	assert.Contains(t, buf.String(), "crawl-1")
}
