package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
)

// TableWriter prints the ranking as a terminal table.
type TableWriter struct {
	output io.Writer
}

// NewTableWriter creates a TableWriter.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{output: output}
}

func (w *TableWriter) Write(r *Report) error {
	t := w.newTable()
	t.SetTitle("Priority pages for crawl %s (market %s, category %s)",
		r.Ranking.CrawlID, r.Ranking.Market, r.Ranking.Category)
	t.AppendHeader(table.Row{"#", "Score", "URL", "Gaps", "Inlinks", "Depth"})

	for i, p := range r.Ranking.Pages {
		t.AppendRow(table.Row{
			i + 1,
			formatScore(p.PriorityScore),
			truncate(p.URL, maxURLWidth),
			joinGaps(p.TechnicalGaps),
			p.Inlinks,
			p.Depth,
		})
	}
	t.AppendFooter(table.Row{"", "", "Total", r.Ranking.Total})

	t.Render()
	return nil
}

// WriteLiveCrawls prints the live crawl listing.
func (w *TableWriter) WriteLiveCrawls(crawls []oncrawl.LiveCrawl) {
	t := w.newTable()
	t.AppendHeader(table.Row{"Project", "Crawl ID", "Status", "Link Status"})
	for _, c := range crawls {
		t.AppendRow(table.Row{c.ProjectName, c.CrawlID, c.Status, c.LinkStatus})
	}
	t.Render()
}

func (w *TableWriter) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w.output)
	t.SetStyle(table.StyleLight)
	return t
}
