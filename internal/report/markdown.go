package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
)

const maxURLWidth = 90

// MarkdownWriter renders the ranking as a shareable Markdown document.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

func (w *MarkdownWriter) Write(r *Report) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, r)
	w.writeGapSummary(md, r)
	w.writePages(md, r)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated %s*", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, r *Report) {
	md.H1("Internal Linking Priorities")
	md.PlainText("")

	rows := [][]string{
		{"Crawl", "`" + r.Ranking.CrawlID + "`"},
		{"Market", r.Ranking.Market},
		{"Category", r.Ranking.Category},
		{"Pages", strconv.Itoa(r.Ranking.Total)},
	}
	if r.Project != "" {
		rows = append([][]string{{"Project", r.Project}}, rows...)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeGapSummary(md *markdown.Markdown, r *Report) {
	md.H2("Gap Summary")
	md.PlainText("")

	counts := r.GapCounts()
	rows := make([][]string, 0, len(domain.RankingOrder))
	for _, g := range domain.RankingOrder {
		rows = append(rows, []string{string(g), strconv.Itoa(counts[g])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Gap", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	if r.Ranking.Total == 0 {
		md.Note("No pages matched. The crawl may be archived or the filters too narrow.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Gap Distribution"),
		piechart.WithShowData(true),
	)
	for _, g := range domain.RankingOrder {
		if counts[g] > 0 {
			chart.LabelAndIntValue(string(g), uint64(counts[g]))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	if orphaned := counts[domain.GapOrphaned]; orphaned > 0 {
		md.Warningf("%d ranked page(s) have no internal links at all.", orphaned)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, r *Report) {
	if r.Ranking.Total == 0 {
		return
	}

	md.H2("Priority Pages")
	md.PlainText("")

	rows := make([][]string, len(r.Ranking.Pages))
	for i, p := range r.Ranking.Pages {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			formatScore(p.PriorityScore),
			truncate(p.URL, maxURLWidth),
			joinGaps(p.TechnicalGaps),
			strconv.Itoa(p.Inlinks),
			strconv.Itoa(p.Depth),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Score", "URL", "Gaps", "Inlinks", "Depth"},
		Rows:   rows,
	})
	md.PlainText("")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func joinGaps(gaps []domain.Gap) string {
	names := make([]string, len(gaps))
	for i, g := range gaps {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
