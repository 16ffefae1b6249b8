// Package report renders priority rankings for the command line.
package report

import (
	"io"
	"time"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
)

// Formats accepted by NewWriter.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatTable    = "table"
)

// Report is one ranking run as printed by the CLI.
type Report struct {
	Project     string                   `json:"project,omitempty"`
	GeneratedAt time.Time                `json:"generated_at"`
	Ranking     *domain.PriorityResponse `json:"ranking"`
}

// GapCounts tallies how many ranked pages carry each gap.
func (r *Report) GapCounts() map[domain.Gap]int {
	counts := make(map[domain.Gap]int, len(domain.RankingOrder))
	for _, p := range r.Ranking.Pages {
		for _, g := range p.TechnicalGaps {
			counts[g]++
		}
	}
	return counts
}

// Writer outputs a report.
type Writer interface {
	Write(r *Report) error
}

// NewWriter returns the writer for format. Unknown formats yield false.
func NewWriter(format string, output io.Writer) (Writer, bool) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output), true
	case FormatMarkdown:
		return NewMarkdownWriter(output), true
	case FormatTable:
		return NewTableWriter(output), true
	default:
		return nil, false
	}
}
