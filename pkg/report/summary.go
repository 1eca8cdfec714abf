package report

import (
	"fmt"
	"io"
	"strings"

	"reappt/pkg/engine"
	"reappt/pkg/identity"
	"reappt/pkg/schema"
	"reappt/pkg/trend"
)

// RunSummary collects every diagnostic a run produced: what each batch
// kept and dropped, what the resolver changed, what the rate join had to
// recover from, and the fitted trend.
type RunSummary struct {
	Batches        []schema.BatchStats   `json:"batches"`
	SkippedBatches []string              `json:"skippedBatches,omitempty"`
	Resolve        identity.ResolveStats `json:"resolve"`
	Rates          engine.RateStats      `json:"rates"`
	ExtremaYears   int                   `json:"extremaYears"`
	Trend          *trend.Result         `json:"trend,omitempty"`
}

// BuildSummary assembles the run summary from batch diagnostics and the
// pipeline result.
func BuildSummary(batches []schema.BatchStats, skipped []string, res *engine.Result) *RunSummary {
	return &RunSummary{
		Batches:        batches,
		SkippedBatches: skipped,
		Resolve:        res.ResolveStats,
		Rates:          res.RateStats,
		ExtremaYears:   len(res.Extrema),
		Trend:          res.Trend,
	}
}

// WriteText renders the summary and, when present, the full trend report
// as plain text.
func (s *RunSummary) WriteText(w io.Writer) error {
	var b strings.Builder

	b.WriteString("Run summary\n")
	b.WriteString(strings.Repeat("=", 48) + "\n\n")

	rowsIn, rowsOut, dropped, filled := 0, 0, 0, 0
	for _, bs := range s.Batches {
		rowsIn += bs.RowsIn
		rowsOut += bs.RowsOut
		dropped += bs.DroppedBadYear
		filled += bs.NullFilled
		if len(bs.MissingColumns) > 0 {
			fmt.Fprintf(&b, "batch %d: missing columns %s\n", bs.Year, strings.Join(bs.MissingColumns, ", "))
		}
	}
	fmt.Fprintf(&b, "Batches:        %d (%d skipped)\n", len(s.Batches), len(s.SkippedBatches))
	for _, reason := range s.SkippedBatches {
		fmt.Fprintf(&b, "  skipped: %s\n", reason)
	}
	fmt.Fprintf(&b, "Rows:           %d in, %d kept, %d dropped (bad year), %d null-filled fields\n",
		rowsIn, rowsOut, dropped, filled)
	fmt.Fprintf(&b, "Identities:     %d groups, %d reappointments, %d flags overridden\n",
		s.Resolve.Groups, s.Resolve.Reappointed, s.Resolve.Overridden)
	fmt.Fprintf(&b, "                %d singletons excluded, %d same-year ties\n",
		s.Resolve.Singletons, s.Resolve.SameYearTies)
	fmt.Fprintf(&b, "Rate cells:     %d (%d no-data, %d clamped)\n",
		s.Rates.Rows, s.Rates.NoData, s.Rates.Clamped)
	fmt.Fprintf(&b, "Extrema years:  %d\n", s.ExtremaYears)

	if s.Trend != nil {
		b.WriteString("\n")
		b.WriteString(trend.Report(s.Trend))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
