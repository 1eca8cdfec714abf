package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Batch is one yearly slice of raw rows with the year it was published for.
// The year is supplied externally because several source files carry no
// year column at all.
type Batch struct {
	Year int
	Rows []map[string]string
}

// BatchStats counts what normalization kept, filled, and dropped for one batch.
type BatchStats struct {
	Year           int      `json:"year"`
	RowsIn         int      `json:"rowsIn"`
	RowsOut        int      `json:"rowsOut"`
	MissingColumns []string `json:"missingColumns,omitempty"`
	NullFilled     int      `json:"nullFilled"`
	DroppedBadYear int      `json:"droppedBadYear"`
}

// RequiredColumnsError reports a batch whose headers cannot supply the
// minimum viable column set. The caller decides whether to skip the batch
// or halt the run.
type RequiredColumnsError struct {
	BatchYear int
	Missing   []string
}

func (e *RequiredColumnsError) Error() string {
	return fmt.Sprintf("batch %d: required columns unresolvable: %s",
		e.BatchYear, strings.Join(e.Missing, ", "))
}

// Normalizer resolves raw yearly batches into canonical AppointmentRecords.
type Normalizer struct {
	years  YearRange
	logger *zap.Logger
}

// NewNormalizer returns a Normalizer bound to the analysis year range.
func NewNormalizer(years YearRange, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{years: years, logger: logger}
}

// NormalizeBatch resolves one batch's headers against the alias table and
// produces canonical records. Rows whose resolved year column is malformed
// or outside the analysis range are dropped and counted. Optional columns
// that do not resolve are filled with their null marker and counted once
// per affected row. Returns a RequiredColumnsError when neither alias nor
// exact header can supply name and org.
func (n *Normalizer) NormalizeBatch(batch Batch) ([]AppointmentRecord, BatchStats, error) {
	stats := BatchStats{Year: batch.Year, RowsIn: len(batch.Rows)}

	var headers []string
	if len(batch.Rows) > 0 {
		headers = make([]string, 0, len(batch.Rows[0]))
		for h := range batch.Rows[0] {
			headers = append(headers, h)
		}
		sort.Strings(headers)
	}

	cols := ResolveColumns(headers)
	if missing := cols.MissingRequired(); len(missing) > 0 {
		return nil, stats, &RequiredColumnsError{BatchYear: batch.Year, Missing: missing}
	}

	for _, col := range []string{ColPosition, ColReappointed, ColYear} {
		if _, ok := cols[col]; !ok {
			stats.MissingColumns = append(stats.MissingColumns, col)
		}
	}

	records := make([]AppointmentRecord, 0, len(batch.Rows))
	for i, row := range batch.Rows {
		rec := AppointmentRecord{
			Name:      strings.TrimSpace(row[cols[ColName]]),
			Org:       strings.TrimSpace(row[cols[ColOrg]]),
			Year:      batch.Year,
			SourceRow: i + 1, // 1-indexed, matching the parser
		}

		if src, ok := cols[ColPosition]; ok {
			rec.Position = strings.TrimSpace(row[src])
		} else {
			stats.NullFilled++
		}

		if src, ok := cols[ColReappointed]; ok {
			flag, recognized := parseFlag(row[src])
			rec.Reappointed = flag
			if !recognized {
				stats.NullFilled++
			}
		} else {
			stats.NullFilled++
		}

		// A year column in the data overrides the batch year; rows whose
		// value is malformed or out of range are dropped, not guessed at.
		if src, ok := cols[ColYear]; ok {
			raw := strings.TrimSpace(row[src])
			if raw != "" {
				year, err := strconv.Atoi(raw)
				if err != nil || !n.years.Contains(year) {
					stats.DroppedBadYear++
					n.logger.Warn("dropping row with unusable year",
						zap.Int("batch", batch.Year),
						zap.Int("row", i+1),
						zap.String("value", raw))
					continue
				}
				rec.Year = year
			}
		}

		records = append(records, rec)
	}

	stats.RowsOut = len(records)
	if len(stats.MissingColumns) > 0 {
		n.logger.Info("optional columns unresolved, filled with null markers",
			zap.Int("batch", batch.Year),
			zap.Strings("columns", stats.MissingColumns))
	}
	return records, stats, nil
}

// Combine merges per-batch record sets into one, preserving batch order
// and row order within each batch.
func Combine(batches ...[]AppointmentRecord) []AppointmentRecord {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	combined := make([]AppointmentRecord, 0, total)
	for _, b := range batches {
		combined = append(combined, b...)
	}
	return combined
}

// parseFlag interprets the many spellings of a reappointed value found in
// the source files. The second return is false when the value is blank or
// unrecognized, in which case the flag defaults to false.
func parseFlag(raw string) (value, recognized bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "1", "yes", "y":
		return true, true
	case "false", "f", "0", "no", "n":
		return false, true
	default:
		return false, false
	}
}
