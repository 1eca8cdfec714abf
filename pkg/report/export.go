package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"reappt/pkg/engine"
	"reappt/pkg/schema"
)

// Count dataset headers. Totals and reappointment counts share a shape
// and differ only in what the value column means.
const (
	TotalsHeader = "total_appointments"
	ReappsHeader = "reappointment_count"
)

// WriteRecords writes resolved appointment records as CSV.
func WriteRecords(w io.Writer, records []schema.AppointmentRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "position", "org", "reappointed", "year"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Name, r.Position, r.Org, strconv.FormatBool(r.Reappointed), strconv.Itoa(r.Year)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCounts writes one org-year count grid as CSV. valueHeader names the
// count column, TotalsHeader or ReappsHeader.
func WriteCounts(w io.Writer, counts []engine.OrgYearCount, valueHeader string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"org", "year", valueHeader}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Org, strconv.Itoa(c.Year), strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRates writes the joined rate dataset as CSV.
func WriteRates(w io.Writer, rates []engine.OrgYearRate) error {
	cw := csv.NewWriter(w)
	header := []string{"org", "year", "total_appointments", "reappointments", "reappointment_rate"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rates {
		row := []string{
			r.Org,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Reappointments),
			formatRate(r.Rate),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExtrema writes the yearly top-organization dataset as CSV.
func WriteExtrema(w io.Writer, extrema []engine.YearlyExtremum) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "top_org", "max_rate"}); err != nil {
		return err
	}
	for _, e := range extrema {
		if err := cw.Write([]string{strconv.Itoa(e.Year), e.TopOrg, formatRate(e.MaxRate)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProportions writes the government-wide annual proportion series as CSV.
func WriteProportions(w io.Writer, proportions []engine.AnnualProportion) error {
	cw := csv.NewWriter(w)
	header := []string{"year", "total_appointments", "total_reappointments", "reappointment_proportion"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range proportions {
		row := []string{
			strconv.Itoa(p.Year),
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Reappointments),
			formatRate(p.Proportion),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes the whole run result as indented JSON, suitable for
// downstream tooling that does not want to re-join the CSV files.
func ExportJSON(w io.Writer, res *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.6f", rate)
}
