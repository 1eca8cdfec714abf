package engine

import (
	"sort"

	"go.uber.org/zap"
)

// OrgYearRate is the joined counts plus the reappointment rate for one
// (org, year) cell. Rate is always inside [0, 1].
type OrgYearRate struct {
	Org            string  `json:"org"`
	Year           int     `json:"year"`
	Total          int     `json:"totalAppointments"`
	Reappointments int     `json:"reappointments"`
	Rate           float64 `json:"reappointmentRate"`
	NoData         bool    `json:"noData,omitempty"`
}

// RateStats counts the anomalies the rate join recovered from.
type RateStats struct {
	Rows    int `json:"rows"`
	NoData  int `json:"noData"`
	Clamped int `json:"clamped"`
}

// MergeRates outer-joins totals and reappointment counts on (org, year)
// and computes the rate. A pair present on either side appears in the
// result with the missing count as 0. Zero-total cells get rate 0 and a
// NoData flag so downstream ordering stays total. Reappointments exceeding
// the total can only come from inconsistent sources; the rate is clamped
// to 1 and the anomaly logged, never silently accepted.
func MergeRates(totals, reappointments []OrgYearCount, logger *zap.Logger) ([]OrgYearRate, RateStats) {
	if logger == nil {
		logger = zap.NewNop()
	}

	type cell struct {
		org  string
		year int
	}

	merged := make(map[cell]*OrgYearRate, len(totals))
	for _, t := range totals {
		merged[cell{t.Org, t.Year}] = &OrgYearRate{Org: t.Org, Year: t.Year, Total: t.Count}
	}
	for _, r := range reappointments {
		key := cell{r.Org, r.Year}
		if row, ok := merged[key]; ok {
			row.Reappointments = r.Count
		} else {
			merged[key] = &OrgYearRate{Org: r.Org, Year: r.Year, Reappointments: r.Count}
		}
	}

	var stats RateStats
	rows := make([]OrgYearRate, 0, len(merged))
	for _, row := range merged {
		switch {
		case row.Total <= 0:
			row.Rate = 0
			row.NoData = true
			stats.NoData++
		case row.Reappointments > row.Total:
			row.Rate = 1
			stats.Clamped++
			logger.Warn("reappointments exceed total appointments, rate clamped",
				zap.String("org", row.Org),
				zap.Int("year", row.Year),
				zap.Int("total", row.Total),
				zap.Int("reappointments", row.Reappointments))
		default:
			row.Rate = float64(row.Reappointments) / float64(row.Total)
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Org != rows[j].Org {
			return rows[i].Org < rows[j].Org
		}
		return rows[i].Year < rows[j].Year
	})

	stats.Rows = len(rows)
	return rows, stats
}
