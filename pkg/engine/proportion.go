package engine

import (
	"sort"

	"reappt/pkg/schema"
)

// AnnualProportion is the government-wide reappointment share for one
// year: total reappointments over total appointments across every
// organization. This is a rate of sums; averaging per-organization rates
// would weight a 3-person board the same as a 400-person department.
type AnnualProportion struct {
	Year           int     `json:"year"`
	Total          int     `json:"totalAppointments"`
	Reappointments int     `json:"totalReappointments"`
	Proportion     float64 `json:"reappointmentProportion"`
}

// AnnualProportions computes the yearly proportion directly from resolved
// records. Only years inside the range with at least one record produce a
// row; an empty year has no defined proportion.
func AnnualProportions(records []schema.AppointmentRecord, years schema.YearRange) []AnnualProportion {
	totals := make(map[int]int)
	reapps := make(map[int]int)
	for _, rec := range records {
		if !years.Contains(rec.Year) {
			continue
		}
		totals[rec.Year]++
		if rec.Reappointed {
			reapps[rec.Year]++
		}
	}

	result := make([]AnnualProportion, 0, len(totals))
	for year, total := range totals {
		result = append(result, AnnualProportion{
			Year:           year,
			Total:          total,
			Reappointments: reapps[year],
			Proportion:     float64(reapps[year]) / float64(total),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result
}
