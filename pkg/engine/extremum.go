package engine

import (
	"sort"
)

// YearlyExtremum names the organization holding the highest reappointment
// rate in one year.
type YearlyExtremum struct {
	Year    int     `json:"year"`
	TopOrg  string  `json:"topOrg"`
	MaxRate float64 `json:"maxRate"`
}

// DefaultMinAppointments is the default size floor for extremum
// candidates. Tiny organizations produce 1-of-1 = 100% noise.
const DefaultMinAppointments = 5

// SelectYearlyMax picks, for each year, the organization with the highest
// rate among organizations with at least minAppointments total
// appointments that year. Ties break toward the larger organization
// (more appointments behind the rate), then toward the lexicographically
// smaller name, so reruns over identical input always agree. Years with
// no qualifying organization produce no row.
func SelectYearlyMax(rates []OrgYearRate, minAppointments int) []YearlyExtremum {
	if minAppointments <= 0 {
		minAppointments = DefaultMinAppointments
	}

	best := make(map[int]OrgYearRate)
	for _, row := range rates {
		if row.Total < minAppointments {
			continue
		}
		cur, ok := best[row.Year]
		if !ok || beats(row, cur) {
			best[row.Year] = row
		}
	}

	result := make([]YearlyExtremum, 0, len(best))
	for year, row := range best {
		result = append(result, YearlyExtremum{Year: year, TopOrg: row.Org, MaxRate: row.Rate})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result
}

// beats reports whether a should replace b as the year's extremum.
func beats(a, b OrgYearRate) bool {
	if a.Rate != b.Rate {
		return a.Rate > b.Rate
	}
	if a.Total != b.Total {
		return a.Total > b.Total
	}
	return a.Org < b.Org
}
