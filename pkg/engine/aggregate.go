package engine

import (
	"sort"
	"strings"

	"reappt/pkg/schema"
)

// UnknownOrg is the bucket for records whose organization is blank.
// Dropping them would silently shrink the government-wide totals.
const UnknownOrg = "Unknown"

// OrgYearCount is one cell of the org-year grid.
type OrgYearCount struct {
	Org   string `json:"org"`
	Year  int    `json:"year"`
	Count int    `json:"count"`
}

// CountTotals counts appointment instances per (org, year) over the dense
// grid: every organization observed anywhere in the records is paired with
// every year of the analysis range, zero-filled. Consumers comparing
// organizations across years need the zero cells to distinguish "no
// appointments" from "pair never iterated".
func CountTotals(records []schema.AppointmentRecord, years schema.YearRange) []OrgYearCount {
	return countDense(records, years, func(schema.AppointmentRecord) bool { return true })
}

// CountReappointments counts records marked reappointed per (org, year)
// over the same dense grid as CountTotals.
func CountReappointments(records []schema.AppointmentRecord, years schema.YearRange) []OrgYearCount {
	return countDense(records, years, func(r schema.AppointmentRecord) bool { return r.Reappointed })
}

func countDense(records []schema.AppointmentRecord, years schema.YearRange, include func(schema.AppointmentRecord) bool) []OrgYearCount {
	type cell struct {
		org  string
		year int
	}

	counts := make(map[cell]int)
	orgs := make(map[string]bool)
	for _, rec := range records {
		org := orgName(rec.Org)
		orgs[org] = true
		if !years.Contains(rec.Year) {
			continue
		}
		if include(rec) {
			counts[cell{org, rec.Year}]++
		}
	}

	names := make([]string, 0, len(orgs))
	for org := range orgs {
		names = append(names, org)
	}
	sort.Strings(names)

	yearList := years.Years()
	grid := make([]OrgYearCount, 0, len(names)*len(yearList))
	for _, org := range names {
		for _, year := range yearList {
			grid = append(grid, OrgYearCount{
				Org:   org,
				Year:  year,
				Count: counts[cell{org, year}],
			})
		}
	}
	return grid
}

func orgName(org string) string {
	if strings.TrimSpace(org) == "" {
		return UnknownOrg
	}
	return org
}
