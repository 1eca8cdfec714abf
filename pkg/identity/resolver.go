package identity

import (
	"sort"

	"go.uber.org/zap"

	"reappt/pkg/schema"
)

// ResolveStats describes what the resolver did to one record set.
type ResolveStats struct {
	Records      int `json:"records"`
	Groups       int `json:"groups"`
	Reappointed  int `json:"reappointed"`
	Overridden   int `json:"overridden"`
	Singletons   int `json:"singletons"`
	SameYearTies int `json:"sameYearTies"`
}

// Resolver derives the authoritative reappointed flag from chronological
// position within each identity group. Two unrelated people who normalize
// to the same key are an accepted false positive: the source data carries
// no stronger identity signal to separate them.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver returns a Resolver logging through the given logger.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve returns a new record set in the original order with the
// reappointed flag recomputed: within each non-empty identity key, the
// earliest record by year keeps false and every later record is marked
// true, whatever the inbound flag said. Records with an empty key
// component keep their original flag untouched.
//
// Records sharing a year within a group have no principled order at
// year-level granularity; their input order is preserved and the tie is
// counted and logged rather than silently resolved.
func (r *Resolver) Resolve(records []schema.AppointmentRecord) ([]schema.AppointmentRecord, ResolveStats) {
	stats := ResolveStats{Records: len(records)}

	resolved := make([]schema.AppointmentRecord, len(records))
	copy(resolved, records)

	groups := make(map[Key][]int, len(records))
	for i, rec := range records {
		key := KeyOf(rec.Name, rec.Position, rec.Org)
		if key.Empty() {
			stats.Singletons++
			continue
		}
		groups[key] = append(groups[key], i)
	}
	stats.Groups = len(groups)

	for key, indices := range groups {
		// Stable: equal years keep their input order.
		sort.SliceStable(indices, func(a, b int) bool {
			return records[indices[a]].Year < records[indices[b]].Year
		})

		for pos, idx := range indices {
			want := pos > 0
			if records[idx].Reappointed != want {
				stats.Overridden++
			}
			resolved[idx].Reappointed = want
			if want {
				stats.Reappointed++
			}
			if pos > 0 && records[idx].Year == records[indices[pos-1]].Year {
				stats.SameYearTies++
				r.logger.Warn("same-year duplicate within identity group, input order kept",
					zap.String("name", key.Name),
					zap.String("org", key.Org),
					zap.Int("year", records[idx].Year))
			}
		}
	}

	r.logger.Info("identity resolution complete",
		zap.Int("records", stats.Records),
		zap.Int("groups", stats.Groups),
		zap.Int("reappointed", stats.Reappointed),
		zap.Int("overridden", stats.Overridden),
		zap.Int("singletons", stats.Singletons),
		zap.Int("sameYearTies", stats.SameYearTies))

	return resolved, stats
}
