package schema

// Canonical column names every input batch is resolved to.
const (
	ColName        = "name"
	ColPosition    = "position"
	ColOrg         = "org"
	ColReappointed = "reappointed"
	ColYear        = "year"
)

// RequiredColumns is the minimum viable set a batch must resolve.
// A batch missing either of these cannot be normalized at all.
var RequiredColumns = []string{ColName, ColOrg}

// AppointmentRecord is one appointment instance in canonical form.
// Duplicates across input rows are legal and kept as separate instances.
type AppointmentRecord struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	Org         string `json:"org"`
	Reappointed bool   `json:"reappointed"`
	Year        int    `json:"year"`
	SourceRow   int    `json:"sourceRow"`
}

// YearRange bounds the analysis window. Both ends are inclusive.
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Years returns every year in the range in ascending order.
func (r YearRange) Years() []int {
	if r.Max < r.Min {
		return nil
	}
	years := make([]int, 0, r.Max-r.Min+1)
	for y := r.Min; y <= r.Max; y++ {
		years = append(years, y)
	}
	return years
}
