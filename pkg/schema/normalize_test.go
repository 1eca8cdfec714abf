package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testRange() YearRange { return YearRange{Min: 2013, Max: 2024} }

func TestNormalizeBatchResolvesAliases(t *testing.T) {
	n := NewNormalizer(testRange(), zaptest.NewLogger(t))

	records, stats, err := n.NormalizeBatch(Batch{
		Year: 2015,
		Rows: []map[string]string{
			{"Appointee": " Jane Doe ", "Appointment Title": "Member", "Organization": "Health", "Reappointed": "Yes"},
			{"Appointee": "John Roe", "Appointment Title": "Chair", "Organization": "Justice", "Reappointed": "no"},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, AppointmentRecord{
		Name: "Jane Doe", Position: "Member", Org: "Health",
		Reappointed: true, Year: 2015, SourceRow: 1,
	}, records[0])
	assert.False(t, records[1].Reappointed)
	assert.Equal(t, 2, stats.RowsIn)
	assert.Equal(t, 2, stats.RowsOut)
	assert.Contains(t, stats.MissingColumns, ColYear)
}

func TestNormalizeBatchRequiredColumnsError(t *testing.T) {
	n := NewNormalizer(testRange(), nil)

	_, _, err := n.NormalizeBatch(Batch{
		Year: 2019,
		Rows: []map[string]string{{"position": "Member", "remarks": "n/a"}},
	})
	require.Error(t, err)

	var reqErr *RequiredColumnsError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 2019, reqErr.BatchYear)
	assert.Equal(t, []string{ColName, ColOrg}, reqErr.Missing)
	assert.Contains(t, err.Error(), "2019")
}

func TestNormalizeBatchYearColumn(t *testing.T) {
	n := NewNormalizer(testRange(), zaptest.NewLogger(t))

	records, stats, err := n.NormalizeBatch(Batch{
		Year: 2016,
		Rows: []map[string]string{
			{"name": "A", "org": "X", "year": "2014"}, // data year wins
			{"name": "B", "org": "X", "year": ""},     // blank inherits batch year
			{"name": "C", "org": "X", "year": "1999"}, // out of range, dropped
			{"name": "D", "org": "X", "year": "soon"}, // malformed, dropped
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2014, records[0].Year)
	assert.Equal(t, 2016, records[1].Year)
	assert.Equal(t, 2, stats.DroppedBadYear)
	assert.Equal(t, 4, stats.RowsIn)
	assert.Equal(t, 2, stats.RowsOut)
}

func TestNormalizeBatchNullFill(t *testing.T) {
	n := NewNormalizer(testRange(), nil)

	records, stats, err := n.NormalizeBatch(Batch{
		Year: 2020,
		Rows: []map[string]string{
			{"name": "A", "org": "X", "reappointed": "maybe"},
			{"name": "B", "org": "Y", "reappointed": "1"},
		},
	})
	require.NoError(t, err)

	// Position is unresolvable for both rows, and one flag is unrecognized.
	assert.Equal(t, 3, stats.NullFilled)
	assert.False(t, records[0].Reappointed)
	assert.True(t, records[1].Reappointed)
	assert.Empty(t, records[0].Position)
}

func TestParseFlag(t *testing.T) {
	for _, raw := range []string{"true", "True", "T", "1", "yes", "Y"} {
		got, recognized := parseFlag(raw)
		assert.True(t, got, raw)
		assert.True(t, recognized, raw)
	}
	for _, raw := range []string{"false", "F", "0", "no", "N"} {
		got, recognized := parseFlag(raw)
		assert.False(t, got, raw)
		assert.True(t, recognized, raw)
	}
	for _, raw := range []string{"", "unknown", "-"} {
		got, recognized := parseFlag(raw)
		assert.False(t, got, raw)
		assert.False(t, recognized, raw)
	}
}

func TestCombinePreservesOrder(t *testing.T) {
	a := []AppointmentRecord{{Name: "A", Year: 2013}, {Name: "B", Year: 2013}}
	b := []AppointmentRecord{{Name: "C", Year: 2014}}

	combined := Combine(a, b)
	require.Len(t, combined, 3)
	assert.Equal(t, "A", combined[0].Name)
	assert.Equal(t, "B", combined[1].Name)
	assert.Equal(t, "C", combined[2].Name)

	// The inputs are not aliased by the combined slice.
	combined[0].Name = "mutated"
	assert.Equal(t, "A", a[0].Name)
}

func TestYearRange(t *testing.T) {
	r := YearRange{Min: 2013, Max: 2015}
	assert.True(t, r.Contains(2013))
	assert.True(t, r.Contains(2015))
	assert.False(t, r.Contains(2012))
	assert.Equal(t, []int{2013, 2014, 2015}, r.Years())
	assert.Nil(t, YearRange{Min: 5, Max: 4}.Years())
}
