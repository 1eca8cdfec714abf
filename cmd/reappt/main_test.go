package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"reappt/internal/config"
	"reappt/pkg/schema"
)

func TestFindYearlyFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"appointments_2013.csv",
		"appointments_2015.csv",
		"appointments_2099.csv", // out of range
		"notes.txt",             // not a csv
		"summary.csv",           // no year
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := findYearlyFiles(dir, schema.YearRange{Min: 2013, Max: 2024})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, 2013, files[0].year)
	assert.Equal(t, 2015, files[1].year)
}

func TestRunEndToEnd(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "analysis")

	yearly := map[string]string{
		"appointments_2013.csv": "Appointee,Position,Organization\n" +
			"Jane Doe,Member,Health\nJohn Roe,Chair,Justice\nAmy Wu,Member,Health\n",
		"appointments_2014.csv": "Appointee,Position,Organization\n" +
			"Jane Doe,Member,Health\nNew Person,Member,Justice\n",
		"appointments_2015.csv": "Appointee,Position,Organization\n" +
			"Jane Doe,Member,Health\nAmy Wu,Member,Health\n",
		// This batch cannot resolve name/org and must be skipped, not fatal.
		"appointments_2016.csv": "remarks,region\nnone,north\n",
	}
	for name, content := range yearly {
		require.NoError(t, os.WriteFile(filepath.Join(input, name), []byte(content), 0o644))
	}

	cfg := config.Default()
	err := run(cfg, zaptest.NewLogger(t), input, output, false)
	require.NoError(t, err)

	for _, name := range []string{
		"resolved_records.csv",
		"org_year_totals.csv",
		"org_year_reappointments.csv",
		"org_year_rates.csv",
		"yearly_max_rates.csv",
		"annual_proportions.csv",
		"analysis.json",
		"summary.txt",
	} {
		_, statErr := os.Stat(filepath.Join(output, name))
		assert.NoError(t, statErr, name)
	}

	summary, err := os.ReadFile(filepath.Join(output, "summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Verdict:")
	assert.Contains(t, string(summary), "skipped")
}

func TestRunStrictHaltsOnBadBatch(t *testing.T) {
	input := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(input, "appointments_2013.csv"),
		[]byte("remarks,region\nnone,north\n"), 0o644))

	cfg := config.Default()
	err := run(cfg, zaptest.NewLogger(t), input, filepath.Join(t.TempDir(), "out"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns")
}
