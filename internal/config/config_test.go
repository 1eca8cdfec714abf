package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2013, cfg.Years.Min)
	assert.Equal(t, 2024, cfg.Years.Max)
	assert.Equal(t, 5, cfg.MinAppointments)
	assert.Equal(t, 0.05, cfg.SignificanceLevel)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `years:
  min: 2015
  max: 2020
minAppointments: 3
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2015, cfg.Years.Min)
	assert.Equal(t, 2020, cfg.Years.Max)
	assert.Equal(t, 3, cfg.MinAppointments)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.05, cfg.SignificanceLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REAPPT_YEAR_MIN", "2016")
	t.Setenv("REAPPT_MIN_APPOINTMENTS", "10")
	t.Setenv("REAPPT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2016, cfg.Years.Min)
	assert.Equal(t, 10, cfg.MinAppointments)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("REAPPT_YEAR_MIN", "2020")
	t.Setenv("REAPPT_YEAR_MAX", "2013")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid year range")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
