package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5-digit FIPS Code", cfg.Health.FIPSColumn)
	assert.Equal(t, "Homicides raw value", cfg.Health.HomicidesColumn)
	assert.Equal(t, "Population raw value", cfg.Health.PopulationColumn)
	assert.Equal(t, "-", cfg.Output.Path)
	assert.Equal(t, "geostat.db", cfg.Catalog.Path)
	assert.False(t, cfg.Catalog.Disabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GEOSTAT_LOG_LEVEL", "debug")
	t.Setenv("GEOSTAT_MICRODATA_PATH", "/data/persons.dat.gz")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/data/persons.dat.gz", cfg.Microdata.Path)
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ',', HealthConfig{Delimiter: ","}.DelimiterRune())
	assert.Equal(t, '\t', HealthConfig{Delimiter: "\t"}.DelimiterRune())
	assert.Equal(t, rune(0), HealthConfig{}.DelimiterRune())
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))
}
