package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "@every 30m", cfg.MaintenanceSchedule)
	assert.False(t, cfg.AlertsEnabled)
	assert.Empty(t, cfg.AlertsTopic)
	assert.Len(t, cfg.Settlements, 3)
	assert.Equal(t, DefaultParams(), cfg.Params)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TICK_INTERVAL", "10ms")
	t.Setenv("MAINTENANCE_SCHEDULE", "@every 1h")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("ALERTS_TOPIC", "storm-alerts")
	t.Setenv("SETTLEMENTS", "Outpost One@12.5,44.0,1.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "@every 1h", cfg.MaintenanceSchedule)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.AlertsEnabled)
	assert.Equal(t, "storm-alerts", cfg.AlertsTopic)

	require.Len(t, cfg.Settlements, 1)
	assert.Equal(t, SettlementSeed{Name: "Outpost One", Lat: 12.5, Lon: 44.0, ElevationKm: 1.1}, cfg.Settlements[0])
}

func TestLoad_AlertsDisabledByFlag(t *testing.T) {
	t.Setenv("ALERTS_TOPIC", "storm-alerts")
	t.Setenv("ALERTS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AlertsEnabled)
}

func TestLoad_InvalidTickInterval(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TICK_INTERVAL")
}

func TestLoad_InvalidSettlements(t *testing.T) {
	t.Setenv("SETTLEMENTS", "missing-coordinates")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	yaml := `
weather:
  temperature_cadence: 2
storm:
  max_active: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("PARAMS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	// Overridden fields take the file's values; the rest keep defaults.
	assert.Equal(t, 2, cfg.Params.Weather.TemperatureCadence)
	assert.Equal(t, 5, cfg.Params.Storm.MaxActive)
	assert.Equal(t, 7, cfg.Params.Weather.PressureCadence)
	assert.Equal(t, 255.0, cfg.Params.Storm.PeakLs)
}

func TestLoad_ParamsFileInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weather:\n  temperature_cadence: 0\n"), 0o600))
	t.Setenv("PARAMS_FILE", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cadences")
}

func TestLoad_ParamsFileMissing(t *testing.T) {
	t.Setenv("PARAMS_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero wind cadence", func(p *Params) { p.Weather.WindCadence = 0 }},
		{"zero sample sols", func(p *Params) { p.Weather.SampleSolsKept = 0 }},
		{"negative ambient wind", func(p *Params) { p.Weather.AmbientWindMax = -1 }},
		{"zero evaluation cadence", func(p *Params) { p.Storm.EvaluationCadence = 0 }},
		{"zero max active", func(p *Params) { p.Storm.MaxActive = 0 }},
		{"negative encircling cap", func(p *Params) { p.Storm.MaxPlanetEncircling = -1 }},
		{"inverted probabilities", func(p *Params) { p.Storm.PeakProbability = p.Storm.FloorProbability }},
		{"zero terrain step", func(p *Params) { p.Terrain.StepDeg = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}

	p := DefaultParams()
	assert.NoError(t, p.Validate())
}
