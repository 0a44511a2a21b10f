package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/settlement"
)

func testConfig() *config.Config {
	return &config.Config{
		TickInterval: 10 * time.Millisecond,
		Settlements: []config.SettlementSeed{
			{Name: "Alpha Base", Lat: -14.6, Lon: 175.5, ElevationKm: -2.5},
			{Name: "Borealis Station", Lat: 72.1, Lon: 310.0, ElevationKm: -4.2},
		},
		Params: config.DefaultParams(),
	}
}

func buildTestEngine(t *testing.T, realtime clockwork.Clock) (*Engine, *settlement.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Build(testConfig(), realtime, 42, logger, observability.NewMetricsForTesting())
}

func TestBuild_WiresRegistryFromConfig(t *testing.T) {
	eng, registry := buildTestEngine(t, clockwork.NewFakeClock())

	require.Len(t, registry.All(), 2)
	assert.Equal(t, "Alpha Base", registry.All()[0].Name())

	elev, ok := registry.ElevationAt(mars.NewCoordinate(72.1, 310.0))
	require.True(t, ok)
	assert.Equal(t, -4.2, elev)

	assert.Equal(t, int64(0), eng.Clock().TotalMillisols())
}

func TestBuild_SameSeedReplaysSameWeather(t *testing.T) {
	loc := mars.NewCoordinate(-14.6, 175.5)

	run := func(seed int64) float64 {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		eng, _ := Build(testConfig(), clockwork.NewFakeClock(), seed, logger, observability.NewMetricsForTesting())
		for range 20 {
			eng.Tick(context.Background())
		}
		return eng.SampleAt(loc).TemperatureC
	}

	assert.Equal(t, run(42), run(42))
	assert.NotEqual(t, run(42), run(43))
}

func TestTick_AdvancesClockAndReportsReady(t *testing.T) {
	eng, _ := buildTestEngine(t, clockwork.NewFakeClock())
	ctx := context.Background()

	require.Error(t, eng.CheckReadiness(ctx))

	pulse := eng.Tick(ctx)
	assert.Equal(t, int64(1), pulse.TotalMillisols)
	assert.Equal(t, 1, pulse.Sol)
	assert.NoError(t, eng.CheckReadiness(ctx))

	for range mars.MillisolsPerSol - 1 {
		pulse = eng.Tick(ctx)
	}
	assert.Equal(t, 2, pulse.Sol)
	assert.True(t, pulse.NewSol)
}

func TestTick_SamplesStayPhysical(t *testing.T) {
	eng, registry := buildTestEngine(t, clockwork.NewFakeClock())
	ctx := context.Background()

	for range 2 * mars.MillisolsPerSol {
		eng.Tick(ctx)
		for _, s := range registry.All() {
			sample := eng.SampleAt(s.Location())
			require.GreaterOrEqual(t, sample.TemperatureC, -160.0)
			require.LessOrEqual(t, sample.TemperatureC, 40.0)
			require.GreaterOrEqual(t, sample.PressureKPa, 0.0)
			require.GreaterOrEqual(t, sample.WindSpeedMS, 0.0)
		}
	}

	// Sun records exist once a full sol has been observed.
	_, ok := eng.SunRecordAt(registry.All()[0].Location())
	assert.True(t, ok)
}

func TestRun_TicksOnFakeClockAndStopsOnCancel(t *testing.T) {
	fc := clockwork.NewFakeClock()
	eng, _ := buildTestEngine(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	// Each interval elapsing on the fake clock produces one tick.
	for range 5 {
		require.NoError(t, fc.BlockUntilContext(ctx, 1))
		fc.Advance(10 * time.Millisecond)
	}
	assert.Eventually(t, func() bool {
		return eng.CheckReadiness(ctx) == nil
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop on cancel")
	}
}

func TestClose_ResetsStormsAndCaches(t *testing.T) {
	eng, registry := buildTestEngine(t, clockwork.NewFakeClock())
	ctx := context.Background()

	for range 50 {
		eng.Tick(ctx)
	}
	require.NotZero(t, eng.SampleAt(registry.All()[0].Location()).Sol)

	eng.Close()

	assert.Empty(t, eng.ActiveStorms())
	for _, s := range registry.All() {
		assert.Equal(t, settlement.None, s.Storm())
	}

	// The engine still answers queries after teardown by recomputing.
	sample := eng.SampleAt(registry.All()[0].Location())
	assert.GreaterOrEqual(t, sample.TemperatureC, -160.0)
}

func TestClearCaches_KeepsEngineServing(t *testing.T) {
	eng, registry := buildTestEngine(t, clockwork.NewFakeClock())
	ctx := context.Background()
	loc := registry.All()[0].Location()

	for range 20 {
		eng.Tick(ctx)
	}
	before := eng.SampleAt(loc)

	eng.ClearCaches()

	after := eng.SampleAt(loc)
	assert.Equal(t, before.Sol, after.Sol)
	assert.GreaterOrEqual(t, after.TemperatureC, -160.0)
	assert.LessOrEqual(t, after.TemperatureC, 40.0)
}
