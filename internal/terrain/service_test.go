package terrain

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
)

func newTestService(t *testing.T, raster Raster, settlements SettlementElevations) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	throttle := observability.NewThrottle(clockwork.NewFakeClock(), time.Minute)
	return NewService(raster, settlements, config.DefaultParams().Terrain,
		rand.New(rand.NewPCG(1, 2)), logger, throttle, observability.NewMetricsForTesting())
}

type fixedElevations map[mars.Coordinate]float64

func (f fixedElevations) ElevationAt(loc mars.Coordinate) (float64, bool) {
	km, ok := f[loc]
	return km, ok
}

func TestTerrainProfile_Memoized(t *testing.T) {
	svc := newTestService(t, ProceduralRaster{}, nil)
	loc := mars.NewCoordinate(-14.6, 175.5)

	first := svc.TerrainProfile(loc)
	second := svc.TerrainProfile(loc)
	assert.Empty(t, cmp.Diff(first, second))

	// A different coordinate gets its own profile.
	other := svc.TerrainProfile(mars.NewCoordinate(30, 10))
	assert.NotEqual(t, first, other)
}

func TestTerrainProfile_RasterMissUsesDefault(t *testing.T) {
	svc := newTestService(t, FixedRaster{}, nil)
	svc.params.DefaultElevationKm = -1.5

	p := svc.TerrainProfile(mars.NewCoordinate(0, 0))
	assert.Equal(t, -1.5, p.ElevationKm)
	// Every neighbor also misses, so the surface is uniformly flat.
	assert.Zero(t, p.Steepness)
}

func TestTerrainProfile_SettlementElevationWins(t *testing.T) {
	loc := mars.NewCoordinate(2.3, 28.5)
	raster := FixedRaster{loc: -7.0}
	svc := newTestService(t, raster, fixedElevations{loc: 0.8})

	p := svc.TerrainProfile(loc)
	assert.Equal(t, 0.8, p.ElevationKm)
}

func TestTerrainProfile_SteepnessSumsAbsoluteSlopes(t *testing.T) {
	loc := mars.NewCoordinate(0, 100)
	// Only the center has data; all 360 neighbors fall back to the default
	// elevation of 0, each contributing |0 - 5| km.
	svc := newTestService(t, FixedRaster{loc: 5}, nil)

	p := svc.TerrainProfile(loc)
	assert.Equal(t, 5.0, p.ElevationKm)
	assert.InDelta(t, 360*5.0, p.Steepness, 1e-9)
}

func TestService_Reset(t *testing.T) {
	svc := newTestService(t, ProceduralRaster{}, nil)
	loc := mars.NewCoordinate(10, 20)

	before := svc.TerrainProfile(loc)
	site := svc.CollectionSite(loc)
	require.NotNil(t, site)

	svc.Reset()

	// Recomputation is deterministic, so the profile matches bit for bit.
	after := svc.TerrainProfile(loc)
	assert.Empty(t, cmp.Diff(before, after))

	// The site is rebuilt rather than resurrected.
	assert.NotSame(t, site, svc.CollectionSite(loc))
}
