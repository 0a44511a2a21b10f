package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// lightCurveSurface drives irradiance from the clock's millisol of day so sun
// record tests can shape the light curve exactly.
type lightCurveSurface struct {
	clock *mars.Clock
	irr   func(millisol int) float64
}

func (s *lightCurveSurface) OpticalDepth(mars.Coordinate) float64 { return 0.3 }

func (s *lightCurveSurface) SolarIrradiance(mars.Coordinate) float64 {
	return s.irr(s.clock.Now().Millisol)
}

func (s *lightCurveSurface) SunlightRatio(loc mars.Coordinate) float64 {
	return s.SolarIrradiance(loc) / mars.MaxSolarIrradiance
}

func (s *lightCurveSurface) InPolarRegion(mars.Coordinate) bool     { return false }
func (s *lightCurveSurface) InDarkPolarRegion(mars.Coordinate) bool { return false }

// runOneSol primes the location and ticks the sampler through sol 1 and into
// sol 2, which triggers the sol 1 sun record computation.
func runOneSol(s *Sampler, clock *mars.Clock, loc mars.Coordinate) {
	s.Temperature(loc)
	for clock.TotalMillisols() < mars.MillisolsPerSol {
		s.OnTick(clock.Advance())
	}
}

func TestSunRecord_DayNightTransitions(t *testing.T) {
	clock := &mars.Clock{}
	surface := &lightCurveSurface{clock: clock, irr: func(ms int) float64 {
		if ms >= 250 && ms < 750 {
			return 400
		}
		return 0
	}}
	s := newTestSampler(t, clock, surface, nil, config.DefaultParams().Weather)
	loc := mars.NewCoordinate(0, 0)

	runOneSol(s, clock, loc)

	rec, ok := s.SunRecord(loc)
	require.True(t, ok)
	assert.Equal(t, 1, rec.Sol)
	// Transitions land between adjacent 5-millisol samples.
	assert.InDelta(t, 250, rec.SunriseMillisol, 5)
	assert.InDelta(t, 750, rec.SunsetMillisol, 5)
	assert.InDelta(t, 500, rec.DaylightMillisols, 10)
	assert.InDelta(t, 250, rec.ZenithMillisol, 10)
	assert.Equal(t, 400.0, rec.PeakIrradiance)
}

func TestSunRecord_ConstantDaylight(t *testing.T) {
	clock := &mars.Clock{}
	surface := &lightCurveSurface{clock: clock, irr: func(int) float64 { return 400 }}
	s := newTestSampler(t, clock, surface, nil, config.DefaultParams().Weather)
	loc := mars.NewCoordinate(75, 0)

	runOneSol(s, clock, loc)

	rec, ok := s.SunRecord(loc)
	require.True(t, ok)
	assert.Zero(t, rec.SunriseMillisol)
	assert.Zero(t, rec.SunsetMillisol)
	assert.Equal(t, float64(mars.MillisolsPerSol), rec.DaylightMillisols)
	assert.Equal(t, 400.0, rec.PeakIrradiance)
}

func TestSunRecord_ConstantDarkness(t *testing.T) {
	clock := &mars.Clock{}
	surface := &lightCurveSurface{clock: clock, irr: func(int) float64 { return 0 }}
	s := newTestSampler(t, clock, surface, nil, config.DefaultParams().Weather)
	loc := mars.NewCoordinate(-80, 0)

	runOneSol(s, clock, loc)

	rec, ok := s.SunRecord(loc)
	require.True(t, ok)
	assert.Equal(t, SunRecord{Sol: 1}, rec)
}

func TestSunRecord_IncompleteLogSkipped(t *testing.T) {
	clock := &mars.Clock{}
	surface := &lightCurveSurface{clock: clock, irr: func(int) float64 { return 400 }}
	s := newTestSampler(t, clock, surface, nil, config.DefaultParams().Weather)
	loc := mars.NewCoordinate(0, 0)

	// Join mid-sol: fewer than half the expected samples accumulate before
	// the sol rolls over, so no record is produced.
	clock.SetTotal(940)
	runOneSol(s, clock, loc)

	_, ok := s.SunRecord(loc)
	assert.False(t, ok)
}

func TestScanSolLog_MissingCrossingFallsToBoundary(t *testing.T) {
	// Light rises mid-sol and stays on through the boundary.
	var samples []Sample
	for ms := 0; ms < 1000; ms += 5 {
		var irr float64
		if ms >= 300 {
			irr = 350
		}
		samples = append(samples, Sample{Millisol: ms, SolarIrradiance: irr})
	}

	rec := scanSolLog(samples)
	assert.InDelta(t, 300, rec.SunriseMillisol, 5)
	assert.Zero(t, rec.SunsetMillisol)
	assert.InDelta(t, 700, rec.DaylightMillisols, 5)
	assert.Equal(t, 350.0, rec.PeakIrradiance)
}

func TestWrapMidpoint(t *testing.T) {
	assert.Equal(t, 5.0, wrapMidpoint(0, 10))
	assert.Equal(t, 500.0, wrapMidpoint(495, 505))
	// Interval spanning the sol boundary.
	assert.Equal(t, 0.0, wrapMidpoint(990, 10))
	assert.Equal(t, 997.5, wrapMidpoint(990, 5))
}
