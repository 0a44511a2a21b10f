package weather

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/terrain"
)

// StormSource reports the wind influence of an active dust storm at a
// location. Implemented by the storm lifecycle.
type StormSource interface {
	StormWindAt(loc mars.Coordinate) (mars.StormWind, bool)
}

// Sampler produces per-location weather. One instance serves the whole
// simulation: many concurrent readers, one tick driver calling OnTick.
type Sampler struct {
	clock   *mars.Clock
	orbit   mars.Orbit
	surface mars.Surface
	terrain *terrain.Service
	storms  StormSource // may be nil when no lifecycle participates
	params  config.WeatherParams

	logger   *slog.Logger
	throttle *observability.Throttle
	metrics  *observability.Metrics

	temperature *metricCache
	pressure    *metricCache
	wind        *windCache
	samples     *sampleLog
	sun         *SunRecords

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSampler creates a weather sampler. storms may be nil; wind then always
// follows the ambient model.
func NewSampler(clock *mars.Clock, orbit mars.Orbit, surface mars.Surface, terrainSvc *terrain.Service,
	storms StormSource, params config.WeatherParams, rng *rand.Rand,
	logger *slog.Logger, throttle *observability.Throttle, metrics *observability.Metrics) *Sampler {
	s := &Sampler{
		clock:       clock,
		orbit:       orbit,
		surface:     surface,
		terrain:     terrainSvc,
		storms:      storms,
		params:      params,
		logger:      logger,
		throttle:    throttle,
		metrics:     metrics,
		temperature: newMetricCache(metrics.CachedLocations),
		pressure:    newMetricCache(nil),
		wind:        newWindCache(),
		samples:     newSampleLog(params.SampleSolsKept),
		rng:         rng,
	}
	s.sun = newSunRecords(s, logger, throttle, metrics)
	return s
}

// SetStormSource wires the dust-storm lifecycle in after construction; the
// two subsystems reference each other, so one side has to be attached late.
func (s *Sampler) SetStormSource(src StormSource) { s.storms = src }

// Temperature returns the smoothed surface temperature at loc in °C,
// always within [-160, 40].
func (s *Sampler) Temperature(loc mars.Coordinate) float64 {
	return s.temperature.get(loc, func(prev float64, cached bool) float64 {
		return s.computeTemperature(loc, prev, cached)
	})
}

// Pressure returns the smoothed atmospheric pressure at loc in kPa, ≥ 0.
func (s *Sampler) Pressure(loc mars.Coordinate) float64 {
	return s.pressure.get(loc, func(prev float64, cached bool) float64 {
		return s.computePressure(loc, prev, cached)
	})
}

// gasConstantCO2 is the specific gas constant of CO₂, J/(kg·K).
const gasConstantCO2 = 188.92

// AirDensity derives the air density at loc in g/m³ from the current
// pressure and temperature; it is not independently cached.
func (s *Sampler) AirDensity(loc mars.Coordinate) float64 {
	p := s.Pressure(loc)
	tK := s.Temperature(loc) + 273.15
	if tK <= 0 {
		return 0
	}
	// kPa → Pa is ×1e3, kg/m³ → g/m³ is ×1e3 again.
	return p * 1e6 / (gasConstantCO2 * tK)
}

// SunRecord returns the latest daily sun record for loc, if one has been
// computed.
func (s *Sampler) SunRecord(loc mars.Coordinate) (SunRecord, bool) {
	return s.sun.Record(loc)
}

// CurrentSample assembles a full reading of the cached metrics at loc.
func (s *Sampler) CurrentSample(loc mars.Coordinate) Sample {
	pulse := s.clock.Now()
	return Sample{
		TotalMillisols:   pulse.TotalMillisols,
		Sol:              pulse.Sol,
		Millisol:         pulse.Millisol,
		TemperatureC:     s.Temperature(loc),
		PressureKPa:      s.Pressure(loc),
		DensityGM3:       s.AirDensity(loc),
		WindSpeedMS:      s.WindSpeed(loc),
		WindDirectionDeg: s.WindDirection(loc),
		SolarIrradiance:  s.surface.SolarIrradiance(loc),
		OpticalDepth:     s.surface.OpticalDepth(loc),
	}
}

// ClearCaches drops every per-location cache: bounded-memory maintenance.
// The next getter call for any location recomputes from scratch.
func (s *Sampler) ClearCaches() {
	s.temperature.clear()
	s.pressure.clear()
	s.wind.clear()
	s.samples.clear()
	s.sun.clear()
	s.metrics.CacheClears.Inc()
	s.logger.Info("weather caches cleared")
}

// OnTick fires the per-metric refreshes whose cadence divides the pulse's
// integer time, records sampling-log entries, and on a new sol computes the
// previous sol's sun records.
func (s *Sampler) OnTick(pulse mars.Pulse) {
	total := pulse.TotalMillisols

	if total%int64(s.params.TemperatureCadence) == 0 {
		n := s.temperature.refresh(func(loc mars.Coordinate, prev float64) float64 {
			return s.computeTemperature(loc, prev, true)
		})
		s.metrics.MetricRefreshes.WithLabelValues("temperature").Add(float64(n))
		s.recordSamples()
	}

	if total%int64(s.params.PressureCadence) == 0 {
		n := s.pressure.refresh(func(loc mars.Coordinate, prev float64) float64 {
			return s.computePressure(loc, prev, true)
		})
		s.metrics.MetricRefreshes.WithLabelValues("pressure").Add(float64(n))
	}

	if total%int64(s.params.WindCadence) == 0 {
		n := s.refreshWind()
		s.metrics.MetricRefreshes.WithLabelValues("wind_speed").Add(float64(n))
	}

	if pulse.NewSol && pulse.Sol > 1 {
		s.sun.ComputeAll(pulse.Sol - 1)
	}
}

// recordSamples appends a full reading for every temperature-cached location
// to the rolling log consumed by the sun-record calculator.
func (s *Sampler) recordSamples() {
	for _, loc := range s.temperature.locations() {
		s.samples.append(loc, s.CurrentSample(loc))
	}
}

// randFloat returns a uniform draw in [0, 1). The sampler's RNG has its own
// lock because draws happen inside the per-metric critical sections.
func (s *Sampler) randFloat() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
