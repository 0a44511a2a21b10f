package weather

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
)

// SunRecord summarizes one sol of illumination at a location. All times are
// millisols in [0, 1000).
//
// Fallbacks when the sol has no day/night transition: a sol in constant
// daylight records sunrise 0, sunset 0, daylight 1000; a sol in constant
// darkness records all zeros.
type SunRecord struct {
	Sol               int     `json:"sol"`
	SunriseMillisol   float64 `json:"sunrise_millisol"`
	SunsetMillisol    float64 `json:"sunset_millisol"`
	DaylightMillisols float64 `json:"daylight_millisols"`
	ZenithMillisol    float64 `json:"zenith_millisol"`
	PeakIrradiance    float64 `json:"peak_irradiance_wm2"`
}

// SunRecords derives daily sun records from the sampler's rolling sample
// log, overwriting each location's record once per sol.
type SunRecords struct {
	sampler  *Sampler
	logger   *slog.Logger
	throttle *observability.Throttle
	metrics  *observability.Metrics

	mu      sync.Mutex
	records map[mars.Coordinate]SunRecord
}

func newSunRecords(s *Sampler, logger *slog.Logger, throttle *observability.Throttle, metrics *observability.Metrics) *SunRecords {
	return &SunRecords{
		sampler:  s,
		logger:   logger,
		throttle: throttle,
		metrics:  metrics,
		records:  make(map[mars.Coordinate]SunRecord),
	}
}

// Record returns the latest sun record for loc.
func (r *SunRecords) Record(loc mars.Coordinate) (SunRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[loc]
	return rec, ok
}

// ComputeAll computes the given sol's record for every logged location.
func (r *SunRecords) ComputeAll(sol int) {
	for _, loc := range r.sampler.samples.locations() {
		r.ComputeDailyRecord(loc, sol)
	}
}

// ComputeDailyRecord scans a location's ordered sample sequence for the
// given sol. An absent or incomplete log skips the computation for this
// cycle, leaving the previous record in place.
func (r *SunRecords) ComputeDailyRecord(loc mars.Coordinate, sol int) {
	samples := r.sampler.samples.solSamples(loc, sol)

	// Half a sol's worth of samples is the completeness floor.
	expected := mars.MillisolsPerSol / r.sampler.params.TemperatureCadence
	if len(samples) < expected/2 {
		r.metrics.SunRecordsSkipped.Inc()
		if r.throttle.Allow(fmt.Sprintf("sun-log:%v", loc)) {
			r.logger.Warn("sun record skipped, sample log incomplete",
				"location", loc.String(), "sol", sol, "samples", len(samples), "expected", expected)
		}
		return
	}

	rec := scanSolLog(samples)
	rec.Sol = sol

	r.mu.Lock()
	r.records[loc] = rec
	r.mu.Unlock()
	r.metrics.SunRecordsDaily.Inc()
}

func (r *SunRecords) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[mars.Coordinate]SunRecord)
}

// scanSolLog finds the irradiance zero crossings and peak in one sol's
// ordered samples.
func scanSolLog(samples []Sample) SunRecord {
	sunrise, sunset := -1.0, -1.0
	peakIdx := 0
	for i, s := range samples {
		if s.SolarIrradiance > samples[peakIdx].SolarIrradiance {
			peakIdx = i
		}
		if i == 0 {
			continue
		}
		prev := samples[i-1].SolarIrradiance
		cur := s.SolarIrradiance
		if sunrise < 0 && prev <= 0 && cur > 0 {
			sunrise = wrapMidpoint(float64(samples[i-1].Millisol), float64(s.Millisol))
		}
		if sunset < 0 && prev > 0 && cur <= 0 {
			sunset = wrapMidpoint(float64(samples[i-1].Millisol), float64(s.Millisol))
		}
	}

	peak := samples[peakIdx].SolarIrradiance
	if sunrise < 0 && sunset < 0 {
		if peak <= 0 {
			// Polar night: no light at any sample.
			return SunRecord{}
		}
		// Polar day: lit the entire sol.
		return SunRecord{
			DaylightMillisols: mars.MillisolsPerSol,
			ZenithMillisol:    zenithOf(samples, peakIdx),
			PeakIrradiance:    peak,
		}
	}

	// A crossing missing from the log means it happened at the sol
	// boundary; the boundary millisol 0 stands in for it.
	if sunrise < 0 {
		sunrise = 0
	}
	if sunset < 0 {
		sunset = 0
	}

	daylight := math.Mod(sunset-sunrise+mars.MillisolsPerSol, mars.MillisolsPerSol)
	if daylight == 0 {
		daylight = mars.MillisolsPerSol
	}

	return SunRecord{
		SunriseMillisol:   sunrise,
		SunsetMillisol:    sunset,
		DaylightMillisols: daylight,
		ZenithMillisol:    zenithOf(samples, peakIdx),
		PeakIrradiance:    peak,
	}
}

// zenithOf is the midpoint of the two samples bounding the peak.
func zenithOf(samples []Sample, peakIdx int) float64 {
	lo := peakIdx - 1
	if lo < 0 {
		lo = 0
	}
	hi := peakIdx + 1
	if hi >= len(samples) {
		hi = len(samples) - 1
	}
	return wrapMidpoint(float64(samples[lo].Millisol), float64(samples[hi].Millisol))
}

// wrapMidpoint is the midpoint of two millisol times with wraparound
// correction past the sol boundary.
func wrapMidpoint(a, b float64) float64 {
	if b < a {
		b += mars.MillisolsPerSol
	}
	return math.Mod((a+b)/2, mars.MillisolsPerSol)
}
