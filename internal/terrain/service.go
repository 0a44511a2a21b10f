package terrain

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
)

// steepnessSamples is the number of discrete compass directions the slope is
// integrated over.
const steepnessSamples = 360

// Profile is the memoized terrain description of one coordinate.
type Profile struct {
	// ElevationKm is the surface elevation relative to the datum.
	ElevationKm float64
	// Steepness is the sum of absolute elevation changes (km) sampled one
	// step away in each of 360 compass directions.
	Steepness float64
}

// SettlementElevations resolves a coordinate to a settlement's fixed stored
// elevation when the coordinate coincides with a known settlement.
type SettlementElevations interface {
	ElevationAt(loc mars.Coordinate) (km float64, ok bool)
}

// Service resolves terrain profiles and collection sites. All lookups are
// memoized; entries are immutable once computed. Safe for concurrent use.
type Service struct {
	raster      Raster
	settlements SettlementElevations // may be nil
	params      config.TerrainParams

	logger   *slog.Logger
	throttle *observability.Throttle
	metrics  *observability.Metrics

	mu       sync.Mutex
	rng      *rand.Rand
	profiles map[mars.Coordinate]Profile
	sites    map[mars.Coordinate]*CollectionSite
}

// NewService creates a terrain service. settlements may be nil when no
// settlement registry participates (e.g. unit tests of raw raster terrain).
func NewService(raster Raster, settlements SettlementElevations, params config.TerrainParams,
	rng *rand.Rand, logger *slog.Logger, throttle *observability.Throttle, metrics *observability.Metrics) *Service {
	return &Service{
		raster:      raster,
		settlements: settlements,
		params:      params,
		rng:         rng,
		logger:      logger,
		throttle:    throttle,
		metrics:     metrics,
		profiles:    make(map[mars.Coordinate]Profile),
		sites:       make(map[mars.Coordinate]*CollectionSite),
	}
}

// TerrainProfile returns the memoized elevation and steepness for a
// coordinate, computing it on first access. Repeated calls return
// bit-identical results.
func (s *Service) TerrainProfile(loc mars.Coordinate) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[loc]; ok {
		return p
	}
	p := Profile{
		ElevationKm: s.elevationLocked(loc),
		Steepness:   s.steepnessLocked(loc),
	}
	s.profiles[loc] = p
	s.metrics.TerrainProfiles.Set(float64(len(s.profiles)))
	return p
}

// elevationLocked resolves elevation with settlement precedence over the
// raster, degrading to the default elevation on a raster miss.
func (s *Service) elevationLocked(loc mars.Coordinate) float64 {
	if s.settlements != nil {
		if km, ok := s.settlements.ElevationAt(loc); ok {
			return km
		}
	}
	km, ok := s.raster.Elevation(loc)
	if !ok {
		s.metrics.RasterMisses.Inc()
		if s.throttle.Allow("raster-miss") {
			s.logger.Warn("elevation raster miss, using default",
				"location", loc.String(), "default_km", s.params.DefaultElevationKm)
		}
		return s.params.DefaultElevationKm
	}
	return km
}

// steepnessLocked integrates the absolute elevation slope at a fixed angular
// step across 360 compass directions.
func (s *Service) steepnessLocked(loc mars.Coordinate) float64 {
	center := s.elevationLocked(loc)
	step := s.params.StepDeg

	var sum float64
	for deg := range steepnessSamples {
		neighbor := s.elevationLocked(loc.Offset(float64(deg), step))
		sum += math.Abs(neighbor - center)
	}
	return sum
}

// Reset drops all memoized terrain state. Called at simulation teardown, not
// during normal operation.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[mars.Coordinate]Profile)
	s.sites = make(map[mars.Coordinate]*CollectionSite)
	s.metrics.TerrainProfiles.Set(0)
}
