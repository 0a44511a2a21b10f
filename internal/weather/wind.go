package weather

import (
	"math"
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// Wind model constants.
const (
	// negligibleWind is the speed below which direction reads as 0.
	negligibleWind = 0.01

	// ambientPullFactor scales each randomized step toward the ambient
	// boundary speed.
	ambientPullFactor = 0.2

	// directionHistoryWeight is the exponential smoothing weight favoring
	// the cached direction over the new random draw.
	directionHistoryWeight = 0.9
)

// windCache holds speed and direction together: both are written by the
// single tick driver and read by agents, and a direction draw depends on the
// current speed.
type windCache struct {
	mu     sync.Mutex
	speeds map[mars.Coordinate]float64
	dirs   map[mars.Coordinate]float64
}

func newWindCache() *windCache {
	return &windCache{
		speeds: make(map[mars.Coordinate]float64),
		dirs:   make(map[mars.Coordinate]float64),
	}
}

func (c *windCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speeds = make(map[mars.Coordinate]float64)
	c.dirs = make(map[mars.Coordinate]float64)
}

// WindSpeed returns the wind speed at loc in m/s. The first access seeds a
// uniform random draw; refreshes then either blend toward an active storm's
// speed or drift toward the terrain- and opacity-derived ambient boundary.
func (s *Sampler) WindSpeed(loc mars.Coordinate) float64 {
	s.wind.mu.Lock()
	defer s.wind.mu.Unlock()

	if v, ok := s.wind.speeds[loc]; ok {
		return v
	}
	v := s.randFloat() * s.params.MaxInitialWind
	s.wind.speeds[loc] = v
	return v
}

// WindDirection returns the wind direction at loc in degrees [0, 360).
// Negligible wind reads as 0.
func (s *Sampler) WindDirection(loc mars.Coordinate) float64 {
	s.wind.mu.Lock()
	defer s.wind.mu.Unlock()

	if s.wind.speeds[loc] < negligibleWind {
		return 0
	}
	if d, ok := s.wind.dirs[loc]; ok {
		return d
	}
	d := s.randFloat() * 360
	s.wind.dirs[loc] = d
	return d
}

// refreshWind recomputes speed and direction for every cached location and
// returns the number refreshed.
func (s *Sampler) refreshWind() int {
	s.wind.mu.Lock()
	defer s.wind.mu.Unlock()

	for loc, prev := range s.wind.speeds {
		s.wind.speeds[loc] = s.nextWindSpeed(loc, prev)
	}
	for loc, prev := range s.wind.dirs {
		draw := s.randFloat() * 360
		s.wind.dirs[loc] = math.Mod(directionHistoryWeight*prev+(1-directionHistoryWeight)*draw, 360)
	}
	return len(s.wind.speeds)
}

// nextWindSpeed computes a location's refreshed speed. An active storm
// blends the previous speed with the storm's speed using the storm type's
// own weight; otherwise the speed takes a small randomized step toward the
// ambient boundary.
func (s *Sampler) nextWindSpeed(loc mars.Coordinate, prev float64) float64 {
	if s.storms != nil {
		if sw, ok := s.storms.StormWindAt(loc); ok {
			v := sw.BlendPrevious*prev + (1-sw.BlendPrevious)*sw.SpeedMS
			return clamp(v, 0, s.params.StormWindMax)
		}
	}

	boundary := s.ambientBoundary(loc)
	v := prev + (boundary-prev)*ambientPullFactor*s.randFloat()
	return clamp(v, 0, s.params.AmbientWindMax)
}

// ambientBoundary is the speed ambient wind drifts toward: dust-loaded air
// and rough terrain both sustain stronger surface winds.
func (s *Sampler) ambientBoundary(loc mars.Coordinate) float64 {
	tau := s.surface.OpticalDepth(loc)
	steep := s.terrain.TerrainProfile(loc).Steepness
	return clamp(2+10*tau+0.05*steep, 0, s.params.AmbientWindMax)
}
