package terrain

import (
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// Latitude band boundaries (degrees absolute) for the collection-rate
// formulas. Subsurface ice gets dramatically easier to reach poleward of 60°.
const (
	midLatitudeBand  = 60.0
	highLatitudeBand = 75.0
)

// RateUncomputed marks a collection rate that has not been derived yet.
const RateUncomputed = -1.0

// Rate bounds after clamping.
const (
	minCollectionRate = 1.0
	maxCollectionRate = 200.0
)

// CollectionSite is a lazily created, per-location record of terrain-derived
// resource collection rates. The elevation and steepness fields are fixed at
// creation; the rate fields start at RateUncomputed and are memoized on first
// use, including their randomized multiplier.
type CollectionSite struct {
	Location    mars.Coordinate
	ElevationKm float64
	Steepness   float64

	mu           sync.Mutex
	iceRate      float64
	regolithRate float64
}

// CollectionSite returns the site for a location, creating it on first
// access from the memoized terrain profile.
func (s *Service) CollectionSite(loc mars.Coordinate) *CollectionSite {
	p := s.TerrainProfile(loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if site, ok := s.sites[loc]; ok {
		return site
	}
	site := &CollectionSite{
		Location:     loc,
		ElevationKm:  p.ElevationKm,
		Steepness:    p.Steepness,
		iceRate:      RateUncomputed,
		regolithRate: RateUncomputed,
	}
	s.sites[loc] = site
	return site
}

// IceCollectionRate returns the site's ice collection rate, deriving and
// memoizing it on first call. The result is clamped to [1, 200].
func (s *Service) IceCollectionRate(site *CollectionSite) float64 {
	site.mu.Lock()
	defer site.mu.Unlock()

	if site.iceRate != RateUncomputed {
		return site.iceRate
	}
	site.iceRate = clampRate(s.baseIceRate(site) * s.rateMultiplier())
	return site.iceRate
}

// RegolithCollectionRate returns the site's regolith collection rate,
// deriving and memoizing it on first call. The result is clamped to [1, 200].
func (s *Service) RegolithCollectionRate(site *CollectionSite) float64 {
	site.mu.Lock()
	defer site.mu.Unlock()

	if site.regolithRate != RateUncomputed {
		return site.regolithRate
	}
	site.regolithRate = clampRate(s.baseRegolithRate(site) * s.rateMultiplier())
	return site.regolithRate
}

// baseIceRate combines elevation, steepness, and latitude per band. Ice is
// scarce in the tropics, plentiful near the poles, and low ground (closer to
// the ancient water table) scores better everywhere.
func (s *Service) baseIceRate(site *CollectionSite) float64 {
	absLat := abs(site.Location.Lat)
	switch {
	case absLat < midLatitudeBand:
		return 5 - 1.2*site.ElevationKm + 0.03*site.Steepness + 0.15*absLat
	case absLat < highLatitudeBand:
		return 40 + 2.5*(absLat-midLatitudeBand) - 1.5*site.ElevationKm + 0.02*site.Steepness
	default:
		return 95 + 4.0*(absLat-highLatitudeBand) - 1.0*site.ElevationKm
	}
}

// baseRegolithRate favors flat, low, temperate ground; permafrost-hardened
// polar terrain digs slowly.
func (s *Service) baseRegolithRate(site *CollectionSite) float64 {
	absLat := abs(site.Location.Lat)
	switch {
	case absLat < midLatitudeBand:
		return 70 - 0.8*site.Steepness - 1.0*abs(site.ElevationKm) + 0.2*(midLatitudeBand-absLat)
	case absLat < highLatitudeBand:
		return 45 - 0.6*site.Steepness - 1.0*abs(site.ElevationKm)
	default:
		return 20 - 0.4*site.Steepness
	}
}

// rateMultiplier draws the per-site randomized term, uniform in [0.8, 1.2).
func (s *Service) rateMultiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 0.8 + 0.4*s.rng.Float64()
}

func clampRate(r float64) float64 {
	if r < minCollectionRate {
		return minCollectionRate
	}
	if r > maxCollectionRate {
		return maxCollectionRate
	}
	return r
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
