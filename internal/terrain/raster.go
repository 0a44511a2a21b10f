// Package terrain resolves elevation and steepness per coordinate and derives
// resource-collection rates from them. Profiles and collection sites are
// memoized: terrain is fixed for the life of a simulation, so a coordinate's
// profile never changes once computed.
package terrain

import (
	"math"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// Raster is a read-only planetary elevation map. Elevation reports the
// elevation in km at a coordinate; ok is false when the raster has no data
// there, in which case the service degrades to the default elevation.
type Raster interface {
	Elevation(loc mars.Coordinate) (km float64, ok bool)
}

// ProceduralRaster is the default raster: a deterministic superposition of
// long-wavelength sinusoids spanning roughly -8 km (basin floors) to +14 km
// (volcanic peaks). It stands in when no measured elevation map is wired up
// and makes the daemon runnable standalone.
type ProceduralRaster struct{}

func (ProceduralRaster) Elevation(loc mars.Coordinate) (float64, bool) {
	lat := loc.LatRad()
	lon := loc.LonRad()

	base := 3.2*math.Sin(2*lon)*math.Cos(3*lat) +
		2.4*math.Sin(5*lon+1.3)*math.Cos(lat) +
		1.1*math.Sin(11*lon*math.Cos(lat)+0.7)

	// Crustal dichotomy: southern highlands sit several km above the
	// northern lowlands.
	dichotomy := -2.5 * math.Sin(lat)

	// A single massive volcanic rise in the western tropics.
	rise := 9.0 * bump(lat, lon, 0.32, 4.2, 0.35)

	return base + dichotomy + rise, true
}

// bump is a smooth radial peak of the given angular radius (radians) centered
// at (clat, clon).
func bump(lat, lon, clat, clon, radius float64) float64 {
	dLat := lat - clat
	dLon := math.Mod(lon-clon+3*math.Pi, 2*math.Pi) - math.Pi
	d2 := dLat*dLat + dLon*dLon*math.Cos(clat)*math.Cos(clat)
	return math.Exp(-d2 / (radius * radius))
}

// FixedRaster is a map-backed raster reporting a miss for any coordinate it
// does not hold. Useful for tests and small hand-authored maps.
type FixedRaster map[mars.Coordinate]float64

func (r FixedRaster) Elevation(loc mars.Coordinate) (float64, bool) {
	km, ok := r[loc]
	return km, ok
}
