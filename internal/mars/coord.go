package mars

import (
	"fmt"
	"math"
)

// Coordinate is an immutable spherical surface position in degrees.
// Latitude is clamped to [-90, 90]; longitude is wrapped into [0, 360).
// Always construct through NewCoordinate so values are normalized and the
// type can serve as a cache key.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate builds a normalized coordinate from latitude and longitude
// in degrees.
func NewCoordinate(lat, lon float64) Coordinate {
	if lat > 90 {
		lat = 90
	}
	if lat < -90 {
		lat = -90
	}
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	// Normalize negative zero so equal angles hash identically.
	if lon == 0 {
		lon = 0
	}
	if lat == 0 {
		lat = 0
	}
	return Coordinate{Lat: lat, Lon: lon}
}

// LatRad returns the latitude in radians.
func (c Coordinate) LatRad() float64 { return c.Lat * math.Pi / 180 }

// LonRad returns the longitude in radians.
func (c Coordinate) LonRad() float64 { return c.Lon * math.Pi / 180 }

// Offset returns the coordinate displaced by the given angular distance
// (degrees) along a compass bearing (degrees, 0 = north). The small-angle
// planar approximation is fine at the step sizes used for steepness sampling.
func (c Coordinate) Offset(bearingDeg, distanceDeg float64) Coordinate {
	b := bearingDeg * math.Pi / 180
	dLat := distanceDeg * math.Cos(b)
	cosLat := math.Cos(c.LatRad())
	if math.Abs(cosLat) < 1e-9 {
		cosLat = 1e-9
	}
	dLon := distanceDeg * math.Sin(b) / cosLat
	return NewCoordinate(c.Lat+dLat, c.Lon+dLon)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f°%s %.4f°E", math.Abs(c.Lat), hemisphere(c.Lat), c.Lon)
}

func hemisphere(lat float64) string {
	if lat < 0 {
		return "S"
	}
	return "N"
}
