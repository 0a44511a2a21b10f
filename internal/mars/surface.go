package mars

import "math"

// Physical constants for the irradiance model.
const (
	// MaxSolarIrradiance is the top-of-atmosphere flux at mean orbital
	// distance, W/m².
	MaxSolarIrradiance = 590.0

	// PolarLatitude is the boundary above which a location counts as polar
	// for the weather model's region split.
	PolarLatitude = 60.0
)

// Surface supplies per-location atmospheric and illumination conditions.
type Surface interface {
	// OpticalDepth returns the atmospheric dust opacity at the location.
	OpticalDepth(loc Coordinate) float64
	// SolarIrradiance returns the surface flux in W/m², zero at night.
	SolarIrradiance(loc Coordinate) float64
	// SunlightRatio returns irradiance as a fraction of the maximum
	// possible flux, in [0, 1].
	SunlightRatio(loc Coordinate) float64
	// InPolarRegion reports whether the location is poleward of the
	// polar boundary.
	InPolarRegion(loc Coordinate) bool
	// InDarkPolarRegion reports whether the location is inside the
	// winter polar night, where the sun stays below the horizon all sol.
	InDarkPolarRegion(loc Coordinate) bool
}

// SurfaceModel is the default Surface implementation: a clear-sky solar
// geometry model attenuated by a seasonally varying dust background.
type SurfaceModel struct {
	clock *Clock
	orbit Orbit
}

// NewSurfaceModel creates the default surface-conditions supplier.
func NewSurfaceModel(clock *Clock, orbit Orbit) *SurfaceModel {
	return &SurfaceModel{clock: clock, orbit: orbit}
}

// OpticalDepth returns a background opacity of 0.2 outside storm season,
// rising toward 0.7 when Ls approaches the dusty perihelion passage.
func (s *SurfaceModel) OpticalDepth(loc Coordinate) float64 {
	ls := s.orbit.SeasonalAngle()
	// Dust loading peaks near Ls 250° and is lowest half a year away.
	seasonal := 0.5 * (1 + math.Cos((ls-250)*math.Pi/180)) / 2
	// Slightly clearer air over the high southern latitudes.
	latTerm := 0.05 * math.Cos(loc.LatRad())
	return 0.2 + seasonal + latTerm
}

func (s *SurfaceModel) SolarIrradiance(loc Coordinate) float64 {
	cosZ := s.cosZenith(loc)
	if cosZ <= 0 {
		return 0
	}
	return MaxSolarIrradiance * cosZ * math.Exp(-s.OpticalDepth(loc))
}

func (s *SurfaceModel) SunlightRatio(loc Coordinate) float64 {
	return s.SolarIrradiance(loc) / MaxSolarIrradiance
}

func (s *SurfaceModel) InPolarRegion(loc Coordinate) bool {
	return math.Abs(loc.Lat) >= PolarLatitude
}

// InDarkPolarRegion reports polar night: the location is poleward of the
// terminator's reach in the hemisphere currently tilted away from the sun.
func (s *SurfaceModel) InDarkPolarRegion(loc Coordinate) bool {
	if !s.InPolarRegion(loc) {
		return false
	}
	decl := SolarDeclination(s.orbit.SeasonalAngle())
	if decl == 0 {
		return false
	}
	// Winter hemisphere only: latitude and declination on opposite sides.
	if loc.Lat*decl > 0 {
		return false
	}
	return math.Abs(loc.Lat) > 90-math.Abs(decl)
}

// cosZenith computes the cosine of the solar zenith angle from latitude,
// declination, and the local hour angle derived from longitude and the
// millisol of day.
func (s *SurfaceModel) cosZenith(loc Coordinate) float64 {
	pulse := s.clock.Now()
	local := math.Mod(float64(pulse.Millisol)+loc.Lon/360*MillisolsPerSol, MillisolsPerSol)
	hourAngle := (local/MillisolsPerSol - 0.5) * 2 * math.Pi

	declRad := SolarDeclination(s.orbit.SeasonalAngle()) * math.Pi / 180
	lat := loc.LatRad()
	return math.Sin(lat)*math.Sin(declRad) + math.Cos(lat)*math.Cos(declRad)*math.Cos(hourAngle)
}
