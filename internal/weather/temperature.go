package weather

import (
	"math"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// Temperature model constants (°C unless noted).
const (
	minTemperature = -160.0
	maxTemperature = 40.0

	// Dark polar winter: CO₂ condensation floor plus a small random offset.
	darkPolarBase   = -155.0
	darkPolarJitter = 10.0

	// Equatorial baseline: nighttime floor rising with sunlight ratio.
	equatorNightFloor   = -57.0
	equatorSunlightGain = 80.0

	// Two-zone elevation lapse, break at lapseBreakKm.
	lapseBreakKm  = 2.5
	lapseLowRate  = -4.5 // °C per km below the break
	lapseHighRate = -7.5 // °C per km above the break

	// Latitude and seasonal sinusoid amplitudes.
	latitudeAmplitude = 20.0
	seasonalAmplitude = 6.0

	// Logistic wind correction saturates at ±windCorrectionMax/2.
	windCorrectionMax   = 10.0
	windCorrectionSlope = 0.15

	// Bounded uniform perturbation, ±.
	temperatureJitter = 2.0
)

// computeTemperature produces the new smoothed temperature for loc. The raw
// model value is clamped to [-160, 40] before being averaged with the
// previous cached value.
func (s *Sampler) computeTemperature(loc mars.Coordinate, prev float64, cached bool) float64 {
	var t float64
	switch {
	case s.surface.InDarkPolarRegion(loc):
		t = darkPolarBase + s.randFloat()*darkPolarJitter
	case s.surface.InPolarRegion(loc):
		t = s.litPolarTemperature(loc)
	default:
		t = s.temperateTemperature(loc)
	}

	t = clamp(t, minTemperature, maxTemperature)
	if cached {
		return (prev + t) / 2
	}
	return t
}

// litPolarTemperature is a piecewise-linear function of the seasonal angle,
// shifted half a year for the southern hemisphere so each pole sees its own
// summer at the curve's maximum.
func (s *Sampler) litPolarTemperature(loc mars.Coordinate) float64 {
	ls := s.orbit.SeasonalAngle()
	if loc.Lat < 0 {
		ls = math.Mod(ls+180, 360)
	}

	// Anchor temperatures at the equinoxes and solstices.
	anchors := [5]struct{ ls, t float64 }{
		{0, -110}, {90, -60}, {180, -110}, {270, -150}, {360, -110},
	}
	for i := 0; i < len(anchors)-1; i++ {
		a, b := anchors[i], anchors[i+1]
		if ls <= b.ls {
			frac := (ls - a.ls) / (b.ls - a.ls)
			return a.t + frac*(b.t-a.t)
		}
	}
	return anchors[len(anchors)-1].t
}

// temperateTemperature sums the temperate-zone model terms: irradiance
// baseline, elevation lapse, latitude sinusoid, seasonal sinusoid, logistic
// wind correction, and a bounded random perturbation.
func (s *Sampler) temperateTemperature(loc mars.Coordinate) float64 {
	t := equatorNightFloor + equatorSunlightGain*s.surface.SunlightRatio(loc)

	elev := s.terrain.TerrainProfile(loc).ElevationKm
	if elev <= lapseBreakKm {
		t += lapseLowRate * elev
	} else {
		t += lapseLowRate*lapseBreakKm + lapseHighRate*(elev-lapseBreakKm)
	}

	t -= latitudeAmplitude * math.Sin(math.Abs(loc.LatRad()))

	// Seasonal swing driven by elapsed mission sols, opposite phase in the
	// southern hemisphere.
	yearFrac := float64(s.clock.TotalMillisols()) / mars.MillisolsPerSol / mars.SolsPerYear
	season := seasonalAmplitude * math.Sin(2*math.Pi*yearFrac)
	if loc.Lat < 0 {
		season = -season
	}
	t += season

	// Wind chill magnitude grows logistically with wind speed and is
	// applied with the same sign as the net value so it never flips the
	// reading across zero.
	w := s.WindSpeed(loc)
	corr := windCorrectionMax/(1+math.Exp(-windCorrectionSlope*w)) - windCorrectionMax/2
	t += math.Copysign(corr, t)

	t += (s.randFloat()*2 - 1) * temperatureJitter
	return t
}

// Pressure model constants.
const (
	// datumPressureKPa is the mean surface pressure at the elevation datum.
	datumPressureKPa = 0.699

	// scaleHeightKm is the atmospheric scale height.
	scaleHeightKm = 11.1

	// pressureJitter bounds each of the independent up and down draws.
	pressureJitter = 0.01
)

// computePressure applies the exponential barometric model with small
// bounded jitter, smoothed against the previous cached value.
func (s *Sampler) computePressure(loc mars.Coordinate, prev float64, cached bool) float64 {
	elev := s.terrain.TerrainProfile(loc).ElevationKm
	p := datumPressureKPa * math.Exp(-elev/scaleHeightKm)

	up := s.randFloat() * pressureJitter
	down := s.randFloat() * pressureJitter
	p *= 1 + up - down

	if p < 0 {
		p = 0
	}
	if cached {
		return (prev + p) / 2
	}
	return p
}
