package mars

import "math"

// Orbit supplies the planet's current orbital position.
type Orbit interface {
	// SeasonalAngle returns the areocentric solar longitude Ls in
	// degrees [0, 360).
	SeasonalAngle() float64
}

// OrbitModel derives Ls linearly from elapsed mission sols. The true orbit is
// eccentric, so real Ls advances unevenly through the year; the linear
// approximation keeps seasonal phase aligned within a few degrees, which is
// all the weather and storm formulas need.
type OrbitModel struct {
	clock   *Clock
	startLs float64
}

// NewOrbitModel creates an orbit supplier anchored at startLs degrees on
// mission sol 1.
func NewOrbitModel(clock *Clock, startLs float64) *OrbitModel {
	return &OrbitModel{clock: clock, startLs: normalizeDeg(startLs)}
}

func (o *OrbitModel) SeasonalAngle() float64 {
	sols := float64(o.clock.TotalMillisols()) / MillisolsPerSol
	return normalizeDeg(o.startLs + 360*sols/SolsPerYear)
}

// SolarDeclination returns the subsolar latitude in degrees for a given Ls.
// The axial tilt is 25.19°.
func SolarDeclination(ls float64) float64 {
	return 25.19 * math.Sin(ls*math.Pi/180)
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
