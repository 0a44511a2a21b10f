package mars

// StormWind is the wind influence an active dust storm exerts at its anchor
// location. The weather sampler blends its previous wind speed with the
// storm's speed using the classification's blend weight: larger storms
// dominate local wind almost completely, a dust devil only nudges it.
type StormWind struct {
	// SpeedMS is the storm's current wind speed, m/s.
	SpeedMS float64
	// BlendPrevious is the weight in [0, 1] given to the previous ambient
	// wind speed when blending; the storm contributes 1 - BlendPrevious.
	BlendPrevious float64
}
