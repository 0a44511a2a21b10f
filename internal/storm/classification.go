// Package storm manages the dust-storm population: formation, growth,
// classification, and dissipation. The lifecycle owns every active storm;
// settlements hold only numeric handles into the active collection, so a
// retired storm can never be referenced after removal.
package storm

// Classification is a dust-storm severity tier. Each variant carries its own
// wind blend weight, speed cap, and growth characteristics, so adding a tier
// can never leave a lookup table out of sync.
//
// Severity ranks dust devil < local < regional < planet-encircling. A smaller
// storm perturbs ambient wind less: blendPrevious 0.80 means a dust devil
// leaves 80% of the previous ambient speed in place, while a
// planet-encircling storm's 0.995 weight almost replaces it outright over
// successive refreshes.
type Classification struct {
	name          string
	blendPrevious float64
	speedCapMS    float64
	sizeCeilingKm float64 // promote to the next tier above this diameter
	growthStepKm  float64 // characteristic size change per evaluation
	maxLifeSols   int     // evaluations after this age force decay
}

var (
	// DustDevil is the smallest, most transient tier; every storm forms
	// as one.
	DustDevil = &Classification{
		name:          "dust devil",
		blendPrevious: 0.80,
		speedCapMS:    35,
		sizeCeilingKm: 15,
		growthStepKm:  3,
		maxLifeSols:   2,
	}

	// Local covers storms on the scale of a crater or valley system.
	Local = &Classification{
		name:          "local dust storm",
		blendPrevious: 0.98,
		speedCapMS:    60,
		sizeCeilingKm: 300,
		growthStepKm:  20,
		maxLifeSols:   15,
	}

	// Regional storms span a substantial fraction of a hemisphere.
	Regional = &Classification{
		name:          "regional dust storm",
		blendPrevious: 0.99,
		speedCapMS:    85,
		sizeCeilingKm: 2000,
		growthStepKm:  80,
		maxLifeSols:   40,
	}

	// PlanetEncircling storms wrap the full circumference. At most two may
	// be active at once; a storm growing past the regional ceiling while
	// the cap is in force is held at regional size instead.
	PlanetEncircling = &Classification{
		name:          "planet-encircling dust storm",
		blendPrevious: 0.995,
		speedCapMS:    130,
		sizeCeilingKm: 14000,
		growthStepKm:  250,
		maxLifeSols:   90,
	}
)

// Name returns the human-readable tier name.
func (c *Classification) Name() string { return c.name }

// BlendPrevious returns the weight given to previous ambient wind speed when
// this tier's storm influences a location.
func (c *Classification) BlendPrevious() float64 { return c.blendPrevious }

// SpeedCap returns the tier's maximum wind speed in m/s.
func (c *Classification) SpeedCap() float64 { return c.speedCapMS }

// classify maps a diameter to its severity tier. When allowEncircling is
// false, sizes beyond the regional ceiling stay classified regional.
func classify(sizeKm float64, allowEncircling bool) *Classification {
	switch {
	case sizeKm < DustDevil.sizeCeilingKm:
		return DustDevil
	case sizeKm < Local.sizeCeilingKm:
		return Local
	case sizeKm < Regional.sizeCeilingKm:
		return Regional
	default:
		if !allowEncircling {
			return Regional
		}
		return PlanetEncircling
	}
}
