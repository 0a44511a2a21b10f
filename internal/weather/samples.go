package weather

import (
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// Sample is one sampling tick's full weather reading at a location.
type Sample struct {
	TotalMillisols   int64   `json:"-"`
	Sol              int     `json:"sol"`
	Millisol         int     `json:"millisol"`
	TemperatureC     float64 `json:"temperature_c"`
	PressureKPa      float64 `json:"pressure_kpa"`
	DensityGM3       float64 `json:"density_g_m3"`
	WindSpeedMS      float64 `json:"wind_speed_ms"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	SolarIrradiance  float64 `json:"solar_irradiance_wm2"`
	OpticalDepth     float64 `json:"optical_depth"`
}

// sampleLog keeps a rolling per-location sample history bounded to a fixed
// number of sols; appending evicts anything older.
type sampleLog struct {
	mu      sync.Mutex
	maxSols int
	byLoc   map[mars.Coordinate][]Sample
}

func newSampleLog(maxSols int) *sampleLog {
	return &sampleLog{
		maxSols: maxSols,
		byLoc:   make(map[mars.Coordinate][]Sample),
	}
}

func (l *sampleLog) append(loc mars.Coordinate, s Sample) {
	l.mu.Lock()
	defer l.mu.Unlock()

	samples := append(l.byLoc[loc], s)
	horizon := s.TotalMillisols - int64(l.maxSols)*mars.MillisolsPerSol
	for len(samples) > 0 && samples[0].TotalMillisols < horizon {
		samples = samples[1:]
	}
	l.byLoc[loc] = samples
}

// solSamples returns the ordered samples recorded during the given sol.
func (l *sampleLog) solSamples(loc mars.Coordinate, sol int) []Sample {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Sample
	for _, s := range l.byLoc[loc] {
		if s.Sol == sol {
			out = append(out, s)
		}
	}
	return out
}

func (l *sampleLog) locations() []mars.Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]mars.Coordinate, 0, len(l.byLoc))
	for loc := range l.byLoc {
		out = append(out, loc)
	}
	return out
}

func (l *sampleLog) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byLoc = make(map[mars.Coordinate][]Sample)
}
