// Command simcheck drives the engine headless through a configurable number
// of sols at full speed and validates the population-level invariants on
// every evaluation cycle: physical bounds, per-settlement storm exclusivity,
// and the planet-encircling concurrency cap. Exits nonzero on any violation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/engine"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/settlement"
	"github.com/couchcryptid/colony-weather-sim/internal/storm"
	"github.com/couchcryptid/colony-weather-sim/internal/weather"
)

func main() {
	sols := flag.Int("sols", 30, "number of sols to simulate")
	seed := flag.Int64("seed", 42, "simulation seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetricsForTesting()

	eng, registry := engine.Build(cfg, nil, *seed, logger, metrics)

	// Prime one probe per settlement plus a polar and an equatorial point.
	probes := make([]mars.Coordinate, 0, len(registry.All())+2)
	for _, s := range registry.All() {
		probes = append(probes, s.Location())
	}
	probes = append(probes, mars.NewCoordinate(85, 0), mars.NewCoordinate(0, 180))

	ctx := context.Background()
	violations := 0
	formedTotal := 0

	for range *sols * mars.MillisolsPerSol {
		pulse := eng.Tick(ctx)

		for _, loc := range probes {
			violations += checkSample(pulse, loc, eng.SampleAt(loc))
		}
		violations += checkStorms(pulse, registry, eng.ActiveStorms(), cfg)
		if n := len(eng.ActiveStorms()); n > formedTotal {
			formedTotal = n
		}
	}

	fmt.Printf("simcheck: %d sols, %d probes, peak active storms %d, violations %d\n",
		*sols, len(probes), formedTotal, violations)
	if violations > 0 {
		os.Exit(1)
	}
}

func checkSample(pulse mars.Pulse, loc mars.Coordinate, s weather.Sample) int {
	violations := 0
	fail := func(format string, args ...any) {
		fmt.Printf("sol %d msol %d %s: ", pulse.Sol, pulse.Millisol, loc)
		fmt.Printf(format+"\n", args...)
		violations++
	}

	if s.TemperatureC < -160 || s.TemperatureC > 40 {
		fail("temperature %.2f out of [-160, 40]", s.TemperatureC)
	}
	if s.PressureKPa < 0 {
		fail("pressure %.4f negative", s.PressureKPa)
	}
	if s.DensityGM3 < 0 {
		fail("density %.2f negative", s.DensityGM3)
	}
	if s.WindSpeedMS < 0 || s.WindSpeedMS > 800 {
		fail("wind speed %.2f out of [0, 800]", s.WindSpeedMS)
	}
	if s.WindDirectionDeg < 0 || s.WindDirectionDeg >= 360 {
		fail("wind direction %.2f out of [0, 360)", s.WindDirectionDeg)
	}
	return violations
}

func checkStorms(pulse mars.Pulse, registry *settlement.Registry, active []storm.Storm, cfg *config.Config) int {
	violations := 0

	encircling := 0
	bySettlement := make(map[string]int)
	for _, st := range active {
		if st.Class == storm.PlanetEncircling {
			encircling++
		}
		bySettlement[st.Anchor]++
	}
	if encircling > cfg.Params.Storm.MaxPlanetEncircling {
		fmt.Printf("sol %d: %d planet-encircling storms exceeds cap %d\n",
			pulse.Sol, encircling, cfg.Params.Storm.MaxPlanetEncircling)
		violations++
	}
	for name, n := range bySettlement {
		if n > 1 {
			fmt.Printf("sol %d: settlement %s hosts %d storms\n", pulse.Sol, name, n)
			violations++
		}
	}
	for _, s := range registry.All() {
		if s.Storm() != settlement.None {
			found := false
			for _, st := range active {
				if st.ID == s.Storm() {
					found = true
					break
				}
			}
			if !found {
				fmt.Printf("sol %d: settlement %s references retired storm %d\n",
					pulse.Sol, s.Name(), uint64(s.Storm()))
				violations++
			}
		}
	}
	return violations
}
