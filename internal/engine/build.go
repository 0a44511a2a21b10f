package engine

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/settlement"
	"github.com/couchcryptid/colony-weather-sim/internal/storm"
	"github.com/couchcryptid/colony-weather-sim/internal/terrain"
	"github.com/couchcryptid/colony-weather-sim/internal/weather"
)

// Build assembles the full simulation graph from config: clock, orbit,
// surface model, settlement registry, terrain service, weather sampler, and
// storm lifecycle, cross-wired and ready to Run.
//
// seed makes the stochastic models reproducible; the same seed and config
// replay the same weather. realtime may be a fake clock in tests.
func Build(cfg *config.Config, realtime clockwork.Clock, seed int64,
	logger *slog.Logger, metrics *observability.Metrics) (*Engine, *settlement.Registry) {

	clock := &mars.Clock{}
	orbit := mars.NewOrbitModel(clock, cfg.Params.Orbit.StartLs)
	surface := mars.NewSurfaceModel(clock, orbit)

	settlements := make([]*settlement.Settlement, 0, len(cfg.Settlements))
	for _, seedCfg := range cfg.Settlements {
		settlements = append(settlements, settlement.New(
			seedCfg.Name,
			mars.NewCoordinate(seedCfg.Lat, seedCfg.Lon),
			seedCfg.ElevationKm,
		))
	}
	registry := settlement.NewRegistry(settlements...)

	throttle := observability.NewThrottle(realtime, 10*time.Minute)

	terrainSvc := terrain.NewService(
		terrain.ProceduralRaster{}, registry, cfg.Params.Terrain,
		seededRNG(seed, "terrain"), logger, throttle, metrics)

	sampler := weather.NewSampler(
		clock, orbit, surface, terrainSvc, nil, cfg.Params.Weather,
		seededRNG(seed, "weather"), logger, throttle, metrics)

	storms := storm.NewLifecycle(
		clock, orbit, registry, cfg.Params.Storm,
		seededRNG(seed, "storm"), logger, metrics)

	// Storms read weather cadence state indirectly and weather reads storm
	// wind; the sampler side is attached after both exist.
	sampler.SetStormSource(storms)

	return New(clock, realtime, cfg.TickInterval, sampler, storms, terrainSvc, logger, metrics), registry
}

// seededRNG derives an independent deterministic PRNG stream per subsystem.
// Non-cryptographic PRNG is intentional for reproducible simulation behavior.
func seededRNG(seed int64, salt string) *rand.Rand {
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, salt+":a"), seedWord(seed, salt+":b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(fmt.Appendf(nil, "%d:%s", seed, salt))
	return h.Sum64()
}
