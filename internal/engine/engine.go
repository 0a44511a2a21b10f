// Package engine owns the master simulation clock and drives the weather and
// dust-storm subsystems with one pulse per millisol.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/storm"
	"github.com/couchcryptid/colony-weather-sim/internal/terrain"
	"github.com/couchcryptid/colony-weather-sim/internal/weather"
)

// Engine paces the simulation: every real-time interval it advances the
// mission clock one millisol and fans the pulse out to the subsystems. It is
// the single writer; everything else reads published state.
type Engine struct {
	clock    *mars.Clock
	realtime clockwork.Clock
	interval time.Duration

	weather *weather.Sampler
	storms  *storm.Lifecycle
	terrain *terrain.Service

	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates an engine ticking once per interval of real time. realtime may
// be a fake clock in tests.
func New(clock *mars.Clock, realtime clockwork.Clock, interval time.Duration,
	sampler *weather.Sampler, storms *storm.Lifecycle, terrainSvc *terrain.Service,
	logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if realtime == nil {
		realtime = clockwork.NewRealClock()
	}
	return &Engine{
		clock:    clock,
		realtime: realtime,
		interval: interval,
		weather:  sampler,
		storms:   storms,
		terrain:  terrainSvc,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes the tick loop until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine started", "tick_interval", e.interval)
	e.metrics.EngineRunning.Set(1)
	defer e.metrics.EngineRunning.Set(0)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping", "reason", ctx.Err(), "sol", e.clock.MissionSol())
			return nil
		case <-e.realtime.After(e.interval):
			e.Tick(ctx)
		}
	}
}

// Tick advances the mission clock one millisol and processes the pulse.
// Exposed so tests and batch tools can drive simulated time directly.
func (e *Engine) Tick(ctx context.Context) mars.Pulse {
	start := time.Now()
	pulse := e.clock.Advance()

	e.weather.OnTick(pulse)
	e.storms.OnTick(ctx, pulse)

	e.metrics.TicksProcessed.Inc()
	e.metrics.TickDuration.Observe(time.Since(start).Seconds())
	e.ready.Store(true)

	if pulse.NewSol {
		e.logger.Debug("new sol", "sol", pulse.Sol, "active_storms", e.storms.ActiveCount())
	}
	return pulse
}

// CheckReadiness returns nil once the engine has processed at least one
// pulse, or an error describing why the service is not yet ready.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("engine has not processed any pulses yet")
	}
	return nil
}

// ClearCaches drops the weather sampler's per-location caches. Scheduled as
// periodic maintenance to bound memory.
func (e *Engine) ClearCaches() {
	e.weather.ClearCaches()
}

// Close releases all cached state for reclamation at simulation shutdown.
func (e *Engine) Close() {
	e.storms.Reset()
	e.weather.ClearCaches()
	e.terrain.Reset()
	e.logger.Info("engine closed", "sol", e.clock.MissionSol())
}

// SetAlertSink wires an optional storm alert publisher into the lifecycle.
// Call before Run.
func (e *Engine) SetAlertSink(sink storm.AlertSink) {
	e.storms.SetAlertSink(sink)
}

// Clock exposes the mission clock for read-only consumers.
func (e *Engine) Clock() *mars.Clock { return e.clock }

// SampleAt returns the current full weather reading at a location.
func (e *Engine) SampleAt(loc mars.Coordinate) weather.Sample {
	return e.weather.CurrentSample(loc)
}

// SunRecordAt returns the latest daily sun record for a location.
func (e *Engine) SunRecordAt(loc mars.Coordinate) (weather.SunRecord, bool) {
	return e.weather.SunRecord(loc)
}

// ActiveStorms returns copies of the active dust storms.
func (e *Engine) ActiveStorms() []storm.Storm {
	return e.storms.Active()
}
