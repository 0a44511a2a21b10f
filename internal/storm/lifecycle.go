package storm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/settlement"
)

// minTrackableKm is the diameter below which a storm counts as dissipated.
const minTrackableKm = 1.0

// Storm is one active dust storm. Owned exclusively by the Lifecycle; the
// anchoring settlement holds only the numeric handle.
type Storm struct {
	ID       settlement.StormHandle
	Class    *Classification
	SizeKm   float64
	SpeedMS  float64
	Anchor   string // settlement name
	Location mars.Coordinate
	BirthSol int
}

// Alert is the outward-facing storm status event, published to settlements
// and, when configured, to the alert sink.
type Alert struct {
	Settlement     string  `json:"settlement"`
	Classification string  `json:"classification"`
	SizeKm         float64 `json:"size_km"`
	SpeedMS        float64 `json:"speed_ms"`
	Sol            int     `json:"sol"`
	Status         string  `json:"status"`
	Retired        bool    `json:"retired"`
}

// AlertSink receives storm status updates. Publishing is best-effort: a sink
// failure is logged and never interrupts the evaluation cycle.
type AlertSink interface {
	PublishAlert(ctx context.Context, alert Alert) error
}

// Lifecycle creates, grows, reclassifies, and retires dust storms. The tick
// driver is the single writer; concurrent readers (the weather sampler,
// HTTP handlers) go through the read lock and may observe state at most one
// evaluation cycle stale.
type Lifecycle struct {
	clock    *mars.Clock
	orbit    mars.Orbit
	registry *settlement.Registry
	params   config.StormParams
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu           sync.RWMutex
	rng          *rand.Rand
	storms       map[settlement.StormHandle]*Storm
	nextID       uint64
	attemptsUsed int
	lastLs       float64
	sink         AlertSink
}

// NewLifecycle creates a storm lifecycle manager.
func NewLifecycle(clock *mars.Clock, orbit mars.Orbit, registry *settlement.Registry,
	params config.StormParams, rng *rand.Rand, logger *slog.Logger, metrics *observability.Metrics) *Lifecycle {
	return &Lifecycle{
		clock:    clock,
		orbit:    orbit,
		registry: registry,
		params:   params,
		rng:      rng,
		logger:   logger,
		metrics:  metrics,
		storms:   make(map[settlement.StormHandle]*Storm),
		lastLs:   orbit.SeasonalAngle(),
	}
}

// SetAlertSink wires an optional alert publisher. Call before the tick
// driver starts.
func (l *Lifecycle) SetAlertSink(sink AlertSink) { l.sink = sink }

// FormationProbability returns the chance of a new storm forming at one
// settlement during one evaluation cycle, as a cosine curve in the seasonal
// angle peaking at the configured peak Ls.
func (l *Lifecycle) FormationProbability(ls float64) float64 {
	amplitude := (l.params.PeakProbability - l.params.FloorProbability) / 2
	return amplitude*(1+math.Cos((ls-l.params.PeakLs)*math.Pi/180)) + l.params.FloorProbability
}

// OnTick runs one storm cycle when the pulse lands on the evaluation
// cadence: the yearly budget reset, the formation pass, and an evaluation of
// every active storm.
func (l *Lifecycle) OnTick(ctx context.Context, pulse mars.Pulse) {
	if pulse.TotalMillisols%int64(l.params.EvaluationCadence) != 0 {
		return
	}
	ls := l.orbit.SeasonalAngle()

	l.mu.Lock()
	// Ls only ever increases within a year, so a decrease means the angle
	// wrapped past 0° and a new planetary year began.
	if ls < l.lastLs {
		l.attemptsUsed = 0
		l.logger.Info("new planetary year, storm attempt budget reset", "sol", pulse.Sol)
	}
	l.lastLs = ls

	l.formLocked(ls, pulse.Sol)
	alerts := l.evaluateAllLocked(ls, pulse.Sol)
	l.updateGaugesLocked()
	l.mu.Unlock()

	// Publish outside the lock: the sink may block on the network.
	for _, a := range alerts {
		l.publish(ctx, a)
	}
}

// CreateStorm instantiates a new dust-devil-classified storm anchored at the
// settlement. Fails when the settlement already hosts a storm or the global
// caps are exhausted.
func (l *Lifecycle) CreateStorm(s *settlement.Settlement) (*Storm, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, err := l.createLocked(s, l.clock.MissionSol())
	if err != nil {
		return nil, err
	}
	l.updateGaugesLocked()
	return st, nil
}

func (l *Lifecycle) createLocked(s *settlement.Settlement, sol int) (*Storm, error) {
	if s.Storm() != settlement.None {
		return nil, errors.New("settlement already hosts an active storm")
	}
	if len(l.storms) >= l.params.MaxActive {
		return nil, errors.New("active storm cap reached")
	}

	l.nextID++
	st := &Storm{
		ID:       settlement.StormHandle(l.nextID),
		Class:    DustDevil,
		SizeKm:   2 + 10*l.rng.Float64(),
		SpeedMS:  8 + 12*l.rng.Float64(),
		Anchor:   s.Name(),
		Location: s.Location(),
		BirthSol: sol,
	}
	l.storms[st.ID] = st
	s.SetStorm(st.ID)
	l.metrics.StormsFormed.Inc()
	l.logger.Info("dust storm formed",
		"id", uint64(st.ID), "settlement", st.Anchor, "size_km", st.SizeKm, "sol", sol)
	return st, nil
}

// formLocked runs the formation pass: one probability draw per storm-free
// settlement, bounded by the global active cap and the yearly budget. Only a
// draw that actually spawns a storm consumes budget; free draws happen every
// cycle, so charging them would exhaust the year within the first sol and
// leave nothing for peak season.
func (l *Lifecycle) formLocked(ls float64, sol int) {
	probability := l.FormationProbability(ls)
	for _, s := range l.registry.All() {
		if s.Storm() != settlement.None {
			continue
		}
		if len(l.storms) >= l.params.MaxActive || l.attemptsUsed >= l.params.YearlyAttemptBudget {
			l.metrics.StormAttemptsCapped.Inc()
			return
		}
		if l.rng.Float64() > probability {
			continue
		}
		l.attemptsUsed++
		// Best-effort: a settlement torn down mid-cycle is skipped.
		if _, err := l.createLocked(s, sol); err != nil {
			l.logger.Debug("storm formation skipped", "settlement", s.Name(), "reason", err)
		}
	}
}

// evaluateAllLocked recomputes every active storm and collects the status
// alerts to publish after the lock is released.
func (l *Lifecycle) evaluateAllLocked(ls float64, sol int) []Alert {
	alerts := make([]Alert, 0, len(l.storms))
	for _, st := range l.storms {
		allow := st.Class == PlanetEncircling || l.encirclingCountLocked() < l.params.MaxPlanetEncircling
		alerts = append(alerts, l.evaluateLocked(st, ls, sol, allow))
	}
	return alerts
}

// Evaluate recomputes one storm's size from current conditions and applies
// the result: reclassification, speed update, and retirement at size zero.
// Returns the recomputed size in km.
func (l *Lifecycle) Evaluate(h settlement.StormHandle, allowEncircling bool) float64 {
	ls := l.orbit.SeasonalAngle()
	sol := l.clock.MissionSol()

	l.mu.Lock()
	st, ok := l.storms[h]
	if !ok {
		l.mu.Unlock()
		return 0
	}
	alert := l.evaluateLocked(st, ls, sol, allowEncircling)
	l.updateGaugesLocked()
	l.mu.Unlock()

	l.publish(context.Background(), alert)
	return alert.SizeKm
}

func (l *Lifecycle) evaluateLocked(st *Storm, ls float64, sol int, allowEncircling bool) Alert {
	size := l.recomputeSizeLocked(st, ls, sol)
	if size <= 0 {
		return l.retireLocked(st, sol)
	}

	class := classify(size, allowEncircling)
	if class == Regional && size > Regional.sizeCeilingKm {
		// Held below planet-encircling while the concurrency cap bites.
		size = Regional.sizeCeilingKm
	}
	st.SizeKm = size
	st.Class = class

	target := 0.35*class.speedCapMS + 0.04*size
	st.SpeedMS = math.Min(class.speedCapMS, 0.8*st.SpeedMS+0.2*target)

	status := fmt.Sprintf("%s: %s, %.0f km across, winds %d m/s",
		st.Anchor, class.name, st.SizeKm, int(math.Round(st.SpeedMS)))
	if s, ok := l.registry.At(st.Location); ok {
		s.SetStatus(status)
	}
	return Alert{
		Settlement:     st.Anchor,
		Classification: class.name,
		SizeKm:         st.SizeKm,
		SpeedMS:        st.SpeedMS,
		Sol:            sol,
		Status:         status,
	}
}

// recomputeSizeLocked is the growth model: a random step scaled by the
// tier's growth increment, biased upward in storm season, with forced decay
// once the storm outlives its tier's lifespan. Zero means dissipated.
func (l *Lifecycle) recomputeSizeLocked(st *Storm, ls float64, sol int) float64 {
	age := sol - st.BirthSol
	if age >= st.Class.maxLifeSols {
		next := st.SizeKm - (1.5+l.rng.Float64())*st.Class.growthStepKm
		if next < minTrackableKm {
			return 0
		}
		return next
	}

	season := l.FormationProbability(ls) / l.params.PeakProbability
	step := l.rng.Float64()*2 - 0.9 + 0.8*season
	next := st.SizeKm + step*st.Class.growthStepKm
	if next < minTrackableKm {
		return 0
	}
	return next
}

// retireLocked removes a dissipated storm from the active collection and
// clears the settlement's handle.
func (l *Lifecycle) retireLocked(st *Storm, sol int) Alert {
	delete(l.storms, st.ID)
	status := fmt.Sprintf("%s: %s dissipated", st.Anchor, st.Class.name)
	if s, ok := l.registry.At(st.Location); ok {
		if s.Storm() == st.ID {
			s.SetStorm(settlement.None)
		}
		s.SetStatus(status)
	}
	l.metrics.StormsRetired.Inc()
	l.logger.Info("dust storm dissipated",
		"id", uint64(st.ID), "settlement", st.Anchor, "sol", sol, "lived_sols", sol-st.BirthSol)
	return Alert{
		Settlement:     st.Anchor,
		Classification: st.Class.name,
		Sol:            sol,
		Status:         status,
		Retired:        true,
	}
}

// StormWindAt returns the wind influence of the storm anchored at loc, if
// the location hosts a settlement with an active storm.
func (l *Lifecycle) StormWindAt(loc mars.Coordinate) (mars.StormWind, bool) {
	s, ok := l.registry.At(loc)
	if !ok || s.Storm() == settlement.None {
		return mars.StormWind{}, false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	st, ok := l.storms[s.Storm()]
	if !ok {
		return mars.StormWind{}, false
	}
	return mars.StormWind{SpeedMS: st.SpeedMS, BlendPrevious: st.Class.blendPrevious}, true
}

// Get returns a copy of the storm for a handle.
func (l *Lifecycle) Get(h settlement.StormHandle) (Storm, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, ok := l.storms[h]
	if !ok {
		return Storm{}, false
	}
	return *st, true
}

// Active returns copies of all active storms.
func (l *Lifecycle) Active() []Storm {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Storm, 0, len(l.storms))
	for _, st := range l.storms {
		out = append(out, *st)
	}
	return out
}

// ActiveCount returns the number of active storms.
func (l *Lifecycle) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.storms)
}

// EncirclingCount returns the number of active planet-encircling storms.
func (l *Lifecycle) EncirclingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.encirclingCountLocked()
}

func (l *Lifecycle) encirclingCountLocked() int {
	n := 0
	for _, st := range l.storms {
		if st.Class == PlanetEncircling {
			n++
		}
	}
	return n
}

func (l *Lifecycle) updateGaugesLocked() {
	counts := map[string]int{
		DustDevil.name:        0,
		Local.name:            0,
		Regional.name:         0,
		PlanetEncircling.name: 0,
	}
	for _, st := range l.storms {
		counts[st.Class.name]++
	}
	for name, n := range counts {
		l.metrics.ActiveStorms.WithLabelValues(name).Set(float64(n))
	}
}

func (l *Lifecycle) publish(ctx context.Context, alert Alert) {
	if l.sink == nil {
		return
	}
	if err := l.sink.PublishAlert(ctx, alert); err != nil {
		l.logger.Warn("storm alert publish failed", "settlement", alert.Settlement, "error", err)
	}
}

// Reset retires every storm and clears all settlement handles. Teardown only.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, st := range l.storms {
		if s, ok := l.registry.At(st.Location); ok {
			s.SetStorm(settlement.None)
		}
	}
	l.storms = make(map[settlement.StormHandle]*Storm)
	l.updateGaugesLocked()
}
