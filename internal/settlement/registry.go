// Package settlement tracks the colonized sites the weather engine serves.
// Settlements are external collaborators to the weather core: the engine only
// reads their coordinates and fixed elevations, assigns at most one
// dust-storm handle to each, and posts human-readable weather status strings.
package settlement

import (
	"sync"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// StormHandle identifies a dust storm in the lifecycle's active collection.
// Zero means "no active storm". Handles are plain indices rather than
// pointers, so a retired storm can never leave a dangling reference behind.
type StormHandle uint64

// None is the empty storm handle.
const None StormHandle = 0

// Settlement is one colonized site.
type Settlement struct {
	mu sync.Mutex

	name      string
	location  mars.Coordinate
	elevation float64 // km, fixed at founding

	storm  StormHandle
	status string
}

// New creates a settlement at the given location with a fixed elevation in km.
func New(name string, loc mars.Coordinate, elevationKm float64) *Settlement {
	return &Settlement{name: name, location: loc, elevation: elevationKm}
}

func (s *Settlement) Name() string              { return s.name }
func (s *Settlement) Location() mars.Coordinate { return s.location }
func (s *Settlement) ElevationKm() float64      { return s.elevation }

// Storm returns the handle of the settlement's active storm, or None.
func (s *Settlement) Storm() StormHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storm
}

// SetStorm records the active storm handle. Pass None to clear.
func (s *Settlement) SetStorm(h StormHandle) {
	s.mu.Lock()
	s.storm = h
	s.mu.Unlock()
}

// Status returns the last posted weather status string.
func (s *Settlement) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus posts a human-readable weather status string.
func (s *Settlement) SetStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

// Registry is the enumerable collection of settlements. Membership is fixed
// after construction; per-settlement state stays mutable.
type Registry struct {
	settlements []*Settlement
	byLocation  map[mars.Coordinate]*Settlement
}

// NewRegistry builds a registry from the given settlements.
func NewRegistry(settlements ...*Settlement) *Registry {
	r := &Registry{
		settlements: settlements,
		byLocation:  make(map[mars.Coordinate]*Settlement, len(settlements)),
	}
	for _, s := range settlements {
		r.byLocation[s.location] = s
	}
	return r
}

// All returns every settlement. Callers must not mutate the slice.
func (r *Registry) All() []*Settlement { return r.settlements }

// At returns the settlement exactly at the given coordinate, if any.
func (r *Registry) At(loc mars.Coordinate) (*Settlement, bool) {
	s, ok := r.byLocation[loc]
	return s, ok
}

// ElevationAt returns the fixed elevation of the settlement at loc, if the
// coordinate coincides with a known settlement.
func (r *Registry) ElevationAt(loc mars.Coordinate) (float64, bool) {
	s, ok := r.byLocation[loc]
	if !ok {
		return 0, false
	}
	return s.elevation, true
}
