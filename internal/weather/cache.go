package weather

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

// metricCache is one metric's per-location value store. Constructed eagerly
// so there is no lazy-allocation race; the mutex scopes exactly the
// check-cache / maybe-recompute / store critical section. An optional gauge
// tracks the entry count, updated on every insert so locations added by
// reader getters between refreshes are visible immediately.
type metricCache struct {
	mu     sync.Mutex
	values map[mars.Coordinate]float64
	gauge  prometheus.Gauge // may be nil
}

func newMetricCache(gauge prometheus.Gauge) *metricCache {
	return &metricCache{values: make(map[mars.Coordinate]float64), gauge: gauge}
}

// get returns the cached value for loc, computing and storing it on first
// access. compute receives the zero value and cached=false on a miss.
func (c *metricCache) get(loc mars.Coordinate, compute func(prev float64, cached bool) float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.values[loc]; ok {
		return v
	}
	v := compute(0, false)
	c.values[loc] = v
	if c.gauge != nil {
		c.gauge.Set(float64(len(c.values)))
	}
	return v
}

// refresh recomputes every cached location in place.
func (c *metricCache) refresh(compute func(loc mars.Coordinate, prev float64) float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for loc, prev := range c.values {
		c.values[loc] = compute(loc, prev)
	}
	return len(c.values)
}

// locations returns the cached coordinates.
func (c *metricCache) locations() []mars.Coordinate {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]mars.Coordinate, 0, len(c.values))
	for loc := range c.values {
		out = append(out, loc)
	}
	return out
}

func (c *metricCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func (c *metricCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[mars.Coordinate]float64)
	if c.gauge != nil {
		c.gauge.Set(0)
	}
}
