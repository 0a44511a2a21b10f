// Package weather samples per-location surface conditions: temperature,
// pressure, air density, and wind. Each metric keeps its own eagerly
// constructed cache behind its own lock, so a temperature refresh never
// blocks a pressure reader. Values refresh on independent millisol cadences;
// between refreshes getters return the smoothed cached value (the average of
// the previous and newly computed values, never the raw draw).
//
// All getters are total: out-of-range inputs clamp, a terrain lookup miss
// degrades to the default elevation, and nothing here panics or returns an
// error to simulated-agent callers.
package weather
