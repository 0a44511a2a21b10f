package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather engine.
type Metrics struct {
	TicksProcessed prometheus.Counter
	TickDuration   prometheus.Histogram
	EngineRunning  prometheus.Gauge

	// Weather sampler metrics.
	MetricRefreshes   *prometheus.CounterVec // labels: metric={temperature,pressure,wind_speed,wind_direction}
	CachedLocations   prometheus.Gauge
	CacheClears       prometheus.Counter
	SunRecordsDaily   prometheus.Counter
	SunRecordsSkipped prometheus.Counter

	// Dust storm metrics.
	ActiveStorms        *prometheus.GaugeVec // label: classification
	StormsFormed        prometheus.Counter
	StormsRetired       prometheus.Counter
	StormAttemptsCapped prometheus.Counter

	// Terrain metrics.
	TerrainProfiles prometheus.Gauge
	RasterMisses    prometheus.Counter

	// Alert publishing metrics.
	AlertsPublished prometheus.Counter
	AlertErrors     prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.TicksProcessed,
		m.TickDuration,
		m.EngineRunning,
		m.MetricRefreshes,
		m.CachedLocations,
		m.CacheClears,
		m.SunRecordsDaily,
		m.SunRecordsSkipped,
		m.ActiveStorms,
		m.StormsFormed,
		m.StormsRetired,
		m.StormAttemptsCapped,
		m.TerrainProfiles,
		m.RasterMisses,
		m.AlertsPublished,
		m.AlertErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TicksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "ticks_processed_total",
			Help:      "Total millisol pulses processed by the engine.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_sim",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one simulation tick.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		EngineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_sim",
			Name:      "engine_running",
			Help:      "1 when the tick driver is active, 0 when shut down.",
		}),
		MetricRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "metric_refreshes_total",
			Help:      "Per-location weather metric refreshes by metric name.",
		}, []string{"metric"}),
		CachedLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_sim",
			Name:      "cached_locations",
			Help:      "Locations currently held in the temperature cache.",
		}),
		CacheClears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "cache_clears_total",
			Help:      "Times the per-location weather caches were dropped.",
		}),
		SunRecordsDaily: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "sun_records_total",
			Help:      "Daily sun records computed.",
		}),
		SunRecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "sun_records_skipped_total",
			Help:      "Daily sun-record computations skipped for missing or incomplete sample logs.",
		}),
		ActiveStorms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weather_sim",
			Name:      "active_storms",
			Help:      "Active dust storms by classification.",
		}, []string{"classification"}),
		StormsFormed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "storms_formed_total",
			Help:      "Dust storms created.",
		}),
		StormsRetired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "storms_retired_total",
			Help:      "Dust storms dissipated and removed.",
		}),
		StormAttemptsCapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "storm_attempts_capped_total",
			Help:      "Formation attempts suppressed by the active-storm or yearly budget caps.",
		}),
		TerrainProfiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_sim",
			Name:      "terrain_profiles",
			Help:      "Memoized terrain profiles.",
		}),
		RasterMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "raster_misses_total",
			Help:      "Elevation raster lookups that fell back to the default elevation.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "alerts_published_total",
			Help:      "Storm alerts written to the sink topic.",
		}),
		AlertErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_sim",
			Name:      "alert_errors_total",
			Help:      "Storm alert publish failures.",
		}),
	}
}
