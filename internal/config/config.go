package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all daemon settings, populated from environment variables and
// an optional YAML parameter file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// TickInterval is the real-time duration of one simulated millisol.
	TickInterval time.Duration

	// MaintenanceSchedule is a cron spec for periodic weather-cache clearing.
	MaintenanceSchedule string

	// Kafka alert publishing (feature-flagged: enabled when a topic is set).
	KafkaBrokers  []string
	AlertsTopic   string
	AlertsEnabled bool

	// Settlements seeds the registry: "name@lat,lon,elevKm;..." entries.
	Settlements []SettlementSeed

	// Params holds the simulation model parameters, defaults overridden by
	// the YAML file named in PARAMS_FILE.
	Params Params
}

// SettlementSeed describes one settlement to register at startup.
type SettlementSeed struct {
	Name        string
	Lat         float64
	Lon         float64
	ElevationKm float64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	tickStr := sharedcfg.EnvOrDefault("TICK_INTERVAL", "250ms")
	tickInterval, err := time.ParseDuration(tickStr)
	if err != nil || tickInterval <= 0 {
		return nil, errors.New("invalid TICK_INTERVAL")
	}

	alertsTopic := os.Getenv("ALERTS_TOPIC")
	alertsEnabled := alertsTopic != ""
	if v := os.Getenv("ALERTS_ENABLED"); v != "" {
		alertsEnabled = v == "true"
	}

	settlements, err := parseSettlements(sharedcfg.EnvOrDefault("SETTLEMENTS", defaultSettlements))
	if err != nil {
		return nil, err
	}

	params := DefaultParams()
	if path := os.Getenv("PARAMS_FILE"); path != "" {
		if err := params.LoadFile(path); err != nil {
			return nil, fmt.Errorf("load params file: %w", err)
		}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		TickInterval:        tickInterval,
		MaintenanceSchedule: sharedcfg.EnvOrDefault("MAINTENANCE_SCHEDULE", "@every 30m"),
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		AlertsTopic:         alertsTopic,
		AlertsEnabled:       alertsEnabled,
		Settlements:         settlements,
		Params:              params,
	}

	if cfg.AlertsEnabled && cfg.AlertsTopic == "" {
		return nil, errors.New("ALERTS_ENABLED is true but ALERTS_TOPIC is not set")
	}
	if cfg.AlertsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when alerts are enabled")
	}
	if len(cfg.Settlements) == 0 {
		return nil, errors.New("at least one settlement is required")
	}

	return cfg, nil
}

// defaultSettlements seeds three sites spread across latitudes so the polar,
// temperate, and equatorial weather paths all get exercised out of the box.
const defaultSettlements = "Alpha Base@-14.6,175.5,-2.5;Port Ares@2.3,28.5,0.8;Borealis Station@72.1,310.0,-4.2"

// parseSettlements parses "name@lat,lon,elevKm" entries separated by ';'.
func parseSettlements(spec string) ([]SettlementSeed, error) {
	var seeds []SettlementSeed
	for entry := range strings.SplitSeq(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, coords, ok := strings.Cut(entry, "@")
		if !ok {
			return nil, fmt.Errorf("invalid settlement entry %q", entry)
		}
		var lat, lon, elev float64
		if _, err := fmt.Sscanf(coords, "%f,%f,%f", &lat, &lon, &elev); err != nil {
			return nil, fmt.Errorf("invalid settlement coordinates %q: %w", coords, err)
		}
		seeds = append(seeds, SettlementSeed{
			Name:        strings.TrimSpace(name),
			Lat:         lat,
			Lon:         lon,
			ElevationKm: elev,
		})
	}
	return seeds, nil
}
