package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params are the simulation model parameters. Defaults match the tuned
// values; deployments override individual fields through a YAML file.
type Params struct {
	Orbit   OrbitParams   `yaml:"orbit"`
	Weather WeatherParams `yaml:"weather"`
	Storm   StormParams   `yaml:"storm"`
	Terrain TerrainParams `yaml:"terrain"`
}

// OrbitParams anchor the orbital model.
type OrbitParams struct {
	// StartLs is the seasonal angle in degrees at mission sol 1.
	StartLs float64 `yaml:"start_ls"`
}

// WeatherParams tune the per-location sampler.
type WeatherParams struct {
	// Refresh cadences in millisols. Temperature and pressure are coprime
	// by default so their refreshes rarely land on the same tick.
	TemperatureCadence int `yaml:"temperature_cadence"`
	PressureCadence    int `yaml:"pressure_cadence"`
	WindCadence        int `yaml:"wind_cadence"`

	// SampleSolsKept bounds the rolling per-location sample log.
	SampleSolsKept int `yaml:"sample_sols_kept"`

	// Wind speed bounds, m/s.
	MaxInitialWind float64 `yaml:"max_initial_wind"`
	AmbientWindMax float64 `yaml:"ambient_wind_max"`
	StormWindMax   float64 `yaml:"storm_wind_max"`
}

// StormParams tune the dust-storm lifecycle.
type StormParams struct {
	// EvaluationCadence is the millisol interval between evaluate passes.
	EvaluationCadence int `yaml:"evaluation_cadence"`

	// MaxActive soft-caps the active-storm population; reaching it
	// suppresses new formation, never existing-storm growth.
	MaxActive int `yaml:"max_active"`

	// MaxPlanetEncircling caps concurrent planet-encircling storms.
	MaxPlanetEncircling int `yaml:"max_planet_encircling"`

	// YearlyAttemptBudget bounds storm formations per planetary year. A
	// formation pass draws freely; only a draw that spawns a storm is
	// charged against the budget.
	YearlyAttemptBudget int `yaml:"yearly_attempt_budget"`

	// Formation probability curve: peaks at PeakProbability when
	// Ls = PeakLs and bottoms out at FloorProbability half a year away.
	PeakLs           float64 `yaml:"peak_ls"`
	PeakProbability  float64 `yaml:"peak_probability"`
	FloorProbability float64 `yaml:"floor_probability"`
}

// TerrainParams tune the elevation service.
type TerrainParams struct {
	// StepDeg is the angular sampling distance for steepness integration.
	StepDeg float64 `yaml:"step_deg"`

	// DefaultElevationKm is used when the raster has no value for a
	// coordinate.
	DefaultElevationKm float64 `yaml:"default_elevation_km"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		Orbit: OrbitParams{StartLs: 0},
		Weather: WeatherParams{
			TemperatureCadence: 5,
			PressureCadence:    7,
			WindCadence:        3,
			SampleSolsKept:     3,
			MaxInitialWind:     20,
			AmbientWindMax:     100,
			StormWindMax:       150,
		},
		Storm: StormParams{
			EvaluationCadence:   10,
			MaxActive:           12,
			MaxPlanetEncircling: 2,
			YearlyAttemptBudget: 40,
			PeakLs:              255,
			PeakProbability:     0.05,
			FloorProbability:    0.0005,
		},
		Terrain: TerrainParams{
			StepDeg:            0.05,
			DefaultElevationKm: 0,
		},
	}
}

// LoadFile overlays parameters from a YAML file onto the receiver. Fields
// absent from the file keep their current values.
func (p *Params) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects parameter combinations the engine cannot run with.
func (p *Params) Validate() error {
	if p.Weather.TemperatureCadence < 1 || p.Weather.PressureCadence < 1 || p.Weather.WindCadence < 1 {
		return errors.New("weather cadences must be at least 1 millisol")
	}
	if p.Weather.SampleSolsKept < 1 {
		return errors.New("weather.sample_sols_kept must be at least 1")
	}
	if p.Weather.AmbientWindMax <= 0 || p.Weather.StormWindMax <= 0 {
		return errors.New("wind speed maxima must be positive")
	}
	if p.Storm.EvaluationCadence < 1 {
		return errors.New("storm.evaluation_cadence must be at least 1 millisol")
	}
	if p.Storm.MaxActive < 1 {
		return errors.New("storm.max_active must be at least 1")
	}
	if p.Storm.MaxPlanetEncircling < 0 {
		return errors.New("storm.max_planet_encircling must not be negative")
	}
	if p.Storm.PeakProbability <= p.Storm.FloorProbability {
		return errors.New("storm.peak_probability must exceed storm.floor_probability")
	}
	if p.Terrain.StepDeg <= 0 {
		return errors.New("terrain.step_deg must be positive")
	}
	return nil
}
