// Package main tunes blob ecosystem parameters with CMA-ES.
package main

import (
	"github.com/Frezo23/Blobs/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Bushes
			{Name: "sprout_time", Path: "bush.sprout_time", Min: 1.0, Max: 15.0, Default: 5.0},
			{Name: "ripe_time", Path: "bush.ripe_time", Min: 2.0, Max: 30.0, Default: 10.0},
			// Needs
			{Name: "hunger_rate", Path: "blob.hunger_rate", Min: 0.5, Max: 5.0, Default: 2.0},
			{Name: "thirst_rate", Path: "blob.thirst_rate", Min: 0.5, Max: 8.0, Default: 4.0},
			{Name: "harvest_hunger", Path: "blob.harvest_hunger", Min: 20, Max: 100, Default: 60},
			// Reproduction
			{Name: "adult_age", Path: "reproduction.adult_age", Min: 5, Max: 60, Default: 20},
			{Name: "probability_per_sec", Path: "reproduction.probability_per_sec", Min: 0.005, Max: 0.5, Default: 0.05},
			{Name: "adult_cooldown", Path: "reproduction.adult_cooldown", Min: 10, Max: 120, Default: 45},
			{Name: "newborn_cooldown", Path: "reproduction.newborn_cooldown", Min: 10, Max: 120, Default: 60},
			// Spawning
			{Name: "bush_grass", Path: "spawning.bush_grass", Min: 0.01, Max: 0.3, Default: 0.08},
			{Name: "bush_forest", Path: "spawning.bush_forest", Min: 0.01, Max: 0.3, Default: 0.08},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// fields returns pointers to the config values in Specs order.
func fields(cfg *config.Config) []*float64 {
	return []*float64{
		&cfg.Bush.SproutTime,
		&cfg.Bush.RipeTime,
		&cfg.Blob.HungerRate,
		&cfg.Blob.ThirstRate,
		&cfg.Blob.HarvestHunger,
		&cfg.Reproduction.AdultAge,
		&cfg.Reproduction.ProbabilityPerSec,
		&cfg.Reproduction.AdultCooldown,
		&cfg.Reproduction.NewbornCooldown,
		&cfg.Spawning.BushGrass,
		&cfg.Spawning.BushForest,
	}
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, f := range fields(cfg) {
		*f = clamped[i]
	}
	// A bush must sprout before it ripens.
	cfg.Bush.RipeTime = max(cfg.Bush.RipeTime, cfg.Bush.SproutTime)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	ptrs := fields(cfg)
	values := make([]float64, len(ptrs))
	for i, f := range ptrs {
		values[i] = *f
	}
	return values
}
