package main

import (
	"github.com/pthm-cable/voidswarm/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable flocking parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of flocking parameters. Defaults
// match config/defaults.yaml.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Steering weights
			{Name: "separation_weight", Path: "boids.separation_weight", Min: 0, Max: 30, Default: 10},
			{Name: "alignment_weight", Path: "boids.alignment_weight", Min: 0, Max: 10, Default: 3},
			{Name: "cohesion_weight", Path: "boids.cohesion_weight", Min: 0, Max: 5, Default: 1},
			{Name: "avoidance_weight", Path: "boids.avoidance_weight", Min: 5, Max: 150, Default: 50},
			{Name: "target_weight", Path: "boids.target_weight", Min: 0, Max: 20, Default: 5},
			// Perception
			{Name: "rotation_speed", Path: "boids.rotation_speed", Min: 1, Max: 20, Default: 8},
			{Name: "separation_radius", Path: "boids.separation_radius", Min: 20, Max: 150, Default: 70},
			{Name: "avoid_radius", Path: "boids.avoid_radius", Min: 30, Max: 160, Default: 100}, // boids.radius must cover it plus a tile half-diagonal
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

// ApplyToConfig writes clamped parameter values into cfg.Boids.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	b := &cfg.Boids

	b.SeparationWeight = clamped[0]
	b.AlignmentWeight = clamped[1]
	b.CohesionWeight = clamped[2]
	b.AvoidanceWeight = clamped[3]
	b.TargetWeight = clamped[4]
	b.RotationSpeed = clamped[5]
	b.SeparationRadius = clamped[6]
	b.AvoidRadius = clamped[7]
}
