package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/voidswarm/config"
	"github.com/pthm-cable/voidswarm/telemetry"
)

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	norm := pv.Normalize(def)
	back := pv.Denormalize(norm)
	for i, spec := range pv.Specs {
		if norm[i] < 0 || norm[i] > 1 {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Name, def[i], spec.Min, spec.Max)
		}
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: round trip %v, want %v", spec.Name, back[i], def[i])
		}
	}
}

func TestParamVectorDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	want := cfg.Boids

	pv.ApplyToConfig(cfg, pv.DefaultVector())
	if cfg.Boids != want {
		t.Errorf("defaults changed boids config:\n got %+v\nwant %+v", cfg.Boids, want)
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	x := pv.DefaultVector()
	x[0] = -5   // separation_weight
	x[5] = 1000 // rotation_speed
	pv.ApplyToConfig(cfg, x)

	if cfg.Boids.SeparationWeight != pv.Specs[0].Min {
		t.Errorf("separation_weight = %v, want %v", cfg.Boids.SeparationWeight, pv.Specs[0].Min)
	}
	if cfg.Boids.RotationSpeed != pv.Specs[5].Max {
		t.Errorf("rotation_speed = %v, want %v", cfg.Boids.RotationSpeed, pv.Specs[5].Max)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config invalid: %v", err)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		r             runResult
		wantTunneling float64
		wantCohesion  float64
	}{
		{
			name:          "no windows",
			r:             runResult{initialAliens: 10},
			wantTunneling: 0,
			wantCohesion:  0,
		},
		{
			name: "ideal swarm",
			r: runResult{initialAliens: 10, windowStats: []telemetry.WindowStats{
				{Aliens: 10, NeighborMean: 0},
				{Aliens: 10, NeighborMean: targetNeighbors},
				{Aliens: 10, NeighborMean: targetNeighbors},
			}},
			wantTunneling: 0,
			wantCohesion:  1,
		},
		{
			name: "half lost to walls",
			r: runResult{initialAliens: 10, windowStats: []telemetry.WindowStats{
				{Aliens: 8, TunnelingDespawns: 2, NeighborMean: targetNeighbors},
				{Aliens: 5, TunnelingDespawns: 3, NeighborMean: targetNeighbors},
			}},
			wantTunneling: 0.5,
			wantCohesion:  1,
		},
		{
			name: "empty windows ignored",
			r: runResult{windowStats: []telemetry.WindowStats{
				{}, {Aliens: 0, NeighborMean: targetNeighbors},
			}},
			wantTunneling: 0,
			wantCohesion:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := score(&tt.r)
			if math.Abs(got.tunneling-tt.wantTunneling) > 1e-9 {
				t.Errorf("tunneling = %v, want %v", got.tunneling, tt.wantTunneling)
			}
			if math.Abs(got.cohesion-tt.wantCohesion) > 1e-9 {
				t.Errorf("cohesion = %v, want %v", got.cohesion, tt.wantCohesion)
			}
			want := tunnelWeight*tt.wantTunneling - tt.wantCohesion
			if math.Abs(got.fitness-want) > 1e-9 {
				t.Errorf("fitness = %v, want %v", got.fitness, want)
			}
		})
	}
}
