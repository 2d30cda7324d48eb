package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/voidswarm/config"
	"github.com/pthm-cable/voidswarm/game"
	"github.com/pthm-cable/voidswarm/telemetry"
)

// Fitness weights. Losing aliens to walls is what the tuner exists to
// prevent, so it dominates.
const (
	tunnelWeight    = 10.0
	targetNeighbors = 5.0 // neighbour count the swarm should settle at
	warmupWindows   = 1   // skip windows before the swarm has formed
)

// runResult holds the results from a single simulation run.
type runResult struct {
	initialAliens int
	ticks         int32
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the scored result from one seed.
type seedResult struct {
	fitness   float64
	tunneling float64
	cohesion  float64
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu            sync.Mutex
	lastTunneling float64
	lastCohesion  float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, statsWindow float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: statsWindow,
	}
}

// LastScores returns the tunnelling rate and cohesion score averaged over
// the seeds of the most recent evaluation.
func (fe *FitnessEvaluator) LastScores() (tunneling, cohesion float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTunneling, fe.lastCohesion
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel; each game owns its world and config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = score(fe.runSimulation(x, s))
		}(i, seed)
	}
	wg.Wait()

	var fitness, tunneling, cohesion float64
	for _, r := range results {
		fitness += r.fitness
		tunneling += r.tunneling
		cohesion += r.cohesion
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastTunneling = tunneling / n
	fe.lastCohesion = cohesion / n
	fe.mu.Unlock()

	return fitness / n
}

// runSimulation executes a single headless run until the ship is lost or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g := game.NewGameWithConfig(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	result.initialAliens = g.AlienCount()
	for g.Tick() < fe.maxTicks && !g.GameOver() {
		g.UpdateHeadless()
	}
	result.ticks = g.Tick()
	return result
}

// copyConfig returns a copy of the base config. Every section is a plain
// value, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// score turns one run into a fitness value:
// tunnelWeight × (aliens lost to walls / initial aliens) − cohesion,
// where cohesion ∈ [0, 1] peaks when the mean neighbour count sits at
// targetNeighbors.
func score(r *runResult) seedResult {
	var tunneled int
	for _, w := range r.windowStats {
		tunneled += w.TunnelingDespawns
	}
	tunneling := float64(tunneled) / float64(max(r.initialAliens, 1))
	cohesion := cohesionScore(r.windowStats)

	return seedResult{
		fitness:   tunnelWeight*tunneling - cohesion,
		tunneling: tunneling,
		cohesion:  cohesion,
	}
}

// cohesionScore averages a Gaussian score of each window's neighbour mean.
func cohesionScore(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return 0
	}
	valid := windows[warmupWindows:]

	scores := make([]float64, 0, len(valid))
	for _, w := range valid {
		if w.Aliens == 0 {
			continue
		}
		e := (w.NeighborMean - targetNeighbors) / targetNeighbors
		scores = append(scores, math.Exp(-e*e))
	}
	if len(scores) == 0 {
		return 0
	}
	return stat.Mean(scores, nil)
}
