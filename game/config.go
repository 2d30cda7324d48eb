package game

import (
	"github.com/pthm-cable/voidswarm/config"
	"github.com/pthm-cable/voidswarm/telemetry"
)

// Options holds run-level settings that are not part of the simulation config.
type Options struct {
	Seed           int64   // World RNG seed (0 = use world.seed from config)
	RunID          string  // Attached to snapshots
	LogStats       bool    // Log window stats and bookmarks via slog
	StatsWindowSec float64 // Stats window in seconds (0 = use config)
	SnapshotDir    string  // Save a snapshot on every bookmark when set
	OutputDir      string  // CSV and config output when set

	// Skip GenerateWorld; the caller spawns entities itself.
	EmptyWorld bool

	// Called with every flushed telemetry window.
	StatsCallback func(stats telemetry.WindowStats)
}

// DefaultOptions returns options for a plain headless run.
func DefaultOptions() Options {
	return Options{}
}

// resolveSeed picks the RNG seed for a run.
func resolveSeed(cfg *config.Config, opts Options) int64 {
	if opts.Seed != 0 {
		return opts.Seed
	}
	return cfg.World.Seed
}
