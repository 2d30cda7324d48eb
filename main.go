package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/pthm-cable/voidswarm/config"
	"github.com/pthm-cable/voidswarm/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = world.seed from config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N physics ticks (0 = run until the ship is lost)")
	flag.Parse()

	runID := uuid.NewString()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("run_id", runID)
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := game.DefaultOptions()
	opts.Seed = *seed
	opts.RunID = runID
	opts.LogStats = *logStats
	opts.StatsWindowSec = *statsWindow
	opts.SnapshotDir = *snapshotDir
	opts.OutputDir = *outputDir

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", *seed,
		"stats_window", *statsWindow,
		"max_ticks", *maxTicks,
		"aliens", g.AlienCount(),
	)

	for {
		g.UpdateHeadless()

		if g.GameOver() {
			break
		}
		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}

	g.LogWorldState()
	if *snapshotDir != "" {
		if path, err := g.SaveSnapshot(*snapshotDir); err != nil {
			slog.Error("failed to save final snapshot", "error", err)
		} else {
			slog.Info("final_snapshot", "path", path)
		}
	}
}
