package game

import (
	"log/slog"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Sweep handles removed behind the layer table's back.
	if n := g.layers.Prune(g.world.Alive); n > 0 {
		slog.Warn("stale_layer_members_pruned", "count", n, "tick", g.tick)
	}

	stats := g.collector.Flush(g.tick, g.sampleGauges())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleGauges reads the end-of-window counts.
func (g *Game) sampleGauges() telemetry.Gauges {
	tree := g.index.Tree()
	gauges := telemetry.Gauges{
		Aliens:          len(g.layers.Members(components.LayerAliens)),
		Walls:           len(g.layers.Members(components.LayerWalls)),
		Projectiles:     len(g.layers.Members(components.LayerProjectiles)),
		Score:           g.score,
		QuadtreeEntries: tree.Len(),
		QuadtreeNodes:   tree.NodeCount(),
		QuadtreeDepth:   tree.Depth(),
		QuadtreeDropped: g.index.Dropped(),
		Neighbors:       g.lastNeighbors,
	}
	if ship, ok := g.Ship(); ok {
		gauges.ShipAlive = true
		if g.healthMap.Has(ship) {
			h := g.healthMap.Get(ship)
			gauges.ShipHealth = h.Value
			gauges.ShipHealthMax = h.Max
		}
	}
	return gauges
}

// SaveSnapshot writes the current state to dir and returns the file path.
func (g *Game) SaveSnapshot(dir string) (string, error) {
	return telemetry.SaveSnapshot(g.createSnapshot(nil), dir)
}

// StateDigest hashes the simulated state of every entity. Two runs with the
// same seed and inputs produce the same digest.
func (g *Game) StateDigest() (uint64, error) {
	return g.createSnapshot(nil).Digest()
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot_saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	cfg := g.config()
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RunID:    g.runID,
		Seed:     g.seed,
		Extent:   cfg.World.Extent,
		Tick:     g.tick,
		SimTime:  g.simTime,
		Score:    g.score,
		GameOver: g.gameOver,
		Bookmark: bookmark,
	}

	query := g.entityFilter.Query()
	for query.Next() {
		e := query.Entity()
		pos := query.Get()

		state := telemetry.EntityState{
			ID:   e.ID(),
			Kind: g.kindOf(e),
			X:    pos.X,
			Y:    pos.Y,
		}
		if layer, ok := g.layers.LayerOf(e); ok {
			state.Layer = layer.String()
		}
		if g.velMap.Has(e) {
			v := g.velMap.Get(e)
			state.VelX, state.VelY = v.X, v.Y
		}
		if g.rotMap.Has(e) {
			state.Angle = g.rotMap.Get(e).Angle
		}
		if g.circleMap.Has(e) {
			state.Radius = g.circleMap.Get(e).Radius
		} else if g.debrisMap.Has(e) {
			state.Radius = g.debrisMap.Get(e).Radius
		}
		if g.rectMap.Has(e) {
			half := g.rectMap.Get(e).HalfSize()
			state.HalfW, state.HalfH = half.X, half.Y
		}
		if g.healthMap.Has(e) {
			h := g.healthMap.Get(e)
			state.Health, state.HealthMax = h.Value, h.Max
		}

		snapshot.Entities = append(snapshot.Entities, state)
	}

	return snapshot
}
