package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Aliens         int     `csv:"aliens"`
	Walls          int     `csv:"walls"`
	Projectiles    int     `csv:"projectiles"`
	Score          int     `csv:"score"`
	ShipHealth     float64 `csv:"ship_health"`
	ShipHealthFrac float64 `csv:"ship_health_frac"`
	ShipAlive      bool    `csv:"ship_alive"`

	// Collisions during window
	RawCollisions    int `csv:"raw_collisions"`
	UniqueCollisions int `csv:"unique_collisions"`
	WallsResolved    int `csv:"walls_resolved"`

	// Combat during window
	TunnelingDespawns int     `csv:"tunneling_despawns"`
	AliensKilled      int     `csv:"aliens_killed"`
	AliensRammed      int     `csv:"aliens_rammed"`
	ProjectilesFired  int     `csv:"projectiles_fired"`
	ProjectilesHit    int     `csv:"projectiles_hit"`
	HitRate           float64 `csv:"hit_rate"`
	Pickups           int     `csv:"pickups"`
	ShipDamage        float64 `csv:"ship_damage"`

	// Flock density (sampled at window end)
	NeighborMean float64 `csv:"neighbor_mean"`
	NeighborStd  float64 `csv:"neighbor_std"`
	NeighborP50  float64 `csv:"neighbor_p50"`
	NeighborP90  float64 `csv:"neighbor_p90"`

	// Spatial index shape (sampled at window end)
	QuadtreeEntries int `csv:"quadtree_entries"`
	QuadtreeNodes   int `csv:"quadtree_nodes"`
	QuadtreeDepth   int `csv:"quadtree_depth"`
	QuadtreeDropped int `csv:"quadtree_dropped"`

	// Written to despawns.csv rather than telemetry.csv
	Despawns DespawnCounts `csv:"-"`
}

// DespawnCounts breaks down the entities removed during a window by reason.
type DespawnCounts struct {
	WindowEnd     int32 `csv:"window_end"`
	Requested     int   `csv:"requested"`
	ProjectileHit int   `csv:"projectile_hit"`
	Rammed        int   `csv:"rammed"`
	PickedUp      int   `csv:"picked_up"`
	HealthRunout  int   `csv:"health_runout"`
	Expired       int   `csv:"expired"`
	Boundary      int   `csv:"boundary"`
	Other         int   `csv:"other"`
}

// Add counts one despawn under its reason name.
func (d *DespawnCounts) Add(reason string) {
	switch reason {
	case "requested":
		d.Requested++
	case "projectile_hit":
		d.ProjectileHit++
	case "rammed":
		d.Rammed++
	case "picked_up":
		d.PickedUp++
	case "health_runout":
		d.HealthRunout++
	case "expired":
		d.Expired++
	case "boundary":
		d.Boundary++
	default:
		d.Other++
	}
}

// Total returns the number of despawns counted.
func (d DespawnCounts) Total() int {
	return d.Requested + d.ProjectileHit + d.Rammed + d.PickedUp +
		d.HealthRunout + d.Expired + d.Boundary + d.Other
}

// ComputeNeighborStats returns the mean, standard deviation and median and
// 90th percentile of the neighbour counts. All values are zero for empty input.
func ComputeNeighborStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	if len(values) == 1 {
		return values[0], 0, values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("aliens", s.Aliens),
		slog.Int("walls", s.Walls),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("score", s.Score),
		slog.Float64("ship_health", s.ShipHealth),
		slog.Bool("ship_alive", s.ShipAlive),
		slog.Int("raw_collisions", s.RawCollisions),
		slog.Int("unique_collisions", s.UniqueCollisions),
		slog.Int("walls_resolved", s.WallsResolved),
		slog.Int("tunneling_despawns", s.TunnelingDespawns),
		slog.Int("aliens_killed", s.AliensKilled),
		slog.Int("aliens_rammed", s.AliensRammed),
		slog.Int("projectiles_fired", s.ProjectilesFired),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("pickups", s.Pickups),
		slog.Float64("ship_damage", s.ShipDamage),
		slog.Float64("neighbor_mean", s.NeighborMean),
		slog.Float64("neighbor_std", s.NeighborStd),
		slog.Int("quadtree_nodes", s.QuadtreeNodes),
		slog.Int("quadtree_depth", s.QuadtreeDepth),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"aliens", s.Aliens,
		"score", s.Score,
		"ship_health", s.ShipHealth,
		"raw_collisions", s.RawCollisions,
		"unique_collisions", s.UniqueCollisions,
		"walls_resolved", s.WallsResolved,
		"tunneling_despawns", s.TunnelingDespawns,
		"aliens_killed", s.AliensKilled,
		"aliens_rammed", s.AliensRammed,
		"projectiles_fired", s.ProjectilesFired,
		"hit_rate", s.HitRate,
		"pickups", s.Pickups,
		"neighbor_mean", s.NeighborMean,
		"neighbor_p90", s.NeighborP90,
		"quadtree_nodes", s.QuadtreeNodes,
		"quadtree_depth", s.QuadtreeDepth,
		"quadtree_dropped", s.QuadtreeDropped,
	)
}
