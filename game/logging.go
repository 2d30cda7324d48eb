package game

import (
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"
)

// kindOf names the archetype of e for snapshots and logs.
func (g *Game) kindOf(e ecs.Entity) string {
	switch {
	case g.shipMap.Has(e):
		return "ship"
	case g.alienMap.Has(e):
		return "alien"
	case g.projMap.Has(e):
		return "projectile"
	case g.packMap.Has(e):
		return "health_pack"
	case g.debrisMap.Has(e):
		return "debris"
	case g.rectMap.Has(e):
		return "wall"
	default:
		return "entity"
	}
}

// LogWorldState logs entity counts, score and the slowest phase.
func (g *Game) LogWorldState() {
	counts := make(map[string]int)
	query := g.entityFilter.Query()
	for query.Next() {
		counts[g.kindOf(query.Entity())]++
	}

	attrs := []any{
		"tick", g.tick,
		"sim_time", g.simTime,
		"score", g.score,
		"game_over", g.gameOver,
		"ships", counts["ship"],
		"aliens", counts["alien"],
		"projectiles", counts["projectile"],
		"health_packs", counts["health_pack"],
		"walls", counts["wall"],
		"debris", counts["debris"],
	}
	if ship, ok := g.Ship(); ok && g.healthMap.Has(ship) {
		attrs = append(attrs, "ship_health", g.healthMap.Get(ship).Value)
	}

	perf := g.perfCollector.Stats()
	var slowest string
	var slowestAvg time.Duration
	for phase, avg := range perf.PhaseAvg {
		if avg > slowestAvg {
			slowest, slowestAvg = phase, avg
		}
	}
	if slowest != "" {
		attrs = append(attrs,
			"slowest_system", g.registry.GetName(slowest),
			"slowest_avg_us", slowestAvg.Microseconds(),
		)
	}

	slog.Info("world_state", attrs...)
}
