package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voidswarm/systems"
)

// applyCollisionRules turns the frame's unique collisions into damage,
// pickups and despawns. Entities already queued for removal take no further
// part, so a projectile hits at most one alien and a pack heals once.
func (g *Game) applyCollisionRules() {
	cfg := g.config()

	for _, ev := range g.out.UniqueCollisions {
		a, b := ev.A, ev.B
		if !g.live(a) || !g.live(b) {
			continue
		}

		switch {
		case g.projMap.Has(a) && g.alienMap.Has(b):
			damage := g.projMap.Get(a).Damage
			g.queueDespawn(a, ReasonProjectileHit)
			g.healthChanges = append(g.healthChanges, systems.HealthChange{Entity: b, Mode: systems.HealthDamage, Value: damage})
			g.collector.RecordProjectileHit()

		case g.shipMap.Has(a) && g.alienMap.Has(b):
			g.healthChanges = append(g.healthChanges, systems.HealthChange{Entity: a, Mode: systems.HealthDamage, Value: cfg.Ship.ContactDamage})
			g.queueDespawn(b, ReasonRammed)
			g.collector.RecordShipDamage(cfg.Ship.ContactDamage)
			g.collector.RecordAlienRammed()

		case g.shipMap.Has(a) && g.packMap.Has(b):
			amount := g.packMap.Get(b).Amount
			g.healthChanges = append(g.healthChanges, systems.HealthChange{Entity: a, Mode: systems.HealthHeal, Value: amount})
			g.queueDespawn(b, ReasonPickedUp)
			g.collector.RecordPickup()
		}
	}
}

// expireProjectiles removes projectiles older than projectile.lifetime.
func (g *Game) expireProjectiles() {
	lifetime := g.config().Projectile.Lifetime

	query := g.projFilter.Query()
	for query.Next() {
		proj := query.Get()
		if g.simTime-proj.SpawnTime >= lifetime {
			g.queueDespawn(query.Entity(), ReasonExpired)
		}
	}
}

// handleRunouts reacts to entities whose health ran out this frame.
// Aliens score and drop a health pack; losing the ship ends the game.
func (g *Game) handleRunouts(runouts []ecs.Entity) {
	for _, e := range runouts {
		if !g.live(e) {
			continue
		}
		switch {
		case g.alienMap.Has(e):
			g.spawnQueue = append(g.spawnQueue, spawnRequest{pos: g.posMap.Get(e).Vec()})
			g.queueDespawn(e, ReasonHealthRunout)
			g.score++
			g.collector.RecordAlienKilled()

		case g.shipMap.Has(e):
			g.queueDespawn(e, ReasonHealthRunout)
			if !g.gameOver {
				g.gameOver = true
				slog.Info("game_over", "tick", g.tick, "sim_time", g.simTime, "score", g.score)
			}

		default:
			g.queueDespawn(e, ReasonHealthRunout)
		}
	}
}
