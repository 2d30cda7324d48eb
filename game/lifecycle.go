package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// DespawnReason records why an entity was removed.
type DespawnReason uint8

const (
	ReasonRequested     DespawnReason = iota // host called Despawn
	ReasonProjectileHit                      // projectile struck an alien
	ReasonRammed                             // alien hit the ship
	ReasonPickedUp                           // health pack collected
	ReasonHealthRunout
	ReasonExpired  // projectile lifetime elapsed
	ReasonBoundary // alien found inside a wall
)

var reasonNames = []string{
	"requested", "projectile_hit", "rammed", "picked_up", "health_runout", "expired", "boundary",
}

// String returns the snake_case name used in logs.
func (r DespawnReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Despawn is an entity removed during the frame.
type Despawn struct {
	Entity ecs.Entity
	Reason DespawnReason
}

// spawnRequest is a health pack to create once the frame's queries are done.
type spawnRequest struct {
	pos r2.Vec
}

// queueDespawn schedules e for removal at the next flush. Only the first
// reason queued for an entity is kept.
func (g *Game) queueDespawn(e ecs.Entity, reason DespawnReason) {
	if _, queued := g.despawnSet[e]; queued {
		return
	}
	g.despawnSet[e] = struct{}{}
	g.despawnQueue = append(g.despawnQueue, Despawn{Entity: e, Reason: reason})
}

// despawning reports whether e is queued for removal.
func (g *Game) despawning(e ecs.Entity) bool {
	_, queued := g.despawnSet[e]
	return queued
}

// live reports whether e exists and is not about to be removed.
func (g *Game) live(e ecs.Entity) bool {
	return g.world.Alive(e) && !g.despawning(e)
}

// flushDespawns removes every queued entity from the world and its layer.
// Must not be called while a query is open.
func (g *Game) flushDespawns() {
	for _, d := range g.despawnQueue {
		if !g.world.Alive(d.Entity) {
			continue
		}
		g.layers.Remove(d.Entity)
		g.world.RemoveEntity(d.Entity)
		g.out.Despawned = append(g.out.Despawned, d)
		g.collector.RecordDespawn(d.Reason.String())

		if g.hasShip && d.Entity == g.ship {
			g.hasShip = false
			g.flocking.ClearTarget()
		}
	}
	g.despawnQueue = g.despawnQueue[:0]
	clear(g.despawnSet)
}

// flushSpawns creates the entities requested during the logic phase.
func (g *Game) flushSpawns() {
	for _, req := range g.spawnQueue {
		g.SpawnHealthPack(req.pos)
	}
	if n := len(g.spawnQueue); n > 0 && g.logStats {
		slog.Debug("health_packs_spawned", "count", n, "tick", g.tick)
	}
	g.spawnQueue = g.spawnQueue[:0]
}
