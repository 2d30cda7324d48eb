package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/systems"
)

// FrameOutputs holds everything the last Update produced. Collision lists
// span every physics tick of the frame.
type FrameOutputs struct {
	RawCollisions    []systems.CollisionEvent
	UniqueCollisions []systems.CollisionEvent
	Despawned        []Despawn
	Runouts          []ecs.Entity
	PhysicsTicks     int
	GameOver         bool
}

// resetOutputs clears the frame queues, keeping their capacity.
func (g *Game) resetOutputs() {
	g.out.RawCollisions = g.out.RawCollisions[:0]
	g.out.UniqueCollisions = g.out.UniqueCollisions[:0]
	g.out.Despawned = g.out.Despawned[:0]
	g.out.Runouts = g.out.Runouts[:0]
	g.out.PhysicsTicks = 0
}

// Outputs returns the results of the last Update. The slices are reused by
// the next Update.
func (g *Game) Outputs() FrameOutputs {
	out := g.out
	out.GameOver = g.gameOver
	return out
}

// MarkTrackable adds e to the quadtree from the next physics tick on.
func (g *Game) MarkTrackable(e ecs.Entity) {
	if !g.world.Alive(e) || g.trackMap.Has(e) {
		return
	}
	g.trackMap.Add(e, &components.Trackable{})
}

// AssignLayer puts e on a collision layer.
func (g *Game) AssignLayer(e ecs.Entity, layer components.Layer) {
	if !g.world.Alive(e) {
		return
	}
	g.layers.Assign(e, layer)
}

// SetTarget makes e the entity aliens seek.
func (g *Game) SetTarget(e ecs.Entity) {
	g.flocking.SetTarget(e)
}

// QueueHealthChange schedules a damage, heal or set for the next logic phase.
func (g *Game) QueueHealthChange(c systems.HealthChange) {
	g.healthChanges = append(g.healthChanges, c)
}

// QueueImpulse changes e's velocity by dv, scaled by mass over e's own mass,
// at the start of the next physics tick.
func (g *Game) QueueImpulse(e ecs.Entity, dv r2.Vec, mass float64) {
	g.impulses.Push(systems.NewImpulse(e, dv, mass))
}

// SetAcceleration sets e's constant acceleration. A local acceleration is
// rotated by e's Rotation each tick.
func (g *Game) SetAcceleration(e ecs.Entity, a r2.Vec, local bool) {
	if !g.world.Alive(e) {
		return
	}
	acc := components.Acceleration{X: a.X, Y: a.Y, Local: local}
	if g.accMap.Has(e) {
		*g.accMap.Get(e) = acc
		return
	}
	g.accMap.Add(e, &acc)
}

// SetRotation sets e's orientation in radians.
func (g *Game) SetRotation(e ecs.Entity, angle float64) {
	if !g.world.Alive(e) {
		return
	}
	angle = normalizeAngle(angle)
	if g.rotMap.Has(e) {
		g.rotMap.Get(e).Angle = angle
		return
	}
	g.rotMap.Add(e, &components.Rotation{Angle: angle})
}

// FireProjectile shoots from the shooter along direction. The projectile
// inherits the shooter's velocity and the shooter receives the opposite
// momentum. It returns false when the shooter is gone, the direction is
// zero or the gun is still cooling down.
func (g *Game) FireProjectile(shooter ecs.Entity, direction r2.Vec) (ecs.Entity, bool) {
	cfg := g.config()
	if !g.live(shooter) || !g.posMap.Has(shooter) {
		return ecs.Entity{}, false
	}
	n := r2.Norm(direction)
	if n == 0 {
		return ecs.Entity{}, false
	}
	if g.simTime-g.lastFired < cfg.Projectile.FireInterval {
		return ecs.Entity{}, false
	}
	dir := r2.Scale(1/n, direction)

	var shooterVel r2.Vec
	if g.velMap.Has(shooter) {
		shooterVel = g.velMap.Get(shooter).Vec()
	}
	velocity := r2.Add(r2.Scale(cfg.Projectile.Speed, dir), shooterVel)
	origin := r2.Add(g.posMap.Get(shooter).Vec(), r2.Scale(cfg.Projectile.SpawnOffset, dir))

	proj := g.spawnProjectile(origin, velocity)
	g.impulses.Push(systems.NewImpulse(shooter, r2.Scale(-1, velocity), cfg.Projectile.Mass))
	g.lastFired = g.simTime
	g.collector.RecordProjectileFired()
	return proj, true
}

// Despawn removes e at the next flush.
func (g *Game) Despawn(e ecs.Entity) {
	g.queueDespawn(e, ReasonRequested)
}

// Ship returns the player ship and whether it is still alive.
func (g *Game) Ship() (ecs.Entity, bool) {
	return g.ship, g.hasShip && g.world.Alive(g.ship)
}

// World returns the underlying ECS world.
func (g *Game) World() *ecs.World { return g.world }

// Tick returns the number of physics ticks run so far.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Score returns the number of aliens destroyed by health runout.
func (g *Game) Score() int { return g.score }

// GameOver reports whether the ship has been destroyed.
func (g *Game) GameOver() bool { return g.gameOver }

// AlienCount returns the number of live aliens.
func (g *Game) AlienCount() int {
	return len(g.layers.Members(components.LayerAliens))
}

// Alive reports whether e still exists.
func (g *Game) Alive(e ecs.Entity) bool { return g.world.Alive(e) }

// Position returns e's position.
func (g *Game) Position(e ecs.Entity) (r2.Vec, bool) {
	if !g.world.Alive(e) || !g.posMap.Has(e) {
		return r2.Vec{}, false
	}
	return g.posMap.Get(e).Vec(), true
}

// Velocity returns e's velocity.
func (g *Game) Velocity(e ecs.Entity) (r2.Vec, bool) {
	if !g.world.Alive(e) || !g.velMap.Has(e) {
		return r2.Vec{}, false
	}
	return g.velMap.Get(e).Vec(), true
}

// Health returns e's current and maximum health.
func (g *Game) Health(e ecs.Entity) (value, maxValue float64, ok bool) {
	if !g.world.Alive(e) || !g.healthMap.Has(e) {
		return 0, 0, false
	}
	h := g.healthMap.Get(e)
	return h.Value, h.Max, true
}

// Layers returns the collision layer table.
func (g *Game) Layers() *systems.LayerTable { return g.layers }
