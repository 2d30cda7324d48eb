package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/systems"
)

// spawnAttempts bounds the search for an open spawn point.
const spawnAttempts = 32

// SpawnShip creates the player ship at pos and makes it the flocking target.
func (g *Game) SpawnShip(pos r2.Vec) ecs.Entity {
	cfg := g.config()

	p := components.Position{X: pos.X, Y: pos.Y}
	vel := components.Velocity{}
	rot := components.Rotation{Angle: math.Pi / 2}
	acc := components.Acceleration{Local: true}
	mass := components.Mass{Value: cfg.Ship.Mass}
	phys := components.Physics{UseCollisions: cfg.Ship.UseCollisions}
	col := components.CircleCollider{Radius: cfg.Ship.Radius, Layer: components.LayerShip}

	e := g.shipMapper.NewEntity(&p, &vel, &rot, &acc, &mass, &phys, &col)
	g.shipTags.Add(e,
		&components.Ship{},
		&components.Health{Value: cfg.Ship.Health, Max: cfg.Ship.Health},
		&components.Shield{LastDamaged: g.simTime},
	)
	g.AssignLayer(e, components.LayerShip)

	g.ship, g.hasShip = e, true
	g.SetTarget(e)
	return e
}

// SpawnAlien creates a flocking alien moving with vel.
func (g *Game) SpawnAlien(pos, vel r2.Vec) ecs.Entity {
	cfg := g.config()

	p := components.Position{X: pos.X, Y: pos.Y}
	v := components.Velocity{X: vel.X, Y: vel.Y}
	rot := components.Rotation{Angle: math.Atan2(vel.Y, vel.X)}
	phys := components.Physics{}
	col := components.CircleCollider{Radius: cfg.Aliens.Radius, Layer: components.LayerAliens}
	health := components.Health{Value: cfg.Aliens.Health, Max: cfg.Aliens.Health}

	e := g.alienMapper.NewEntity(&p, &v, &rot, &phys, &col, &health, &components.Alien{})
	g.MarkTrackable(e)
	g.AssignLayer(e, components.LayerAliens)
	return e
}

// SpawnWall creates a static wall tile of the given full size.
func (g *Game) SpawnWall(center, size r2.Vec) ecs.Entity {
	p := components.Position{X: center.X, Y: center.Y}
	rect := components.RectCollider{Size: size, Layer: components.LayerWalls}
	obstacle := components.Obstacle{HalfSize: rect.HalfSize()}

	e := g.wallMapper.NewEntity(&p, &rect, &obstacle)
	g.MarkTrackable(e)
	g.AssignLayer(e, components.LayerWalls)
	return e
}

// SpawnHealthPack creates a pickup that heals the ship.
func (g *Game) SpawnHealthPack(pos r2.Vec) ecs.Entity {
	cfg := g.config()

	p := components.Position{X: pos.X, Y: pos.Y}
	col := components.CircleCollider{Radius: cfg.HealthPack.Radius, Layer: components.LayerHealthPacks}
	pack := components.HealthPack{Amount: cfg.HealthPack.Amount}

	e := g.packMapper.NewEntity(&p, &col, &pack)
	g.MarkTrackable(e)
	g.AssignLayer(e, components.LayerHealthPacks)
	return e
}

// SpawnDebris creates inert scenery. Debris is indexed but has no collider,
// so detection skips it.
func (g *Game) SpawnDebris(pos r2.Vec, radius float64) ecs.Entity {
	p := components.Position{X: pos.X, Y: pos.Y}
	e := g.debrisMapper.NewEntity(&p, &components.Debris{Radius: radius})
	g.MarkTrackable(e)
	return e
}

// spawnProjectile creates a projectile. It is not indexed: nothing queries
// for projectiles, they query for aliens.
func (g *Game) spawnProjectile(pos, vel r2.Vec) ecs.Entity {
	cfg := g.config()

	p := components.Position{X: pos.X, Y: pos.Y}
	v := components.Velocity{X: vel.X, Y: vel.Y}
	phys := components.Physics{}
	mass := components.Mass{Value: cfg.Projectile.Mass}
	col := components.CircleCollider{Radius: cfg.Projectile.Radius, Layer: components.LayerProjectiles}
	proj := components.Projectile{SpawnTime: g.simTime, Damage: cfg.Projectile.Damage}

	e := g.projMapper.NewEntity(&p, &v, &phys, &mass, &col, &proj)
	g.AssignLayer(e, components.LayerProjectiles)
	return e
}

// GenerateWorld spawns the ship at the world centre, terrain walls, the
// alien swarm on open ground and the debris field.
func (g *Game) GenerateWorld() {
	cfg := g.config()
	center := r2.Vec{X: cfg.Derived.HalfExtent, Y: cfg.Derived.HalfExtent}

	g.SpawnShip(center)

	walls := 0
	if cfg.Terrain.Enabled {
		g.terrain = systems.GenerateTerrain(systems.TerrainParams{
			Extent:     cfg.World.Extent,
			TileSize:   cfg.Terrain.TileSize,
			Seed:       cfg.Terrain.NoiseSeed + g.seed,
			Zoom:       cfg.Terrain.Zoom,
			OpenLow:    cfg.Terrain.OpenLow,
			OpenHigh:   cfg.Terrain.OpenHigh,
			SafeCenter: center,
			SafeRadius: cfg.Terrain.SafeRadius,
		})
		size := r2.Vec{X: cfg.Terrain.TileSize, Y: cfg.Terrain.TileSize}
		for _, c := range g.terrain.WallTiles() {
			g.SpawnWall(c, size)
			walls++
		}
	}

	aliens := 0
	for i := 0; i < cfg.Derived.AlienCount; i++ {
		pos, ok := g.openSpawnPoint(center, cfg.Terrain.SafeRadius)
		if !ok {
			continue
		}
		heading := g.rng.Float64() * 2 * math.Pi
		vel := r2.Vec{X: math.Cos(heading), Y: math.Sin(heading)}
		g.SpawnAlien(pos, r2.Scale(cfg.Aliens.Speed, vel))
		aliens++
	}

	for i := 0; i < cfg.Debris.Count; i++ {
		pos := r2.Vec{X: g.rng.Float64() * cfg.World.Extent, Y: g.rng.Float64() * cfg.World.Extent}
		radius := cfg.Debris.MinRadius + g.rng.Float64()*(cfg.Debris.MaxRadius-cfg.Debris.MinRadius)
		g.SpawnDebris(pos, radius)
	}

	openFraction := 1.0
	if g.terrain != nil {
		openFraction = g.terrain.OpenFraction()
	}
	slog.Info("world_generated",
		"seed", g.seed,
		"extent", cfg.World.Extent,
		"walls", walls,
		"aliens", aliens,
		"debris", cfg.Debris.Count,
		"open_fraction", openFraction,
	)
}

// openSpawnPoint picks a random point on open ground outside the ship's
// safe radius. It gives up after spawnAttempts tries.
func (g *Game) openSpawnPoint(avoid r2.Vec, avoidRadius float64) (r2.Vec, bool) {
	extent := g.config().World.Extent
	for range spawnAttempts {
		p := r2.Vec{X: g.rng.Float64() * extent, Y: g.rng.Float64() * extent}
		if r2.Norm(r2.Sub(p, avoid)) < avoidRadius {
			continue
		}
		if g.terrain != nil && !g.terrain.Open(p) {
			continue
		}
		return p, true
	}
	return r2.Vec{}, false
}
