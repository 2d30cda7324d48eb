// Package telemetry provides swarm health tracking, bookmarking, and snapshots.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	rawCollisions     int
	uniqueCollisions  int
	wallsResolved     int
	tunnelingDespawns int
	aliensKilled      int
	aliensRammed      int
	projectilesFired  int
	projectilesHit    int
	pickups           int
	shipDamage        float64
	despawns          DespawnCounts
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per frame (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordCollisions adds one physics tick's detector output.
func (c *Collector) RecordCollisions(raw, unique, resolved int) {
	c.rawCollisions += raw
	c.uniqueCollisions += unique
	c.wallsResolved += resolved
}

// RecordTunneling records aliens despawned for entering a wall.
func (c *Collector) RecordTunneling(n int) {
	c.tunnelingDespawns += n
}

// RecordAlienKilled records an alien whose health ran out.
func (c *Collector) RecordAlienKilled() {
	c.aliensKilled++
}

// RecordAlienRammed records an alien destroyed by ramming the ship.
func (c *Collector) RecordAlienRammed() {
	c.aliensRammed++
}

// RecordProjectileFired records a shot.
func (c *Collector) RecordProjectileFired() {
	c.projectilesFired++
}

// RecordProjectileHit records a shot that struck an alien.
func (c *Collector) RecordProjectileHit() {
	c.projectilesHit++
}

// RecordPickup records a health pack collected by the ship.
func (c *Collector) RecordPickup() {
	c.pickups++
}

// RecordShipDamage records damage dealt to the ship.
func (c *Collector) RecordShipDamage(amount float64) {
	c.shipDamage += amount
}

// RecordDespawn records an entity removed for the named reason.
func (c *Collector) RecordDespawn(reason string) {
	c.despawns.Add(reason)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Gauges holds values sampled at the end of a window.
type Gauges struct {
	Aliens        int
	Walls         int
	Projectiles   int
	Score         int
	ShipHealth    float64
	ShipHealthMax float64
	ShipAlive     bool

	QuadtreeEntries int
	QuadtreeNodes   int
	QuadtreeDepth   int
	QuadtreeDropped int

	// Per-alien neighbour counts from the most recent flocking pass.
	Neighbors []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, g Gauges) WindowStats {
	var hitRate float64
	if c.projectilesFired > 0 {
		hitRate = float64(c.projectilesHit) / float64(c.projectilesFired)
	}

	nMean, nStd, nP50, nP90 := ComputeNeighborStats(g.Neighbors)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Aliens:      g.Aliens,
		Walls:       g.Walls,
		Projectiles: g.Projectiles,
		Score:       g.Score,
		ShipHealth:  g.ShipHealth,
		ShipAlive:   g.ShipAlive,

		RawCollisions:     c.rawCollisions,
		UniqueCollisions:  c.uniqueCollisions,
		WallsResolved:     c.wallsResolved,
		TunnelingDespawns: c.tunnelingDespawns,
		AliensKilled:      c.aliensKilled,
		AliensRammed:      c.aliensRammed,
		ProjectilesFired:  c.projectilesFired,
		ProjectilesHit:    c.projectilesHit,
		HitRate:           hitRate,
		Pickups:           c.pickups,
		ShipDamage:        c.shipDamage,

		NeighborMean: nMean,
		NeighborStd:  nStd,
		NeighborP50:  nP50,
		NeighborP90:  nP90,

		QuadtreeEntries: g.QuadtreeEntries,
		QuadtreeNodes:   g.QuadtreeNodes,
		QuadtreeDepth:   g.QuadtreeDepth,
		QuadtreeDropped: g.QuadtreeDropped,

		Despawns: c.despawns,
	}
	stats.Despawns.WindowEnd = currentTick
	if g.ShipHealthMax > 0 {
		stats.ShipHealthFrac = g.ShipHealth / g.ShipHealthMax
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.rawCollisions = 0
	c.uniqueCollisions = 0
	c.wallsResolved = 0
	c.tunnelingDespawns = 0
	c.aliensKilled = 0
	c.aliensRammed = 0
	c.projectilesFired = 0
	c.projectilesHit = 0
	c.pickups = 0
	c.shipDamage = 0
	c.despawns = DespawnCounts{}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
