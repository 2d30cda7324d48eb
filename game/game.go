package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/config"
	"github.com/pthm-cable/voidswarm/systems"
	"github.com/pthm-cable/voidswarm/telemetry"
)

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	runID string

	// Entity mappers, one per archetype
	shipMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Acceleration,
		components.Mass,
		components.Physics,
		components.CircleCollider,
	]
	shipTags    *ecs.Map3[components.Ship, components.Health, components.Shield]
	alienMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Physics,
		components.CircleCollider,
		components.Health,
		components.Alien,
	]
	projMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Physics,
		components.Mass,
		components.CircleCollider,
		components.Projectile,
	]
	wallMapper   *ecs.Map3[components.Position, components.RectCollider, components.Obstacle]
	packMapper   *ecs.Map3[components.Position, components.CircleCollider, components.HealthPack]
	debrisMapper *ecs.Map2[components.Position, components.Debris]

	// Individual component mappers for lookups
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	rotMap    *ecs.Map[components.Rotation]
	accMap    *ecs.Map[components.Acceleration]
	healthMap *ecs.Map[components.Health]
	circleMap *ecs.Map[components.CircleCollider]
	rectMap   *ecs.Map[components.RectCollider]
	trackMap  *ecs.Map[components.Trackable]
	alienMap  *ecs.Map[components.Alien]
	shipMap   *ecs.Map[components.Ship]
	projMap   *ecs.Map[components.Projectile]
	packMap   *ecs.Map[components.HealthPack]
	debrisMap *ecs.Map[components.Debris]

	// Filters
	entityFilter *ecs.Filter1[components.Position]
	projFilter   *ecs.Filter1[components.Projectile]
	alienWrap    *ecs.Filter2[components.Position, components.Alien]
	shipWrap     *ecs.Filter2[components.Position, components.Ship]

	// Systems
	registry   *systems.SystemRegistry
	index      *systems.SpatialIndex
	layers     *systems.LayerTable
	collisions *systems.CollisionSystem
	resolver   *systems.CollisionResolver
	physics    *systems.PhysicsSystem
	flocking   *systems.FlockingSystem
	orient     *systems.OrientToVelocity
	health     *systems.HealthSystem
	terrain    *systems.Terrain

	// Queues between phases
	impulses      systems.ImpulseQueue
	healthChanges []systems.HealthChange
	despawnQueue  []Despawn
	despawnSet    map[ecs.Entity]struct{}
	spawnQueue    []spawnRequest

	// Outputs of the current frame
	out FrameOutputs

	// Player
	ship      ecs.Entity
	hasShip   bool
	lastFired float64

	// State
	tick          int32 // physics ticks since start
	simTime       float64
	accumulator   float64
	score         int
	gameOver      bool
	lastNeighbors []float64

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game from the global configuration.
func NewGameWithOptions(opts Options) *Game {
	return NewGameWithConfig(config.Cfg(), opts)
}

// NewGameWithConfig creates a game from an explicit configuration. Unless
// opts.EmptyWorld is set the world is generated immediately.
func NewGameWithConfig(cfg *config.Config, opts Options) *Game {
	world := ecs.NewWorld()
	seed := resolveSeed(cfg, opts)

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		seed:  seed,
		runID: opts.RunID,

		shipMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Acceleration,
			components.Mass,
			components.Physics,
			components.CircleCollider,
		](world),
		shipTags: ecs.NewMap3[components.Ship, components.Health, components.Shield](world),
		alienMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Physics,
			components.CircleCollider,
			components.Health,
			components.Alien,
		](world),
		projMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Physics,
			components.Mass,
			components.CircleCollider,
			components.Projectile,
		](world),
		wallMapper:   ecs.NewMap3[components.Position, components.RectCollider, components.Obstacle](world),
		packMapper:   ecs.NewMap3[components.Position, components.CircleCollider, components.HealthPack](world),
		debrisMapper: ecs.NewMap2[components.Position, components.Debris](world),

		posMap:    ecs.NewMap[components.Position](world),
		velMap:    ecs.NewMap[components.Velocity](world),
		rotMap:    ecs.NewMap[components.Rotation](world),
		accMap:    ecs.NewMap[components.Acceleration](world),
		healthMap: ecs.NewMap[components.Health](world),
		circleMap: ecs.NewMap[components.CircleCollider](world),
		rectMap:   ecs.NewMap[components.RectCollider](world),
		trackMap:  ecs.NewMap[components.Trackable](world),
		alienMap:  ecs.NewMap[components.Alien](world),
		shipMap:   ecs.NewMap[components.Ship](world),
		projMap:   ecs.NewMap[components.Projectile](world),
		packMap:   ecs.NewMap[components.HealthPack](world),
		debrisMap: ecs.NewMap[components.Debris](world),

		entityFilter: ecs.NewFilter1[components.Position](world),
		projFilter:   ecs.NewFilter1[components.Projectile](world),
		alienWrap:    ecs.NewFilter2[components.Position, components.Alien](world),
		shipWrap:     ecs.NewFilter2[components.Position, components.Ship](world),

		registry:   systems.NewSystemRegistry(),
		index:      systems.NewSpatialIndex(world, cfg.World.Extent),
		layers:     systems.NewLayerTable(systems.DefaultLayerMatrix()),
		collisions: systems.NewCollisionSystem(world, cfg.Collision.Margin),
		resolver:   systems.NewCollisionResolver(world),
		physics:    systems.NewPhysicsSystem(world),
		flocking:   systems.NewFlockingSystem(world, systems.FlockParamsFromConfig(cfg.Boids)),
		orient:     systems.NewOrientToVelocity(world),
		health:     systems.NewHealthSystem(world, cfg.Shield.RechargeDelay, cfg.Shield.RechargeRate),

		despawnSet: make(map[ecs.Entity]struct{}),
		lastFired:  -cfg.Projectile.FireInterval,

		snapshotDir:   opts.SnapshotDir,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Physics.FixedDT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.EmptyWorld {
		g.GenerateWorld()
	}

	return g
}

// config returns the configuration this game was built with.
func (g *Game) config() *config.Config {
	return g.cfg
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output manager", "error", err)
		}
	}
}
