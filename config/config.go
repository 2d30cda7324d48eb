// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Collision  CollisionConfig  `yaml:"collision"`
	Boids      BoidsConfig      `yaml:"boids"`
	Aliens     AliensConfig     `yaml:"aliens"`
	Ship       ShipConfig       `yaml:"ship"`
	Projectile ProjectileConfig `yaml:"projectile"`
	HealthPack HealthPackConfig `yaml:"health_pack"`
	Debris     DebrisConfig     `yaml:"debris"`
	Shield     ShieldConfig     `yaml:"shield"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the world extent. The playable area is [0, Extent] on both axes.
type WorldConfig struct {
	Extent float64 `yaml:"extent"`
	Seed   int64   `yaml:"seed"`
}

// PhysicsConfig holds integrator timing.
type PhysicsConfig struct {
	FixedDT          float64 `yaml:"fixed_dt"`            // Physics tick length in seconds
	LogicDT          float64 `yaml:"logic_dt"`            // Frame length used by headless runs
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame"` // Cap on physics ticks per frame
}

// CollisionConfig holds broad-phase parameters.
type CollisionConfig struct {
	Margin float64 `yaml:"margin"` // Added to the querying radius; must exceed the largest collider radius
}

// BoidsConfig holds flocking radii and weights.
type BoidsConfig struct {
	Radius           float64 `yaml:"radius"`
	VisionCone       float64 `yaml:"vision_cone"` // Cosine threshold; neighbours with dot <= this are ignored
	SeparationRadius float64 `yaml:"separation_radius"`
	RotationSpeed    float64 `yaml:"rotation_speed"` // Radians per second
	AvoidRadius      float64 `yaml:"avoid_radius"`
	SearchRadius     float64 `yaml:"search_radius"`

	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	AvoidanceWeight  float64 `yaml:"avoidance_weight"`
	TargetWeight     float64 `yaml:"target_weight"`
}

// AliensConfig holds alien spawn parameters.
type AliensConfig struct {
	Speed        float64 `yaml:"speed"`
	Radius       float64 `yaml:"radius"`
	Health       float64 `yaml:"health"`
	SpawnDensity float64 `yaml:"spawn_density"` // Aliens per square unit of world area
}

// ShipConfig holds the player ship parameters.
type ShipConfig struct {
	Mass          float64 `yaml:"mass"`
	Health        float64 `yaml:"health"`
	Radius        float64 `yaml:"radius"`
	ContactDamage float64 `yaml:"contact_damage"` // Damage taken when an alien rams the ship
	UseCollisions bool    `yaml:"use_collisions"`
}

// ProjectileConfig holds projectile parameters.
type ProjectileConfig struct {
	Speed    float64 `yaml:"speed"`
	Mass     float64 `yaml:"mass"`
	Radius   float64 `yaml:"radius"`
	Lifetime float64 `yaml:"lifetime"` // Seconds
	Damage   float64 `yaml:"damage"`

	FireInterval float64 `yaml:"fire_interval"` // Minimum seconds between shots
	SpawnOffset  float64 `yaml:"spawn_offset"`  // Distance ahead of the ship where projectiles appear
}

// HealthPackConfig holds health pack parameters.
type HealthPackConfig struct {
	Radius float64 `yaml:"radius"`
	Amount float64 `yaml:"amount"`
}

// DebrisConfig holds the inert trackable debris field.
type DebrisConfig struct {
	Count     int     `yaml:"count"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
}

// ShieldConfig holds ship shield recharge parameters.
type ShieldConfig struct {
	Enabled       bool    `yaml:"enabled"`
	RechargeDelay float64 `yaml:"recharge_delay"` // Seconds without damage before recharge starts
	RechargeRate  float64 `yaml:"recharge_rate"`  // Health per second
}

// TerrainConfig holds procedural wall generation parameters.
type TerrainConfig struct {
	Enabled    bool    `yaml:"enabled"`
	TileSize   float64 `yaml:"tile_size"`
	NoiseSeed  int64   `yaml:"noise_seed"`
	Zoom       float64 `yaml:"zoom"` // Torus radius in noise space
	OpenLow    float64 `yaml:"open_low"`
	OpenHigh   float64 `yaml:"open_high"`
	SafeRadius float64 `yaml:"safe_radius"` // Keep walls away from the ship spawn
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	SwarmCollapse  SwarmCollapseConfig  `yaml:"swarm_collapse"`
	TunnelingSpike TunnelingSpikeConfig `yaml:"tunneling_spike"`
	ShipCritical   ShipCriticalConfig   `yaml:"ship_critical"`
}

// SwarmCollapseConfig holds swarm collapse detection parameters.
type SwarmCollapseConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// TunnelingSpikeConfig holds wall tunnelling spike detection parameters.
type TunnelingSpikeConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinCount   int     `yaml:"min_count"`
}

// ShipCriticalConfig holds low ship health detection parameters.
type ShipCriticalConfig struct {
	Fraction float64 `yaml:"fraction"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfExtent        float64 // World.Extent / 2, the quadtree root half-dimension
	TerrainTiles      int     // Tiles per axis
	AlienCount        int     // Extent² * SpawnDensity
	WallReach         float64 // Terrain tile half-diagonal; 0 without terrain
	MaxColliderRadius float64 // Farthest any collider reaches from its centre, walls included
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HalfExtent = c.World.Extent / 2
	if c.Terrain.TileSize > 0 {
		c.Derived.TerrainTiles = int(c.World.Extent / c.Terrain.TileSize)
	}
	c.Derived.AlienCount = int(c.World.Extent * c.World.Extent * c.Aliens.SpawnDensity)
	c.Derived.WallReach = 0
	if c.Terrain.Enabled {
		c.Derived.WallReach = c.Terrain.TileSize * math.Sqrt2 / 2
	}
	c.Derived.MaxColliderRadius = max(c.Aliens.Radius, c.Ship.Radius,
		c.Projectile.Radius, c.HealthPack.Radius, c.Derived.WallReach)
}

// Validate checks the invariants the simulation relies on at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Extent <= 0 {
		errs = append(errs, fmt.Errorf("world.extent must be positive, got %v", c.World.Extent))
	}
	if c.Physics.FixedDT <= 0 {
		errs = append(errs, fmt.Errorf("physics.fixed_dt must be positive, got %v", c.Physics.FixedDT))
	}
	if c.Physics.LogicDT <= 0 {
		errs = append(errs, fmt.Errorf("physics.logic_dt must be positive, got %v", c.Physics.LogicDT))
	}
	if c.Physics.MaxStepsPerFrame < 1 {
		errs = append(errs, fmt.Errorf("physics.max_steps_per_frame must be at least 1, got %d", c.Physics.MaxStepsPerFrame))
	}
	// The broad phase only finds candidates whose centre lies inside the
	// query box, so the margin has to cover the largest partner radius.
	if c.Collision.Margin <= c.Derived.MaxColliderRadius {
		errs = append(errs, fmt.Errorf("collision.margin (%v) must exceed the largest collider radius (%v)",
			c.Collision.Margin, c.Derived.MaxColliderRadius))
	}
	if c.Boids.Radius <= 0 || c.Boids.SeparationRadius <= 0 || c.Boids.AvoidRadius <= 0 || c.Boids.SearchRadius <= 0 {
		errs = append(errs, errors.New("boids radii must be positive"))
	}
	// Obstacles are found by their centre too: an alien inside a tile, or
	// avoid_radius from its edge, must still see the tile centre.
	if need := c.Boids.AvoidRadius + c.Derived.WallReach; c.Boids.Radius < need {
		errs = append(errs, fmt.Errorf("boids.radius (%v) must reach avoid_radius plus the tile half-diagonal (%v)",
			c.Boids.Radius, need))
	}
	if c.Boids.VisionCone < -1 || c.Boids.VisionCone > 1 {
		errs = append(errs, fmt.Errorf("boids.vision_cone must be a cosine in [-1, 1], got %v", c.Boids.VisionCone))
	}
	if c.Terrain.Enabled && c.Terrain.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("terrain.tile_size must be positive, got %v", c.Terrain.TileSize))
	}
	if c.Ship.Mass <= 0 || c.Projectile.Mass <= 0 {
		errs = append(errs, errors.New("ship.mass and projectile.mass must be positive"))
	}
	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
