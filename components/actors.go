package components

// Alien tags a flocking agent.
type Alien struct{}

// Ship tags the player ship.
type Ship struct{}

// Projectile is fired by the ship and expires after a fixed lifetime.
type Projectile struct {
	SpawnTime float64 // simulation seconds
	Damage    float64
}

// HealthPack heals the ship on contact.
type HealthPack struct {
	Amount float64
}

// Debris is inert scenery: trackable, but without a collider.
type Debris struct {
	Radius float64
}

// Health holds hit points. Value never exceeds Max after a heal.
type Health struct {
	Value float64
	Max   float64
}

// Shield recharges Health after a quiet period.
type Shield struct {
	LastDamaged float64 // simulation seconds
}
