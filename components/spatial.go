package components

// Trackable marks an entity for insertion into the quadtree.
type Trackable struct{}

// Layer identifies a collision layer. The compatibility matrix is indexed
// in declaration order.
type Layer uint8

const (
	LayerProjectiles Layer = iota // Things that hit aliens
	LayerShip
	LayerAliens
	LayerHealthPacks
	LayerWalls

	LayerCount int = iota
)
