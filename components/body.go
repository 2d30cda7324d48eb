package components

import "gonum.org/v1/gonum/spatial/r2"

// CircleCollider is a circular collision shape centred on the entity position.
type CircleCollider struct {
	Radius float64
	Layer  Layer
}

// RectCollider is an axis-aligned rectangle centred on the entity position.
type RectCollider struct {
	Size  r2.Vec // full width and height
	Layer Layer
}

// HalfSize returns half of the rectangle's dimensions.
func (r RectCollider) HalfSize() r2.Vec { return r2.Scale(0.5, r.Size) }

// Obstacle is a static rectangle that flocking agents steer around and
// must never enter.
type Obstacle struct {
	HalfSize r2.Vec
}
