// Package spatial provides the axis-aligned bounding box and the quadtree
// used for broad-phase neighbour queries.
package spatial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AABB is a square axis-aligned box described by its centre and a single
// half-dimension shared by both axes.
type AABB struct {
	Center r2.Vec
	Half   float64
}

// NewAABB returns a box centred at center. It panics if half is not positive.
func NewAABB(center r2.Vec, half float64) AABB {
	if !(half > 0) {
		panic(fmt.Sprintf("spatial: AABB half-dimension must be positive, got %v", half))
	}
	return AABB{Center: center, Half: half}
}

// ContainsPoint reports whether p lies inside the box. Points on any edge
// are inside.
func (b AABB) ContainsPoint(p r2.Vec) bool {
	return p.X >= b.Center.X-b.Half && p.X <= b.Center.X+b.Half &&
		p.Y >= b.Center.Y-b.Half && p.Y <= b.Center.Y+b.Half
}

// Intersects reports whether the two boxes overlap. Boxes that only touch
// along an edge do not intersect.
func (b AABB) Intersects(o AABB) bool {
	reach := b.Half + o.Half
	return math.Abs(b.Center.X-o.Center.X) < reach &&
		math.Abs(b.Center.Y-o.Center.Y) < reach
}

// Bounds returns the minimum and maximum corners.
func (b AABB) Bounds() (lo, hi r2.Vec) {
	h := r2.Vec{X: b.Half, Y: b.Half}
	return r2.Sub(b.Center, h), r2.Add(b.Center, h)
}

// quadrant returns the child box for quadrant q (NE, NW, SE, SW).
func (b AABB) quadrant(q int) AABB {
	h := b.Half / 2
	c := b.Center
	switch q {
	case NE:
		c = r2.Vec{X: c.X + h, Y: c.Y + h}
	case NW:
		c = r2.Vec{X: c.X - h, Y: c.Y + h}
	case SE:
		c = r2.Vec{X: c.X + h, Y: c.Y - h}
	default:
		c = r2.Vec{X: c.X - h, Y: c.Y - h}
	}
	return AABB{Center: c, Half: h}
}
