// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Set overwrites the position from a vector.
func (p *Position) Set(v r2.Vec) { p.X, p.Y = v.X, v.Y }

// Velocity represents an entity's velocity in units per second.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Set overwrites the velocity from a vector.
func (v *Velocity) Set(u r2.Vec) { v.X, v.Y = u.X, u.Y }

// Rotation represents an entity's orientation.
type Rotation struct {
	Angle float64 // radians, counter-clockwise from +X
}

// Acceleration is a constant acceleration applied by the integrator.
// When Local is set the vector is expressed in the entity's own frame and
// is rotated by its Rotation before use.
type Acceleration struct {
	X, Y  float64
	Local bool
}

// Vec returns the acceleration as a vector.
func (a Acceleration) Vec() r2.Vec { return r2.Vec{X: a.X, Y: a.Y} }

// Mass is used to convert impulses into velocity changes.
type Mass struct {
	Value float64
}

// Physics marks an entity as simulated by the integrator.
type Physics struct {
	UseCollisions bool // Resolve overlaps against static rectangles
}
