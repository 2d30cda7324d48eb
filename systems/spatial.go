// Package systems provides ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/spatial"
)

// SpatialIndex rebuilds the quadtree from every trackable entity.
type SpatialIndex struct {
	filter  *ecs.Filter2[components.Position, components.Trackable]
	tree    *spatial.Quadtree[ecs.Entity]
	entries []spatial.Entry[ecs.Entity]
	dropped int
}

// NewSpatialIndex creates an index whose root covers the square world
// [0, extent] on both axes.
func NewSpatialIndex(w *ecs.World, extent float64) *SpatialIndex {
	half := extent / 2
	return &SpatialIndex{
		filter: ecs.NewFilter2[components.Position, components.Trackable](w),
		tree:   spatial.New[ecs.Entity](spatial.NewAABB(r2.Vec{X: half, Y: half}, half)),
	}
}

// Rebuild discards the previous tree and inserts the current positions.
func (s *SpatialIndex) Rebuild() {
	s.entries = s.entries[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		s.entries = append(s.entries, spatial.Entry[ecs.Entity]{Pos: pos.Vec(), Handle: query.Entity()})
	}
	s.dropped = s.tree.Rebuild(s.entries)
}

// Tree returns the quadtree built by the last Rebuild.
func (s *SpatialIndex) Tree() *spatial.Quadtree[ecs.Entity] { return s.tree }

// Dropped returns how many trackable entities were outside the world on the last rebuild.
func (s *SpatialIndex) Dropped() int { return s.dropped }
