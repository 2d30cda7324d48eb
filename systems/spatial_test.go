package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/spatial"
)

func TestSpatialIndexRebuild(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	a := tw.alien(r2.Vec{X: 100, Y: 100}, r2.Vec{})
	b := tw.alien(r2.Vec{X: 900, Y: 900}, r2.Vec{})
	tw.circle(r2.Vec{X: 110, Y: 100}, r2.Vec{}, 15, components.LayerShip, false) // untracked
	tw.alien(r2.Vec{X: -50, Y: 100}, r2.Vec{})                                      // outside the world

	idx := NewSpatialIndex(tw.w, 1000)
	idx.Rebuild()

	if idx.Tree().Len() != 2 {
		t.Errorf("tree holds %d entries, want 2", idx.Tree().Len())
	}
	if idx.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", idx.Dropped())
	}

	all := idx.Tree().QueryRange(idx.Tree().Boundary())
	found := map[ecs.Entity]bool{}
	for _, e := range all {
		found[e] = true
	}
	if !found[a] || !found[b] {
		t.Errorf("query over the root missed tracked entities: %v", all)
	}

	local := idx.Tree().QueryRange(spatial.NewAABB(r2.Vec{X: 100, Y: 100}, 20))
	if len(local) != 1 || local[0] != a {
		t.Errorf("local query = %v, want [%v]", local, a)
	}

	// Positions are re-read on every rebuild.
	ecs.NewMap[components.Position](tw.w).Get(a).X = 500
	idx.Rebuild()
	if local = idx.Tree().QueryRange(spatial.NewAABB(r2.Vec{X: 100, Y: 100}, 20)); len(local) != 0 {
		t.Errorf("moved entity still indexed at its old position: %v", local)
	}
}
