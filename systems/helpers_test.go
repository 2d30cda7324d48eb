package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
)

// testWorld bundles the mappers the systems tests use to build scenes.
type testWorld struct {
	w       *ecs.World
	circles *ecs.Map3[components.Position, components.Velocity, components.CircleCollider]
	rects   *ecs.Map2[components.Position, components.RectCollider]
	track   *ecs.Map[components.Trackable]
	physics *ecs.Map2[components.Physics, components.Mass]
	aliens  *ecs.Map2[components.Alien, components.Rotation]
	obst    *ecs.Map[components.Obstacle]
	layers  *LayerTable
}

func newTestWorld(matrix [][]components.Layer) *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		w:       w,
		circles: ecs.NewMap3[components.Position, components.Velocity, components.CircleCollider](w),
		rects:   ecs.NewMap2[components.Position, components.RectCollider](w),
		track:   ecs.NewMap[components.Trackable](w),
		physics: ecs.NewMap2[components.Physics, components.Mass](w),
		aliens:  ecs.NewMap2[components.Alien, components.Rotation](w),
		obst:    ecs.NewMap[components.Obstacle](w),
		layers:  NewLayerTable(matrix),
	}
}

func (tw *testWorld) circle(pos, vel r2.Vec, radius float64, layer components.Layer, trackable bool) ecs.Entity {
	e := tw.circles.NewEntity(
		&components.Position{X: pos.X, Y: pos.Y},
		&components.Velocity{X: vel.X, Y: vel.Y},
		&components.CircleCollider{Radius: radius, Layer: layer},
	)
	if trackable {
		tw.track.Add(e, &components.Trackable{})
	}
	tw.layers.Assign(e, layer)
	return e
}

func (tw *testWorld) wall(center, size r2.Vec) ecs.Entity {
	e := tw.rects.NewEntity(
		&components.Position{X: center.X, Y: center.Y},
		&components.RectCollider{Size: size, Layer: components.LayerWalls},
	)
	tw.track.Add(e, &components.Trackable{})
	tw.obst.Add(e, &components.Obstacle{HalfSize: r2.Scale(0.5, size)})
	tw.layers.Assign(e, components.LayerWalls)
	return e
}

func (tw *testWorld) alien(pos, vel r2.Vec) ecs.Entity {
	e := tw.circle(pos, vel, 15, components.LayerAliens, true)
	tw.aliens.Add(e, &components.Alien{}, &components.Rotation{})
	return e
}

func (tw *testWorld) simulate(e ecs.Entity, mass float64, collide bool) {
	tw.physics.Add(e, &components.Physics{UseCollisions: collide}, &components.Mass{Value: mass})
}

func (tw *testWorld) index(extent float64) *SpatialIndex {
	idx := NewSpatialIndex(tw.w, extent)
	idx.Rebuild()
	return idx
}

func (tw *testWorld) pos(e ecs.Entity) r2.Vec {
	return ecs.NewMap[components.Position](tw.w).Get(e).Vec()
}

func (tw *testWorld) vel(e ecs.Entity) r2.Vec {
	return ecs.NewMap[components.Velocity](tw.w).Get(e).Vec()
}

func near(a, b r2.Vec, tol float64) bool {
	return r2.Norm(r2.Sub(a, b)) <= tol
}
