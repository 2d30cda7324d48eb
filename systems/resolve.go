package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
)

// CollisionResolver pushes circles out of static rectangles and removes the
// velocity component along the contact normal, so bodies slide along walls
// instead of bouncing.
type CollisionResolver struct {
	world     *ecs.World
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	physMap   *ecs.Map[components.Physics]
	circleMap *ecs.Map[components.CircleCollider]
	rectMap   *ecs.Map[components.RectCollider]

	resolved int
}

// NewCollisionResolver creates a resolver.
func NewCollisionResolver(w *ecs.World) *CollisionResolver {
	return &CollisionResolver{
		world:     w,
		posMap:    ecs.NewMap[components.Position](w),
		velMap:    ecs.NewMap[components.Velocity](w),
		physMap:   ecs.NewMap[components.Physics](w),
		circleMap: ecs.NewMap[components.CircleCollider](w),
		rectMap:   ecs.NewMap[components.RectCollider](w),
	}
}

// Resolve handles every raw event whose A is a colliding circle and whose B
// is a static rectangle. Other pairs are left alone.
func (s *CollisionResolver) Resolve(events []CollisionEvent) {
	s.resolved = 0
	for _, ev := range events {
		if !s.resolvable(ev) {
			continue
		}
		pos := s.posMap.Get(ev.A)
		vel := s.velMap.Get(ev.A)
		radius := s.circleMap.Get(ev.A).Radius
		rectPos := s.posMap.Get(ev.B).Vec()
		half := s.rectMap.Get(ev.B).HalfSize()

		p := pos.Vec()
		contact, inside := NearestPoint(p, rectPos, half)
		normal := r2.Sub(p, contact)
		dist := r2.Norm(normal)
		if dist == 0 {
			// Centre exactly on an edge: push out through the nearest face.
			tl, br := r2.Sub(rectPos, half), r2.Add(rectPos, half)
			normal = faceNormals[nearestFace(p, tl, br)]
		} else {
			normal = r2.Scale(1/dist, normal)
			if inside {
				normal = r2.Scale(-1, normal)
				dist = -dist
			} else if dist > radius {
				// An earlier push already cleared this rect.
				continue
			}
		}

		pos.Set(r2.Add(p, r2.Scale(radius-dist, normal)))
		v := vel.Vec()
		vel.Set(r2.Sub(v, r2.Scale(r2.Dot(normal, v), normal)))
		s.resolved++
	}
}

func (s *CollisionResolver) resolvable(ev CollisionEvent) bool {
	if !s.world.Alive(ev.A) || !s.world.Alive(ev.B) {
		return false
	}
	if !s.physMap.Has(ev.A) || !s.physMap.Get(ev.A).UseCollisions {
		return false
	}
	if !s.posMap.Has(ev.A) || !s.velMap.Has(ev.A) || !s.circleMap.Has(ev.A) {
		return false
	}
	return s.posMap.Has(ev.B) && s.rectMap.Has(ev.B) && !s.circleMap.Has(ev.B)
}

// Resolved returns how many contacts the last Resolve call corrected.
func (s *CollisionResolver) Resolved() int { return s.resolved }
