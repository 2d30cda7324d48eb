package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/spatial"
)

// CollisionEvent reports that A's collider overlaps B's. A is always the
// querying entity.
type CollisionEvent struct {
	A, B ecs.Entity
}

// CollisionEvents holds the output of one detection pass. Raw has an entry
// for every overlap found; Unique keeps only the first report of each
// ordered (A, B) pair since the last BeginTick. (A, B) and (B, A) are
// different keys.
type CollisionEvents struct {
	Raw    []CollisionEvent
	Unique []CollisionEvent
}

// CollisionSystem is the narrow phase run after the quadtree broad phase.
type CollisionSystem struct {
	world     *ecs.World
	posMap    *ecs.Map[components.Position]
	circleMap *ecs.Map[components.CircleCollider]
	rectMap   *ecs.Map[components.RectCollider]

	margin     float64
	seen       map[CollisionEvent]struct{}
	candidates []ecs.Entity
	events     CollisionEvents
}

// NewCollisionSystem creates a detector. margin is added to each querying
// radius and must exceed the largest collider radius.
func NewCollisionSystem(w *ecs.World, margin float64) *CollisionSystem {
	return &CollisionSystem{
		world:     w,
		posMap:    ecs.NewMap[components.Position](w),
		circleMap: ecs.NewMap[components.CircleCollider](w),
		rectMap:   ecs.NewMap[components.RectCollider](w),
		margin:    margin,
		seen:      make(map[CollisionEvent]struct{}),
	}
}

// BeginTick forgets which pairs have already been reported.
func (s *CollisionSystem) BeginTick() {
	clear(s.seen)
}

// Detect tests every member of every querying layer against the quadtree.
// The returned slices are reused by the next call.
func (s *CollisionSystem) Detect(tree *spatial.Quadtree[ecs.Entity], layers *LayerTable) CollisionEvents {
	s.events.Raw = s.events.Raw[:0]
	s.events.Unique = s.events.Unique[:0]

	for l := range components.LayerCount {
		layer := components.Layer(l)
		if len(layers.CollidesWith(layer)) == 0 {
			continue
		}
		for _, a := range layers.Members(layer) {
			if !s.world.Alive(a) || !s.posMap.Has(a) || !s.circleMap.Has(a) {
				continue
			}
			pa := s.posMap.Get(a).Vec()
			ca := *s.circleMap.Get(a)

			region := spatial.NewAABB(pa, ca.Radius+s.margin)
			s.candidates = tree.QueryRangeInto(s.candidates[:0], region)
			for _, b := range s.candidates {
				if b == a || !s.world.Alive(b) || !s.posMap.Has(b) {
					continue
				}
				if s.overlaps(layers, layer, ca, pa, b) {
					s.emit(CollisionEvent{A: a, B: b})
				}
			}
		}
	}
	return s.events
}

// overlaps runs the narrow-phase test for candidate b. Candidates without a
// collider, or on a layer a does not test against, never overlap.
func (s *CollisionSystem) overlaps(layers *LayerTable, layer components.Layer, ca components.CircleCollider, pa r2.Vec, b ecs.Entity) bool {
	pb := s.posMap.Get(b).Vec()
	if s.circleMap.Has(b) {
		cb := *s.circleMap.Get(b)
		return layers.Collides(layer, cb.Layer) && CircleCircle(ca, pa, cb, pb)
	}
	if s.rectMap.Has(b) {
		rb := *s.rectMap.Get(b)
		return layers.Collides(layer, rb.Layer) && CircleRect(ca, pa, rb, pb)
	}
	return false
}

func (s *CollisionSystem) emit(ev CollisionEvent) {
	s.events.Raw = append(s.events.Raw, ev)
	if _, dup := s.seen[ev]; dup {
		return
	}
	s.seen[ev] = struct{}{}
	s.events.Unique = append(s.events.Unique, ev)
}

// CircleCircle reports whether two circles overlap or touch.
func CircleCircle(ca components.CircleCollider, pa r2.Vec, cb components.CircleCollider, pb r2.Vec) bool {
	return r2.Norm(r2.Sub(pb, pa)) <= ca.Radius+cb.Radius
}

// CircleRect reports whether a circle overlaps or touches a rectangle.
func CircleRect(c components.CircleCollider, pc r2.Vec, r components.RectCollider, pr r2.Vec) bool {
	return RectSDF(pc, pr, r.HalfSize()) <= c.Radius
}
