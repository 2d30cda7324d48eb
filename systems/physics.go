package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
)

// Impulse is a momentum change for one entity. Value is Δv scaled by the
// mass it was computed with; the receiver divides by its own mass.
type Impulse struct {
	Entity ecs.Entity
	Value  r2.Vec
}

// NewImpulse returns the impulse that changes the velocity of a body of
// the given mass by dv.
func NewImpulse(e ecs.Entity, dv r2.Vec, mass float64) Impulse {
	return Impulse{Entity: e, Value: r2.Scale(mass, dv)}
}

// ImpulseQueue collects impulses between physics ticks.
type ImpulseQueue struct {
	pending []Impulse
}

// Push queues an impulse for the next application pass.
func (q *ImpulseQueue) Push(imp Impulse) {
	q.pending = append(q.pending, imp)
}

// Len returns the number of queued impulses.
func (q *ImpulseQueue) Len() int { return len(q.pending) }

// Drain returns the queued impulses and empties the queue. The returned
// slice is only valid until the next Push.
func (q *ImpulseQueue) Drain() []Impulse {
	out := q.pending
	q.pending = q.pending[:0]
	return out
}

// PhysicsSystem integrates accelerations and velocities and applies impulses.
type PhysicsSystem struct {
	world *ecs.World

	accelFilter *ecs.Filter4[components.Position, components.Velocity, components.Acceleration, components.Physics]
	velFilter   *ecs.Filter3[components.Position, components.Velocity, components.Physics]

	accMap  *ecs.Map[components.Acceleration]
	rotMap  *ecs.Map[components.Rotation]
	velMap  *ecs.Map[components.Velocity]
	massMap *ecs.Map[components.Mass]
	physMap *ecs.Map[components.Physics]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		world:       w,
		accelFilter: ecs.NewFilter4[components.Position, components.Velocity, components.Acceleration, components.Physics](w),
		velFilter:   ecs.NewFilter3[components.Position, components.Velocity, components.Physics](w),
		accMap:      ecs.NewMap[components.Acceleration](w),
		rotMap:      ecs.NewMap[components.Rotation](w),
		velMap:      ecs.NewMap[components.Velocity](w),
		massMap:     ecs.NewMap[components.Mass](w),
		physMap:     ecs.NewMap[components.Physics](w),
	}
}

// Integrate advances every simulated entity by dt.
//
// Entities with an acceleration use constant-acceleration kinematics,
// s = v·dt + ½·a·dt², rotating the acceleration into world space first when
// it is local. Entities with only a velocity move by v·dt.
func (s *PhysicsSystem) Integrate(dt float64) {
	query := s.accelFilter.Query()
	for query.Next() {
		pos, vel, acc, _ := query.Get()
		a := acc.Vec()
		if acc.Local {
			e := query.Entity()
			if s.rotMap.Has(e) {
				a = rotate(a, s.rotMap.Get(e).Angle)
			}
		}
		v := vel.Vec()
		disp := r2.Add(r2.Scale(dt, v), r2.Scale(0.5*dt*dt, a))
		vel.Set(r2.Add(v, r2.Scale(dt, a)))
		pos.Set(r2.Add(pos.Vec(), disp))
	}

	vq := s.velFilter.Query()
	for vq.Next() {
		if s.accMap.Has(vq.Entity()) {
			continue
		}
		pos, vel, _ := vq.Get()
		pos.Set(r2.Add(pos.Vec(), r2.Scale(dt, vel.Vec())))
	}
}

// ApplyImpulses drains the queue into velocities. Impulses for dead
// entities, or entities without physics, velocity or a positive mass, are
// discarded. It returns how many were applied.
func (s *PhysicsSystem) ApplyImpulses(q *ImpulseQueue) int {
	applied := 0
	for _, imp := range q.Drain() {
		e := imp.Entity
		if !s.world.Alive(e) || !s.physMap.Has(e) || !s.velMap.Has(e) || !s.massMap.Has(e) {
			continue
		}
		mass := s.massMap.Get(e).Value
		if mass <= 0 {
			continue
		}
		vel := s.velMap.Get(e)
		vel.Set(r2.Add(vel.Vec(), r2.Scale(1/mass, imp.Value)))
		applied++
	}
	return applied
}
