package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/config"
	"github.com/pthm-cable/voidswarm/spatial"
)

// turnEpsilon is the cross-product dead zone inside which no turn is made.
const turnEpsilon = 1e-4

// FlockParams holds the flocking radii and weights.
type FlockParams struct {
	Radius           float64
	VisionCone       float64
	SeparationRadius float64
	RotationSpeed    float64
	AvoidRadius      float64
	SearchRadius     float64

	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
	AvoidanceWeight  float64
	TargetWeight     float64
}

// FlockParamsFromConfig copies the boids section of the configuration.
func FlockParamsFromConfig(c config.BoidsConfig) FlockParams {
	return FlockParams{
		Radius:           c.Radius,
		VisionCone:       c.VisionCone,
		SeparationRadius: c.SeparationRadius,
		RotationSpeed:    c.RotationSpeed,
		AvoidRadius:      c.AvoidRadius,
		SearchRadius:     c.SearchRadius,
		SeparationWeight: c.SeparationWeight,
		AlignmentWeight:  c.AlignmentWeight,
		CohesionWeight:   c.CohesionWeight,
		AvoidanceWeight:  c.AvoidanceWeight,
		TargetWeight:     c.TargetWeight,
	}
}

// FlockAccumulator sums the steering contributions for one agent. The sums
// are unbounded: a dense crowd produces larger raw vectors, which the
// weights are tuned against.
type FlockAccumulator struct {
	Separation r2.Vec
	Alignment  r2.Vec
	Cohesion   r2.Vec
	Avoidance  r2.Vec
	Target     r2.Vec
	Neighbors  int
	Breached   bool // agent is inside an obstacle
}

// FlockingResult is the output of one flocking pass.
type FlockingResult struct {
	Despawn   []ecs.Entity // agents found inside an obstacle
	Neighbors []float64    // per-agent neighbour counts, for telemetry
}

// FlockingSystem steers aliens with separation, alignment, cohesion,
// obstacle avoidance and target seeking.
type FlockingSystem struct {
	world  *ecs.World
	params FlockParams

	filter      *ecs.Filter3[components.Position, components.Velocity, components.Alien]
	posMap      *ecs.Map[components.Position]
	velMap      *ecs.Map[components.Velocity]
	alienMap    *ecs.Map[components.Alien]
	obstacleMap *ecs.Map[components.Obstacle]

	target    ecs.Entity
	hasTarget bool

	order      []ecs.Entity
	acc        map[ecs.Entity]FlockAccumulator
	candidates []ecs.Entity
}

// NewFlockingSystem creates a flocking system.
func NewFlockingSystem(w *ecs.World, params FlockParams) *FlockingSystem {
	return &FlockingSystem{
		world:       w,
		params:      params,
		filter:      ecs.NewFilter3[components.Position, components.Velocity, components.Alien](w),
		posMap:      ecs.NewMap[components.Position](w),
		velMap:      ecs.NewMap[components.Velocity](w),
		alienMap:    ecs.NewMap[components.Alien](w),
		obstacleMap: ecs.NewMap[components.Obstacle](w),
		acc:         make(map[ecs.Entity]FlockAccumulator),
	}
}

// SetTarget sets the entity every agent seeks.
func (s *FlockingSystem) SetTarget(e ecs.Entity) {
	s.target, s.hasTarget = e, true
}

// ClearTarget stops target seeking.
func (s *FlockingSystem) ClearTarget() { s.hasTarget = false }

// SetParams replaces the flocking parameters.
func (s *FlockingSystem) SetParams(p FlockParams) { s.params = p }

// Accumulator returns the contributions gathered for e by the last Update.
func (s *FlockingSystem) Accumulator(e ecs.Entity) (FlockAccumulator, bool) {
	a, ok := s.acc[e]
	return a, ok
}

// Update runs both flocking passes. Every accumulator is computed from the
// velocities at the start of the call before any agent is turned.
func (s *FlockingSystem) Update(tree *spatial.Quadtree[ecs.Entity], dt float64) FlockingResult {
	var result FlockingResult

	s.order = s.order[:0]
	clear(s.acc)
	query := s.filter.Query()
	for query.Next() {
		s.order = append(s.order, query.Entity())
	}

	var targetPos r2.Vec
	seek := s.hasTarget && s.world.Alive(s.target) && s.posMap.Has(s.target)
	if seek {
		targetPos = s.posMap.Get(s.target).Vec()
	}

	for _, e := range s.order {
		acc := s.accumulate(tree, e)
		if seek && !acc.Breached {
			acc.Target = s.seekTarget(e, targetPos)
		}
		s.acc[e] = acc
		if acc.Breached {
			result.Despawn = append(result.Despawn, e)
			continue
		}
		result.Neighbors = append(result.Neighbors, float64(acc.Neighbors))
	}

	angle := dt * s.params.RotationSpeed
	for _, e := range s.order {
		acc := s.acc[e]
		if acc.Breached {
			continue
		}
		vel := s.velMap.Get(e)
		vel.Set(TurnTowards(s.desired(acc), vel.Vec(), angle))
	}
	return result
}

func (s *FlockingSystem) accumulate(tree *spatial.Quadtree[ecs.Entity], e ecs.Entity) FlockAccumulator {
	var acc FlockAccumulator
	p := s.params
	pos := s.posMap.Get(e).Vec()
	heading := s.velMap.Get(e).Vec()

	s.candidates = tree.QueryRangeInto(s.candidates[:0], spatial.NewAABB(pos, p.Radius))
	for _, other := range s.candidates {
		if other == e || !s.world.Alive(other) || !s.posMap.Has(other) {
			continue
		}
		otherPos := s.posMap.Get(other).Vec()
		dir := r2.Sub(otherPos, pos)

		if s.obstacleMap.Has(other) {
			d := RectSDF(pos, otherPos, s.obstacleMap.Get(other).HalfSize)
			if d < 0 {
				acc.Breached = true
				return acc
			}
			if d <= p.AvoidRadius && InView(heading, dir, p.VisionCone) {
				acc.Avoidance = r2.Add(acc.Avoidance, r2.Scale(1-clamp01(d/p.AvoidRadius), unit0(dir)))
			}
			continue
		}

		if !s.alienMap.Has(other) || !s.velMap.Has(other) {
			continue
		}
		dist := r2.Norm(dir)
		if dist > p.Radius || !InView(heading, dir, p.VisionCone) {
			continue
		}
		acc.Neighbors++
		acc.Separation = r2.Add(acc.Separation, r2.Scale(1-clamp01(dist/p.SeparationRadius), unit0(dir)))
		acc.Alignment = r2.Add(acc.Alignment, s.velMap.Get(other).Vec())
		acc.Cohesion = r2.Add(acc.Cohesion, dir)
	}
	return acc
}

// seekTarget pulls harder the closer the target is.
func (s *FlockingSystem) seekTarget(e ecs.Entity, targetPos r2.Vec) r2.Vec {
	pos := s.posMap.Get(e).Vec()
	dir := r2.Sub(targetPos, pos)
	dist := r2.Norm(dir)
	if dist >= s.params.SearchRadius || !InView(s.velMap.Get(e).Vec(), dir, s.params.VisionCone) {
		return r2.Vec{}
	}
	closeness := clamp01(dist / s.params.SearchRadius)
	if closeness == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/closeness, unit0(dir))
}

func (s *FlockingSystem) desired(acc FlockAccumulator) r2.Vec {
	p := s.params
	d := r2.Scale(-p.SeparationWeight, unit0(acc.Separation))
	d = r2.Add(d, r2.Scale(p.AlignmentWeight, unit0(acc.Alignment)))
	d = r2.Add(d, r2.Scale(p.CohesionWeight, unit0(acc.Cohesion)))
	d = r2.Sub(d, r2.Scale(p.AvoidanceWeight, acc.Avoidance))
	return r2.Add(d, r2.Scale(p.TargetWeight, unit0(acc.Target)))
}

// TurnTowards rotates heading by at most angle radians towards desired,
// keeping its length. If the rotation overshoots, heading snaps onto the
// desired direction.
func TurnTowards(desired, heading r2.Vec, angle float64) r2.Vec {
	if r2.Norm(desired) == 0 {
		return heading
	}
	want := unit0(desired)
	z := r2.Cross(want, unit0(heading))

	var turn float64
	switch {
	case z > turnEpsilon:
		turn = -angle
	case z < -turnEpsilon:
		turn = angle
	default:
		return heading
	}

	turned := rotate(heading, turn)
	if after := r2.Cross(want, unit0(turned)); math.Signbit(after) != math.Signbit(z) {
		return r2.Scale(r2.Norm(heading), want)
	}
	return turned
}

// OrientToVelocity points every alien's rotation along its velocity.
type OrientToVelocity struct {
	filter *ecs.Filter3[components.Rotation, components.Velocity, components.Alien]
}

// NewOrientToVelocity creates the orientation system.
func NewOrientToVelocity(w *ecs.World) *OrientToVelocity {
	return &OrientToVelocity{
		filter: ecs.NewFilter3[components.Rotation, components.Velocity, components.Alien](w),
	}
}

// Update sets Rotation.Angle from the velocity direction. Stationary
// entities keep their angle.
func (s *OrientToVelocity) Update() {
	query := s.filter.Query()
	for query.Next() {
		rot, vel, _ := query.Get()
		if vel.X == 0 && vel.Y == 0 {
			continue
		}
		rot.Angle = math.Atan2(vel.Y, vel.X)
	}
}
