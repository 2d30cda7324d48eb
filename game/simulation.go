package game

import (
	"github.com/pthm-cable/voidswarm/systems"
	"github.com/pthm-cable/voidswarm/telemetry"
)

// Update advances the simulation by one frame of frameDT seconds: as many
// fixed physics ticks as the accumulated time allows, capped at
// physics.max_steps_per_frame, then one logic phase with frameDT.
func (g *Game) Update(frameDT float64) {
	cfg := g.config()
	fixed := cfg.Physics.FixedDT

	g.perfCollector.RecordFrame()
	g.perfCollector.StartTick()
	g.resetOutputs()

	g.accumulator += frameDT
	for g.accumulator >= fixed && g.out.PhysicsTicks < cfg.Physics.MaxStepsPerFrame {
		g.physicsTick(fixed)
		g.accumulator -= fixed
		g.out.PhysicsTicks++
	}
	// Drop time the cap would carry over, or a slow frame never recovers.
	if g.accumulator >= fixed {
		g.accumulator = 0
	}

	g.logicPhase(frameDT)
	g.perfCollector.EndTick()
}

// UpdateHeadless runs one frame of physics.logic_dt seconds.
func (g *Game) UpdateHeadless() {
	g.Update(g.config().Physics.LogicDT)
}

// physicsTick runs one fixed step in strict order.
func (g *Game) physicsTick(dt float64) {
	g.collisions.BeginTick()

	g.perfCollector.StartPhase(telemetry.PhaseQuadtree)
	g.index.Rebuild()

	g.perfCollector.StartPhase(telemetry.PhaseImpulses)
	g.physics.ApplyImpulses(&g.impulses)

	g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	g.physics.Integrate(dt)

	g.perfCollector.StartPhase(telemetry.PhaseDetect)
	events := g.collisions.Detect(g.index.Tree(), g.layers)
	g.out.RawCollisions = append(g.out.RawCollisions, events.Raw...)
	g.out.UniqueCollisions = append(g.out.UniqueCollisions, events.Unique...)

	g.perfCollector.StartPhase(telemetry.PhaseResolve)
	g.resolver.Resolve(events.Raw)
	g.collector.RecordCollisions(len(events.Raw), len(events.Unique), g.resolver.Resolved())

	g.perfCollector.StartPhase(telemetry.PhaseDespawn)
	g.flushDespawns()

	g.tick++
	g.simTime += dt
}

// logicPhase runs the variable-step systems once per frame.
func (g *Game) logicPhase(dt float64) {
	g.perfCollector.StartPhase(telemetry.PhaseFlocking)
	g.updateFlocking(dt)
	g.orient.Update()
	g.wrapWorld()

	g.perfCollector.StartPhase(telemetry.PhaseGameplay)
	g.applyCollisionRules()
	g.expireProjectiles()
	if g.config().Shield.Enabled {
		g.healthChanges = append(g.healthChanges, g.health.Recharge(g.simTime, dt)...)
	}

	g.perfCollector.StartPhase(telemetry.PhaseHealth)
	runouts := g.health.Apply(g.healthChanges, g.simTime)
	g.healthChanges = g.healthChanges[:0]
	g.out.Runouts = append(g.out.Runouts, runouts...)
	g.handleRunouts(runouts)

	g.perfCollector.StartPhase(telemetry.PhaseDespawn)
	g.flushDespawns()
	g.flushSpawns()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// updateFlocking steers aliens and removes any found inside a wall.
func (g *Game) updateFlocking(dt float64) {
	result := g.flocking.Update(g.index.Tree(), dt)
	for _, e := range result.Despawn {
		g.queueDespawn(e, ReasonBoundary)
	}
	if n := len(result.Despawn); n > 0 {
		g.collector.RecordTunneling(n)
	}
	g.lastNeighbors = append(g.lastNeighbors[:0], result.Neighbors...)
}

// wrapWorld keeps the ship and aliens inside [0, extent).
func (g *Game) wrapWorld() {
	extent := g.config().World.Extent

	query := g.alienWrap.Query()
	for query.Next() {
		pos, _ := query.Get()
		pos.Set(systems.WrapPosition(pos.Vec(), extent))
	}

	shipQuery := g.shipWrap.Query()
	for shipQuery.Next() {
		pos, _ := shipQuery.Get()
		pos.Set(systems.WrapPosition(pos.Vec(), extent))
	}
}
