package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/voidswarm/components"
	"github.com/pthm-cable/voidswarm/config"
)

func testFlockParams() FlockParams {
	return FlockParamsFromConfig(config.Default().Boids)
}

// ---------- Accumulation ----------

func TestFlockingIgnoresNeighbourBehind(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	front := tw.alien(r2.Vec{X: 500, Y: 500}, r2.Vec{Y: 100})
	behind := tw.alien(r2.Vec{X: 500, Y: 490}, r2.Vec{Y: 100})

	fs := NewFlockingSystem(tw.w, testFlockParams())
	fs.Update(tw.index(1000).Tree(), 0)

	acc, ok := fs.Accumulator(front)
	if !ok {
		t.Fatal("no accumulator for front agent")
	}
	if acc.Neighbors != 0 {
		t.Errorf("front agent counted %d neighbours, want 0", acc.Neighbors)
	}
	if acc.Separation != (r2.Vec{}) || acc.Cohesion != (r2.Vec{}) {
		t.Errorf("agent behind contributed: %+v", acc)
	}

	acc, _ = fs.Accumulator(behind)
	if acc.Neighbors != 1 {
		t.Errorf("rear agent counted %d neighbours, want 1", acc.Neighbors)
	}
}

func TestFlockingAccumulatesAheadNeighbour(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	a := tw.alien(r2.Vec{X: 500, Y: 500}, r2.Vec{X: 100})
	tw.alien(r2.Vec{X: 535, Y: 500}, r2.Vec{Y: 100})

	p := testFlockParams()
	fs := NewFlockingSystem(tw.w, p)
	fs.Update(tw.index(1000).Tree(), 0)

	acc, _ := fs.Accumulator(a)
	if acc.Neighbors != 1 {
		t.Fatalf("neighbours = %d, want 1", acc.Neighbors)
	}
	wantSep := r2.Vec{X: 1 - 35/p.SeparationRadius}
	if !near(acc.Separation, wantSep, 1e-9) {
		t.Errorf("separation = %v, want %v", acc.Separation, wantSep)
	}
	if !near(acc.Alignment, r2.Vec{Y: 100}, 1e-9) {
		t.Errorf("alignment = %v, want neighbour velocity", acc.Alignment)
	}
	if !near(acc.Cohesion, r2.Vec{X: 35}, 1e-9) {
		t.Errorf("cohesion = %v, want relative position", acc.Cohesion)
	}
}

func TestFlockingDespawnsAgentsInsideWalls(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	trapped := tw.alien(r2.Vec{X: 300, Y: 300}, r2.Vec{X: 100})
	tw.wall(r2.Vec{X: 300, Y: 300}, r2.Vec{X: 50, Y: 50})
	free := tw.alien(r2.Vec{X: 700, Y: 700}, r2.Vec{X: 100})

	fs := NewFlockingSystem(tw.w, testFlockParams())
	result := fs.Update(tw.index(1000).Tree(), 0.1)

	if len(result.Despawn) != 1 || result.Despawn[0] != trapped {
		t.Fatalf("despawn = %v, want [%v]", result.Despawn, trapped)
	}
	if len(result.Neighbors) != 1 {
		t.Errorf("neighbour samples = %d, want 1 (free agent only)", len(result.Neighbors))
	}
	if acc, _ := fs.Accumulator(free); acc.Breached {
		t.Error("free agent marked as breached")
	}
}

func TestFlockingAvoidsWallAhead(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	a := tw.alien(r2.Vec{X: 300, Y: 300}, r2.Vec{X: 100})
	tw.wall(r2.Vec{X: 375, Y: 300}, r2.Vec{X: 50, Y: 50})

	fs := NewFlockingSystem(tw.w, testFlockParams())
	fs.Update(tw.index(1000).Tree(), 0)

	acc, _ := fs.Accumulator(a)
	if acc.Avoidance.X <= 0 {
		t.Errorf("expected avoidance towards the wall to be recorded, got %v", acc.Avoidance)
	}
}

func TestFlockingSeeksTarget(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	a := tw.alien(r2.Vec{X: 500, Y: 500}, r2.Vec{X: 100})
	ship := tw.circle(r2.Vec{X: 600, Y: 500}, r2.Vec{}, 15, components.LayerShip, false)

	p := testFlockParams()
	fs := NewFlockingSystem(tw.w, p)
	fs.SetTarget(ship)
	fs.Update(tw.index(1000).Tree(), 0)

	acc, _ := fs.Accumulator(a)
	want := r2.Vec{X: p.SearchRadius / 100}
	if !near(acc.Target, want, 1e-9) {
		t.Errorf("target pull = %v, want %v", acc.Target, want)
	}

	fs.ClearTarget()
	fs.Update(tw.index(1000).Tree(), 0)
	acc, _ = fs.Accumulator(a)
	if acc.Target != (r2.Vec{}) {
		t.Errorf("target pull after ClearTarget = %v", acc.Target)
	}
}

func TestFlockingKeepsSpeed(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	a := tw.alien(r2.Vec{X: 500, Y: 500}, r2.Vec{X: 100})
	tw.alien(r2.Vec{X: 530, Y: 520}, r2.Vec{Y: 100})

	fs := NewFlockingSystem(tw.w, testFlockParams())
	fs.Update(tw.index(1000).Tree(), 1.0/60)

	if speed := r2.Norm(tw.vel(a)); math.Abs(speed-100) > 1e-9 {
		t.Errorf("speed = %v, want 100", speed)
	}
	if tw.vel(a) == (r2.Vec{X: 100}) {
		t.Error("agent with a neighbour did not turn")
	}
}

// ---------- Turning ----------

func TestTurnTowards(t *testing.T) {
	tests := []struct {
		name    string
		desired r2.Vec
		heading r2.Vec
		angle   float64
		want    r2.Vec
	}{
		{"no desire", r2.Vec{}, r2.Vec{X: 3}, 0.1, r2.Vec{X: 3}},
		{"turn counter-clockwise", r2.Vec{Y: 1}, r2.Vec{X: 3}, 0.1, r2.Vec{X: 3 * math.Cos(0.1), Y: 3 * math.Sin(0.1)}},
		{"turn clockwise", r2.Vec{Y: -1}, r2.Vec{X: 3}, 0.1, r2.Vec{X: 3 * math.Cos(0.1), Y: -3 * math.Sin(0.1)}},
		{"snap on overshoot", r2.Vec{X: 1, Y: 1}, r2.Vec{X: 2}, 1, r2.Vec{X: math.Sqrt2, Y: math.Sqrt2}},
		{"anti-parallel holds course", r2.Vec{X: -1}, r2.Vec{X: 2}, 0.5, r2.Vec{X: 2}},
		{"already aligned", r2.Vec{X: 5}, r2.Vec{X: 2}, 0.5, r2.Vec{X: 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TurnTowards(tc.desired, tc.heading, tc.angle)
			if !near(got, tc.want, 1e-9) {
				t.Errorf("TurnTowards(%v, %v, %v) = %v, want %v", tc.desired, tc.heading, tc.angle, got, tc.want)
			}
		})
	}
}

func TestOrientToVelocity(t *testing.T) {
	tw := newTestWorld(DefaultLayerMatrix())
	moving := tw.alien(r2.Vec{X: 10, Y: 10}, r2.Vec{Y: 5})
	still := tw.alien(r2.Vec{X: 20, Y: 20}, r2.Vec{})
	rotMap := ecs.NewMap[components.Rotation](tw.w)
	rotMap.Get(still).Angle = 1.25

	NewOrientToVelocity(tw.w).Update()

	if got := rotMap.Get(moving).Angle; math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("moving angle = %v, want pi/2", got)
	}
	if got := rotMap.Get(still).Angle; got != 1.25 {
		t.Errorf("stationary angle changed to %v", got)
	}
}
