package telemetry

import (
	"math"
	"testing"
)

func TestComputeNeighborStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, std, p50, p90 := ComputeNeighborStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", std)
	}
	if p50 != 5 {
		t.Errorf("p50 = %v, want 5", p50)
	}
	if p90 != 9 {
		t.Errorf("p90 = %v, want 9", p90)
	}
	if values[0] != 10 {
		t.Error("input slice was reordered")
	}
}

func TestComputeNeighborStatsSmallInputs(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p50, _ := ComputeNeighborStats(tt.values)
			if mean != tt.wantMean || std != 0 || p50 != tt.wantMean {
				t.Errorf("got mean=%v std=%v p50=%v", mean, std, p50)
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}

	c.RecordCollisions(5, 3, 1)
	c.RecordCollisions(2, 2, 0)
	c.RecordProjectileFired()
	c.RecordProjectileFired()
	c.RecordProjectileHit()
	c.RecordShipDamage(5)
	c.RecordTunneling(4)
	c.RecordDespawn("boundary")
	c.RecordDespawn("boundary")
	c.RecordDespawn("projectile_hit")
	c.RecordDespawn("bogus")

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) = false at window end")
	}

	ws := c.Flush(10, Gauges{Aliens: 42, ShipHealth: 50, ShipHealthMax: 100, ShipAlive: true})
	if ws.RawCollisions != 7 || ws.UniqueCollisions != 5 || ws.WallsResolved != 1 {
		t.Errorf("collision counters = %d/%d/%d, want 7/5/1", ws.RawCollisions, ws.UniqueCollisions, ws.WallsResolved)
	}
	if ws.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", ws.HitRate)
	}
	if ws.ShipHealthFrac != 0.5 || ws.Aliens != 42 || ws.TunnelingDespawns != 4 {
		t.Errorf("unexpected gauges: %+v", ws)
	}
	if math.Abs(ws.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 1", ws.SimTimeSec)
	}

	want := DespawnCounts{WindowEnd: 10, Boundary: 2, ProjectileHit: 1, Other: 1}
	if ws.Despawns != want {
		t.Errorf("Despawns = %+v, want %+v", ws.Despawns, want)
	}
	if ws.Despawns.Total() != 4 {
		t.Errorf("Despawns.Total() = %d, want 4", ws.Despawns.Total())
	}

	next := c.Flush(20, Gauges{})
	if next.RawCollisions != 0 || next.ProjectilesFired != 0 || next.WindowStartTick != 10 || next.Despawns.Total() != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
