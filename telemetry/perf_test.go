package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseQuadtree)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDetect)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseQuadtree]; !ok {
		t.Error("expected quadtree phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseDetect]; !ok {
		t.Error("expected detect phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseQuadtree)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(4)

	// Fixed samples keep the arithmetic independent of the scheduler.
	for _, fast := range []time.Duration{100, 300} {
		pc.record(PerfSample{
			TickDuration: 1000 * time.Microsecond,
			Phases: map[string]time.Duration{
				"fast": fast * time.Microsecond,
				"slow": 600 * time.Microsecond,
			},
		})
	}

	stats := pc.Stats()

	tests := []struct {
		phase   string
		wantAvg time.Duration
		wantPct float64
	}{
		{"fast", 200 * time.Microsecond, 20},
		{"slow", 600 * time.Microsecond, 60},
	}
	for _, tt := range tests {
		t.Run(tt.phase, func(t *testing.T) {
			if got := stats.PhaseAvg[tt.phase]; got != tt.wantAvg {
				t.Errorf("PhaseAvg = %v, want %v", got, tt.wantAvg)
			}
			if got := stats.PhasePct[tt.phase]; math.Abs(got-tt.wantPct) > 1e-9 {
				t.Errorf("PhasePct = %v, want %v", got, tt.wantPct)
			}
		})
	}
	if stats.AvgTickDuration != time.Millisecond || stats.TicksPerSecond != 1000 {
		t.Errorf("tick stats = %v / %v, want 1ms / 1000", stats.AvgTickDuration, stats.TicksPerSecond)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			PhaseDetect:   40,
			PhaseFlocking: 35,
		},
	}

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 2000 {
		t.Errorf("unexpected header fields: %+v", row)
	}
	if row.DetectPct != 40 || row.FlockingPct != 35 || row.QuadtreePct != 0 {
		t.Errorf("phase percentages not mapped: %+v", row)
	}
}

func TestPhasesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Phases {
		if seen[p] {
			t.Errorf("phase %q listed twice", p)
		}
		seen[p] = true
	}
}
