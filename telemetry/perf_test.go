package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/smoke/sim"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseVelocity)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDensity)
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

	if _, ok := stats.PhaseAvg[PhaseVelocity]; !ok {
		t.Error("expected velocity phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseDensity]; !ok {
		t.Error("expected density phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseVelocity)
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

// recordTicks stores n identical ticks with fixed phase durations.
func recordTicks(pc *PerfCollector, n int, phases map[string]time.Duration) {
	var total time.Duration
	for _, d := range phases {
		total += d
	}
	for i := 0; i < n; i++ {
		pc.record(PerfSample{TickDuration: total, Phases: phases})
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Uneven phase durations
	recordTicks(pc, 5, map[string]time.Duration{
		"fast": 10 * time.Microsecond,
		"slow": 90 * time.Microsecond,
	})

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if math.Abs(slowPct-90) > 1e-6 || math.Abs(fastPct-10) > 1e-6 {
		t.Errorf("expected slow 90%% and fast 10%%, got %v%% and %v%%", slowPct, fastPct)
	}
	if stats.PhaseAvg["slow"] != 90*time.Microsecond {
		t.Errorf("expected slow avg 90us, got %v", stats.PhaseAvg["slow"])
	}
}

func TestPerfCollector_PhasePercentagesMeasured(t *testing.T) {
	pc := NewPerfCollector(10)

	// Sleeps well above timer granularity
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(2 * time.Millisecond)
		pc.StartPhase("slow")
		time.Sleep(20 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
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

func TestPerfCollector_ToCSV(t *testing.T) {
	pc := NewPerfCollector(4)
	recordTicks(pc, 4, map[string]time.Duration{
		PhaseVelocity: 200 * time.Microsecond,
		PhaseDensity:  50 * time.Microsecond,
	})

	row := pc.Stats().ToCSV(288, 6)

	if row.WindowEnd != 288 || row.Threads != 6 {
		t.Errorf("unexpected row identity: window_end=%d threads=%d", row.WindowEnd, row.Threads)
	}
	if row.VelocityPct <= row.DensityPct {
		t.Errorf("expected velocity share (%v) > density share (%v)", row.VelocityPct, row.DensityPct)
	}
	if row.AvgTickUS != 250 {
		t.Errorf("expected avg tick 250us, got %v", row.AvgTickUS)
	}
}

func TestPerfCollector_ImplementsPhaseTimer(t *testing.T) {
	var timer sim.PhaseTimer = NewPerfCollector(1)
	timer.StartPhase(PhasePrepass)
}
