package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/smoke/config"
	"github.com/pthm-cable/smoke/sim"
	"github.com/pthm-cable/smoke/telemetry"
)

func init() {
	config.MustInit("")
}

// smallConfig returns the defaults on a 32x24 grid.
func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Derived.GridW = 32
	cfg.Derived.GridH = 24
	return cfg
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Config == nil {
		opts.Config = smallConfig(t)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestHeadlessRunWritesTelemetry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var windows []telemetry.WindowStats

	s := newTestSession(t, Options{
		Seed:           7,
		StatsWindowSec: 0.1,
		OutputDir:      dir,
		ThreadCount:    2,
		StatsCallback:  func(w telemetry.WindowStats) { windows = append(windows, w) },
	})

	for i := 0; i < 30; i++ {
		s.UpdateScripted()
	}
	if s.Tick() != 30 {
		t.Fatalf("expected 30 ticks, got %d", s.Tick())
	}
	if s.Sim().Threads() != 2 {
		t.Errorf("expected thread override 2, got %d", s.Sim().Threads())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// 0.1s at 1/144s per tick is 14 ticks per window
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	w := windows[0]
	if w.WindowEndTick != 14 || w.StrokeFrames != 14 || w.SmokeFrames != 14 {
		t.Errorf("unexpected first window: %+v", w)
	}
	if w.TotalDensity <= 0 {
		t.Error("expected the orbit to inject smoke")
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("expected header + 2 rows, got %d lines", len(lines))
	}
	for _, name := range []string{"perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestIdleScriptInjectsNothing(t *testing.T) {
	s := newTestSession(t, Options{Script: Idle})
	defer s.Close()

	for i := 0; i < 20; i++ {
		s.UpdateScripted()
	}
	if d := s.Sim().TotalDensity(); d != 0 {
		t.Errorf("expected no density, got %v", d)
	}
}

func TestPausedStepsAreCounted(t *testing.T) {
	var windows []telemetry.WindowStats
	s := newTestSession(t, Options{
		StatsWindowSec: 0.1,
		Script:         Idle,
		StatsCallback:  func(w telemetry.WindowStats) { windows = append(windows, w) },
	})
	defer s.Close()

	s.Sim().Paused = true
	for i := 0; i < 14; i++ {
		s.UpdateScripted()
	}
	if len(windows) != 1 || windows[0].PausedFrames != 14 {
		t.Fatalf("expected one window with 14 paused frames, got %+v", windows)
	}
	if s.Sim().Frame() != 0 {
		t.Errorf("paused steps should not advance frames, got %d", s.Sim().Frame())
	}
}

func TestStepsPerUpdate(t *testing.T) {
	s := newTestSession(t, Options{StepsPerUpdate: 3})
	defer s.Close()

	s.Update(sim.Pointer{Prev: sim.Vec2{X: 10, Y: 10}, Cur: sim.Vec2{X: 40, Y: 10}, AddSmoke: true})
	if s.Tick() != 3 {
		t.Errorf("expected 3 ticks, got %d", s.Tick())
	}

	s.SetStepsPerUpdate(50)
	if s.StepsPerUpdate() != 10 {
		t.Errorf("expected clamp to 10, got %d", s.StepsPerUpdate())
	}
	s.SetStepsPerUpdate(0)
	if s.StepsPerUpdate() != 1 {
		t.Errorf("expected clamp to 1, got %d", s.StepsPerUpdate())
	}
}

func TestPerfRecordsPhases(t *testing.T) {
	s := newTestSession(t, Options{})
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.UpdateScripted()
	}
	stats := s.Perf().Stats()
	for _, phase := range []string{telemetry.PhaseVelocity, telemetry.PhaseDensity, telemetry.PhaseTelemetry} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("missing phase %q in %v", phase, stats.PhaseAvg)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Derived.GridW = 0
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatal("expected error for empty grid")
	}
}
