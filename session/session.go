// Package session runs a simulation tick by tick with telemetry attached.
// It has no graphics dependency, so the viewer, the headless runner and the
// thread sweep share it.
package session

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/smoke/config"
	"github.com/pthm-cable/smoke/sim"
	"github.com/pthm-cable/smoke/telemetry"
)

// Options configures a session.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = config telemetry.stats_window
	OutputDir      string  // empty disables CSV output
	StepsPerUpdate int
	ThreadCount    int            // > 0 overrides physics.thread_count
	Config         *config.Config // nil = config.Cfg()
	Script         Script         // nil = DefaultOrbit over the world

	// StatsCallback, when set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Session owns a simulation and its telemetry.
type Session struct {
	cfg    *config.Config
	sim    *sim.Simulation
	dt     float32
	tick   int32
	script Script

	stepsPerUpdate int

	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New builds the simulation described by opts and opens its output files.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	simCfg := sim.ConfigFrom(cfg)
	simCfg.Seed = opts.Seed
	if opts.ThreadCount > 0 {
		simCfg.ThreadCount = opts.ThreadCount
	}
	s, err := sim.New(simCfg)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		s.Close()
		output.Close()
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	script := opts.Script
	if script == nil {
		cs := simCfg.CellSize
		script = DefaultOrbit(float32(simCfg.Width)*cs, float32(simCfg.Height)*cs, cfg.Derived.DT32)
	}

	ss := &Session{
		cfg:            cfg,
		sim:            s,
		dt:             cfg.Derived.DT32,
		script:         script,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		bookmarks:      telemetry.NewBookmarkDetector(10),
		output:         output,
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}
	s.Timer = ss.perf
	return ss, nil
}

// Sim returns the simulation.
func (s *Session) Sim() *sim.Simulation { return s.sim }

// Config returns the configuration the session was built from.
func (s *Session) Config() *config.Config { return s.cfg }

// Tick returns the number of steps taken, paused or not.
func (s *Session) Tick() int32 { return s.tick }

// Perf returns the step timing collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perf }

// StepsPerUpdate returns how many steps Update and UpdateScripted take.
func (s *Session) StepsPerUpdate() int { return s.stepsPerUpdate }

// SetStepsPerUpdate changes the steps per update, clamped to [1, 10].
func (s *Session) SetStepsPerUpdate(n int) {
	s.stepsPerUpdate = min(max(n, 1), 10)
}

// Update takes StepsPerUpdate steps. The pointer segment goes to the first
// step only; later steps see the pointer at rest.
func (s *Session) Update(ptr sim.Pointer) {
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.Step(ptr)
		ptr = sim.Pointer{Prev: ptr.Cur, Cur: ptr.Cur, AddSmoke: ptr.AddSmoke}
	}
}

// UpdateScripted takes StepsPerUpdate steps driven by the script.
func (s *Session) UpdateScripted() {
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.Step(s.script.Pointer(s.tick))
	}
}

// Step advances the simulation once and records telemetry.
func (s *Session) Step(ptr sim.Pointer) {
	s.perf.StartTick()
	s.sim.Step(s.dt, ptr)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	if s.sim.Paused {
		s.collector.RecordPaused()
	} else {
		s.collector.RecordPointer(ptr.Moved(), ptr.AddSmoke)
	}
	s.tick++
	s.flushTelemetry()
	s.perf.EndTick()
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sim)
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		slog.Info("perf", "threads", s.sim.Threads(), "stats", perfStats)
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick, s.sim.Threads()); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// Close stops the simulation workers and closes output files.
func (s *Session) Close() error {
	s.sim.Close()
	return s.output.Close()
}
