package telemetry

import (
	"sort"

	"github.com/pthm-cable/smoke/fluid"
)

// Source is the read-only view of a simulation the collector samples.
// *sim.Simulation satisfies it.
type Source interface {
	Grid() fluid.Grid
	Density() []float32
	VelocityU() []float32
	VelocityV() []float32
	TotalDensity() float32
	TotalTemperature() float32
	KineticEnergy() float32
	MaxDivergence() float32
	ParticleCount() int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	strokeFrames int
	smokeFrames  int
	pausedFrames int

	// Reused sample buffers
	densBuf  []float64
	speedBuf []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordPointer records one frame of pointer input.
func (c *Collector) RecordPointer(moved, addSmoke bool) {
	if moved {
		c.strokeFrames++
	}
	if addSmoke {
		c.smokeFrames++
	}
}

// RecordPaused records a frame stepped while paused.
func (c *Collector) RecordPaused() {
	c.pausedFrames++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples src, produces a WindowStats and resets counters for the
// next window.
func (c *Collector) Flush(currentTick int32, src Source) WindowStats {
	c.densBuf = densities(c.densBuf, src)
	dens := Summarize(c.densBuf)
	// Summarize leaves the buffer sorted
	smoky := len(c.densBuf) - sort.Search(len(c.densBuf), func(i int) bool {
		return c.densBuf[i] > SmokyThreshold
	})

	c.speedBuf = speeds(c.speedBuf, src)
	speed := Summarize(c.speedBuf)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		StrokeFrames: c.strokeFrames,
		SmokeFrames:  c.smokeFrames,
		PausedFrames: c.pausedFrames,

		TotalDensity:     float64(src.TotalDensity()),
		TotalTemperature: float64(src.TotalTemperature()),
		KineticEnergy:    float64(src.KineticEnergy()),
		MaxDivergence:    float64(src.MaxDivergence()),

		DensityMean: dens.Mean,
		DensityP50:  dens.P50,
		DensityP90:  dens.P90,
		DensityMax:  dens.Max,
		SmokyCells:  smoky,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP90:  speed.P90,
		SpeedMax:  speed.Max,

		Particles: src.ParticleCount(),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.strokeFrames = 0
	c.smokeFrames = 0
	c.pausedFrames = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
