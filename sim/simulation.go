// Package sim advances the smoke simulation one fixed step at a time.
// It owns the fluid fields and tracer particles and exposes them read-only
// to renderers and telemetry.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/smoke/config"
	"github.com/pthm-cable/smoke/fluid"
)

// ErrInvalidConfig is wrapped by every configuration error returned from New.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Phase names reported to a PhaseTimer during Step.
const (
	PhasePrepass     = "prepass"
	PhaseInput       = "input"
	PhaseVelocity    = "velocity"
	PhaseDensity     = "density"
	PhaseTemperature = "temperature"
	PhaseParticles   = "particles"
)

// PhaseTimer receives phase boundaries during Step.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Vec2 is a 2D vector in pixel space.
type Vec2 struct {
	X, Y float32
}

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Len returns the Euclidean length of a.
func (a Vec2) Len() float32 {
	return float32(math.Sqrt(float64(a.X*a.X + a.Y*a.Y)))
}

// Pointer is the pointer segment swept since the previous step, in pixels.
type Pointer struct {
	Prev, Cur Vec2
	AddSmoke  bool
}

// Moved reports whether the pointer changed position.
func (p Pointer) Moved() bool { return p.Prev != p.Cur }

// Config holds everything the simulation reads at construction.
// Input lengths are in cells; particle lengths are in pixels.
type Config struct {
	Width, Height int
	CellSize      float32
	ThreadCount   int // 0 = GOMAXPROCS

	Viscosity            float32
	Diffusion            float32
	TemperatureDiffusion float32
	VelocityMultiplier   float32
	VelocityDecay        float32
	DensityDecay         float32
	TemperatureDecay     float32
	Buoyancy             float32

	LineThickness     float32
	FadeRange         float32
	TargetDensity     float32
	CursorTemperature float32
	MouseForce        float32

	ParticlesEnabled bool
	ParticleLifetime float64 // seconds
	ParticleDrag     float32
	ParticleMaxSpeed float32
	SpawnPerPixel    float32
	SpawnJitter      float32
	MaxParticles     int

	Seed int64
}

// ConfigFrom builds a simulation config from the loaded YAML configuration.
func ConfigFrom(c *config.Config) Config {
	return Config{
		Width:       c.Derived.GridW,
		Height:      c.Derived.GridH,
		CellSize:    float32(c.Grid.CellSize),
		ThreadCount: c.Physics.ThreadCount,

		Viscosity:            float32(c.Fluid.Viscosity),
		Diffusion:            float32(c.Fluid.Diffusion),
		TemperatureDiffusion: float32(c.Fluid.TemperatureDiffusion),
		VelocityMultiplier:   float32(c.Fluid.VelocityMultiplier),
		VelocityDecay:        float32(c.Fluid.VelocityDecay),
		DensityDecay:         float32(c.Fluid.DensityDecay),
		TemperatureDecay:     float32(c.Fluid.TemperatureDecay),
		Buoyancy:             float32(c.Fluid.Buoyancy),

		LineThickness:     float32(c.Input.LineThickness),
		FadeRange:         float32(c.Input.FadeRange),
		TargetDensity:     float32(c.Input.TargetDensity),
		CursorTemperature: float32(c.Input.CursorTemperature),
		MouseForce:        float32(c.Input.MouseForce),

		ParticlesEnabled: c.Particles.Enabled,
		ParticleLifetime: c.Particles.Lifetime,
		ParticleDrag:     float32(c.Particles.Drag),
		ParticleMaxSpeed: float32(c.Particles.MaxSpeed),
		SpawnPerPixel:    float32(c.Particles.SpawnPerPixel),
		SpawnJitter:      float32(c.Particles.SpawnJitter),
		MaxParticles:     c.Particles.MaxParticles,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("grid %dx%d must be at least 1x1: %w", c.Width, c.Height, ErrInvalidConfig)
	case c.CellSize <= 0:
		return fmt.Errorf("cell size %v must be positive: %w", c.CellSize, ErrInvalidConfig)
	case c.ThreadCount < 0:
		return fmt.Errorf("thread count %d must not be negative: %w", c.ThreadCount, ErrInvalidConfig)
	case c.Viscosity < 0 || c.Diffusion < 0 || c.TemperatureDiffusion < 0:
		return fmt.Errorf("diffusion rates must not be negative: %w", ErrInvalidConfig)
	case c.LineThickness <= 0:
		return fmt.Errorf("line thickness %v must be positive: %w", c.LineThickness, ErrInvalidConfig)
	case c.FadeRange < 0 || c.FadeRange > c.LineThickness:
		return fmt.Errorf("fade range %v must be within [0, %v]: %w", c.FadeRange, c.LineThickness, ErrInvalidConfig)
	case c.DensityDecay < 0 || c.TemperatureDecay < 0:
		return fmt.Errorf("decay constants must not be negative: %w", ErrInvalidConfig)
	case c.ParticlesEnabled && c.ParticleLifetime <= 0:
		return fmt.Errorf("particle lifetime %v must be positive: %w", c.ParticleLifetime, ErrInvalidConfig)
	case c.MaxParticles < 0:
		return fmt.Errorf("max particles %d must not be negative: %w", c.MaxParticles, ErrInvalidConfig)
	}
	return nil
}

// Simulation holds the fluid state and tracer particles.
type Simulation struct {
	// Paused freezes the fields; Step only zeroes velocity while set.
	Paused bool

	// Timer, when set, is notified at each phase boundary of Step.
	Timer PhaseTimer

	cfg    Config
	grid   fluid.Grid
	pool   *fluid.Pool
	solver *fluid.Solver

	u, v, dens, temp fluid.Buffer

	particles *Particles
	rng       *rand.Rand

	time  float64
	frame int64

	scratch []float32
}

// New validates cfg, allocates the fields and starts the diffusion workers.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := fluid.NewGrid(cfg.Width, cfg.Height)
	pool := fluid.NewPool(cfg.ThreadCount)

	return &Simulation{
		cfg:       cfg,
		grid:      g,
		pool:      pool,
		solver:    fluid.NewSolver(g, pool, cfg.VelocityMultiplier),
		u:         fluid.NewBuffer(g),
		v:         fluid.NewBuffer(g),
		dens:      fluid.NewBuffer(g),
		temp:      fluid.NewBuffer(g),
		particles: NewParticles(cfg),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		scratch:   g.Alloc(),
	}, nil
}

// Close stops the worker pool.
func (s *Simulation) Close() {
	s.pool.Close()
}

// Reset clears every field and particle. Time and frame count restart at 0.
func (s *Simulation) Reset() {
	s.u.Clear()
	s.v.Clear()
	s.dens.Clear()
	s.temp.Clear()
	s.particles.Clear()
	s.time = 0
	s.frame = 0
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// Grid returns the field dimensions.
func (s *Simulation) Grid() fluid.Grid { return s.grid }

// Threads returns the number of diffusion workers.
func (s *Simulation) Threads() int { return s.pool.Size() }

// Time returns the simulated seconds elapsed.
func (s *Simulation) Time() float64 { return s.time }

// Frame returns the number of unpaused steps taken.
func (s *Simulation) Frame() int64 { return s.frame }

// Density returns the padded density field. Callers must not modify it.
func (s *Simulation) Density() []float32 { return s.dens.Cur() }

// Temperature returns the padded temperature field. Callers must not modify it.
func (s *Simulation) Temperature() []float32 { return s.temp.Cur() }

// VelocityU returns the padded horizontal velocity field.
func (s *Simulation) VelocityU() []float32 { return s.u.Cur() }

// VelocityV returns the padded vertical velocity field.
func (s *Simulation) VelocityV() []float32 { return s.v.Cur() }

// Particles returns the live particles, oldest first.
func (s *Simulation) Particles() []Particle { return s.particles.Items() }

// ParticleCount returns the number of live particles.
func (s *Simulation) ParticleCount() int { return s.particles.Len() }

// ParticleLife returns the remaining lifetime fraction of particle i.
func (s *Simulation) ParticleLife(i int) float32 {
	return s.particles.Remaining(s.particles.Items()[i], s.time)
}

// SetViscosity changes the velocity diffusion rate.
func (s *Simulation) SetViscosity(v float32) { s.cfg.Viscosity = max(v, 0) }

// SetDiffusion changes the density diffusion rate.
func (s *Simulation) SetDiffusion(d float32) { s.cfg.Diffusion = max(d, 0) }

// SetVelocityMultiplier changes the advection and particle velocity scale.
func (s *Simulation) SetVelocityMultiplier(m float32) {
	s.cfg.VelocityMultiplier = m
	s.solver.VelocityMultiplier = m
	s.particles.cfg.VelocityMultiplier = m
}

// SetLineThickness changes the stroke radius in cells. The fade range shrinks
// with it so the stroke keeps a solid core.
func (s *Simulation) SetLineThickness(t float32) {
	if t <= 0 {
		return
	}
	s.cfg.LineThickness = t
	s.cfg.FadeRange = min(s.cfg.FadeRange, t)
}

// SetParticlesEnabled toggles spawning. Live particles keep updating.
func (s *Simulation) SetParticlesEnabled(on bool) { s.cfg.ParticlesEnabled = on }

// TotalDensity returns the interior density sum.
func (s *Simulation) TotalDensity() float32 { return s.grid.Sum(s.dens.Cur()) }

// TotalTemperature returns the interior temperature sum.
func (s *Simulation) TotalTemperature() float32 { return s.grid.Sum(s.temp.Cur()) }

// KineticEnergy returns half the interior sum of u² + v².
func (s *Simulation) KineticEnergy() float32 {
	return 0.5 * (s.grid.SumSquares(s.u.Cur()) + s.grid.SumSquares(s.v.Cur()))
}

// MaxDivergence returns the largest absolute divergence of the velocity field.
func (s *Simulation) MaxDivergence() float32 {
	g := s.grid
	fluid.Divergence(g, s.u.Cur(), s.v.Cur(), s.scratch)

	var m float32
	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			d := s.scratch[g.IX(i, j)]
			if d < 0 {
				d = -d
			}
			m = max(m, d)
		}
	}
	return m
}
