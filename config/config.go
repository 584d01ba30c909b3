// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Input     InputConfig     `yaml:"input"`
	Particles ParticlesConfig `yaml:"particles"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the fluid grid resolution.
// Width and Height are in cells; 0 derives them from the screen size.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"` // Pixels per cell
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

// PhysicsConfig holds stepping parameters.
type PhysicsConfig struct {
	DT          float64 `yaml:"dt"`           // Fixed simulation step, independent of frame interval
	ThreadCount int     `yaml:"thread_count"` // Diffusion workers (0 = GOMAXPROCS)
}

// FluidConfig holds solver constants.
type FluidConfig struct {
	Viscosity            float64 `yaml:"viscosity"`
	Diffusion            float64 `yaml:"diffusion"`
	TemperatureDiffusion float64 `yaml:"temperature_diffusion"`
	VelocityMultiplier   float64 `yaml:"velocity_multiplier"` // Scales backtrace distance and particle advection
	VelocityDecay        float64 `yaml:"velocity_decay"`      // Multiplier applied to u,v every frame
	DensityDecay         float64 `yaml:"density_decay"`       // Subtracted from density every frame
	TemperatureDecay     float64 `yaml:"temperature_decay"`   // Subtracted from temperature every frame
	Buoyancy             float64 `yaml:"buoyancy"`            // Upward force per unit temperature
}

// InputConfig holds pointer stroke parameters. Lengths are in cells.
type InputConfig struct {
	LineThickness     float64 `yaml:"line_thickness"`
	FadeRange         float64 `yaml:"fade_range"`
	TargetDensity     float64 `yaml:"target_density"`
	CursorTemperature float64 `yaml:"cursor_temperature"`
	MouseForce        float64 `yaml:"mouse_force"`
}

// ParticlesConfig holds tracer particle parameters. Lengths are in pixels.
type ParticlesConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Lifetime      float64 `yaml:"lifetime"` // Seconds
	Drag          float64 `yaml:"drag"`
	MaxSpeed      float64 `yaml:"max_speed"`
	SpawnPerPixel float64 `yaml:"spawn_per_pixel"`
	SpawnJitter   float64 `yaml:"spawn_jitter"`
	MaxParticles  int     `yaml:"max_particles"`
}

// RenderConfig holds field visualization settings for the viewer.
type RenderConfig struct {
	Gamma         float64  `yaml:"gamma"`
	SmokeColor    [3]uint8 `yaml:"smoke_color"`
	HeatColor     [3]uint8 `yaml:"heat_color"`
	ParticleColor [3]uint8 `yaml:"particle_color"`
	ParticleSize  float64  `yaml:"particle_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Simulated seconds per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	GridW     int     // Effective grid width in cells
	GridH     int     // Effective grid height in cells
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("grid.cell_size must be positive, got %v", c.Grid.CellSize)
	}

	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Grid dimensions default to covering the screen
	gridW := c.Grid.Width
	if gridW == 0 {
		gridW = int(float64(c.Screen.Width) / c.Grid.CellSize)
	}
	gridH := c.Grid.Height
	if gridH == 0 {
		gridH = int(float64(c.Screen.Height) / c.Grid.CellSize)
	}
	c.Derived.GridW = gridW
	c.Derived.GridH = gridH
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
