// Package game is the interactive raylib viewer around a session.
package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoke/camera"
	"github.com/pthm-cable/smoke/config"
	"github.com/pthm-cable/smoke/renderer"
	"github.com/pthm-cable/smoke/session"
	"github.com/pthm-cable/smoke/shade"
	"github.com/pthm-cable/smoke/sim"
	"github.com/pthm-cable/smoke/ui"
)

var _ ui.Tunable = (*sim.Simulation)(nil)

const controlsLegend = "LMB: smoke | RMB: stir | Space: pause | C: clear | Tab: panel | P: perf | </>: steps | Arrows/wheel: camera | Home: reset | F11: fullscreen"

// Game holds the viewer state. The simulation lives in the session.
type Game struct {
	session *session.Session
	sim     *sim.Simulation

	camera    *camera.Camera
	field     *renderer.FieldRenderer
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	showPerf  bool

	// Last pointer position in world pixels
	mouse    sim.Vec2
	hasMouse bool

	screenWidth, screenHeight float32
	worldWidth, worldHeight   float32
}

// NewGame creates the viewer. The raylib window must already be open.
func NewGame(s *session.Session) *Game {
	cfg := s.Config()
	simulation := s.Sim()
	simCfg := simulation.Config()

	sw, sh := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	ww := float32(simCfg.Width) * simCfg.CellSize
	wh := float32(simCfg.Height) * simCfg.CellSize

	g := &Game{
		session:      s,
		sim:          simulation,
		camera:       camera.New(sw, sh, ww, wh),
		field:        renderer.NewFieldRenderer(palette(cfg)),
		particles:    renderer.NewParticleRenderer(shade.RGB(cfg.Render.ParticleColor), float32(cfg.Render.ParticleSize)),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(int32(sw)-290, 10, 280),
		controls:     ui.NewControlsPanel(10, 120, 240),
		screenWidth:  sw,
		screenHeight: sh,
		worldWidth:   ww,
		worldHeight:  wh,
	}
	g.field.Init(simCfg.Width, simCfg.Height)
	return g
}

func palette(cfg *config.Config) shade.Palette {
	return shade.Palette{
		Gamma: float32(cfg.Render.Gamma),
		Smoke: shade.RGB(cfg.Render.SmokeColor),
		Heat:  shade.RGB(cfg.Render.HeatColor),
	}
}

// Update handles input and advances the simulation for one rendered frame.
func (g *Game) Update() {
	g.handleInput()
	g.session.Update(g.pointer())
}

// Draw renders the field, particles and overlays.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.field.Update(g.sim.Grid(), g.sim.Density(), g.sim.Temperature())
	x0, y0 := g.camera.WorldToScreen(0, 0)
	x1, y1 := g.camera.WorldToScreen(g.worldWidth, g.worldHeight)
	g.field.Draw(x0, y0, x1-x0, y1-y0)
	g.particles.Draw(g.sim, g.camera, g.camera.Zoom)

	grid := g.sim.Grid()
	g.hud.Draw(ui.HUDData{
		Title:        "Smoke",
		GridW:        grid.W,
		GridH:        grid.H,
		Frame:        g.sim.Frame(),
		SimTime:      g.sim.Time(),
		FPS:          rl.GetFPS(),
		Threads:      g.sim.Threads(),
		StepsPerDraw: g.session.StepsPerUpdate(),
		TotalDensity: g.sim.TotalDensity(),
		Particles:    g.sim.ParticleCount(),
		Paused:       g.sim.Paused,
	})
	if g.showPerf {
		g.perfPanel.Draw(g.session.Perf().Stats())
	}
	g.sim.Paused = g.controls.Draw(g.sim, g.sim.Paused)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()
	g.session.Perf().RecordFrame()
}

// Unload frees GPU resources.
func (g *Game) Unload() {
	if g.field != nil {
		g.field.Unload()
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.session.Tick()
}
