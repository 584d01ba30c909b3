package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoke/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	GridW, GridH int
	Frame        int64
	SimTime      float64
	FPS          int32
	Threads      int
	StepsPerDraw int
	TotalDensity float32
	Particles    int
	Paused       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Grid: %dx%d | Threads: %d | Steps/frame: %d", data.GridW, data.GridH, data.Threads, data.StepsPerDraw),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | Time: %.1fs | FPS: %d", data.Frame, data.SimTime, data.FPS),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Density: %.1f | Particles: %d", data.TotalDensity, data.Particles),
		10, 75, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	pad := r.Theme.Padding
	height := r.Theme.LineHeight*int32(len(phases)+2) + pad*2

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, "Step Performance")
	y = r.DrawLabelValue(x, y, "Avg tick", fmt.Sprintf("%s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond))

	for _, phase := range phases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase], p.width-pad*2, 40)
	}
}
