package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoke/sim"
)

// Tunable is the part of the simulation the controls panel edits.
type Tunable interface {
	Config() sim.Config
	SetViscosity(v float32)
	SetDiffusion(d float32)
	SetVelocityMultiplier(m float32)
	SetLineThickness(t float32)
	SetParticlesEnabled(on bool)
	Reset()
}

type slider struct {
	label    string
	min, max float32
	get      func(sim.Config) float32
	set      func(Tunable, float32)
}

var sliders = []slider{
	{"Viscosity", 0, 5,
		func(c sim.Config) float32 { return c.Viscosity },
		func(t Tunable, v float32) { t.SetViscosity(v) }},
	{"Diffusion", 0, 5,
		func(c sim.Config) float32 { return c.Diffusion },
		func(t Tunable, v float32) { t.SetDiffusion(v) }},
	{"Velocity x", 0.1, 4,
		func(c sim.Config) float32 { return c.VelocityMultiplier },
		func(t Tunable, v float32) { t.SetVelocityMultiplier(v) }},
	{"Line thickness", 0.5, 10,
		func(c sim.Config) float32 { return c.LineThickness },
		func(t Tunable, v float32) { t.SetLineThickness(v) }},
}

// ControlsPanel renders the parameter sliders and toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel, so
// pointer strokes there are not fed to the fluid.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	th := c.renderer.Theme
	return th.LineHeight + int32(len(sliders))*(th.LineHeight+24) + 30 + 24 + th.Padding*3
}

// Draw renders the panel and applies any changes to t. It returns the new
// paused state.
func (c *ControlsPanel) Draw(t Tunable, paused bool) bool {
	if !c.visible {
		return paused
	}

	r := c.renderer
	th := r.Theme
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + th.Padding)
	w := float32(c.width - th.Padding*2)
	y := r.DrawSectionHeader(c.x+th.Padding, c.y+th.Padding, "Controls")

	cfg := t.Config()
	for _, s := range sliders {
		cur := s.get(cfg)
		rl.DrawText(fmt.Sprintf("%s: %.2f", s.label, cur), int32(x), y, th.FontSize, th.LabelColor)
		y += th.LineHeight

		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: float32(y), Width: w, Height: 16},
			"", "",
			cur, s.min, s.max,
		)
		if next != cur {
			s.set(t, next)
		}
		y += 24
	}

	y += th.Padding
	half := (w - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, toggleText(paused, "Resume", "Pause")) {
		paused = !paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: float32(y), Width: half, Height: 24}, "Clear") {
		t.Reset()
	}
	y += 30

	particles := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 16, Height: 16}, "Particles", cfg.ParticlesEnabled)
	if particles != cfg.ParticlesEnabled {
		t.SetParticlesEnabled(particles)
	}

	return paused
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
