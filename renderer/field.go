// Package renderer draws the smoke fields and tracer particles with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoke/fluid"
	"github.com/pthm-cable/smoke/shade"
)

// FieldRenderer uploads the density field to a texture, one texel per cell,
// and stretches it over the visible box.
type FieldRenderer struct {
	palette shade.Palette

	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	initialized bool
}

// NewFieldRenderer creates a field renderer with the given palette.
func NewFieldRenderer(p shade.Palette) *FieldRenderer {
	return &FieldRenderer{palette: p}
}

// Init allocates the texture (must be called after the raylib window is created).
func (r *FieldRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}
	r.texW = gridW
	r.texH = gridH

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update shades the current fields and uploads them to the GPU texture.
func (r *FieldRenderer) Update(g fluid.Grid, dens, temp []float32) {
	if !r.initialized {
		r.Init(g.W, g.H)
	}
	if g.W != r.texW || g.H != r.texH {
		return
	}
	r.pixels = shade.Pixels(r.pixels, g, dens, temp, r.palette)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the field into the screen rectangle (x, y, w, h).
func (r *FieldRenderer) Draw(x, y, w, h float32) {
	if !r.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
