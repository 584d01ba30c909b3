// Package shade converts smoke fields to pixel colors.
package shade

import (
	"image/color"
	"math"

	"github.com/pthm-cable/smoke/fluid"
)

// Palette maps field values to colors.
type Palette struct {
	Gamma float32
	Smoke color.RGBA // color of cold smoke
	Heat  color.RGBA // color of smoke at temperature 1
}

// RGB builds an opaque color from a config triple.
func RGB(c [3]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Shade returns the pixel for one cell. Intensity is clamp(density, 0, 1)
// raised to the palette gamma; temperature blends the tint toward Heat.
func (p Palette) Shade(density, temperature float32) color.RGBA {
	d := clamp01(density)
	if d == 0 {
		return color.RGBA{A: 255}
	}
	intensity := d
	if p.Gamma > 0 && p.Gamma != 1 {
		intensity = float32(math.Pow(float64(d), float64(p.Gamma)))
	}
	t := clamp01(temperature)

	mix := func(a, b uint8) uint8 {
		c := float32(a) + (float32(b)-float32(a))*t
		return uint8(c*intensity + 0.5)
	}
	return color.RGBA{
		R: mix(p.Smoke.R, p.Heat.R),
		G: mix(p.Smoke.G, p.Heat.G),
		B: mix(p.Smoke.B, p.Heat.B),
		A: 255,
	}
}

// Pixels shades the interior of the padded fields into dst, one pixel per
// logical cell in row-major order. dst is reallocated if it is too small.
func Pixels(dst []color.RGBA, g fluid.Grid, dens, temp []float32, p Palette) []color.RGBA {
	n := g.W * g.H
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]

	for y := 0; y < g.H; y++ {
		row := dst[y*g.W : (y+1)*g.W]
		for x := range row {
			idx := g.IX(x+1, y+1)
			row[x] = p.Shade(dens[idx], temp[idx])
		}
	}
	return dst
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
