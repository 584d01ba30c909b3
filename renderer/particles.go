package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoke/sim"
)

// ParticleSource exposes the live tracer particles.
type ParticleSource interface {
	Particles() []sim.Particle
	ParticleLife(i int) float32
}

// ParticleRenderer renders tracer particles.
type ParticleRenderer struct {
	color color.RGBA
	size  float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(c color.RGBA, size float32) *ParticleRenderer {
	return &ParticleRenderer{color: c, size: size}
}

// Projector maps world pixels to screen pixels.
type Projector interface {
	WorldToScreen(wx, wy float32) (sx, sy float32)
}

// Draw renders all particles, fading and shrinking each with its remaining life.
func (r *ParticleRenderer) Draw(src ParticleSource, proj Projector, zoom float32) {
	particles := src.Particles()
	for i := range particles {
		p := &particles[i]
		lifeRatio := src.ParticleLife(i)
		if lifeRatio <= 0 {
			continue
		}

		c := r.color
		c.A = uint8(lifeRatio * 200)

		size := r.size * lifeRatio * zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := proj.WorldToScreen(p.Pos.X, p.Pos.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, c)
	}
}
