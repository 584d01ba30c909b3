package sim

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/smoke/fluid"
)

// Particle is a tracer carried by the velocity field. Pos and Vel are in
// pixels; Born is in simulated seconds.
type Particle struct {
	Pos, Vel Vec2
	Born     float64
}

type particleConfig struct {
	CellSize           float32
	VelocityMultiplier float32
	Lifetime           float64
	Drag               float32
	MaxSpeed           float32
	SpawnPerPixel      float32
	SpawnJitter        float32
	Max                int
}

// Particles is an age-ordered list of tracers. The oldest particle is first,
// so expiry always removes a prefix.
type Particles struct {
	cfg   particleConfig
	items []Particle

	// carry holds the fractional spawn count left over from the last stroke.
	carry float32
}

// NewParticles creates an empty particle list from the simulation config.
func NewParticles(cfg Config) *Particles {
	return &Particles{
		cfg: particleConfig{
			CellSize:           cfg.CellSize,
			VelocityMultiplier: cfg.VelocityMultiplier,
			Lifetime:           cfg.ParticleLifetime,
			Drag:               cfg.ParticleDrag,
			MaxSpeed:           cfg.ParticleMaxSpeed,
			SpawnPerPixel:      cfg.SpawnPerPixel,
			SpawnJitter:        cfg.SpawnJitter,
			Max:                cfg.MaxParticles,
		},
		items: make([]Particle, 0, min(cfg.MaxParticles, 1024)),
	}
}

// Items returns the live particles, oldest first.
func (p *Particles) Items() []Particle { return p.items }

// Len returns the number of live particles.
func (p *Particles) Len() int { return len(p.items) }

// Clear removes every particle.
func (p *Particles) Clear() {
	p.items = p.items[:0]
	p.carry = 0
}

// Remaining returns the fraction of lifetime pt has left at time now.
func (p *Particles) Remaining(pt Particle, now float64) float32 {
	if p.cfg.Lifetime <= 0 {
		return 0
	}
	r := 1 - (now-pt.Born)/p.cfg.Lifetime
	return float32(math.Max(0, math.Min(1, r)))
}

// Update drops expired particles and moves the rest through (u, v).
// Particles outside the grid keep their state until they expire.
func (p *Particles) Update(g fluid.Grid, u, v []float32, dt float32, now float64) {
	// Expired particles form a prefix; compact in place.
	expired := 0
	for expired < len(p.items) && now-p.items[expired].Born >= p.cfg.Lifetime {
		expired++
	}
	if expired > 0 {
		n := copy(p.items, p.items[expired:])
		p.items = p.items[:n]
	}

	cs := p.cfg.CellSize
	scale := p.cfg.VelocityMultiplier * cs * dt
	drag := p.cfg.Drag

	for k := range p.items {
		pt := &p.items[k]
		if pt.Pos.X < 0 || pt.Pos.Y < 0 {
			continue
		}
		cx := int(pt.Pos.X/cs) + 1
		cy := int(pt.Pos.Y/cs) + 1
		if !g.Contains(cx, cy) {
			continue
		}

		idx := g.IX(cx, cy)
		pt.Pos.X += u[idx] * scale
		pt.Pos.Y += v[idx] * scale

		speed2 := pt.Vel.X*pt.Vel.X + pt.Vel.Y*pt.Vel.Y
		damp := min(1, drag*speed2*dt)
		pt.Vel.X -= pt.Vel.X * damp
		pt.Vel.Y -= pt.Vel.Y * damp

		pt.Pos.X += pt.Vel.X * dt
		pt.Pos.Y += pt.Vel.Y * dt
	}
}

// Spawn emits particles along the segment prev-cur in proportion to its
// length. Returns the number added; spawns beyond capacity are dropped.
func (p *Particles) Spawn(prev, cur Vec2, now float64, rng *rand.Rand) int {
	delta := cur.Sub(prev)
	want := delta.Len()*p.cfg.SpawnPerPixel + p.carry
	count := int(want)
	p.carry = want - float32(count)

	added := 0
	for i := 0; i < count; i++ {
		if len(p.items) >= p.cfg.Max {
			break
		}

		t := rng.Float32()
		jitter := rng.Float64() * 2 * math.Pi
		heading := rng.Float64() * 2 * math.Pi
		speed := rng.Float32() * p.cfg.MaxSpeed

		p.items = append(p.items, Particle{
			Pos: Vec2{
				X: prev.X + delta.X*t + p.cfg.SpawnJitter*float32(math.Cos(jitter)),
				Y: prev.Y + delta.Y*t + p.cfg.SpawnJitter*float32(math.Sin(jitter)),
			},
			Vel: Vec2{
				X: speed * float32(math.Cos(heading)),
				Y: speed * float32(math.Sin(heading)),
			},
			Born: now,
		})
		added++
	}
	return added
}
