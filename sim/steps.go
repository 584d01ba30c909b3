package sim

import "github.com/pthm-cable/smoke/fluid"

// Step advances the simulation by dt seconds with the given pointer input.
// While paused only the velocity is cleared.
func (s *Simulation) Step(dt float32, ptr Pointer) {
	if s.Paused {
		clear(s.u.Cur())
		clear(s.v.Cur())
		return
	}

	s.u.ClearPrev()
	s.v.ClearPrev()
	s.dens.ClearPrev()
	s.temp.ClearPrev()

	s.phase(PhasePrepass)
	s.prepass()

	s.phase(PhaseInput)
	s.inject(ptr)

	s.phase(PhaseVelocity)
	s.velocityStep(dt)

	s.phase(PhaseDensity)
	s.densityStep(&s.dens, s.cfg.Diffusion, dt)

	s.phase(PhaseTemperature)
	s.densityStep(&s.temp, s.cfg.TemperatureDiffusion, dt)

	s.phase(PhaseParticles)
	s.particles.Update(s.grid, s.u.Cur(), s.v.Cur(), dt, s.time)
	if s.cfg.ParticlesEnabled && ptr.Moved() {
		s.particles.Spawn(ptr.Prev, ptr.Cur, s.time, s.rng)
	}

	s.time += float64(dt)
	s.frame++
}

func (s *Simulation) phase(name string) {
	if s.Timer != nil {
		s.Timer.StartPhase(name)
	}
}

// prepass applies per-frame decay and buoyancy.
func (s *Simulation) prepass() {
	u, v := s.u.Cur(), s.v.Cur()
	dens, temp := s.dens.Cur(), s.temp.Cur()
	vPrev := s.v.Prev()

	velDecay := s.cfg.VelocityDecay
	densDecay := s.cfg.DensityDecay
	tempDecay := s.cfg.TemperatureDecay
	buoyancy := s.cfg.Buoyancy

	for i := range u {
		u[i] *= velDecay
		v[i] *= velDecay
		dens[i] = max(dens[i]-densDecay, 0)
		temp[i] = max(temp[i]-tempDecay, 0)

		// Screen y grows downward, so heat pushes toward negative v.
		if temp[i] > 0 {
			vPrev[i] -= temp[i] * buoyancy
		}
	}
}

func addSource(x, src []float32, dt float32) {
	for i := range x {
		x[i] += dt * src[i]
	}
}

// velocityStep diffuses, projects and self-advects the velocity field.
func (s *Simulation) velocityStep(dt float32) {
	addSource(s.u.Cur(), s.u.Prev(), dt)
	addSource(s.v.Cur(), s.v.Prev(), dt)

	s.u.Swap()
	s.solver.Diffuse(fluid.VelocityX, s.u.Cur(), s.u.Prev(), s.cfg.Viscosity, dt)
	s.v.Swap()
	s.solver.Diffuse(fluid.VelocityY, s.v.Cur(), s.v.Prev(), s.cfg.Viscosity, dt)

	s.solver.Project(s.u.Cur(), s.v.Cur(), s.u.Prev(), s.v.Prev())

	s.u.Swap()
	s.v.Swap()
	// Both components trace through the pre-advection field now in Prev.
	s.solver.Advect(fluid.VelocityX, s.u.Cur(), s.u.Prev(), s.u.Prev(), s.v.Prev(), dt, false)
	s.solver.Advect(fluid.VelocityY, s.v.Cur(), s.v.Prev(), s.u.Prev(), s.v.Prev(), dt, false)

	s.solver.Project(s.u.Cur(), s.v.Cur(), s.u.Prev(), s.v.Prev())
}

// densityStep diffuses and advects a scalar field. Sources are applied at
// unit rate so injected targets land exactly.
func (s *Simulation) densityStep(b *fluid.Buffer, rate, dt float32) {
	addSource(b.Cur(), b.Prev(), 1)

	b.Swap()
	s.solver.Diffuse(fluid.Scalar, b.Cur(), b.Prev(), rate, dt)

	b.Swap()
	s.solver.Advect(fluid.Scalar, b.Cur(), b.Prev(), s.u.Cur(), s.v.Cur(), dt, true)
}
