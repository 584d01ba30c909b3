package fluid

// DiffuseIterations is the number of relaxation sweeps per diffusion solve.
const DiffuseIterations = 4

// Diffuse relaxes x toward the implicit diffusion of x0 at the given rate.
//
// Each sweep runs Gauss-Seidel inside column bands in parallel. Across a band
// edge a worker reads the neighbouring column as it was before the sweep, so
// bands never touch each other's memory. The result depends on the band count
// but is deterministic for a fixed pool size.
func (s *Solver) Diffuse(kind Kind, x, x0 []float32, rate, dt float32) {
	a := dt * rate
	c := 1 + 4*a

	for iter := 0; iter < DiffuseIterations; iter++ {
		if c != 0 {
			s.sweep(x, x0, a, c)
		}
		SetBoundary(s.Grid, kind, x)
	}
}

func (s *Solver) sweep(x, x0 []float32, a, c float32) {
	g := s.Grid

	for k, b := range s.bands {
		l, r := s.left[k], s.right[k]
		for j := 0; j <= g.H+1; j++ {
			l[j] = x[g.IX(b.Start-1, j)]
			r[j] = x[g.IX(b.End, j)]
		}
	}

	s.job = relaxJob{x: x, x0: x0, a: a, c: c}
	for k := range s.bands {
		s.pool.Submit(k, s.tasks[k])
	}
	s.pool.Wait()
}

// relaxBand runs one Gauss-Seidel pass over band k.
func (s *Solver) relaxBand(k int) {
	g := s.Grid
	b := s.bands[k]
	job := s.job
	x, x0 := job.x, job.x0
	left, right := s.left[k], s.right[k]
	inv := 1 / job.c

	for j := 1; j <= g.H; j++ {
		for i := b.Start; i < b.End; i++ {
			idx := g.IX(i, j)

			var west, east float32
			if i == b.Start {
				west = left[j]
			} else {
				west = x[idx-1]
			}
			if i == b.End-1 {
				east = right[j]
			} else {
				east = x[idx+1]
			}

			neighbours := west + east + x[idx-g.Stride()] + x[idx+g.Stride()]
			x[idx] = (x0[idx] + job.a*neighbours) * inv
		}
	}
}
