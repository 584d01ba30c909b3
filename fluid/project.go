package fluid

// ProjectIterations is the number of Jacobi sweeps in the pressure solve.
const ProjectIterations = 4

// Divergence writes the scaled discrete divergence of (u, v) into the
// interior of out. Halo cells of out are not touched.
func Divergence(g Grid, u, v, out []float32) {
	if g.H == 0 {
		return
	}
	h := 1 / float32(g.H)
	stride := g.Stride()

	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			idx := g.IX(i, j)
			out[idx] = -0.5 * h * (u[idx+1] - u[idx-1] + v[idx+stride] - v[idx-stride])
		}
	}
}

// Project removes the divergent part of (u, v). p and div are scratch fields
// and are overwritten.
func (s *Solver) Project(u, v, p, div []float32) {
	g := s.Grid
	if g.W == 0 || g.H == 0 {
		return
	}
	h := 1 / float32(g.H)
	stride := g.Stride()

	Divergence(g, u, v, div)
	clear(p)
	SetBoundary(g, Scalar, div)
	SetBoundary(g, Scalar, p)

	next := s.scratch
	for iter := 0; iter < ProjectIterations; iter++ {
		for j := 1; j <= g.H; j++ {
			for i := 1; i <= g.W; i++ {
				idx := g.IX(i, j)
				next[idx] = (div[idx] + p[idx-1] + p[idx+1] + p[idx-stride] + p[idx+stride]) / 4
			}
		}
		for j := 1; j <= g.H; j++ {
			start := g.IX(1, j)
			copy(p[start:start+g.W], next[start:start+g.W])
		}
		SetBoundary(g, Scalar, p)
	}

	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			idx := g.IX(i, j)
			u[idx] -= 0.5 * (p[idx+1] - p[idx-1]) / h
			v[idx] -= 0.5 * (p[idx+stride] - p[idx-stride]) / h
		}
	}
	SetBoundary(g, VelocityX, u)
	SetBoundary(g, VelocityY, v)
}
