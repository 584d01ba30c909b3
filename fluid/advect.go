package fluid

// Advect moves d0 along (u, v) into d by tracing each cell centre backwards
// and sampling bilinearly. With conserve set, the interior total of d is
// rescaled to the total of d0; a destination that sums to zero is left as is.
func (s *Solver) Advect(kind Kind, d, d0, u, v []float32, dt float32, conserve bool) {
	g := s.Grid
	dt0 := dt * s.VelocityMultiplier

	var before float32
	if conserve {
		before = g.Sum(d0)
	}

	maxX := float32(g.W) + 0.5
	maxY := float32(g.H) + 0.5

	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			idx := g.IX(i, j)

			x := clamp(float32(i)-dt0*u[idx], 0.5, maxX)
			y := clamp(float32(j)-dt0*v[idx], 0.5, maxY)

			i0 := int(x)
			j0 := int(y)
			s1 := x - float32(i0)
			s0 := 1 - s1
			t1 := y - float32(j0)
			t0 := 1 - t1

			d[idx] = s0*(t0*d0[g.IX(i0, j0)]+t1*d0[g.IX(i0, j0+1)]) +
				s1*(t0*d0[g.IX(i0+1, j0)]+t1*d0[g.IX(i0+1, j0+1)])
		}
	}

	if conserve {
		if after := g.Sum(d); after != 0 {
			g.Scale(before/after, d)
		}
	}

	SetBoundary(g, kind, d)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
