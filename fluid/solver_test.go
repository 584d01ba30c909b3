package fluid

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

func newTestSolver(t testing.TB, w, h, threads int) *Solver {
	t.Helper()
	p := NewPool(threads)
	t.Cleanup(p.Close)
	return NewSolver(NewGrid(w, h), p, 1)
}

func TestDiffusePreservesUniformField(t *testing.T) {
	s := newTestSolver(t, 16, 12, 3)
	g := s.Grid

	x0 := g.Alloc()
	for i := range x0 {
		x0[i] = 0.7
	}
	x := append([]float32(nil), x0...)

	s.Diffuse(Scalar, x, x0, 2, 0.1)

	for j := 0; j <= g.H+1; j++ {
		for i := 0; i <= g.W+1; i++ {
			if d := math.Abs(float64(x[g.IX(i, j)] - 0.7)); d > 1e-5 {
				t.Fatalf("cell (%d,%d) drifted to %v", i, j, x[g.IX(i, j)])
			}
		}
	}
}

func TestDiffuseSpreadsSpike(t *testing.T) {
	s := newTestSolver(t, 20, 20, 4)
	g := s.Grid

	x0 := g.Alloc()
	x0[g.IX(10, 10)] = 1
	x := g.Alloc()

	s.Diffuse(Scalar, x, x0, 1, 1)

	centre := x[g.IX(10, 10)]
	if centre >= 1 || centre <= 0 {
		t.Errorf("expected centre in (0,1), got %v", centre)
	}
	for _, n := range []int{g.IX(9, 10), g.IX(11, 10), g.IX(10, 9), g.IX(10, 11)} {
		if x[n] <= 0 || x[n] >= centre {
			t.Errorf("expected neighbour in (0,%v), got %v", centre, x[n])
		}
	}
}

func TestDiffuseDeterministicForFixedThreads(t *testing.T) {
	run := func() []float32 {
		s := newTestSolver(t, 33, 17, 5)
		x0 := randomField(s.Grid, rand.New(rand.NewSource(7)))
		x := s.Grid.Alloc()
		for i := 0; i < 3; i++ {
			s.Diffuse(Scalar, x, x0, 0.8, 0.5)
		}
		return x
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDiffuseZeroPivotSkipped(t *testing.T) {
	s := newTestSolver(t, 6, 6, 2)
	g := s.Grid

	x := randomField(g, rand.New(rand.NewSource(3)))
	x0 := g.Alloc()
	before := append([]float32(nil), x...)

	// a = -0.25 gives c = 0
	s.Diffuse(Scalar, x, x0, -0.25, 1)

	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			idx := g.IX(i, j)
			if v := x[idx]; v != before[idx] || math.IsNaN(float64(v)) {
				t.Fatalf("cell (%d,%d) changed to %v with zero pivot", i, j, v)
			}
		}
	}
}

func TestAdvectZeroVelocityIsIdentity(t *testing.T) {
	s := newTestSolver(t, 10, 8, 1)
	g := s.Grid

	d0 := randomField(g, rand.New(rand.NewSource(4)))
	d := g.Alloc()
	u, v := g.Alloc(), g.Alloc()

	s.Advect(Scalar, d, d0, u, v, 0.1, false)

	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			idx := g.IX(i, j)
			if d[idx] != d0[idx] {
				t.Fatalf("cell (%d,%d): got %v, want %v", i, j, d[idx], d0[idx])
			}
		}
	}
}

func TestAdvectConservesMass(t *testing.T) {
	s := newTestSolver(t, 24, 24, 1)
	g := s.Grid
	rng := rand.New(rand.NewSource(5))

	d0 := g.Alloc()
	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			d0[g.IX(i, j)] = rng.Float32()
		}
	}
	u := randomField(g, rng)
	v := randomField(g, rng)
	for i := range u {
		u[i] *= 20
		v[i] *= 20
	}

	before := g.Sum(d0)
	d := g.Alloc()
	s.Advect(Scalar, d, d0, u, v, 0.1, true)
	after := g.Sum(d)

	if rel := math.Abs(float64(after-before)) / float64(before); rel > 1e-4 {
		t.Errorf("mass not conserved: before %v, after %v", before, after)
	}
}

func TestAdvectZeroSumSkipsRescale(t *testing.T) {
	s := newTestSolver(t, 8, 8, 1)
	g := s.Grid

	d0 := g.Alloc()
	d := g.Alloc()
	u := randomField(g, rand.New(rand.NewSource(6)))
	v := g.Alloc()

	s.Advect(Scalar, d, d0, u, v, 0.5, true)

	for i, x := range d {
		if x != 0 || math.IsNaN(float64(x)) {
			t.Fatalf("index %d: expected 0, got %v", i, x)
		}
	}
}

// divergenceNorm returns the interior L2 norm of the discrete divergence.
func divergenceNorm(g Grid, u, v []float32) float64 {
	div := g.Alloc()
	Divergence(g, u, v, div)
	return math.Sqrt(float64(g.SumSquares(div)))
}

func TestProjectReducesDivergence(t *testing.T) {
	s := newTestSolver(t, 32, 32, 1)
	g := s.Grid

	// Radial Gaussian blob: purely divergent and localised away from the walls.
	u, v := g.Alloc(), g.Alloc()
	const sigma = 2.0
	cx, cy := 16.5, 16.5
	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			dx, dy := float64(i)-cx, float64(j)-cy
			w := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			u[g.IX(i, j)] = float32(dx * w)
			v[g.IX(i, j)] = float32(dy * w)
		}
	}
	SetBoundary(g, VelocityX, u)
	SetBoundary(g, VelocityY, v)

	before := divergenceNorm(g, u, v)
	if before == 0 {
		t.Fatal("test field has no divergence")
	}

	p, div := g.Alloc(), g.Alloc()
	s.Project(u, v, p, div)

	after := divergenceNorm(g, u, v)
	if after >= before {
		t.Errorf("expected divergence to drop: before %v, after %v", before, after)
	}
}

func TestProjectKeepsDivergenceFreeField(t *testing.T) {
	s := newTestSolver(t, 16, 16, 1)
	g := s.Grid

	u, v := g.Alloc(), g.Alloc()
	p, div := g.Alloc(), g.Alloc()
	s.Project(u, v, p, div)

	for i := range u {
		if u[i] != 0 || v[i] != 0 {
			t.Fatalf("zero field changed at %d: u=%v v=%v", i, u[i], v[i])
		}
	}
}

func BenchmarkDiffuse(b *testing.B) {
	for _, threads := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("threads=%d", threads), func(b *testing.B) {
			s := newTestSolver(b, 160, 90, threads)
			x0 := randomField(s.Grid, rand.New(rand.NewSource(1)))
			x := s.Grid.Alloc()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Diffuse(Scalar, x, x0, 1, 1.0/144)
			}
		})
	}
}

func BenchmarkAdvectConserve(b *testing.B) {
	s := newTestSolver(b, 160, 90, 1)
	rng := rand.New(rand.NewSource(1))
	d0 := randomField(s.Grid, rng)
	u := randomField(s.Grid, rng)
	v := randomField(s.Grid, rng)
	d := s.Grid.Alloc()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advect(Scalar, d, d0, u, v, 1.0/144, true)
	}
}
