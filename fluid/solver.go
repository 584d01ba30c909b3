package fluid

// Solver runs the fluid kernels for one grid. It owns the scratch memory the
// kernels need so stepping does not allocate.
type Solver struct {
	Grid Grid

	// VelocityMultiplier scales the advection backtrace distance.
	VelocityMultiplier float32

	pool  *Pool
	bands []Band

	// Per-band copies of the column left of Start and the column at End,
	// taken before each diffusion sweep.
	left, right [][]float32
	tasks       []func()
	job         relaxJob

	scratch []float32
}

// relaxJob carries the arguments of the sweep in flight to the band tasks.
type relaxJob struct {
	x, x0 []float32
	a, c  float32
}

// NewSolver creates a solver for g that splits diffusion across pool.
// The pool is borrowed; the caller closes it.
func NewSolver(g Grid, pool *Pool, velocityMultiplier float32) *Solver {
	s := &Solver{
		Grid:               g,
		VelocityMultiplier: velocityMultiplier,
		pool:               pool,
		bands:              Bands(g.W, pool.Size()),
		scratch:            g.Alloc(),
	}

	s.left = make([][]float32, len(s.bands))
	s.right = make([][]float32, len(s.bands))
	s.tasks = make([]func(), len(s.bands))
	for k := range s.bands {
		s.left[k] = make([]float32, g.H+2)
		s.right[k] = make([]float32, g.H+2)
		s.tasks[k] = func() { s.relaxBand(k) }
	}
	return s
}

// Bands returns the column partition used for diffusion.
func (s *Solver) Bands() []Band { return s.bands }
