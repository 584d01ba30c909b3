package fluid

// Kind selects how a field reflects at the walls.
type Kind uint8

const (
	// Scalar fields copy the adjacent interior value into the halo.
	Scalar Kind = iota
	// VelocityX is negated across the left and right walls.
	VelocityX
	// VelocityY is negated across the top and bottom walls.
	VelocityY
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case VelocityX:
		return "velocity_x"
	case VelocityY:
		return "velocity_y"
	default:
		return "unknown"
	}
}

// SetBoundary fills the halo of x from its interior. Walls normal to the
// field's component are reflective; corners take the average of their two
// halo neighbours.
func SetBoundary(g Grid, kind Kind, x []float32) {
	w, h := g.W, g.H

	sx := float32(1)
	if kind == VelocityX {
		sx = -1
	}
	sy := float32(1)
	if kind == VelocityY {
		sy = -1
	}

	for j := 1; j <= h; j++ {
		x[g.IX(0, j)] = sx * x[g.IX(1, j)]
		x[g.IX(w+1, j)] = sx * x[g.IX(w, j)]
	}
	for i := 1; i <= w; i++ {
		x[g.IX(i, 0)] = sy * x[g.IX(i, 1)]
		x[g.IX(i, h+1)] = sy * x[g.IX(i, h)]
	}

	x[g.IX(0, 0)] = 0.5 * (x[g.IX(1, 0)] + x[g.IX(0, 1)])
	x[g.IX(0, h+1)] = 0.5 * (x[g.IX(1, h+1)] + x[g.IX(0, h)])
	x[g.IX(w+1, 0)] = 0.5 * (x[g.IX(w, 0)] + x[g.IX(w+1, 1)])
	x[g.IX(w+1, h+1)] = 0.5 * (x[g.IX(w, h+1)] + x[g.IX(w+1, h)])
}
