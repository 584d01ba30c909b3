// Package fluid implements the stable-fluids kernels: boundary handling,
// banded Gauss-Seidel diffusion, semi-Lagrangian advection and pressure
// projection over a padded float32 grid.
package fluid

import "gonum.org/v1/gonum/blas/blas32"

// Grid describes a W x H field stored with a one-cell halo on every side.
// Storage is row-major with stride W+2; logical cell (x, y) lives at IX(x+1, y+1).
type Grid struct {
	W, H int

	// ones is a W-length vector of 1s used for row reductions.
	ones []float32
}

// NewGrid returns a grid of w x h interior cells.
func NewGrid(w, h int) Grid {
	ones := make([]float32, w)
	for i := range ones {
		ones[i] = 1
	}
	return Grid{W: w, H: h, ones: ones}
}

// Stride returns the padded row length.
func (g Grid) Stride() int { return g.W + 2 }

// Len returns the number of padded cells.
func (g Grid) Len() int { return (g.W + 2) * (g.H + 2) }

// IX maps padded coordinates i in [0, W+1], j in [0, H+1] to a slice index.
func (g Grid) IX(i, j int) int { return i + j*(g.W+2) }

// Alloc returns a zeroed field sized for the grid.
func (g Grid) Alloc() []float32 { return make([]float32, g.Len()) }

// Contains reports whether padded coordinates (i, j) are interior cells.
func (g Grid) Contains(i, j int) bool {
	return i >= 1 && i <= g.W && j >= 1 && j <= g.H
}

// row returns the interior of padded row j as a blas vector.
func (g Grid) row(x []float32, j int) blas32.Vector {
	start := g.IX(1, j)
	return blas32.Vector{N: g.W, Inc: 1, Data: x[start : start+g.W]}
}

// Sum returns the sum of the interior cells of x. Halo cells are excluded.
func (g Grid) Sum(x []float32) float32 {
	if g.W == 0 {
		return 0
	}
	ones := blas32.Vector{N: g.W, Inc: 1, Data: g.ones}
	var total float32
	for j := 1; j <= g.H; j++ {
		total += blas32.Dot(g.row(x, j), ones)
	}
	return total
}

// SumSquares returns the sum of squared interior values of x.
func (g Grid) SumSquares(x []float32) float32 {
	var total float32
	for j := 1; j <= g.H; j++ {
		r := g.row(x, j)
		total += blas32.Dot(r, r)
	}
	return total
}

// Scale multiplies every interior cell of x by alpha in place.
func (g Grid) Scale(alpha float32, x []float32) {
	for j := 1; j <= g.H; j++ {
		blas32.Scal(alpha, g.row(x, j))
	}
}

// Buffer is a double-buffered field. Cur holds the current state and Prev
// holds pending sources or scratch; Swap exchanges their roles without copying.
type Buffer struct {
	a, b    []float32
	swapped bool
}

// NewBuffer allocates both halves of a buffer for g.
func NewBuffer(g Grid) Buffer {
	return Buffer{a: g.Alloc(), b: g.Alloc()}
}

// Cur returns the current field.
func (b *Buffer) Cur() []float32 {
	if b.swapped {
		return b.b
	}
	return b.a
}

// Prev returns the source/scratch field.
func (b *Buffer) Prev() []float32 {
	if b.swapped {
		return b.a
	}
	return b.b
}

// Swap exchanges Cur and Prev.
func (b *Buffer) Swap() { b.swapped = !b.swapped }

// ClearPrev zeroes the source/scratch field.
func (b *Buffer) ClearPrev() { clear(b.Prev()) }

// Clear zeroes both halves.
func (b *Buffer) Clear() {
	clear(b.a)
	clear(b.b)
}
