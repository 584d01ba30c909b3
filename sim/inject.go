package sim

import "math"

// inject stamps the pointer stroke into the source fields. Force is always
// applied; smoke and heat only when the pointer is adding smoke.
func (s *Simulation) inject(ptr Pointer) {
	g := s.grid
	cs := s.cfg.CellSize
	thick := s.cfg.LineThickness

	ax, ay := ptr.Prev.X/cs, ptr.Prev.Y/cs
	bx, by := ptr.Cur.X/cs, ptr.Cur.Y/cs
	dx, dy := bx-ax, by-ay

	// Bounding box of the stroke in logical cells, clamped to the grid.
	x0 := clampCell(min(ax, bx)-thick, g.W)
	x1 := clampCell(max(ax, bx)+thick, g.W)
	y0 := clampCell(min(ay, by)-thick, g.H)
	y1 := clampCell(max(ay, by)+thick, g.H)

	uPrev, vPrev := s.u.Prev(), s.v.Prev()
	dens, densPrev := s.dens.Cur(), s.dens.Prev()
	temp, tempPrev := s.temp.Cur(), s.temp.Prev()

	force := s.cfg.MouseForce
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := segmentDistance(float32(x)+0.5, float32(y)+0.5, ax, ay, bx, by)
			if d > thick {
				continue
			}
			f := s.fade(d)
			idx := g.IX(x+1, y+1)

			uPrev[idx] += f * dx * force
			vPrev[idx] += f * dy * force

			if ptr.AddSmoke {
				raise(densPrev, dens, idx, f*s.cfg.TargetDensity)
				raise(tempPrev, temp, idx, f*s.cfg.CursorTemperature)
			}
		}
	}
}

// fade maps distance from the stroke centre line to a weight in [0, 1].
func (s *Simulation) fade(d float32) float32 {
	thick, fade := s.cfg.LineThickness, s.cfg.FadeRange
	if fade <= 0 || d <= thick-fade {
		return 1
	}
	return (thick - d) / fade
}

// raise sets the source so that cur+src reaches target, never lowering cur.
func raise(src, cur []float32, idx int, target float32) {
	if cur[idx] < target {
		src[idx] = max(src[idx], target-cur[idx])
	}
}

// segmentDistance returns the distance from (px, py) to segment a-b.
func segmentDistance(px, py, ax, ay, bx, by float32) float32 {
	d := min(hypot(px-ax, py-ay), hypot(px-bx, py-by))

	dx, dy := bx-ax, by-ay
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t := ((px-ax)*dx + (py-ay)*dy) / l2
		if t >= 0 && t <= 1 {
			d = min(d, hypot(px-(ax+t*dx), py-(ay+t*dy)))
		}
	}
	return d
}

func hypot(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}

// clampCell floors v and clamps it to a logical index in [0, n-1].
func clampCell(v float32, n int) int {
	f := math.Floor(float64(v))
	if f < 0 {
		return 0
	}
	if f > float64(n-1) {
		return n - 1
	}
	return int(f)
}
