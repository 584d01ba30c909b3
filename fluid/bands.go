package fluid

// Band is a half-open range [Start, End) of padded column indices.
type Band struct {
	Start, End int
}

// Width returns the number of columns in the band.
func (b Band) Width() int { return b.End - b.Start }

// Bands splits the interior columns 1..w into n contiguous bands.
// n is clamped to [1, w]. The remainder of w/n is shared between the first
// and last band so interior bands stay equal.
func Bands(w, n int) []Band {
	if w <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > w {
		n = w
	}

	base := w / n
	rem := w % n

	bands := make([]Band, n)
	start := 1
	for k := range bands {
		width := base
		switch {
		case n == 1:
			width = w
		case k == 0:
			width = base + rem/2
		case k == n-1:
			width = base + rem - rem/2
		}
		bands[k] = Band{Start: start, End: start + width}
		start += width
	}
	return bands
}
