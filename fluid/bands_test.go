package fluid

import "testing"

func TestBandsCoverage(t *testing.T) {
	for _, w := range []int{1, 2, 7, 50, 64} {
		for n := 1; n <= w+3; n++ {
			bands := Bands(w, n)

			wantN := n
			if wantN > w {
				wantN = w
			}
			if len(bands) != wantN {
				t.Fatalf("w=%d n=%d: expected %d bands, got %d", w, n, wantN, len(bands))
			}

			next := 1
			for k, b := range bands {
				if b.Start != next {
					t.Fatalf("w=%d n=%d: band %d starts at %d, want %d", w, n, k, b.Start, next)
				}
				if b.Width() <= 0 {
					t.Fatalf("w=%d n=%d: band %d is empty", w, n, k)
				}
				next = b.End
			}
			if next != w+1 {
				t.Fatalf("w=%d n=%d: bands end at %d, want %d", w, n, next, w+1)
			}
		}
	}
}

func TestBandsRemainderSplit(t *testing.T) {
	tests := []struct {
		w, n   int
		widths []int
	}{
		{10, 1, []int{10}},
		{10, 2, []int{5, 5}},
		{10, 3, []int{3, 3, 4}},
		{11, 4, []int{3, 2, 2, 4}},
		{50, 8, []int{7, 6, 6, 6, 6, 6, 6, 7}},
	}

	for _, tt := range tests {
		bands := Bands(tt.w, tt.n)
		if len(bands) != len(tt.widths) {
			t.Errorf("Bands(%d, %d): got %d bands, want %d", tt.w, tt.n, len(bands), len(tt.widths))
			continue
		}
		for k, b := range bands {
			if b.Width() != tt.widths[k] {
				t.Errorf("Bands(%d, %d)[%d]: width %d, want %d", tt.w, tt.n, k, b.Width(), tt.widths[k])
			}
		}
	}
}

func TestBandsDegenerate(t *testing.T) {
	if b := Bands(0, 4); b != nil {
		t.Errorf("expected nil for empty grid, got %v", b)
	}
	if b := Bands(5, 0); len(b) != 1 || b[0].Width() != 5 {
		t.Errorf("expected one full band for n=0, got %v", b)
	}
}
