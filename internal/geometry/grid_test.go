package geometry

import "testing"

func TestCellCornerRoundTrip(t *testing.T) {
	d := Dims{W: 4, H: 3}
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			idx := d.CellIndex(x, y)
			gotX, gotY := d.CellXY(idx)
			if gotX != x || gotY != y {
				t.Errorf("CellXY(CellIndex(%d,%d)) = (%d,%d)", x, y, gotX, gotY)
			}
		}
	}
	for cy := 0; cy <= d.H; cy++ {
		for cx := 0; cx <= d.W; cx++ {
			idx := d.CornerIndex(cx, cy)
			gotX, gotY := d.CornerXY(idx)
			if gotX != cx || gotY != cy {
				t.Errorf("CornerXY(CornerIndex(%d,%d)) = (%d,%d)", cx, cy, gotX, gotY)
			}
		}
	}
}

func TestMaxIncidence(t *testing.T) {
	d := Dims{W: 3, H: 3}
	cases := []struct {
		cx, cy int
		want   int
	}{
		{0, 0, 1},
		{3, 0, 1},
		{0, 3, 1},
		{3, 3, 1},
		{1, 0, 2},
		{0, 1, 2},
		{3, 2, 2},
		{1, 1, 4},
		{2, 2, 4},
	}
	for _, c := range cases {
		if got := d.MaxIncidence(c.cx, c.cy); got != c.want {
			t.Errorf("MaxIncidence(%d,%d) = %d, want %d", c.cx, c.cy, got, c.want)
		}
	}
}

func TestAdjacentsOfCornerCount(t *testing.T) {
	d := Dims{W: 2, H: 2}
	for cy := 0; cy <= d.H; cy++ {
		for cx := 0; cx <= d.W; cx++ {
			got := len(d.AdjacentsOfCorner(cx, cy))
			want := d.MaxIncidence(cx, cy)
			if got != want {
				t.Errorf("AdjacentsOfCorner(%d,%d) returned %d cells, MaxIncidence says %d", cx, cy, got, want)
			}
		}
	}
}

func TestEndpointsMatchSlashBackslash(t *testing.T) {
	d := Dims{W: 2, H: 2}
	slashC1, slashC2 := d.SlashEndpoints(0, 0)
	idx1, idx2 := d.Endpoints(0, 0, Slash)
	if idx1 != d.CornerIndex(slashC1[0], slashC1[1]) || idx2 != d.CornerIndex(slashC2[0], slashC2[1]) {
		t.Error("Endpoints(Slash) does not match SlashEndpoints")
	}

	backC1, backC2 := d.BackslashEndpoints(0, 0)
	idx1, idx2 = d.Endpoints(0, 0, Backslash)
	if idx1 != d.CornerIndex(backC1[0], backC1[1]) || idx2 != d.CornerIndex(backC2[0], backC2[1]) {
		t.Error("Endpoints(Backslash) does not match BackslashEndpoints")
	}
}

func TestNonEndpointCornersDisjointFromEndpoints(t *testing.T) {
	d := Dims{W: 2, H: 2}
	for _, o := range []Orientation{Slash, Backslash} {
		e1, e2 := d.Endpoints(0, 0, o)
		n1, n2 := d.NonEndpointCorners(0, 0, o)
		for _, n := range []int{n1, n2} {
			if n == e1 || n == e2 {
				t.Errorf("orientation %v: non-endpoint corner %d overlaps an endpoint", o, n)
			}
		}
	}
}

func TestIsBorderCorner(t *testing.T) {
	d := Dims{W: 3, H: 2}
	if !d.IsBorderCorner(0, 0) || !d.IsBorderCorner(3, 2) {
		t.Error("grid corners should be border corners")
	}
	if d.IsBorderCorner(1, 1) {
		t.Error("(1,1) is interior for a 3x2 grid")
	}
}
