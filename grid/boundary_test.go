package grid

import (
	"testing"
)

func TestFiniteNeighborCounts(t *testing.T) {
	cases := []struct {
		name string
		at   Coord
		want int
	}{
		{name: "interior", at: Coord{X: 2, Y: 2}, want: 8},
		{name: "corner", at: Coord{X: 0, Y: 0}, want: 3},
		{name: "edge", at: Coord{X: 2, Y: 0}, want: 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Neighbors(Finite, 5, 5, tc.at)
			if len(got) != tc.want {
				t.Fatalf("neighbors of (%d,%d) = %d, want %d", tc.at.X, tc.at.Y, len(got), tc.want)
			}
			seen := make(map[Coord]struct{}, len(got))
			for _, n := range got {
				if n.X < 0 || n.X >= 5 || n.Y < 0 || n.Y >= 5 {
					t.Fatalf("neighbor (%d,%d) is off the board", n.X, n.Y)
				}
				if _, dup := seen[n]; dup {
					t.Fatalf("neighbor (%d,%d) listed twice on a finite board", n.X, n.Y)
				}
				seen[n] = struct{}{}
			}
		})
	}
}

func TestToroidalNeighborsAlwaysEight(t *testing.T) {
	for _, at := range []Coord{{0, 0}, {4, 0}, {0, 4}, {4, 4}, {2, 2}} {
		got := Neighbors(Toroidal, 5, 5, at)
		if len(got) != 8 {
			t.Fatalf("toroidal neighbors of (%d,%d) = %d, want 8", at.X, at.Y, len(got))
		}
		for _, n := range got {
			if n.X < 0 || n.X >= 5 || n.Y < 0 || n.Y >= 5 {
				t.Fatalf("toroidal neighbor (%d,%d) did not wrap onto the board", n.X, n.Y)
			}
		}
	}
}

func TestToroidalNeighborMultiplicity(t *testing.T) {
	// On a 2x2 torus several deltas land on the same cell; the raw list
	// must keep every occurrence.
	got := Neighbors(Toroidal, 2, 2, Coord{X: 0, Y: 0})
	if len(got) != 8 {
		t.Fatalf("got %d neighbors, want 8", len(got))
	}
	counts := make(map[Coord]int)
	for _, n := range got {
		counts[n]++
	}
	want := map[Coord]int{
		{X: 1, Y: 1}: 4,
		{X: 0, Y: 1}: 2,
		{X: 1, Y: 0}: 2,
	}
	for c, n := range want {
		if counts[c] != n {
			t.Fatalf("neighbor (%d,%d) counted %d times, want %d", c.X, c.Y, counts[c], n)
		}
	}
	if counts[Coord{X: 0, Y: 0}] != 0 {
		t.Fatalf("cell listed itself as a neighbor on a 2x2 torus")
	}
}

func TestInfiniteResolvesLikeFinite(t *testing.T) {
	for _, at := range []Coord{{0, 0}, {2, 2}, {4, 4}} {
		fin := Neighbors(Finite, 5, 5, at)
		inf := Neighbors(Infinite, 5, 5, at)
		if len(fin) != len(inf) {
			t.Fatalf("neighbor counts diverge at (%d,%d): finite %d, infinite %d",
				at.X, at.Y, len(fin), len(inf))
		}
		for i := range fin {
			if fin[i] != inf[i] {
				t.Fatalf("neighbor %d diverges at (%d,%d): finite (%d,%d), infinite (%d,%d)",
					i, at.X, at.Y, fin[i].X, fin[i].Y, inf[i].X, inf[i].Y)
			}
		}
	}
}

func TestModeCycle(t *testing.T) {
	order := []Mode{Finite, Toroidal, Infinite, Finite}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Cycle(); got != order[i+1] {
			t.Fatalf("%s.Cycle() = %s, want %s", order[i], got, order[i+1])
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{in: "finite", want: Finite},
		{in: "toroidal", want: Toroidal},
		{in: "Torus", want: Toroidal},
		{in: "wrap", want: Toroidal},
		{in: "infinite", want: Infinite},
		{in: " expand ", want: Infinite},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if err != nil {
			t.Fatalf("ParseMode(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseMode("klein bottle"); err == nil {
		t.Fatal("ParseMode accepted an unknown mode")
	}
}

func TestNeedsExpansion(t *testing.T) {
	g, err := New(4, 3, Infinite, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dirs := g.NeedsExpansion(); !dirs.Empty() {
		t.Fatalf("empty board flagged edges %v", dirs)
	}

	g.SetCurrent(Coord{X: 3, Y: 1}, CellState{Alive: true, Age: 1})
	dirs := g.NeedsExpansion()
	if !dirs.Has(Right) {
		t.Fatal("live cell on the right edge not flagged")
	}
	if dirs.Has(Left) || dirs.Has(Up) || dirs.Has(Down) {
		t.Fatalf("unexpected edges flagged: %v", dirs)
	}

	g.SetCurrent(Coord{X: 0, Y: 0}, CellState{Alive: true, Age: 1})
	dirs = g.NeedsExpansion()
	for _, d := range []Dir{Up, Left, Right} {
		if !dirs.Has(d) {
			t.Fatalf("corner cell did not flag %s", d)
		}
	}
	if dirs.Has(Down) {
		t.Fatal("bottom edge flagged with no live cell on it")
	}
}
