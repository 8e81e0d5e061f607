package engine

import (
	"testing"

	"github.com/pkg/errors"

	"cellmesh/grid"
)

// rect builds a full-rectangle placement from a live-cell bitmap, the
// shape PlacePattern expects
func rect(w, h int, live ...grid.Coord) []grid.PlacedCell {
	set := make(map[grid.Coord]struct{}, len(live))
	for _, c := range live {
		set[c] = struct{}{}
	}
	cells := make([]grid.PlacedCell, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			at := grid.Coord{X: x, Y: y}
			_, alive := set[at]
			cells = append(cells, grid.PlacedCell{Offset: at, Alive: alive})
		}
	}
	return cells
}

func blockCells() []grid.PlacedCell {
	return rect(2, 2,
		grid.Coord{X: 0, Y: 0}, grid.Coord{X: 1, Y: 0},
		grid.Coord{X: 0, Y: 1}, grid.Coord{X: 1, Y: 1})
}

func TestPlacePatternValidation(t *testing.T) {
	e := newTestEngine(t, testConfig(6, 6, "finite"))

	cases := []struct {
		name  string
		cells []grid.PlacedCell
	}{
		{name: "empty list", cells: nil},
		{name: "L shape holes", cells: []grid.PlacedCell{
			{Offset: grid.Coord{X: 0, Y: 0}, Alive: true},
			{Offset: grid.Coord{X: 0, Y: 1}, Alive: true},
			{Offset: grid.Coord{X: 1, Y: 1}, Alive: true},
		}},
		{name: "duplicate offset", cells: []grid.PlacedCell{
			{Offset: grid.Coord{X: 0, Y: 0}, Alive: true},
			{Offset: grid.Coord{X: 0, Y: 0}, Alive: false},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.PlacePattern(grid.Coord{X: 1, Y: 1}, tc.cells)
			if !errors.Is(err, ErrInvalidPlacement) {
				t.Fatalf("PlacePattern returned %v, want ErrInvalidPlacement", err)
			}
		})
	}

	// Rejected placements never reach the queue.
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if pop := e.Snapshot().Population(); pop != 0 {
		t.Fatalf("rejected placement stamped %d cells", pop)
	}
}

func TestPlacePatternStampsRectangle(t *testing.T) {
	e := newTestEngine(t, testConfig(6, 6, "finite"))
	seed(t, e, grid.Coord{X: 2, Y: 2})

	if err := e.PlacePattern(grid.Coord{X: 2, Y: 2}, blockCells()); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	snap := e.Snapshot()
	if snap.Population() != 4 {
		t.Fatalf("population = %d, want 4", snap.Population())
	}
	for _, c := range []grid.Coord{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}} {
		st := snap.At(c)
		if !st.Alive || st.Age != 1 {
			t.Fatalf("cell (%d,%d) = %+v, want alive with age 1", c.X, c.Y, st)
		}
	}
}

func TestPlacePatternDeadCellsErase(t *testing.T) {
	e := newTestEngine(t, testConfig(6, 6, "finite"))
	seed(t, e, grid.Coord{X: 1, Y: 1})

	// A rectangle with only its far corner alive overwrites the toggled
	// cell with a dead stamp.
	cells := rect(2, 2, grid.Coord{X: 1, Y: 1})
	if err := e.PlacePattern(grid.Coord{X: 1, Y: 1}, cells); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	snap := e.Snapshot()
	if snap.At(grid.Coord{X: 1, Y: 1}).Alive {
		t.Fatal("dead stamp left the underlying cell alive")
	}
	if !snap.At(grid.Coord{X: 2, Y: 2}).Alive {
		t.Fatal("live stamp missing")
	}
	if snap.Population() != 1 {
		t.Fatalf("population = %d, want 1", snap.Population())
	}
}

func TestPlacePatternClipsOnFiniteBoard(t *testing.T) {
	e := newTestEngine(t, testConfig(10, 10, "finite"))

	if err := e.PlacePattern(grid.Coord{X: 9, Y: 9}, blockCells()); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	snap := e.Snapshot()
	if snap.Population() != 1 {
		t.Fatalf("population = %d after clipping, want 1", snap.Population())
	}
	if !snap.At(grid.Coord{X: 9, Y: 9}).Alive {
		t.Fatal("in-range corner of the clipped stamp missing")
	}

	// Fully off the board everything clips away.
	if err := e.PlacePattern(grid.Coord{X: 20, Y: 20}, blockCells()); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if pop := e.Snapshot().Population(); pop != 1 {
		t.Fatalf("off-board stamp changed the population to %d", pop)
	}
}

func TestPlacePatternWrapsOnTorus(t *testing.T) {
	e := newTestEngine(t, testConfig(5, 5, "toroidal"))

	cells := rect(3, 1,
		grid.Coord{X: 0, Y: 0}, grid.Coord{X: 1, Y: 0}, grid.Coord{X: 2, Y: 0})
	if err := e.PlacePattern(grid.Coord{X: 4, Y: 1}, cells); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	snap := e.Snapshot()
	for _, c := range []grid.Coord{{X: 4, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		if !snap.At(c).Alive {
			t.Fatalf("cell (%d,%d) dead, stamp did not wrap the seam", c.X, c.Y)
		}
	}
	if snap.Population() != 3 {
		t.Fatalf("population = %d, want 3", snap.Population())
	}
}

func TestPlacePatternGrowsInfiniteBoard(t *testing.T) {
	e := newTestEngine(t, testConfig(7, 7, "infinite"))

	if err := e.PlacePattern(grid.Coord{X: 6, Y: 2}, blockCells()); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	snap := e.Snapshot()
	if snap.Width != 8 || snap.Height != 7 {
		t.Fatalf("board is %dx%d after the stamp, want 8x7", snap.Width, snap.Height)
	}
	for _, c := range []grid.Coord{{X: 6, Y: 2}, {X: 7, Y: 2}, {X: 6, Y: 3}, {X: 7, Y: 3}} {
		if !snap.At(c).Alive {
			t.Fatalf("cell (%d,%d) dead after the growing stamp", c.X, c.Y)
		}
	}

	// The block now touches the right edge, so the next tick grows the
	// board once more; a still life is otherwise untouched.
	snap = advance(t, e)
	if snap.Width != 9 {
		t.Fatalf("width = %d after the edge tick, want 9", snap.Width)
	}
	if snap.Population() != 4 || !snap.At(grid.Coord{X: 6, Y: 2}).Alive {
		t.Fatal("still life disturbed by edge expansion")
	}
}

func TestPlacePatternNegativeOriginShifts(t *testing.T) {
	e := newTestEngine(t, testConfig(5, 5, "infinite"))
	seed(t, e, grid.Coord{X: 2, Y: 2})

	if err := e.PlacePattern(grid.Coord{X: -1, Y: -1}, blockCells()); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	snap := e.Snapshot()
	if snap.Width != 6 || snap.Height != 6 {
		t.Fatalf("board is %dx%d, want 6x6", snap.Width, snap.Height)
	}
	// The board grew one step toward the origin, so the stamp lands at
	// (0,0) and the pre-existing cell moved to (3,3).
	for _, c := range []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		if !snap.At(c).Alive {
			t.Fatalf("cell (%d,%d) dead after the shifted stamp", c.X, c.Y)
		}
	}
	if !snap.At(grid.Coord{X: 3, Y: 3}).Alive {
		t.Fatal("existing content did not shift with the growth")
	}
}

func TestSetBoundaryModeTakesEffect(t *testing.T) {
	e := newTestEngine(t, testConfig(5, 5, "finite"))
	e.SetBoundaryMode(grid.Toroidal)
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := e.Snapshot().Mode; got != grid.Toroidal {
		t.Fatalf("mode = %s, want toroidal", got)
	}

	// A corner cell now wraps: seed a blinker crossing the seam and
	// check it oscillates instead of starving.
	seed(t, e,
		grid.Coord{X: 4, Y: 2}, grid.Coord{X: 0, Y: 2}, grid.Coord{X: 1, Y: 2})
	snap := advance(t, e)
	for _, c := range []grid.Coord{{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3}} {
		if !snap.At(c).Alive {
			t.Fatalf("cell (%d,%d) dead, seam neighbors not counted", c.X, c.Y)
		}
	}
}

func TestRestartResetsGeneration(t *testing.T) {
	cfg := testConfig(6, 6, "finite")
	cfg.RandomDensity = 0.4
	cfg.Seed = 7
	e := newTestEngine(t, cfg)

	for i := 0; i < 3; i++ {
		advance(t, e)
	}
	if got := e.Snapshot().Generation; got != 3 {
		t.Fatalf("generation = %d, want 3", got)
	}

	e.Restart(8, 4, 0)
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	snap := e.Snapshot()
	if snap.Generation != 0 {
		t.Fatalf("generation = %d after restart, want 0", snap.Generation)
	}
	if snap.Width != 8 || snap.Height != 4 {
		t.Fatalf("board is %dx%d after restart, want 8x4", snap.Width, snap.Height)
	}
	if snap.Population() != 0 {
		t.Fatalf("density 0 restart left %d live cells", snap.Population())
	}
}

func TestRestartBeyondLimitFails(t *testing.T) {
	cfg := testConfig(5, 5, "finite")
	cfg.MaxWidth = 10
	cfg.MaxHeight = 10
	e := newTestEngine(t, cfg)

	e.Restart(20, 5, 0)
	err := e.Flush()
	if !errors.Is(err, grid.ErrLimitExceeded) {
		t.Fatalf("Flush returned %v, want ErrLimitExceeded", err)
	}
	// The old board survives a rejected restart.
	snap := e.Snapshot()
	if snap.Width != 5 || snap.Height != 5 {
		t.Fatalf("board is %dx%d after the rejected restart, want 5x5", snap.Width, snap.Height)
	}
}

func TestClearPreservesGeneration(t *testing.T) {
	e := newTestEngine(t, testConfig(5, 5, "finite"))
	seed(t, e,
		grid.Coord{X: 1, Y: 2}, grid.Coord{X: 2, Y: 2}, grid.Coord{X: 3, Y: 2})
	advance(t, e)

	e.Clear()
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	snap := e.Snapshot()
	if snap.Population() != 0 {
		t.Fatalf("population = %d after Clear, want 0", snap.Population())
	}
	if snap.Generation != 1 {
		t.Fatalf("Clear reset the generation to %d", snap.Generation)
	}
}

func TestToggleCellFlips(t *testing.T) {
	e := newTestEngine(t, testConfig(4, 4, "finite"))
	at := grid.Coord{X: 2, Y: 1}

	e.ToggleCell(at)
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if st := e.Snapshot().At(at); !st.Alive || st.Age != 1 {
		t.Fatalf("toggled cell = %+v, want alive with age 1", st)
	}

	e.ToggleCell(at)
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if e.Snapshot().At(at).Alive {
		t.Fatal("second toggle left the cell alive")
	}
}

func TestResizeCommandMovesContent(t *testing.T) {
	e := newTestEngine(t, testConfig(5, 5, "finite"))
	seed(t, e, grid.Coord{X: 1, Y: 1})

	e.Resize(grid.Left, 2)
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	snap := e.Snapshot()
	if snap.Width != 7 || snap.Height != 5 {
		t.Fatalf("board is %dx%d, want 7x5", snap.Width, snap.Height)
	}
	if !snap.At(grid.Coord{X: 3, Y: 1}).Alive {
		t.Fatal("content did not shift with the left growth")
	}

	e.Resize(grid.Up, -1)
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	snap = e.Snapshot()
	if snap.Width != 7 || snap.Height != 4 {
		t.Fatalf("board is %dx%d, want 7x4", snap.Width, snap.Height)
	}
	if !snap.At(grid.Coord{X: 3, Y: 0}).Alive {
		t.Fatal("content did not shift after the top cut")
	}
}

func TestCommandsApplyInOrder(t *testing.T) {
	e := newTestEngine(t, testConfig(5, 5, "finite"))

	e.SetBoundaryMode(grid.Toroidal)
	if err := e.PlacePattern(grid.Coord{X: 1, Y: 1}, blockCells()); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	e.Clear()
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	snap := e.Snapshot()
	if snap.Population() != 0 {
		t.Fatalf("population = %d, the Clear queued last did not win", snap.Population())
	}
	if snap.Mode != grid.Toroidal {
		t.Fatalf("mode = %s, want toroidal", snap.Mode)
	}
}
