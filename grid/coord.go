package grid

// Coord identifies one cell position on the board
type Coord struct {
	X int
	Y int
}

// Add returns the coordinate offset by the given delta
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// CellState is the per-cell payload: aliveness plus the number of
// consecutive generations the cell has been alive. The zero value is a
// dead cell.
type CellState struct {
	Alive bool
	Age   int
}

// PlacedCell pairs a pattern-relative offset with the state to stamp
// there when the pattern is applied to a board
type PlacedCell struct {
	Offset Coord
	Alive  bool
}

// Dir identifies one edge of the board. Up is toward row zero, Left is
// toward column zero.
type Dir uint8

const (
	Up Dir = iota
	Right
	Down
	Left

	numDirs
)

func (d Dir) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "unknown"
}

// DirSet is a bitmask of board edges
type DirSet uint8

// With returns the set extended by d
func (s DirSet) With(d Dir) DirSet {
	return s | 1<<d
}

// Has reports whether d is in the set
func (s DirSet) Has(d Dir) bool {
	return s&(1<<d) != 0
}

// Empty reports whether no edge is flagged
func (s DirSet) Empty() bool {
	return s == 0
}

// neighborDeltas enumerates the eight surrounding offsets in row-major
// order
var neighborDeltas = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
