package engine

import "cellmesh/grid"

// Snapshot is the immutable view of one completed generation handed to
// renderers and metrics collectors. Live holds only living cells; At
// folds missing entries back into the dead zero state. A snapshot is
// never mutated after publication, so readers may hold it indefinitely.
type Snapshot struct {
	Width      int
	Height     int
	Mode       grid.Mode
	Generation int
	Births     int
	Deaths     int
	Live       map[grid.Coord]grid.CellState
}

// At returns the state at c, dead when c holds no live cell
func (s *Snapshot) At(c grid.Coord) grid.CellState {
	return s.Live[c]
}

// Population is the number of living cells
func (s *Snapshot) Population() int {
	return len(s.Live)
}
