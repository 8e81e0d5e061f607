package pattern

import (
	"cellmesh/grid"
)

// Pattern is a rectangular stamp of cells decoded from RLE
type Pattern struct {
	Name    string
	Author  string
	Comment string
	Width   int
	Height  int
	Cells   []bool
}

// At reports whether the cell at the given offset is alive. Offsets
// outside the rectangle are dead.
func (p *Pattern) At(x, y int) bool {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return false
	}
	return p.Cells[y*p.Width+x]
}

// Population returns the number of live cells in the pattern
func (p *Pattern) Population() (count int) {
	for _, alive := range p.Cells {
		if alive {
			count++
		}
	}
	return count
}

// Rotated returns the pattern turned clockwise by the given number of
// quarter turns. Negative turns rotate counterclockwise.
func (p *Pattern) Rotated(turns int) *Pattern {
	turns = ((turns % 4) + 4) % 4
	out := p
	for i := 0; i < turns; i++ {
		out = out.quarter()
	}
	return out
}

// quarter returns a copy rotated clockwise once
func (p *Pattern) quarter() *Pattern {
	q := &Pattern{
		Name:    p.Name,
		Author:  p.Author,
		Comment: p.Comment,
		Width:   p.Height,
		Height:  p.Width,
		Cells:   make([]bool, len(p.Cells)),
	}
	for y := range p.Height {
		for x := range p.Width {
			if p.Cells[y*p.Width+x] {
				q.Cells[x*q.Width+(q.Width-1-y)] = true
			}
		}
	}
	return q
}

// Placement expands the pattern into explicit cells covering its full
// rectangle, dead cells included, so stamping it clears the footprint
func (p *Pattern) Placement() []grid.PlacedCell {
	cells := make([]grid.PlacedCell, 0, len(p.Cells))
	for y := range p.Height {
		for x := range p.Width {
			cells = append(cells, grid.PlacedCell{
				Offset: grid.Coord{X: x, Y: y},
				Alive:  p.Cells[y*p.Width+x],
			})
		}
	}
	return cells
}

// Centered returns the origin that centers the pattern on a board of
// the given size
func (p *Pattern) Centered(width, height int) grid.Coord {
	return grid.Coord{
		X: (width - p.Width) / 2,
		Y: (height - p.Height) / 2,
	}
}
