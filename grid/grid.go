package grid

import (
	"crypto/md5"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrLimitExceeded is returned when growth would push the board past the
// configured maximum dimensions
var ErrLimitExceeded = errors.New("grid limit exceeded")

// Grid is the double-buffered cell store. Get reads the published
// generation; Set stages writes for the next one, and Swap is the single
// owner-side step that makes the staged generation current. Maximum
// dimensions of zero mean unbounded.
type Grid struct {
	width  int
	height int
	maxW   int
	maxH   int
	mode   Mode

	cur  []CellState
	next []CellState
}

// New creates an empty grid with the specified dimensions
func New(width, height int, mode Mode, maxWidth, maxHeight int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, errors.Errorf("[New] invalid dimensions %dx%d", width, height)
	}
	if exceeds(width, height, maxWidth, maxHeight) {
		return nil, errors.Wrapf(ErrLimitExceeded, "[New] %dx%d exceeds maximum %dx%d",
			width, height, maxWidth, maxHeight)
	}
	return &Grid{
		width:  width,
		height: height,
		maxW:   maxWidth,
		maxH:   maxHeight,
		mode:   mode,
		cur:    make([]CellState, width*height),
		next:   make([]CellState, width*height),
	}, nil
}

func exceeds(w, h, maxW, maxH int) bool {
	return (maxW > 0 && w > maxW) || (maxH > 0 && h > maxH)
}

// Width returns the width of the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the height of the grid
func (g *Grid) Height() int {
	return g.height
}

// Mode returns the active boundary mode
func (g *Grid) Mode() Mode {
	return g.mode
}

// SetMode switches the boundary mode. Callers must only do this between
// generations.
func (g *Grid) SetMode(m Mode) {
	g.mode = m
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.width + c.X
}

// Get returns the published state at c. Out-of-range reads resolve per
// the boundary mode: toroidal wraps, finite and infinite read as dead.
func (g *Grid) Get(c Coord) CellState {
	rc, ok := Resolve(g.mode, g.width, g.height, c)
	if !ok {
		return CellState{}
	}
	return g.cur[g.index(rc)]
}

// Set stages st at c for the next generation. The published buffer is
// untouched until Swap. Writes that resolve off the board are dropped.
func (g *Grid) Set(c Coord, st CellState) {
	rc, ok := Resolve(g.mode, g.width, g.height, c)
	if !ok {
		return
	}
	g.next[g.index(rc)] = st
}

// SetCurrent writes st directly into the published buffer. Only the
// generation owner may use this, and only between ticks.
func (g *Grid) SetCurrent(c Coord, st CellState) {
	rc, ok := Resolve(g.mode, g.width, g.height, c)
	if !ok {
		return
	}
	g.cur[g.index(rc)] = st
}

// Swap publishes the staged generation
func (g *Grid) Swap() {
	g.cur, g.next = g.next, g.cur
}

// Neighbors returns the adjacent coordinates of c under the active mode
func (g *Grid) Neighbors(c Coord) []Coord {
	return Neighbors(g.mode, g.width, g.height, c)
}

// Expand grows the board by one row or column per flagged edge. Growing
// toward the origin shifts existing content by +1 on that axis, so a
// cell that sat on the old edge keeps its position relative to the new
// one. A growth that would exceed the maximum dimensions returns
// ErrLimitExceeded and mutates nothing.
func (g *Grid) Expand(dirs DirSet) error {
	if dirs.Empty() {
		return nil
	}
	var l, u, r, d int
	if dirs.Has(Left) {
		l = 1
	}
	if dirs.Has(Up) {
		u = 1
	}
	if dirs.Has(Right) {
		r = 1
	}
	if dirs.Has(Down) {
		d = 1
	}
	return g.grow(l, u, r, d)
}

// Ensure grows the board, within limits, until the rectangle spanned by
// min and max fits. The returned offset is how far existing content
// shifted, which is also the correction callers must apply to any
// coordinate captured before the call.
func (g *Grid) Ensure(min, max Coord) (Coord, error) {
	var l, u, r, d int
	if min.X < 0 {
		l = -min.X
	}
	if min.Y < 0 {
		u = -min.Y
	}
	if max.X >= g.width {
		r = max.X - g.width + 1
	}
	if max.Y >= g.height {
		d = max.Y - g.height + 1
	}
	if err := g.grow(l, u, r, d); err != nil {
		return Coord{}, err
	}
	return Coord{X: l, Y: u}, nil
}

// grow reallocates both buffers with the given padding per edge and
// copies the published content into place. The staged buffer starts
// clean; it is fully rewritten every tick anyway.
func (g *Grid) grow(left, up, right, down int) error {
	if left == 0 && up == 0 && right == 0 && down == 0 {
		return nil
	}
	var (
		newW = g.width + left + right
		newH = g.height + up + down
	)
	if exceeds(newW, newH, g.maxW, g.maxH) {
		return errors.Wrapf(ErrLimitExceeded, "[grow] %dx%d exceeds maximum %dx%d",
			newW, newH, g.maxW, g.maxH)
	}
	cur := make([]CellState, newW*newH)
	for y := 0; y < g.height; y++ {
		copy(cur[(y+up)*newW+left:], g.cur[y*g.width:(y+1)*g.width])
	}
	g.width, g.height = newW, newH
	g.cur = cur
	g.next = make([]CellState, newW*newH)
	return nil
}

// Resize grows (amount > 0) or shrinks (amount < 0) the board at the
// given edge. Shrinking clamps so at least one row and one column
// survive; cells in the removed strip are discarded. The returned offset
// reports the coordinate shift for edits at the Up or Left edge.
func (g *Grid) Resize(edge Dir, amount int) (Coord, error) {
	if amount == 0 {
		return Coord{}, nil
	}
	if amount > 0 {
		var l, u, r, d int
		switch edge {
		case Up:
			u = amount
		case Right:
			r = amount
		case Down:
			d = amount
		case Left:
			l = amount
		}
		if err := g.grow(l, u, r, d); err != nil {
			return Coord{}, err
		}
		switch edge {
		case Up:
			return Coord{Y: amount}, nil
		case Left:
			return Coord{X: amount}, nil
		}
		return Coord{}, nil
	}

	cut := -amount
	if edge == Left || edge == Right {
		if cut >= g.width {
			cut = g.width - 1
		}
	} else {
		if cut >= g.height {
			cut = g.height - 1
		}
	}
	if cut == 0 {
		return Coord{}, nil
	}
	var (
		newW = g.width
		newH = g.height
		offX int
		offY int
	)
	switch edge {
	case Left:
		newW -= cut
		offX = cut
	case Right:
		newW -= cut
	case Up:
		newH -= cut
		offY = cut
	case Down:
		newH -= cut
	}
	cur := make([]CellState, newW*newH)
	for y := 0; y < newH; y++ {
		src := (y+offY)*g.width + offX
		copy(cur[y*newW:(y+1)*newW], g.cur[src:src+newW])
	}
	g.width, g.height = newW, newH
	g.cur = cur
	g.next = make([]CellState, newW*newH)
	var shift Coord
	if edge == Left {
		shift.X = -cut
	}
	if edge == Up {
		shift.Y = -cut
	}
	return shift, nil
}

// Clear kills every cell in both buffers
func (g *Grid) Clear() {
	for i := range g.cur {
		g.cur[i] = CellState{}
	}
	for i := range g.next {
		g.next[i] = CellState{}
	}
}

// Randomize fills the published buffer with random living cells
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	for i := range g.cur {
		if rng.Float64() < density {
			g.cur[i] = CellState{Alive: true, Age: 1}
		} else {
			g.cur[i] = CellState{}
		}
	}
}

// LiveCells copies the published live cells into a coordinate-keyed map
func (g *Grid) LiveCells() map[Coord]CellState {
	out := make(map[Coord]CellState)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if st := g.cur[y*g.width+x]; st.Alive {
				out[Coord{X: x, Y: y}] = st
			}
		}
	}
	return out
}

// Population returns the total number of living cells
func (g *Grid) Population() (count int) {
	for i := range g.cur {
		if g.cur[i].Alive {
			count++
		}
	}
	return
}

// Fingerprint returns an efficient MD5 hash of the published aliveness
// pattern. Ages are excluded so a frozen or oscillating board hashes to
// a repeating sequence, which is what stagnation detection keys on.
func (g *Grid) Fingerprint() string {
	h := md5.New()
	for i := range g.cur {
		if g.cur[i].Alive {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
