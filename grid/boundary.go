package grid

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how neighbor lookups treat the board edges
type Mode uint8

const (
	// Finite drops neighbors that fall outside the board
	Finite Mode = iota
	// Toroidal wraps coordinates modulo the board dimensions
	Toroidal
	// Infinite resolves like Finite for lookups; the board itself grows
	// when live cells reach an edge
	Infinite

	numModes
)

func (m Mode) String() string {
	switch m {
	case Finite:
		return "finite"
	case Toroidal:
		return "toroidal"
	case Infinite:
		return "infinite"
	}
	return "unknown"
}

// Cycle returns the next mode in the finite, toroidal, infinite rotation
func (m Mode) Cycle() Mode {
	return (m + 1) % numModes
}

// ParseMode maps a config or flag string onto a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "finite":
		return Finite, nil
	case "toroidal", "torus", "wrap":
		return Toroidal, nil
	case "infinite", "expand":
		return Infinite, nil
	}
	return Finite, errors.Errorf("[ParseMode] unknown boundary mode: %q", s)
}

// resolveFns dispatches edge resolution per mode. The table is indexed
// by Mode, so the three entries must stay in declaration order.
var resolveFns = [numModes]func(w, h int, c Coord) (Coord, bool){
	Finite:   resolveFinite,
	Toroidal: resolveToroidal,
	Infinite: resolveFinite,
}

// Resolve maps a raw coordinate onto the board under the given mode.
// The second result is false when the coordinate has no board position.
func Resolve(m Mode, w, h int, c Coord) (Coord, bool) {
	return resolveFns[m](w, h, c)
}

func resolveFinite(w, h int, c Coord) (Coord, bool) {
	if c.X < 0 || c.X >= w || c.Y < 0 || c.Y >= h {
		return Coord{}, false
	}
	return c, true
}

func resolveToroidal(w, h int, c Coord) (Coord, bool) {
	return Coord{X: wrap(c.X, w), Y: wrap(c.Y, h)}, true
}

// wrap implements a floored modulo so negative coordinates wrap cleanly
func wrap(v, n int) int {
	return (v%n + n) % n
}

// Neighbor resolves coord plus delta under the given mode
func Neighbor(m Mode, w, h int, c, delta Coord) (Coord, bool) {
	return Resolve(m, w, h, c.Add(delta))
}

// Neighbors returns the adjacent coordinates of c under the given mode.
// Finite and Infinite boards drop out-of-range positions, so edge cells
// see fewer than eight entries. Toroidal boards always yield exactly
// eight; on boards narrower than three cells the same coordinate appears
// more than once and callers must honor that multiplicity when counting.
func Neighbors(m Mode, w, h int, c Coord) []Coord {
	out := make([]Coord, 0, len(neighborDeltas))
	for _, d := range neighborDeltas {
		if n, ok := Neighbor(m, w, h, c, d); ok {
			out = append(out, n)
		}
	}
	return out
}

// NeedsExpansion reports which edges of the published generation hold
// live cells. It is a pure read; acting on the result is the caller's
// decision and only makes sense in Infinite mode.
func (g *Grid) NeedsExpansion() DirSet {
	var dirs DirSet
	for x := 0; x < g.width; x++ {
		if g.cur[x].Alive {
			dirs = dirs.With(Up)
			break
		}
	}
	bottom := (g.height - 1) * g.width
	for x := 0; x < g.width; x++ {
		if g.cur[bottom+x].Alive {
			dirs = dirs.With(Down)
			break
		}
	}
	for y := 0; y < g.height; y++ {
		if g.cur[y*g.width].Alive {
			dirs = dirs.With(Left)
			break
		}
	}
	for y := 0; y < g.height; y++ {
		if g.cur[y*g.width+g.width-1].Alive {
			dirs = dirs.With(Right)
			break
		}
	}
	return dirs
}
