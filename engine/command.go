package engine

import (
	"github.com/pkg/errors"

	"cellmesh/grid"
)

// Commands mutate simulation state only between ticks: Advance drains
// the queue in arrival order before any actor runs. Each kind reports
// whether it edited cell contents and whether mesh topology changed.
type command interface {
	apply(e *Engine) (dirty, rebuild bool, err error)
}

// PlacePattern queues a pattern stamp anchored at origin. The cell list
// must tile a full rectangle: every offset inside its bounding box
// exactly once, dead entries included. Malformed geometry is rejected
// here, before the command ever reaches the tick pipeline, and the grid
// is left untouched. Out-of-range stamps are accepted: finite boards
// clip them, toroidal boards wrap them, and infinite boards grow to fit.
func (e *Engine) PlacePattern(origin grid.Coord, cells []grid.PlacedCell) error {
	if err := validatePlacement(cells); err != nil {
		return err
	}
	e.enqueue(placePattern{origin: origin, cells: append([]grid.PlacedCell(nil), cells...)})
	return nil
}

// SetBoundaryMode queues a switch to the given boundary mode
func (e *Engine) SetBoundaryMode(m grid.Mode) {
	e.enqueue(setBoundary{mode: m})
}

// Resize queues a board edit at one edge: positive amounts add rows or
// columns there, negative amounts remove them
func (e *Engine) Resize(edge grid.Dir, amount int) {
	e.enqueue(resize{edge: edge, amount: amount})
}

// Restart queues a wholesale reset: a fresh board with the given
// dimensions, randomly seeded at the given density. The generation
// counter starts over.
func (e *Engine) Restart(width, height int, density float64) {
	e.enqueue(restart{width: width, height: height, density: density})
}

// Clear queues a board wipe
func (e *Engine) Clear() {
	e.enqueue(clearCells{})
}

// ToggleCell queues an aliveness flip at pos
func (e *Engine) ToggleCell(pos grid.Coord) {
	e.enqueue(toggleCell{pos: pos})
}

func (e *Engine) enqueue(c command) {
	e.cmdMu.Lock()
	e.pending = append(e.pending, c)
	e.cmdMu.Unlock()
}

// drainCommands applies everything queued, in arrival order
func (e *Engine) drainCommands() (dirty, rebuild bool, err error) {
	e.cmdMu.Lock()
	batch := e.pending
	e.pending = nil
	e.cmdMu.Unlock()
	for _, cmd := range batch {
		d, rb, err := cmd.apply(e)
		if err != nil {
			return dirty, rebuild, err
		}
		dirty = dirty || d
		rebuild = rebuild || rb
	}
	return dirty, rebuild, nil
}

func validatePlacement(cells []grid.PlacedCell) error {
	if len(cells) == 0 {
		return errors.Wrap(ErrInvalidPlacement, "[validatePlacement] empty cell list")
	}
	var (
		min  = cells[0].Offset
		max  = cells[0].Offset
		seen = make(map[grid.Coord]struct{}, len(cells))
	)
	for _, pc := range cells {
		if _, dup := seen[pc.Offset]; dup {
			return errors.Wrapf(ErrInvalidPlacement,
				"[validatePlacement] duplicate offset (%d,%d)", pc.Offset.X, pc.Offset.Y)
		}
		seen[pc.Offset] = struct{}{}
		if pc.Offset.X < min.X {
			min.X = pc.Offset.X
		}
		if pc.Offset.Y < min.Y {
			min.Y = pc.Offset.Y
		}
		if pc.Offset.X > max.X {
			max.X = pc.Offset.X
		}
		if pc.Offset.Y > max.Y {
			max.Y = pc.Offset.Y
		}
	}
	if want := (max.X - min.X + 1) * (max.Y - min.Y + 1); len(cells) != want {
		return errors.Wrapf(ErrInvalidPlacement,
			"[validatePlacement] %d cells cannot tile a %dx%d rectangle",
			len(cells), max.X-min.X+1, max.Y-min.Y+1)
	}
	return nil
}

type placePattern struct {
	origin grid.Coord
	cells  []grid.PlacedCell
}

func (p placePattern) apply(e *Engine) (bool, bool, error) {
	var (
		origin = p.origin
		prevW  = e.grid.Width()
		prevH  = e.grid.Height()
	)
	if e.grid.Mode() == grid.Infinite {
		min := origin.Add(p.cells[0].Offset)
		max := min
		for _, pc := range p.cells {
			at := origin.Add(pc.Offset)
			if at.X < min.X {
				min.X = at.X
			}
			if at.Y < min.Y {
				min.Y = at.Y
			}
			if at.X > max.X {
				max.X = at.X
			}
			if at.Y > max.Y {
				max.Y = at.Y
			}
		}
		shift, err := e.grid.Ensure(min, max)
		if err != nil {
			return false, false, errors.Wrap(err, "[placePattern] grow for stamp")
		}
		origin = origin.Add(shift)
	}
	for _, pc := range p.cells {
		var st grid.CellState
		if pc.Alive {
			st = grid.CellState{Alive: true, Age: 1}
		}
		e.grid.SetCurrent(origin.Add(pc.Offset), st)
	}
	rebuild := e.grid.Width() != prevW || e.grid.Height() != prevH
	return true, rebuild, nil
}

type setBoundary struct {
	mode grid.Mode
}

func (s setBoundary) apply(e *Engine) (bool, bool, error) {
	if e.grid.Mode() == s.mode {
		return false, false, nil
	}
	e.grid.SetMode(s.mode)
	return false, true, nil
}

type resize struct {
	edge   grid.Dir
	amount int
}

func (r resize) apply(e *Engine) (bool, bool, error) {
	var (
		prevW = e.grid.Width()
		prevH = e.grid.Height()
	)
	if _, err := e.grid.Resize(r.edge, r.amount); err != nil {
		return false, false, errors.Wrapf(err, "[resize] %s by %d", r.edge, r.amount)
	}
	changed := e.grid.Width() != prevW || e.grid.Height() != prevH
	return changed, changed, nil
}

type restart struct {
	width   int
	height  int
	density float64
}

func (r restart) apply(e *Engine) (bool, bool, error) {
	g, err := grid.New(r.width, r.height, e.grid.Mode(), e.cfg.MaxWidth, e.cfg.MaxHeight)
	if err != nil {
		return false, false, errors.Wrapf(err, "[restart] %dx%d", r.width, r.height)
	}
	if r.density > 0 {
		g.Randomize(r.density, e.rng)
	}
	e.grid = g
	e.generation = 0
	return true, true, nil
}

type clearCells struct{}

func (clearCells) apply(e *Engine) (bool, bool, error) {
	e.grid.Clear()
	return true, false, nil
}

type toggleCell struct {
	pos grid.Coord
}

func (t toggleCell) apply(e *Engine) (bool, bool, error) {
	if e.grid.Get(t.pos).Alive {
		e.grid.SetCurrent(t.pos, grid.CellState{})
	} else {
		e.grid.SetCurrent(t.pos, grid.CellState{Alive: true, Age: 1})
	}
	return true, false, nil
}
