package engine

import "cellmesh/grid"

// mesh is the coordinate-indexed arena of cell actors. It is rebuilt
// wholesale whenever topology changes (restart, resize, boundary switch,
// expansion) and is read-only while a tick runs.
type mesh struct {
	grid  *grid.Grid
	cells map[grid.Coord]*cell
	order []*cell

	// hook, when set, runs before each cell's transition; tests use it
	// to inject delays and faults
	hook func(grid.Coord) error
}

func newMesh(g *grid.Grid) *mesh {
	m := &mesh{grid: g}
	m.rebuild()
	return m
}

// at returns the actor owning coordinate c, or nil
func (m *mesh) at(c grid.Coord) *cell {
	return m.cells[c]
}

// rebuild recreates every actor from the grid's published buffer,
// re-subscribes them through the boundary policy and primes mailboxes so
// the next Receiving phase sees the current generation
func (m *mesh) rebuild() {
	var (
		w = m.grid.Width()
		h = m.grid.Height()
	)
	m.cells = make(map[grid.Coord]*cell, w*h)
	m.order = m.order[:0]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := grid.Coord{X: x, Y: y}
			c := newCell(pos, m.grid.Get(pos))
			c.subscribe(m.grid.Neighbors(pos))
			m.cells[pos] = c
			m.order = append(m.order, c)
		}
	}
	m.prime()
}

// sync refreshes each actor's state from the grid without touching
// subscriptions, then re-primes. Used after commands that edit cells but
// leave dimensions and mode alone, and to recover from an aborted tick.
func (m *mesh) sync() {
	for _, c := range m.order {
		c.state = m.grid.Get(c.coord)
	}
	m.prime()
}

// prime clears all mailboxes and broadcasts every actor's current state
// into its neighbors' receive buffers. After priming, a tick always
// finds one message per subscribed neighbor already waiting, so actors
// never block on each other's progress within the same generation.
func (m *mesh) prime() {
	for _, c := range m.order {
		c.box.reset()
	}
	for _, c := range m.order {
		msg := Message{From: c.coord, Alive: c.state.Alive}
		for _, t := range c.targets {
			if nb := m.at(t); nb != nil {
				nb.box.cur <- msg
			}
		}
	}
}

// flip commits the tick: every actor adopts its staged state and swaps
// its mailbox buffers. Runs single-threaded after the barrier. Returns
// the births and deaths committed.
func (m *mesh) flip() (births, deaths int) {
	for _, c := range m.order {
		if c.staged.Alive && !c.state.Alive {
			births++
		} else if !c.staged.Alive && c.state.Alive {
			deaths++
		}
		c.state = c.staged
		c.box.flip()
	}
	return births, deaths
}
