package engine

import (
	"context"

	"github.com/pkg/errors"

	"cellmesh/grid"
	"cellmesh/rules"
)

// cell is one actor. It owns a single coordinate's state, the mailbox
// its neighbors notify, and the subscription list those notifications
// must cover. Neighbors are held as coordinates only; actors never
// reference each other's state directly.
type cell struct {
	coord  grid.Coord
	state  grid.CellState
	staged grid.CellState
	box    *mailbox

	// subs is the raw neighbor list from the boundary policy. On small
	// toroidal boards the same coordinate can occur more than once, and
	// its vote then counts once per occurrence.
	subs []grid.Coord
	// targets holds each distinct neighbor exactly once, in subscription
	// order; weight maps it to its multiplicity in subs.
	targets []grid.Coord
	weight  map[grid.Coord]int
	seen    map[grid.Coord]struct{}
}

func newCell(c grid.Coord, st grid.CellState) *cell {
	return &cell{
		coord:  c,
		state:  st,
		box:    newMailbox(),
		weight: make(map[grid.Coord]int, mailboxDepth),
		seen:   make(map[grid.Coord]struct{}, mailboxDepth),
	}
}

// subscribe replaces the cell's neighbor set. Called only while the mesh
// is quiescent, never mid-tick.
func (c *cell) subscribe(subs []grid.Coord) {
	c.subs = subs
	c.targets = c.targets[:0]
	clear(c.weight)
	for _, n := range subs {
		if _, ok := c.weight[n]; !ok {
			c.targets = append(c.targets, n)
		}
		c.weight[n]++
	}
}

// step runs one full Receiving, Computing, Broadcasting pass for the
// current generation
func (c *cell) step(ctx context.Context, m *mesh) error {
	live, err := c.collect(ctx)
	if err != nil {
		return err
	}
	if m.hook != nil {
		if err = m.hook(c.coord); err != nil {
			return errors.Wrapf(ErrActorComputation, "[step] cell (%d,%d): %v",
				c.coord.X, c.coord.Y, err)
		}
	}
	alive := rules.ApplyConwayRules(live, c.state.Alive)
	c.staged = grid.CellState{Alive: alive, Age: rules.NextAge(c.state.Age, alive)}
	m.grid.Set(c.coord, c.staged)
	return c.announce(ctx, m, alive)
}

// collect drains exactly one message per distinct subscribed neighbor
// from the current buffer and tallies the live votes, weighted by
// multiplicity. Duplicate and unsubscribed senders are dropped without
// counting. Blocks until the set is complete or ctx fires.
func (c *cell) collect(ctx context.Context) (int, error) {
	clear(c.seen)
	var live int
	for len(c.seen) < len(c.targets) {
		select {
		case msg := <-c.box.cur:
			w, subscribed := c.weight[msg.From]
			if !subscribed {
				continue
			}
			if _, dup := c.seen[msg.From]; dup {
				continue
			}
			c.seen[msg.From] = struct{}{}
			if msg.Alive {
				live += w
			}
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if live > len(c.subs) {
		return 0, errors.Wrapf(ErrActorComputation,
			"[collect] cell (%d,%d) tallied %d live votes from %d subscriptions",
			c.coord.X, c.coord.Y, live, len(c.subs))
	}
	return live, nil
}

// announce broadcasts the cell's new aliveness to every distinct
// subscribed neighbor. Messages land in the receivers' staging buffers
// and stay invisible until the coordinator flips mailboxes.
func (c *cell) announce(ctx context.Context, m *mesh, alive bool) error {
	msg := Message{From: c.coord, Alive: alive}
	for _, t := range c.targets {
		nb := m.at(t)
		if nb == nil {
			return errors.Wrapf(ErrActorComputation,
				"[announce] cell (%d,%d) has no peer at (%d,%d)",
				c.coord.X, c.coord.Y, t.X, t.Y)
		}
		select {
		case nb.box.nxt <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
