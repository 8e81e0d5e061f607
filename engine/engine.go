package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"cellmesh/grid"
	"cellmesh/utils"
)

// Engine drives the simulation one generation at a time. It owns the
// grid, the actor mesh and the command queue; callers interact through
// Advance, the command methods and Snapshot. Advance is not reentrant:
// exactly one caller may drive the engine, while commands and Snapshot
// are safe from other goroutines.
type Engine struct {
	cfg  utils.Config
	grid *grid.Grid
	mesh *mesh
	rng  *rand.Rand

	generation int

	cmdMu   sync.Mutex
	pending []command

	snapMu sync.RWMutex
	latest *Snapshot
}

// New builds an engine from cfg and seeds the board with random life at
// the configured density. A density of zero starts empty.
func New(cfg utils.Config) (*Engine, error) {
	cfg.Normalize()
	mode, err := grid.ParseMode(cfg.Boundary)
	if err != nil {
		return nil, errors.Wrap(err, "[New] boundary mode")
	}
	g, err := grid.New(cfg.Width, cfg.Height, mode, cfg.MaxWidth, cfg.MaxHeight)
	if err != nil {
		return nil, errors.Wrap(err, "[New] grid")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:  cfg,
		grid: g,
		rng:  rand.New(rand.NewSource(seed)),
	}
	if cfg.RandomDensity > 0 {
		g.Randomize(cfg.RandomDensity, e.rng)
	}
	e.mesh = newMesh(g)
	e.publish(0, 0)
	return e, nil
}

// Snapshot returns the most recently published generation. It never
// blocks beyond the lock hand-off and the returned value is immutable.
func (e *Engine) Snapshot() *Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.latest
}

// Fingerprint hashes the published generation's aliveness, for
// stagnation detection upstream. Call between ticks only.
func (e *Engine) Fingerprint() string {
	return e.grid.Fingerprint()
}

// Advance runs one full tick: pending commands first, then the
// infinite-mode expansion check, then the actor fan-out, the completion
// barrier and the buffer swap that publishes the new generation. On any
// failure the staged generation is discarded, the mesh is re-primed from
// the published buffer and the error is surfaced without retry.
func (e *Engine) Advance(ctx context.Context) (*Snapshot, error) {
	dirty, rebuild, err := e.drainCommands()
	if err != nil {
		e.rebuildMesh()
		return nil, errors.Wrap(err, "[Advance] command")
	}
	if e.grid.Mode() == grid.Infinite {
		if dirs := e.grid.NeedsExpansion(); !dirs.Empty() {
			if err = e.grid.Expand(dirs); err != nil {
				return nil, errors.Wrap(err, "[Advance] expansion")
			}
			rebuild = true
		}
	}
	switch {
	case rebuild:
		e.rebuildMesh()
	case dirty:
		e.mesh.sync()
	}

	tctx := ctx
	if e.cfg.TickTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, e.cfg.TickTimeout)
		defer cancel()
	}
	eg, gctx := errgroup.WithContext(tctx)
	eg.SetLimit(e.cfg.Workers)
	for _, c := range e.mesh.order {
		c := c // pin for the goroutine below; loop variables are per-loop before go 1.22
		eg.Go(func() error {
			return c.step(gctx, e.mesh)
		})
	}
	err = eg.Wait()
	if err == nil && tctx.Err() != nil {
		// every actor finished, but past the deadline; a late tick is
		// still an aborted tick
		err = tctx.Err()
	}
	if err != nil {
		e.mesh.sync()
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "[Advance] canceled")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrapf(ErrStalledGeneration,
				"[Advance] generation %d missed the %v deadline",
				e.generation+1, e.cfg.TickTimeout)
		}
		return nil, errors.Wrapf(err, "[Advance] generation %d", e.generation+1)
	}

	births, deaths := e.mesh.flip()
	e.grid.Swap()
	e.generation++
	return e.publish(births, deaths), nil
}

// Flush applies queued commands without running a generation and
// republishes the snapshot, so edits show up while the simulation is
// paused. Tick counters are untouched.
func (e *Engine) Flush() error {
	dirty, rebuild, err := e.drainCommands()
	if err != nil {
		e.rebuildMesh()
		return errors.Wrap(err, "[Flush] command")
	}
	switch {
	case rebuild:
		e.rebuildMesh()
	case dirty:
		e.mesh.sync()
	}
	if dirty || rebuild {
		prev := e.Snapshot()
		e.publish(prev.Births, prev.Deaths)
	}
	return nil
}

// rebuildMesh recreates the actor mesh for the current grid, carrying
// the test hook across
func (e *Engine) rebuildMesh() {
	var hook func(grid.Coord) error
	if e.mesh != nil {
		hook = e.mesh.hook
	}
	e.mesh = newMesh(e.grid)
	e.mesh.hook = hook
}

// publish copies the published buffer into a fresh snapshot and makes it
// the latest
func (e *Engine) publish(births, deaths int) *Snapshot {
	snap := &Snapshot{
		Width:      e.grid.Width(),
		Height:     e.grid.Height(),
		Mode:       e.grid.Mode(),
		Generation: e.generation,
		Births:     births,
		Deaths:     deaths,
		Live:       e.grid.LiveCells(),
	}
	e.snapMu.Lock()
	e.latest = snap
	e.snapMu.Unlock()
	return snap
}
