package engine

import "github.com/pkg/errors"

// Failure conditions surfaced by Advance. Each one aborts the tick it
// occurs in and none are retried internally; whether to re-run, restart
// or give up is the caller's policy. Expansion past the configured
// maximum dimensions additionally surfaces grid.ErrLimitExceeded through
// the same path.
var (
	// ErrStalledGeneration means an actor missed the per-tick deadline,
	// usually a sign of a broken subscription graph
	ErrStalledGeneration = errors.New("generation stalled")

	// ErrActorComputation flags an impossible state transition. This is
	// a defect signal, not a recoverable runtime condition.
	ErrActorComputation = errors.New("actor computation failed")

	// ErrInvalidPlacement rejects pattern placements whose cell list
	// does not tile a rectangle
	ErrInvalidPlacement = errors.New("invalid pattern placement")
)
