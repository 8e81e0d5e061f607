package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"cellmesh/engine"
	"cellmesh/grid"
	"cellmesh/pattern"
	"cellmesh/render"
	"cellmesh/utils"
)

const (
	// historyDepth is how many recent fingerprints stagnation detection
	// compares against, enough to catch still lifes and short oscillators
	historyDepth = 5

	// noticeTTL is how long a status notice stays on screen
	noticeTTL = 4 * time.Second
)

// session holds the interactive state wrapped around a running engine
type session struct {
	cfg   utils.Config
	eng   *engine.Engine
	stats *utils.Stats

	paused   bool
	placing  bool
	patterns []*pattern.Pattern
	selected int
	rotation int
	cursor   grid.Coord
	interval time.Duration

	history        []string
	stagnantStreak int

	notice   string
	noticeAt time.Time
}

func newSession(cfg utils.Config, eng *engine.Engine) *session {
	return &session{
		cfg:      cfg,
		eng:      eng,
		stats:    utils.NewStats(),
		patterns: loadPatterns(cfg.PatternDir),
		interval: cfg.UpdateInterval,
	}
}

// loadPatterns merges the builtin library with anything saved on disk,
// seeding the store with the builtins on first run
func loadPatterns(dir string) []*pattern.Pattern {
	patterns := pattern.Builtins()
	if dir == "" {
		return patterns
	}

	store := pattern.NewStore(dir)
	names, err := store.List()
	if err != nil {
		return patterns
	}
	if len(names) == 0 {
		for _, p := range patterns {
			if err = store.Save(p); err != nil {
				break
			}
		}
		return patterns
	}

	known := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		known[strings.ToLower(p.Name)] = struct{}{}
	}
	for _, name := range names {
		p, err := store.Load(name)
		if err != nil {
			continue
		}
		if _, ok := known[strings.ToLower(p.Name)]; ok {
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// defaultPatternDir points at ~/.cellmesh/patterns, or nowhere if the
// home directory is unknown
func defaultPatternDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cellmesh", "patterns")
}

// runInteractive drives the terminal UI: one ticker for generations,
// one for frames, with key events and signals folded into the same loop
func runInteractive(cfg utils.Config, eng *engine.Engine) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "[runInteractive] failed to create screen")
	}
	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "[runInteractive] failed to initialize screen")
	}
	defer screen.Fini()

	var (
		s        = newSession(cfg, eng)
		renderer = render.New(screen)
		events   = render.Events(screen)
		ctx      = context.Background()
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()
	frame := time.NewTicker(cfg.FrameRate)
	defer frame.Stop()

	for {
		select {
		case <-sigChan:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				screen.Sync()
				continue
			}
			key, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}
			quit, err := s.handleKey(ctx, render.Keymap(key, s.placing), tick)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		case <-tick.C:
			if s.paused {
				continue
			}
			if err := s.step(ctx); err != nil {
				return err
			}
		case <-frame.C:
			renderer.Draw(eng.Snapshot(), s.stats, s.overlay())
		}
	}
}

// step advances one generation, absorbing a stalled tick into a paused
// notice. Anything else is fatal.
func (s *session) step(ctx context.Context) error {
	if err := s.advance(ctx); err != nil {
		if errors.Is(err, engine.ErrStalledGeneration) {
			s.paused = true
			s.setNotice("generation stalled, paused")
			return nil
		}
		return err
	}
	return nil
}

// advance runs one generation and folds the result into the session
func (s *session) advance(ctx context.Context) error {
	start := time.Now()
	snap, err := s.eng.Advance(ctx)
	if err != nil {
		return err
	}
	s.stats.Update(snap.Generation, snap.Population(), snap.Births, snap.Deaths, time.Since(start))
	s.trackStagnation(snap)
	return nil
}

// trackStagnation watches for extinct or looping boards and reseeds
// when configured to
func (s *session) trackStagnation(snap *engine.Snapshot) {
	if snap.Population() == 0 {
		if s.cfg.AutoRestart {
			s.restart("extinction")
		}
		return
	}

	fp := s.eng.Fingerprint()
	if slices.Contains(s.history, fp) {
		s.stagnantStreak++
	} else {
		s.stagnantStreak = 0
	}
	s.history = append(s.history, fp)
	if len(s.history) > historyDepth {
		s.history = s.history[1:]
	}

	if s.cfg.AutoRestart && s.stagnantStreak >= s.cfg.StagnationThreshold {
		s.restart("stagnation")
	}
}

// restart reseeds the board and resets the session bookkeeping
func (s *session) restart(reason string) {
	s.eng.Restart(s.cfg.Width, s.cfg.Height, s.cfg.RandomDensity)
	s.flush()
	s.stats = utils.NewStats()
	s.history = nil
	s.stagnantStreak = 0
	s.setNotice("restarted after " + reason)
}

// flush pushes queued edits into the published snapshot right away, so
// they are visible even while paused
func (s *session) flush() {
	if err := s.eng.Flush(); err != nil {
		s.setNotice(errors.Cause(err).Error())
	}
}

func (s *session) setNotice(msg string) {
	s.notice = msg
	s.noticeAt = time.Now()
}

// overlay packages the UI state for the renderer, expiring old notices
func (s *session) overlay() render.Overlay {
	if s.notice != "" && time.Since(s.noticeAt) > noticeTTL {
		s.notice = ""
	}
	ov := render.Overlay{
		Paused:   s.paused,
		Cursor:   s.cursor,
		Notice:   s.notice,
		Interval: s.interval,
	}
	if s.placing {
		ov.Pattern = s.currentPattern()
	}
	return ov
}

func (s *session) currentPattern() *pattern.Pattern {
	return s.patterns[s.selected].Rotated(s.rotation)
}

// handleKey applies one decoded action to the session
func (s *session) handleKey(ctx context.Context, act render.Action, tick *time.Ticker) (bool, error) {
	switch act {
	case render.ActQuit:
		return true, nil
	case render.ActPauseResume:
		s.paused = !s.paused
	case render.ActStepOnce:
		s.paused = true
		return false, s.step(ctx)
	case render.ActRestart:
		s.restart("manual reset")
	case render.ActClear:
		s.eng.Clear()
		s.flush()
		s.paused = true
		s.setNotice("board cleared")
	case render.ActCycleBoundary:
		mode := s.eng.Snapshot().Mode.Cycle()
		s.eng.SetBoundaryMode(mode)
		s.flush()
		s.setNotice("boundary " + mode.String())
	case render.ActSpeedUp:
		s.setInterval(s.interval-s.intervalStep(), tick)
	case render.ActSlowDown:
		s.setInterval(s.interval+s.intervalStep(), tick)
	case render.ActGrow:
		s.resizeAll(1)
	case render.ActShrink:
		s.resizeAll(-1)
	case render.ActPatternMode:
		s.placing = !s.placing
		if s.placing {
			s.centerCursor()
		}
	case render.ActPatternNext:
		s.selected = (s.selected + 1) % len(s.patterns)
		s.rotation = 0
	case render.ActPatternPrev:
		s.selected = (s.selected - 1 + len(s.patterns)) % len(s.patterns)
		s.rotation = 0
	case render.ActRotate:
		s.rotation = (s.rotation + 1) % 4
	case render.ActPlace:
		p := s.currentPattern()
		if err := s.eng.PlacePattern(s.cursor, p.Placement()); err != nil {
			s.setNotice(errors.Cause(err).Error())
			break
		}
		s.flush()
		s.setNotice("placed " + p.Name)
	case render.ActToggle:
		s.eng.ToggleCell(s.cursor)
		s.flush()
	case render.ActCursorUp:
		s.moveCursor(0, -1)
	case render.ActCursorDown:
		s.moveCursor(0, 1)
	case render.ActCursorLeft:
		s.moveCursor(-1, 0)
	case render.ActCursorRight:
		s.moveCursor(1, 0)
	}
	return false, nil
}

// resizeAll grows or trims one ring of cells around the whole board
func (s *session) resizeAll(amount int) {
	for _, d := range []grid.Dir{grid.Up, grid.Right, grid.Down, grid.Left} {
		s.eng.Resize(d, amount)
	}
	s.flush()
}

// intervalStep scales speed adjustments to the current speed
func (s *session) intervalStep() time.Duration {
	step := s.interval / 5
	if step < 10*time.Millisecond {
		step = 10 * time.Millisecond
	}
	return step
}

// setInterval clamps and applies a new generation interval
func (s *session) setInterval(d time.Duration, tick *time.Ticker) {
	if d < utils.MinInterval {
		d = utils.MinInterval
	}
	if d > utils.MaxInterval {
		d = utils.MaxInterval
	}
	s.interval = d
	tick.Reset(d)
}

func (s *session) centerCursor() {
	snap := s.eng.Snapshot()
	s.cursor = s.currentPattern().Centered(snap.Width, snap.Height)
}

// moveCursor shifts the placement cursor, staying on the board except
// in infinite mode where stamps beyond the edge grow the grid
func (s *session) moveCursor(dx, dy int) {
	snap := s.eng.Snapshot()
	c := s.cursor.Add(grid.Coord{X: dx, Y: dy})
	if snap.Mode != grid.Infinite {
		c.X = clamp(c.X, 0, snap.Width-1)
		c.Y = clamp(c.Y, 0, snap.Height-1)
	}
	s.cursor = c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runHeadless drives the engine for the configured generation budget
// with a progress bar in place of the full UI
func runHeadless(cfg utils.Config, eng *engine.Engine) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var (
		stats = utils.NewStats()
		ctx   = context.Background()
		bar   = pb.StartNew(cfg.MaxGenerations)
	)

loop:
	for gen := 0; gen < cfg.MaxGenerations; gen++ {
		select {
		case <-sigChan:
			fmt.Println("\n🛑 Shutting down gracefully...")
			break loop
		default:
		}

		start := time.Now()
		snap, err := eng.Advance(ctx)
		if err != nil {
			bar.Finish()
			return err
		}
		stats.Update(snap.Generation, snap.Population(), snap.Births, snap.Deaths, time.Since(start))
		bar.Increment()

		if snap.Population() == 0 {
			if !cfg.AutoRestart {
				fmt.Println("\n🏁 Board went extinct")
				break loop
			}
			eng.Restart(cfg.Width, cfg.Height, cfg.RandomDensity)
		}
	}
	bar.Finish()

	fmt.Printf("Final stats: %d generations in %.1f seconds\n",
		stats.TotalGenerations, time.Since(stats.StartTime).Seconds())
	fmt.Printf("Average: %.1f gen/sec, %.1f avg population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation)
	return nil
}
