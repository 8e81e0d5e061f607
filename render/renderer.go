package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"cellmesh/engine"
	"cellmesh/grid"
	"cellmesh/pattern"
	"cellmesh/utils"
)

// cellWidth is how many terminal columns one board cell occupies,
// keeping cells roughly square
const cellWidth = 2

// Overlay carries the interactive state drawn on top of the board
type Overlay struct {
	Paused   bool
	Pattern  *pattern.Pattern
	Cursor   grid.Coord
	Notice   string
	Interval time.Duration
}

// Renderer draws snapshots onto a tcell screen
type Renderer struct {
	screen tcell.Screen
}

// New returns a renderer for an initialized screen
func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw paints one snapshot, the placement ghost if one is active, and
// the status line
func (r *Renderer) Draw(snap *engine.Snapshot, stats *utils.Stats, ov Overlay) {
	r.screen.Clear()
	termW, termH := r.screen.Size()

	offX := (termW - snap.Width*cellWidth) / 2
	if offX < 0 {
		offX = 0
	}
	offY := (termH - 1 - snap.Height) / 2
	if offY < 0 {
		offY = 0
	}

	for c, state := range snap.Live {
		r.put(offX+c.X*cellWidth, offY+c.Y, termW, termH, ageStyle(state.Age))
	}

	if ov.Pattern != nil {
		r.drawGhost(ov, offX, offY, termW, termH)
	}
	r.drawStatus(snap, stats, ov, termW, termH)
	r.screen.Show()
}

// put fills one board cell, skipping anything that falls off the screen
// or onto the status row
func (r *Renderer) put(sx, sy, termW, termH int, style tcell.Style) {
	if sy < 0 || sy >= termH-1 || sx < 0 || sx+1 >= termW {
		return
	}
	r.screen.SetContent(sx, sy, ' ', nil, style)
	r.screen.SetContent(sx+1, sy, ' ', nil, style)
}

// ageStyle shades cells from fresh green to old red
func ageStyle(age int) tcell.Style {
	var bg tcell.Color
	switch {
	case age <= 1:
		bg = tcell.ColorGreen
	case age <= 4:
		bg = tcell.ColorYellow
	case age <= 16:
		bg = tcell.ColorOrange
	default:
		bg = tcell.ColorRed
	}
	return tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(bg)
}

// drawGhost previews the selected pattern at the cursor
func (r *Renderer) drawGhost(ov Overlay, offX, offY, termW, termH int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue)
	for y := range ov.Pattern.Height {
		for x := range ov.Pattern.Width {
			if !ov.Pattern.At(x, y) {
				continue
			}
			sx := offX + (ov.Cursor.X+x)*cellWidth
			r.put(sx, offY+ov.Cursor.Y+y, termW, termH, style)
		}
	}
}

// drawStatus writes the one line summary along the bottom row
func (r *Renderer) drawStatus(snap *engine.Snapshot, stats *utils.Stats, ov Overlay, termW, termH int) {
	state := "running"
	if ov.Paused {
		state = "paused"
	}
	line := fmt.Sprintf("gen %d | live %d | +%.0f -%.0f /s | %s | %v | %s",
		snap.Generation, snap.Population(), stats.BirthsPerSecond, stats.DeathsPerSecond,
		snap.Mode, ov.Interval, state)
	if ov.Pattern != nil {
		line += fmt.Sprintf(" | placing %s at (%d,%d)", ov.Pattern.Name, ov.Cursor.X, ov.Cursor.Y)
	}
	if ov.Notice != "" {
		line += " | " + ov.Notice
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	putText(r.screen, 0, termH-1, termW, style, line)
}

// putText writes a string left to right, clipping at the given width
func putText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	col := x
	for _, ch := range text {
		if col >= width {
			return
		}
		s.SetContent(col, y, ch, nil, style)
		col++
	}
}
