package render

import (
	"github.com/gdamore/tcell/v2"
)

// Action is a user intent decoded from a key event
type Action int

const (
	ActNone Action = iota
	ActQuit
	ActPauseResume
	ActStepOnce
	ActRestart
	ActClear
	ActCycleBoundary
	ActSpeedUp
	ActSlowDown
	ActGrow
	ActShrink
	ActPatternMode
	ActPatternNext
	ActPatternPrev
	ActRotate
	ActPlace
	ActToggle
	ActCursorUp
	ActCursorDown
	ActCursorLeft
	ActCursorRight
)

/*
Keymap translates a key event into an action. A few keys change meaning
while a pattern is being placed: space and enter stamp it, r rotates it
and escape backs out instead of quitting.
*/
func Keymap(ev *tcell.EventKey, placing bool) Action {
	switch ev.Key() {
	case tcell.KeyEscape:
		if placing {
			return ActPatternMode
		}
		return ActQuit
	case tcell.KeyCtrlC:
		return ActQuit
	case tcell.KeyUp:
		return ActCursorUp
	case tcell.KeyDown:
		return ActCursorDown
	case tcell.KeyLeft:
		return ActCursorLeft
	case tcell.KeyRight:
		return ActCursorRight
	case tcell.KeyEnter:
		if placing {
			return ActPlace
		}
	case tcell.KeyPgUp:
		return ActSpeedUp
	case tcell.KeyPgDn:
		return ActSlowDown
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return ActQuit
		case ' ':
			if placing {
				return ActPlace
			}
			return ActPauseResume
		case 'n', 'N':
			return ActStepOnce
		case 'r', 'R':
			if placing {
				return ActRotate
			}
			return ActRestart
		case 'c', 'C':
			return ActClear
		case 'b', 'B':
			return ActCycleBoundary
		case 'p', 'P':
			return ActPatternMode
		case 't', 'T':
			return ActToggle
		case '[':
			return ActPatternPrev
		case ']':
			return ActPatternNext
		case '+', '=':
			return ActGrow
		case '-', '_':
			return ActShrink
		}
	}
	return ActNone
}

// Events pumps screen events into a channel so the main loop can select
// over them alongside its tickers. The channel closes when the screen
// is finalized.
func Events(screen tcell.Screen) <-chan tcell.Event {
	ch := make(chan tcell.Event, 8)
	go func() {
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			ch <- ev
		}
	}()
	return ch
}
