// Package screen owns the single host-terminal handle: raw mode, mouse
// reporting, the alternate screen, and the channel that feeds terminal
// events into the main loop. Exactly one goroutine (the poller started by
// Init) touches the OS terminal for reads; exactly one goroutine (the main
// loop) touches it for writes, guarded by the same mutex so a background
// pane redraw request never races a main-loop render.
package screen

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/micro-editor/tcell/v2"
	"github.com/muesli/termenv"
)

// Screen is the process-wide tcell screen handle. Owned by the event loop;
// touched by reader/render callbacks only through the exported helpers in
// this package, which take the same lock.
var Screen tcell.Screen

// Events delivers terminal input events (key/mouse/resize) to the main
// loop. Fed by a dedicated poller goroutine started in Init.
var Events chan tcell.Event

var mu sync.Mutex

// drawRequested is a 1-buffered channel: a redraw request coalesces with
// any already-pending request instead of queueing up.
var drawRequested = make(chan struct{}, 1)

// CanUseAltScreen reports whether stdout is a terminal at all; used by the
// caller to fail fast with a plain message instead of entering raw mode
// against a pipe (spec §7 init failure).
func CanUseAltScreen() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Init allocates the tcell screen, enables raw mode, mouse reporting
// (including drag motion, needed for character-range selection), and the
// alternate screen buffer. It starts the background poller that feeds
// Events. Spec §6: all of this is restored by Fini on every exit path.
func Init() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("allocate terminal screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	s.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents | tcell.MouseMotionEvents)
	s.EnablePaste()

	Screen = s
	Events = make(chan tcell.Event)

	go func() {
		for {
			e := Screen.PollEvent()
			if e == nil {
				return
			}
			Events <- e
		}
	}()

	return nil
}

// Fini restores the host terminal to cooked mode. Safe to call more than
// once and safe to call from a deferred recover() after a panic.
func Fini() {
	mu.Lock()
	defer mu.Unlock()
	if Screen != nil {
		Screen.Fini()
	}
}

// Lock acquires exclusive access to Screen for a batch of SetContent calls
// made from outside the main loop (a pane's background redraw callback).
func Lock() { mu.Lock() }

// Unlock releases the lock taken by Lock.
func Unlock() { mu.Unlock() }

// SetContent writes one cell, taking the screen lock itself so callers
// never forget to pair Lock/Unlock around a single cell write.
func SetContent(x, y int, r rune, comb []rune, style tcell.Style) {
	mu.Lock()
	defer mu.Unlock()
	if Screen != nil {
		Screen.SetContent(x, y, r, comb, style)
	}
}

// ShowFakeCursor draws a reverse-video block at (x, y). Pane Terminals use
// this instead of the native cursor since the native cursor is invisible
// against dark backgrounds in several terminal emulators. The caller holds
// the screen lock (see Lock).
func ShowFakeCursor(x, y int) {
	if Screen == nil {
		return
	}
	mainc, comb, st, _ := Screen.GetContent(x, y)
	Screen.SetContent(x, y, mainc, comb, st.Reverse(true))
}

// Redraw requests a frame on the next main-loop tick without blocking the
// caller; multiple requests before the next tick collapse into one.
func Redraw() {
	select {
	case drawRequested <- struct{}{}:
	default:
	}
}

// DrawRequested reports (and clears) whether a redraw was requested since
// the last call, for the event loop's deferred-effects pass.
func DrawRequested() bool {
	select {
	case <-drawRequested:
		return true
	default:
		return false
	}
}

// TermMessage prints a message after the screen has been restored to
// cooked mode — used for the fatal init-failure path (spec §7) where no
// screen exists yet to render into.
func TermMessage(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

// ColorProfile reports the terminal's colour capability, used to decide
// whether the cooked-mode error banner should carry ANSI colour at all.
func ColorProfile() termenv.Profile {
	return termenv.ColorProfile()
}
