// Package focus implements the Focus & Router component of spec §4.6:
// the strict event-classification priority order that decides whether an
// incoming event quits the program, switches panes, is consumed by a
// dialog, drives the Selection Controller, hits a pane-local shortcut, or
// is translated raw to the active terminal's child. Grounded on the
// teacher's LayoutManager.HandleEvent in internal/layout/manager.go,
// generalized from its five hardcoded panels to the Pane enum below, plus
// the supplemented quick-command and passthrough modes it also defines.
package focus

import (
	"time"

	"github.com/eqms/claude-workbench/internal/input"
	"github.com/eqms/claude-workbench/internal/vtscreen"
	"github.com/micro-editor/tcell/v2"
)

// passthroughExitWindow bounds how long after the first Ctrl+\ a second one
// must land to exit passthrough mode (spec's supplemented passthrough
// feature: "exited by a double Ctrl+\ within 500ms").
const passthroughExitWindow = 500 * time.Millisecond

// Pane identifies one of the five regions of spec §2.
type Pane int

const (
	PaneFileBrowser Pane = iota
	PanePreview
	PaneAssistant
	PaneGit
	PaneShell
)

// IsTerminal reports whether Pane is backed by a Pane Terminal (PTY
// child), as opposed to the file browser or preview collaborators.
func (p Pane) IsTerminal() bool {
	return p == PaneAssistant || p == PaneGit || p == PaneShell
}

// Terminal is the subset of paneterm.Pane the router and selection
// controller need; kept as an interface so this package never imports
// paneterm directly (avoids a cycle through vtscreen.Selection).
type Terminal interface {
	Scroll(delta int) int
	WriteInput(b []byte) error
	Screen() *vtscreen.Screen
	ExtractRange(sel vtscreen.Selection) string
}

// Host is everything the router needs from the owning event loop: pane
// state, dialog state, and the few actions that aren't pure routing
// (quitting, clipboard, hit-testing). One Host implementation lives in
// internal/workbench.
type Host interface {
	Active() Pane
	SetActive(Pane)
	ToggleVisible(Pane)
	IsVisible(Pane) bool

	Terminal(Pane) Terminal // nil when p is not a terminal pane or not yet spawned

	DialogActive() bool
	HandleDialog(tcell.Event) bool

	HandleFileBrowserKey(*tcell.EventKey) bool
	HandlePreviewKey(*tcell.EventKey) bool

	HitTest(x, y int) (Pane, bool)

	InputMode(Pane) input.Mode

	RequestQuit()
	WriteClipboard(text string)
	ShowMessage(text string)
}

// Config names the two reserved shortcuts spec §4.6 carves out of the
// Input Translator's view (§4.4 "Reserved combinations").
type Config struct {
	QuitKey           tcell.Key
	SelectionEntryKey tcell.Key
}

// DefaultConfig matches spec §4.6: Ctrl+Q to quit, Ctrl+S to enter
// selection mode.
func DefaultConfig() Config {
	return Config{QuitKey: tcell.KeyCtrlQ, SelectionEntryKey: tcell.KeyCtrlS}
}

// Router dispatches events per the seven-step priority order of spec
// §4.6 and owns the one Selection Controller instance (spec §4.7).
type Router struct {
	host Host
	cfg  Config
	sel  *selectionState

	quickCommand bool
	passthrough  map[Pane]bool

	lastPassthroughTap time.Time
}

// New builds a Router bound to host.
func New(host Host, cfg Config) *Router {
	return &Router{host: host, cfg: cfg, passthrough: map[Pane]bool{}}
}

// HandleEvent classifies and dispatches one event, returning whether it
// was consumed.
func (r *Router) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return r.handleKey(e)
	case *tcell.EventMouse:
		return r.handleMouse(e)
	case *tcell.EventPaste:
		return r.handlePaste(e)
	}
	return false
}

func (r *Router) handleKey(ev *tcell.EventKey) bool {
	// 1. Quit intent.
	if ev.Key() == r.cfg.QuitKey {
		r.host.RequestQuit()
		return true
	}

	active := r.host.Active()

	// Passthrough mode (supplemented feature): everything goes straight to
	// the child, bypassing every later stage including dialogs. The first
	// Ctrl+\ is forwarded to the child like any other byte (it may be a
	// real SIGQUIT the child wants); only a second Ctrl+\ landing within
	// passthroughExitWindow of the first exits passthrough instead of
	// being forwarded, matching the teacher's double-tap grounding.
	if active.IsTerminal() && r.passthrough[active] {
		if ev.Key() == tcell.KeyCtrlBackslash {
			now := time.Now()
			if !r.lastPassthroughTap.IsZero() && now.Sub(r.lastPassthroughTap) <= passthroughExitWindow {
				r.passthrough[active] = false
				r.lastPassthroughTap = time.Time{}
				r.host.ShowMessage("")
				return true
			}
			r.lastPassthroughTap = now
		}
		return r.forwardRaw(active, ev)
	}

	// 2. Global focus switch (F1..F5), never forwarded.
	if pane, ok := focusKeyPane(ev.Key()); ok {
		if r.host.Active() == pane && r.host.IsVisible(pane) {
			r.host.ToggleVisible(pane)
		} else {
			if !r.host.IsVisible(pane) {
				r.host.ToggleVisible(pane)
			}
			r.host.SetActive(pane)
		}
		return true
	}

	// 3. Dialogs.
	if r.host.DialogActive() {
		return r.host.HandleDialog(ev)
	}

	// 3.5. Quick-command mode (supplemented feature), between dialogs and
	// selection-mode entry per the teacher's own HandleEvent ordering.
	if r.quickCommand {
		return r.handleQuickCommand(ev)
	}
	if ev.Key() == tcell.KeyCtrlBackslash {
		r.quickCommand = true
		r.host.ShowMessage("  q: Quit  |  w: Next Pane  |  p: Passthrough  |  Esc: Cancel")
		return true
	}

	// 4. Selection-mode entry.
	if r.sel == nil && ev.Key() == r.cfg.SelectionEntryKey && active.IsTerminal() {
		r.enterSelection(active)
		return true
	}

	// 5. Selection-mode internal.
	if r.sel != nil {
		return r.handleSelectionKey(ev)
	}

	// 6. Pane-local shortcuts.
	if consumed, handled := r.paneLocal(ev, active); handled {
		return consumed
	}

	// 7. Raw input to the active terminal's child.
	if active.IsTerminal() {
		return r.forwardRaw(active, ev)
	}
	return false
}

func focusKeyPane(k tcell.Key) (Pane, bool) {
	switch k {
	case tcell.KeyF1:
		return PaneFileBrowser, true
	case tcell.KeyF2:
		return PanePreview, true
	case tcell.KeyF3:
		return PaneAssistant, true
	case tcell.KeyF4:
		return PaneGit, true
	case tcell.KeyF5:
		return PaneShell, true
	}
	return PaneFileBrowser, false
}

// paneLocal handles shortcuts spec §4.6 step 6 lists: file-browser keys,
// preview scroll keys, terminal scroll keys (Shift+Page, Shift+arrows).
// The bool return distinguishes "handled, here's the result" from "not a
// pane-local shortcut, keep falling through".
func (r *Router) paneLocal(ev *tcell.EventKey, active Pane) (consumed, handled bool) {
	if active.IsTerminal() {
		term := r.host.Terminal(active)
		if term == nil {
			return false, false
		}
		if ev.Modifiers()&tcell.ModShift != 0 {
			switch ev.Key() {
			case tcell.KeyPgUp:
				rows, _ := term.Screen().Size()
				term.Scroll(rows - 1)
				return true, true
			case tcell.KeyPgDn:
				rows, _ := term.Screen().Size()
				term.Scroll(-(rows - 1))
				return true, true
			case tcell.KeyUp:
				term.Scroll(1)
				return true, true
			case tcell.KeyDown:
				term.Scroll(-1)
				return true, true
			}
		}
		return false, false
	}
	switch active {
	case PaneFileBrowser:
		return r.host.HandleFileBrowserKey(ev), true
	case PanePreview:
		return r.host.HandlePreviewKey(ev), true
	}
	return false, false
}

func (r *Router) forwardRaw(active Pane, ev *tcell.EventKey) bool {
	term := r.host.Terminal(active)
	if term == nil {
		return false
	}
	if term.Screen().Offset() > 0 {
		term.Scroll(-term.Screen().Offset())
	}
	b := input.Translate(ev, r.host.InputMode(active))
	if b == nil {
		return false
	}
	return term.WriteInput(b) == nil
}

func (r *Router) handlePaste(ev *tcell.EventPaste) bool {
	active := r.host.Active()
	if !active.IsTerminal() {
		return false
	}
	term := r.host.Terminal(active)
	if term == nil {
		return false
	}
	return term.WriteInput(input.PasteBytes(ev)) == nil
}

func (r *Router) handleQuickCommand(ev *tcell.EventKey) bool {
	r.quickCommand = false
	r.host.ShowMessage("")
	if ev.Key() == tcell.KeyEscape {
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}
	switch ev.Rune() {
	case 'q', 'Q':
		r.host.RequestQuit()
	case 'w', 'W':
		r.cycleFocus()
	case 'p', 'P':
		active := r.host.Active()
		if active.IsTerminal() {
			r.passthrough[active] = true
			r.host.ShowMessage("passthrough mode: Ctrl+\\ twice to exit")
		}
	}
	return true
}

func (r *Router) cycleFocus() {
	order := []Pane{PaneFileBrowser, PanePreview, PaneAssistant, PaneGit, PaneShell}
	cur := r.host.Active()
	start := 0
	for i, p := range order {
		if p == cur {
			start = i
			break
		}
	}
	for i := 1; i <= len(order); i++ {
		next := order[(start+i)%len(order)]
		if r.host.IsVisible(next) {
			r.host.SetActive(next)
			return
		}
	}
}

func (r *Router) handleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()

	if ev.Buttons() == tcell.WheelUp || ev.Buttons() == tcell.WheelDown {
		pane, ok := r.host.HitTest(x, y)
		if !ok || !pane.IsTerminal() {
			return false
		}
		term := r.host.Terminal(pane)
		if term == nil {
			return false
		}
		if ev.Buttons() == tcell.WheelUp {
			term.Scroll(3)
		} else {
			term.Scroll(-3)
		}
		return true
	}

	if ev.Buttons() == tcell.Button1 {
		pane, ok := r.host.HitTest(x, y)
		if !ok {
			return false
		}
		r.host.SetActive(pane)
		if pane.IsTerminal() && ev.Modifiers() != 0 {
			r.enterSelection(pane)
		}
		return true
	}
	return false
}
