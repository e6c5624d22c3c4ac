// Package paneterm implements the Pane Terminal component of spec §4.3:
// binds one PTY Child to one VT Screen through a dedicated reader
// goroutine, grounded on the teacher's terminal.Panel (terminal/panel.go).
package paneterm

import (
	"io"
	"sync"
	"time"

	"github.com/eqms/claude-workbench/internal/ptyproc"
	"github.com/eqms/claude-workbench/internal/vtscreen"
	"github.com/google/uuid"
)

// Spec sets the PTY output poll timeout at 16ms; the reader's per-read
// buffer size is chosen independently since it only bounds how much a
// single read can feed the VT Screen before the next loop iteration.
const readBufSize = 4096

// RestartPolicy controls what a dead reader means for the owning pane
// (spec §4.3 reader protocol / §4.9): a NoRestart pane stays dead; an
// AutoRestart pane is relaunched.
type RestartPolicy int

const (
	// NoRestart marks the pane terminated and fires OnTerminated; the
	// child is not relaunched.
	NoRestart RestartPolicy = iota
	// AutoRestart relaunches the original command after a short grace
	// delay (spec §4.9, assistant and Git TUI panes only).
	AutoRestart
)

// Spawn describes how to relaunch a pane's child, kept around so
// AutoRestart and user-triggered respawn can reuse the exact arguments.
type Spawn struct {
	Command string
	Args    []string
	Env     []string
	Cwd     string
}

// Pane is one Pane Terminal: a PTY Child plus its VT Screen, the pane's
// current rectangle, and scroll/selection-adjacent bookkeeping the event
// loop and Focus & Router read each tick.
type Pane struct {
	ID     string
	spawn  Spawn
	policy RestartPolicy

	child  *ptyproc.Child
	screen *vtscreen.Screen

	rows, cols int

	scrollback int

	aliveMu sync.Mutex
	alive   bool // reader-liveness flag the main loop polls

	// OnRedraw is invoked (from the reader goroutine) whenever new output
	// has been applied to the VT Screen, throttled to ~60fps.
	OnRedraw func()
	// OnTerminated fires once the reader observes EOF/error and the
	// restart policy is NoRestart (spec §4.3 reader protocol).
	OnTerminated func(err error)
	// OnRestarted fires after a successful AutoRestart respawn.
	OnRestarted func()

	throttle      time.Duration
	lastRedraw    time.Time
	pendingRedraw bool
}

// New starts a PTY Child running s.Command and binds a fresh VT Screen to
// it through a background reader (spec §4.3 contract).
func New(s Spawn, policy RestartPolicy, rows, cols, scrollbackCap int) (*Pane, error) {
	p := &Pane{
		ID:       uuid.NewString(),
		spawn:    s,
		policy:   policy,
		rows:     rows,
		cols:     cols,
		throttle: 16 * time.Millisecond,
	}
	p.scrollback = scrollbackCap
	if err := p.launch(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pane) launch() error {
	child, err := ptyproc.Spawn(p.spawn.Command, p.spawn.Args, p.spawn.Env, p.spawn.Cwd, p.rows, p.cols)
	if err != nil {
		return err
	}
	p.child = child
	p.screen = vtscreen.New(p.rows, p.cols, p.scrollback, writerAdapter{child})
	p.setAlive(true)

	// Clear any startup banner (spec §6 PTY startup sequence).
	child.Write([]byte{0x0c})

	go p.readLoop()
	return nil
}

const defaultScrollback = 1000

// writerAdapter lets vt10x write DSR/CPR responses straight back to the
// child, matching the teacher's vt10x.WithWriter(ptmx) wiring.
type writerAdapter struct{ c *ptyproc.Child }

func (w writerAdapter) Write(b []byte) (int, error) { return w.c.Write(b) }

// readLoop is the pane's single background reader: read from the PTY
// master, lock the VT Screen, feed the bytes, release the lock (spec §5).
func (p *Pane) readLoop() {
	r := p.child.TakeReader()
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			p.screen.Feed(buf[:n])
			p.scheduleRedraw()
		}
		if err != nil {
			p.child.MarkExited()
			p.setAlive(false)
			if err == io.EOF {
				err = nil
			}
			p.handleDeath(err)
			return
		}
	}
}

func (p *Pane) handleDeath(err error) {
	if p.policy == AutoRestart {
		time.Sleep(100 * time.Millisecond)
		if relaunchErr := p.launch(); relaunchErr == nil {
			p.screen.ClearScrollback()
			if p.OnRestarted != nil {
				p.OnRestarted()
			}
			return
		}
	}
	if p.OnTerminated != nil {
		p.OnTerminated(err)
	}
}

// scheduleRedraw throttles OnRedraw calls to roughly the 16ms frame budget
// instead of firing on every single PTY read (spec §4.9 timing invariants).
func (p *Pane) scheduleRedraw() {
	if p.OnRedraw == nil {
		return
	}
	now := time.Now()
	if now.Sub(p.lastRedraw) >= p.throttle {
		p.lastRedraw = now
		p.OnRedraw()
		return
	}
	if !p.pendingRedraw {
		p.pendingRedraw = true
		time.AfterFunc(p.throttle, func() {
			p.pendingRedraw = false
			p.lastRedraw = time.Now()
			if p.OnRedraw != nil {
				p.OnRedraw()
			}
		})
	}
}

// WriteInput forwards bytes to the child and resets the scroll offset to
// live (spec §4.3, testable property 6).
func (p *Pane) WriteInput(b []byte) error {
	_, err := p.child.Write(b)
	p.screen.ResetScroll()
	return err
}

// Resize forwards to both the VT Screen and the child; back-to-back
// identical sizes are a no-op (spec §4.3).
func (p *Pane) Resize(rows, cols int) {
	if rows == p.rows && cols == p.cols {
		return
	}
	p.rows, p.cols = rows, cols
	p.screen.Resize(rows, cols)
	p.child.Resize(rows, cols)
}

// Screen exposes the underlying VT Screen for rendering and extraction.
func (p *Pane) Screen() *vtscreen.Screen { return p.screen }

// Scroll adjusts the pane's ScrollOffset by delta lines.
func (p *Pane) Scroll(delta int) int { return p.screen.ScrollBy(delta) }

// ExtractLastNLines returns the last n lines of scrollback+live content,
// used by the "copy last N lines" operation (spec §6 pty.copy_lines_count).
func (p *Pane) ExtractLastNLines(n int) string {
	backLen := p.screen.ScrollbackLen()
	total := backLen + p.rows
	start := total - n
	if start < 0 {
		start = 0
	}
	sel := vtscreen.Selection{
		Anchor: vtscreen.Pos{Row: start, Col: 0},
		Active: vtscreen.Pos{Row: total - 1, Col: p.cols},
	}
	return p.screen.ExtractRange(sel)
}

// ExtractRange delegates to the VT Screen for an arbitrary selection.
func (p *Pane) ExtractRange(sel vtscreen.Selection) string {
	return p.screen.ExtractRange(sel)
}

// IsAlive reports whether the reader goroutine is still running.
func (p *Pane) IsAlive() bool {
	p.aliveMu.Lock()
	defer p.aliveMu.Unlock()
	return p.alive
}

func (p *Pane) setAlive(v bool) {
	p.aliveMu.Lock()
	defer p.aliveMu.Unlock()
	p.alive = v
}

// Restart relaunches the pane's original command, for a user-triggered
// respawn after a terminated shell (spec §7 PTY write failure recovery).
func (p *Pane) Restart() error {
	return p.launch()
}

// UpdateCwd changes the spawn cwd used by a future Restart, without
// affecting the currently running child (used when the Git TUI pane must
// be fully restarted in a new directory — spec §4.8).
func (p *Pane) UpdateCwd(cwd string) {
	p.spawn.Cwd = cwd
}

// Close terminates the child and stops the reader.
func (p *Pane) Close() {
	p.setAlive(false)
	p.child.Kill()
}
