// Package ptyproc implements the PTY Child component of spec §4.1: one OS
// child process attached to a pseudo-terminal pair, grounded on the
// teacher's terminal.NewPanel/Resize/Close trio in terminal/panel.go.
package ptyproc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// ErrClosedPipe is returned by Write after the child has exited.
var ErrClosedPipe = errors.New("ptyproc: write to closed child")

// SpawnError reports a failure to launch a child on a pseudo-terminal.
type SpawnError struct {
	Command string
	Cause   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("ptyproc: spawn %q: %v", e.Command, e.Cause)
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// fishNoQueryTerm suppresses fish's Device-Attributes probe (spec §6
// Environment): some shells emit a DA query on startup that pollutes the
// very first frame of a freshly spawned pane.
const fishNoQueryTerm = "fish_features=no-query-term"

// Child is one OS process attached to a PTY master/slave pair.
type Child struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	master  *os.File
	running bool

	readerTaken bool
}

// Spawn launches command with args, attached to a fresh PTY sized
// (rows, cols), starting in cwd, inheriting the parent environment plus
// any entries in extraEnv. Fails with *SpawnError if the executable can't
// be found, cwd doesn't exist, or the OS can't allocate a PTY.
func Spawn(command string, args []string, extraEnv []string, cwd string, rows, cols int) (*Child, error) {
	if cwd != "" {
		if _, err := os.Stat(cwd); err != nil {
			return nil, &SpawnError{Command: command, Cause: fmt.Errorf("cwd %q: %w", cwd, err)}
		}
	}

	cmd := exec.Command(command, args...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), fishNoQueryTerm)
	cmd.Env = append(cmd.Env, extraEnv...)

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, &SpawnError{Command: command, Cause: err}
	}

	return &Child{cmd: cmd, master: master, running: true}, nil
}

// TakeReader returns the PTY master as a byte source, callable exactly
// once — subsequent calls return nil so two reader goroutines never race
// on the same master.
func (c *Child) TakeReader() io.Reader {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.master == nil || c.readerTaken {
		return nil
	}
	c.readerTaken = true
	r := c.master
	return r
}

// Write forwards bytes to the child's stdin. Returns ErrClosedPipe (never
// panics) once the child has exited (spec §4.1 failure semantics).
func (c *Child) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.master == nil {
		return 0, ErrClosedPipe
	}
	return c.master.Write(b)
}

// Resize is best-effort: an OS-level failure is swallowed and the call
// becomes a no-op (spec §4.1).
func (c *Child) Resize(rows, cols int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.master == nil {
		return
	}
	_ = pty.Setsize(c.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// WaitNonblocking reports the child's exit status if it has already
// exited, or (nil, false) if it is still running.
func (c *Child) WaitNonblocking() (*os.ProcessState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd == nil || c.cmd.ProcessState == nil {
		return nil, false
	}
	return c.cmd.ProcessState, true
}

// MarkExited records that the reader observed EOF/exit; called by the
// Pane Terminal's reader goroutine once its read loop returns.
func (c *Child) MarkExited() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Running reports whether the child is still considered alive.
func (c *Child) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Kill closes the PTY master (EOF to the child), waits a short grace
// period, then sends SIGTERM followed by SIGKILL if the child hasn't
// exited (spec §4.1 process lifecycle).
func (c *Child) Kill() {
	c.mu.Lock()
	c.running = false
	master := c.master
	cmd := c.cmd
	c.master = nil
	c.mu.Unlock()

	if master != nil {
		master.Close()
	}
	if cmd == nil || cmd.Process == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(200 * time.Millisecond):
	}

	cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-done:
		return
	case <-time.After(300 * time.Millisecond):
	}

	cmd.Process.Kill()
}
