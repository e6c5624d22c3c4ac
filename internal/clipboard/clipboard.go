// Package clipboard wraps github.com/zyedidia/clipper behind the same
// package-level Initialize/SetMethod/Write/Read surface the teacher's
// call sites expect (internal/terminal/input.go, internal/layout/
// manager.go: clipboard.Write(text, clipboard.ClipboardReg),
// clipboard.Read(clipboard.ClipboardReg)). The teacher's own
// internal/clipboard package was not present in the retrieved source
// tree despite being imported everywhere, so this file is authored
// fresh against clipper's public API rather than adapted from a teacher
// file — grounded on the call-site contract, not on a read source file.
package clipboard

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gofrs/flock"
	"github.com/zyedidia/clipper"
)

// Register selects which clipboard register a read or write targets.
type Register clipper.Register

const (
	ClipboardReg Register = Register(clipper.RegClipboard)
	PrimaryReg   Register = Register(clipper.RegPrimary)
)

// Method names the backend clipboard mechanism.
type Method string

const (
	MethodExternal Method = "external" // xclip/xsel/pbcopy/wl-copy via clipper
	MethodInternal Method = "internal" // in-process fallback register
)

// SetMethod parses a config string into a Method, defaulting to the
// external system clipboard when unrecognized (spec §6 carries no
// clipboard.method key; this mirrors the teacher's "external"/"internal"
// convention from its own config.GetGlobalOption("clipboard")).
func SetMethod(name string) Method {
	if Method(name) == MethodInternal {
		return MethodInternal
	}
	return MethodExternal
}

var (
	mu      sync.Mutex
	backend *clipper.Clipboard
	method  Method
)

// fallbackPath is the on-disk staging file for register reg, used when no
// system clipboard tool is available. A real file rather than an in-memory
// map so the fallback survives across the AutoRestart of a Pane Terminal
// (spec §4.9) and so multiple workbench processes pointed at the same
// project directory share one register instead of each holding its own
// silent copy.
func fallbackPath(reg Register) string {
	return filepath.Join(os.TempDir(), "claude-workbench-clip-"+strconv.Itoa(int(reg))+".txt")
}

// fallbackLock guards fallbackPath(reg) against two workbench processes
// racing a write/read, the same role github.com/gofrs/flock plays for the
// h2 daemon's single-instance lock, generalized here to a per-register
// staging file instead of a single PID file.
func fallbackLock(reg Register) *flock.Flock {
	return flock.New(fallbackPath(reg) + ".lock")
}

// Initialize sets up the clipboard backend. External-method
// initialization never returns an error even when no system clipboard
// tool is installed: it silently degrades to the internal fallback
// register so a headless environment still has working copy/paste
// within the process.
func Initialize(m Method) error {
	mu.Lock()
	defer mu.Unlock()
	method = m
	if m != MethodExternal {
		backend = nil
		return nil
	}
	cb, err := clipper.GetClipboard(clipper.Clipboards...)
	if err != nil {
		backend = nil
		return nil
	}
	backend = cb
	return nil
}

// Write copies s into register reg.
func Write(s string, reg Register) error {
	mu.Lock()
	defer mu.Unlock()
	if backend != nil {
		if err := backend.WriteAll(clipper.Register(reg), []byte(s)); err == nil {
			return nil
		}
	}
	return writeFallback(reg, s)
}

// Read returns the contents of register reg.
func Read(reg Register) (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if backend != nil {
		if b, err := backend.ReadAll(clipper.Register(reg)); err == nil {
			return string(b), nil
		}
	}
	return readFallback(reg)
}

func writeFallback(reg Register, s string) error {
	lock := fallbackLock(reg)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return os.WriteFile(fallbackPath(reg), []byte(s), 0o600)
}

func readFallback(reg Register) (string, error) {
	lock := fallbackLock(reg)
	if err := lock.RLock(); err != nil {
		return "", err
	}
	defer lock.Unlock()
	b, err := os.ReadFile(fallbackPath(reg))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("clipboard: register empty")
		}
		return "", err
	}
	return string(b), nil
}
