// Package filebrowser implements the FileBrowser pane's navigation state.
// Directory listing and Git-status colouring are explicitly out of scope
// (spec §1 "Out of scope: external collaborators") — the spec fixes only
// the interface a collaborator presents, so DirProvider is the seam a
// real implementation plugs into. The navigation/selection state machine
// itself is core (it drives PendingCwd, spec §3) and is grounded on the
// teacher's tree-pane key handling referenced from
// internal/layout/manager.go's FocusTree/updatePanelRegions.
package filebrowser

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/micro-editor/tcell/v2"
)

// Entry is one row in the listing.
type Entry struct {
	Name  string
	IsDir bool
}

// DirProvider is the external collaborator's interface (spec §1): given a
// directory, return its entries. A real implementation adds Git-status
// colouring and ignore-file filtering; this package only needs the names.
type DirProvider interface {
	List(dir string) ([]Entry, error)
}

// osProvider is the trivial default DirProvider, backed directly by
// os.ReadDir — enough to drive navigation without any styling concerns.
type osProvider struct{}

func (osProvider) List(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// DefaultProvider returns the os.ReadDir-backed DirProvider.
func DefaultProvider() DirProvider { return osProvider{} }

// Browser is the FileBrowser pane's navigation state (spec §3 PendingCwd:
// "the file browser's currently displayed directory").
type Browser struct {
	provider DirProvider
	cwd      string
	entries  []Entry
	cursor   int

	// OnOpenFile fires when the user activates a regular file, feeding
	// the Preview pane (spec §4.6 pane-local: file-browser keys).
	OnOpenFile func(path string)
	// OnCwdChanged fires whenever cwd changes, for Directory Sync (spec
	// §4.8) to observe.
	OnCwdChanged func(newCwd string)
}

// New constructs a Browser rooted at root, using provider for listings.
func New(root string, provider DirProvider) (*Browser, error) {
	if provider == nil {
		provider = DefaultProvider()
	}
	b := &Browser{provider: provider}
	if err := b.chdir(root); err != nil {
		return nil, err
	}
	return b, nil
}

// Cwd returns the currently displayed directory.
func (b *Browser) Cwd() string { return b.cwd }

// Entries returns the current directory listing.
func (b *Browser) Entries() []Entry { return b.entries }

// Cursor returns the index of the highlighted entry.
func (b *Browser) Cursor() int { return b.cursor }

func (b *Browser) chdir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	entries, err := b.provider.List(abs)
	if err != nil {
		return err
	}
	b.cwd = abs
	b.entries = entries
	b.cursor = 0
	if b.OnCwdChanged != nil {
		b.OnCwdChanged(abs)
	}
	return nil
}

// Refresh re-lists the current directory (e.g. after an external change).
func (b *Browser) Refresh() error {
	entries, err := b.provider.List(b.cwd)
	if err != nil {
		return err
	}
	b.entries = entries
	if b.cursor >= len(b.entries) {
		b.cursor = len(b.entries) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	return nil
}

// HandleKey processes one file-browser pane-local shortcut (spec §4.6
// step 6). Returns whether it was consumed.
func (b *Browser) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		b.move(-1)
		return true
	case tcell.KeyDown:
		b.move(1)
		return true
	case tcell.KeyEnter:
		b.activate()
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		b.goUp()
		return true
	}
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'j':
			b.move(1)
			return true
		case 'k':
			b.move(-1)
			return true
		case 'h':
			b.goUp()
			return true
		case 'l':
			b.activate()
			return true
		}
	}
	return false
}

func (b *Browser) move(delta int) {
	if len(b.entries) == 0 {
		return
	}
	b.cursor += delta
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor >= len(b.entries) {
		b.cursor = len(b.entries) - 1
	}
}

func (b *Browser) activate() {
	if b.cursor < 0 || b.cursor >= len(b.entries) {
		return
	}
	entry := b.entries[b.cursor]
	full := filepath.Join(b.cwd, entry.Name)
	if entry.IsDir {
		b.chdir(full)
		return
	}
	if b.OnOpenFile != nil {
		b.OnOpenFile(full)
	}
}

func (b *Browser) goUp() {
	b.chdir(filepath.Dir(b.cwd))
}
