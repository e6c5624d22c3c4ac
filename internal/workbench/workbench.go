// Package workbench implements the Event Loop component of spec §4.9: it
// owns every other component and drives the single cooperative main loop
// described in spec §5/§9 ("callback-style event loop... implementers
// should not introduce additional async runtimes"). Grounded on the
// teacher's LayoutManager as the thing that owns panels, the screen, and
// HandleEvent/RenderFrame/updateLayout/Resize (internal/layout/
// manager.go), generalized from its fixed five-pane arrangement to the
// Pane enum of internal/focus.
package workbench

import (
	"fmt"
	"os"
	"time"

	"github.com/eqms/claude-workbench/internal/clipboard"
	"github.com/eqms/claude-workbench/internal/config"
	"github.com/eqms/claude-workbench/internal/dirsync"
	"github.com/eqms/claude-workbench/internal/filebrowser"
	"github.com/eqms/claude-workbench/internal/flash"
	"github.com/eqms/claude-workbench/internal/focus"
	"github.com/eqms/claude-workbench/internal/input"
	"github.com/eqms/claude-workbench/internal/layout"
	"github.com/eqms/claude-workbench/internal/paneterm"
	"github.com/eqms/claude-workbench/internal/preview"
	"github.com/eqms/claude-workbench/internal/screen"
	"github.com/micro-editor/tcell/v2"
)

const (
	defaultAssistantCommand = "claude"
	defaultGitCommand       = "lazygit"
	inputPollTimeout        = 16 * time.Millisecond
)

// Workbench owns every pane, the router, and the deferred side-effect
// queues, and runs the event loop (spec §4.9).
type Workbench struct {
	cfg *config.Config
	root string

	panes   map[focus.Pane]*paneterm.Pane
	visible map[focus.Pane]bool
	active  focus.Pane

	browser  *filebrowser.Browser
	prev     *preview.Preview
	router   *focus.Router
	flashes  *flash.Bus
	dirsync  *dirsync.Sync

	rects layout.Layout
	w, h  int

	quit bool
}

// New constructs a Workbench rooted at root (the start directory, spec §9
// "Initialization order"). It does not yet spawn panes or enter raw mode
// — call Run for that.
func New(cfg *config.Config, root string) (*Workbench, error) {
	wb := &Workbench{
		cfg:     cfg,
		root:    root,
		panes:   map[focus.Pane]*paneterm.Pane{},
		visible: map[focus.Pane]bool{},
		flashes: &flash.Bus{},
		dirsync: dirsync.New(),
		prev:    preview.New(nil),
		active:  focus.PaneFileBrowser,
	}
	wb.visible[focus.PaneFileBrowser] = true
	wb.visible[focus.PanePreview] = true
	wb.visible[focus.PaneAssistant] = true
	wb.visible[focus.PaneShell] = true

	browser, err := filebrowser.New(root, nil)
	if err != nil {
		return nil, err
	}
	wb.browser = browser
	wb.browser.OnOpenFile = func(path string) {
		wb.prev.Open(path)
	}
	wb.browser.OnCwdChanged = func(cwd string) {
		wb.dirsync.SetCwd(cwd)
	}
	wb.dirsync.SetCwd(browser.Cwd())

	wb.router = focus.New(wb, focus.DefaultConfig())
	return wb, nil
}

// Run enters raw mode, spawns panes, and drives the loop until quit
// (spec §4.9, §9 "enter raw mode -> enter loop").
func (wb *Workbench) Run() error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("workbench: init screen: %w", err)
	}
	defer screen.Fini()

	w, h := screen.Screen.Size()
	wb.w, wb.h = w, h

	if err := wb.spawnInitial(); err != nil {
		return fmt.Errorf("workbench: spawn panes: %w", err)
	}
	defer wb.closeAll()

	wb.dirsync.Track(dirsyncAssistant, true)
	wb.dirsync.Track(dirsyncShell, true)
	wb.dirsync.Track(dirsyncGit, false)

	wb.recomputeLayout()
	wb.resizePanes()

	for !wb.quit {
		wb.tick()
	}
	return nil
}

// spawnInitial launches the assistant and general shell panes up front;
// the Git TUI pane is spawned lazily on first focus (spec §7: a missing
// Git TUI binary must not block startup of the other panes).
func (wb *Workbench) spawnInitial() error {
	rows, cols := wb.paneContentSize(wb.rects.Assistant)

	assistant, err := paneterm.New(paneterm.Spawn{Command: defaultAssistantCommand, Cwd: wb.root},
		paneterm.AutoRestart, rows, cols, wb.cfg.PTY.ScrollbackCapacity)
	if err != nil {
		return err
	}
	wb.panes[focus.PaneAssistant] = assistant
	wb.wireRedraw(assistant)

	shellCmd := wb.cfg.Terminal.ShellPath
	if shellCmd == "" {
		shellCmd = defaultShell()
	}
	shell, err := paneterm.New(paneterm.Spawn{Command: shellCmd, Args: wb.cfg.Terminal.ShellArgs, Cwd: wb.root},
		paneterm.NoRestart, rows, cols, wb.cfg.PTY.ScrollbackCapacity)
	if err != nil {
		return err
	}
	wb.panes[focus.PaneShell] = shell
	wb.wireRedraw(shell)

	return nil
}

func (wb *Workbench) spawnGit() error {
	rows, cols := wb.paneContentSize(wb.rects.Git)
	pane, err := paneterm.New(paneterm.Spawn{Command: defaultGitCommand, Cwd: wb.browser.Cwd()},
		paneterm.AutoRestart, rows, cols, wb.cfg.PTY.ScrollbackCapacity)
	if err != nil {
		wb.flashes.Show(fmt.Sprintf("git tool unavailable: %v", err), 3*time.Second)
		return err
	}
	wb.panes[focus.PaneGit] = pane
	wb.wireRedraw(pane)
	return nil
}

func (wb *Workbench) wireRedraw(p *paneterm.Pane) {
	p.OnRedraw = func() { screen.Redraw() }
	p.OnTerminated = func(err error) {
		msg := "pane terminated"
		if err != nil {
			msg = fmt.Sprintf("pane terminated: %v", err)
		}
		wb.flashes.Show(msg, 4*time.Second)
		screen.Redraw()
	}
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func (wb *Workbench) paneContentSize(rect layout.Rect) (rows, cols int) {
	r := layout.Inset(rect)
	if r.Width == 0 && r.Height == 0 {
		return wb.h - 1, wb.w
	}
	return r.Height, r.Width
}

func (wb *Workbench) closeAll() {
	for _, p := range wb.panes {
		p.Close()
	}
}

// tick runs one iteration of the canonical loop (spec §4.9).
func (wb *Workbench) tick() {
	wb.recomputeLayout()

	ev := wb.pollEvent(inputPollTimeout)
	if ev != nil {
		if resize, ok := ev.(*tcell.EventResize); ok {
			wb.w, wb.h = resize.Size()
			wb.recomputeLayout()
			wb.resizePanes()
		} else {
			wb.router.HandleEvent(ev)
		}
	}

	wb.drainSideEffects()
	wb.render()
}

func (wb *Workbench) pollEvent(timeout time.Duration) tcell.Event {
	select {
	case ev := <-screen.Events:
		return ev
	case <-time.After(timeout):
		return nil
	}
}

func (wb *Workbench) recomputeLayout() {
	total := layout.Rect{X: 0, Y: 0, Width: wb.w, Height: wb.h}
	vis := layout.Visible{
		FileBrowser: wb.visible[focus.PaneFileBrowser],
		Preview:     wb.visible[focus.PanePreview],
		Assistant:   wb.visible[focus.PaneAssistant],
		Git:         wb.visible[focus.PaneGit],
		Shell:       wb.visible[focus.PaneShell],
	}
	sizes := layout.Sizes{
		TreeWidthPercent:         wb.cfg.Layout.FileBrowserWidthPercent,
		TreeWidthExpandedPercent: wb.cfg.Layout.FileBrowserWidthPercent * 2,
		TermWidthPercent:         wb.cfg.Layout.RightPanelWidthPercent,
	}
	wb.rects = layout.Compute(total, vis, sizes, layoutActivePane(wb.active))
}

func layoutActivePane(p focus.Pane) layout.ActivePane {
	switch p {
	case focus.PaneFileBrowser:
		return layout.PaneFileBrowser
	case focus.PanePreview:
		return layout.PanePreview
	case focus.PaneAssistant:
		return layout.PaneAssistant
	case focus.PaneGit:
		return layout.PaneGit
	case focus.PaneShell:
		return layout.PaneShell
	}
	return layout.PaneNone
}

func (wb *Workbench) resizePanes() {
	resize := func(pane focus.Pane, r layout.Rect) {
		p := wb.panes[pane]
		if p == nil {
			return
		}
		interior := layout.Inset(r)
		if interior.Width > 0 && interior.Height > 0 {
			p.Resize(interior.Height, interior.Width)
		}
	}
	resize(focus.PaneAssistant, wb.rects.Assistant)
	resize(focus.PaneGit, wb.rects.Git)
	resize(focus.PaneShell, wb.rects.Shell)
}

func (wb *Workbench) drainSideEffects() {
	for _, eff := range wb.dirsync.Pending() {
		wb.applyDirsyncEffect(eff)
	}
	wb.flashes.Sweep(time.Now())
}

func (wb *Workbench) applyDirsyncEffect(eff dirsync.Effect) {
	pane := paneForDirsyncTarget(eff.TargetID)
	p := wb.panes[pane]
	if p == nil {
		return
	}
	if eff.Restart {
		p.UpdateCwd(eff.Cwd)
		p.Close()
		p.Restart()
		return
	}
	p.WriteInput(eff.Write)
}

const (
	dirsyncAssistant = "assistant"
	dirsyncGit       = "git"
	dirsyncShell     = "shell"
)

func paneForDirsyncTarget(id string) focus.Pane {
	switch id {
	case dirsyncAssistant:
		return focus.PaneAssistant
	case dirsyncGit:
		return focus.PaneGit
	default:
		return focus.PaneShell
	}
}

// RequestQuit implements focus.Host (spec §4.9 termination).
func (wb *Workbench) RequestQuit() { wb.quit = true }

// WriteClipboard implements focus.Host.
func (wb *Workbench) WriteClipboard(text string) {
	if err := clipboard.Write(text, clipboard.ClipboardReg); err != nil {
		wb.flashes.Show("clipboard unavailable", 3*time.Second)
	}
}

// ShowMessage implements focus.Host.
func (wb *Workbench) ShowMessage(text string) {
	if text == "" {
		return
	}
	wb.flashes.Show(text, 2*time.Second)
}

// Active implements focus.Host.
func (wb *Workbench) Active() focus.Pane { return wb.active }

// SetActive implements focus.Host.
func (wb *Workbench) SetActive(p focus.Pane) { wb.active = p }

// IsVisible implements focus.Host.
func (wb *Workbench) IsVisible(p focus.Pane) bool { return wb.visible[p] }

// ToggleVisible implements focus.Host.
func (wb *Workbench) ToggleVisible(p focus.Pane) {
	wb.visible[p] = !wb.visible[p]
	if wb.visible[p] && p == focus.PaneGit && wb.panes[focus.PaneGit] == nil {
		wb.spawnGit()
	}
}

// Terminal implements focus.Host.
func (wb *Workbench) Terminal(p focus.Pane) focus.Terminal {
	pane := wb.panes[p]
	if pane == nil {
		return nil
	}
	return pane
}

// DialogActive implements focus.Host: no modal dialog system is in scope
// (spec §1 "help/about/wizard dialogs" are external collaborators).
func (wb *Workbench) DialogActive() bool { return false }

// HandleDialog implements focus.Host.
func (wb *Workbench) HandleDialog(tcell.Event) bool { return false }

// HandleFileBrowserKey implements focus.Host.
func (wb *Workbench) HandleFileBrowserKey(ev *tcell.EventKey) bool {
	return wb.browser.HandleKey(ev)
}

// HandlePreviewKey implements focus.Host.
func (wb *Workbench) HandlePreviewKey(ev *tcell.EventKey) bool {
	return wb.prev.HandleKey(ev, layout.Inset(wb.rects.Preview).Height)
}

// HitTest implements focus.Host.
func (wb *Workbench) HitTest(x, y int) (focus.Pane, bool) {
	type candidate struct {
		pane focus.Pane
		r    layout.Rect
	}
	for _, c := range []candidate{
		{focus.PaneFileBrowser, wb.rects.FileBrowser},
		{focus.PanePreview, wb.rects.Preview},
		{focus.PaneAssistant, wb.rects.Assistant},
		{focus.PaneGit, wb.rects.Git},
		{focus.PaneShell, wb.rects.Shell},
	} {
		if x >= c.r.X && x < c.r.X+c.r.Width && y >= c.r.Y && y < c.r.Y+c.r.Height {
			return c.pane, true
		}
	}
	return focus.PaneFileBrowser, false
}

// InputMode implements focus.Host.
func (wb *Workbench) InputMode(p focus.Pane) input.Mode {
	pane := wb.panes[p]
	if pane == nil {
		return input.Mode{}
	}
	return input.Mode{AppCursorKeys: pane.Screen().AppCursorKeys()}
}
