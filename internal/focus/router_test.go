package focus

import (
	"io"
	"testing"

	"github.com/eqms/claude-workbench/internal/input"
	"github.com/eqms/claude-workbench/internal/vtscreen"
	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
)

// fakeTerminal satisfies Terminal against a real vtscreen.Screen, so
// selection seeding and extraction exercise real coordinate math.
type fakeTerminal struct {
	screen  *vtscreen.Screen
	written []byte
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{screen: vtscreen.New(5, 20, 100, io.Discard)}
}

func (f *fakeTerminal) Scroll(delta int) int                       { return f.screen.ScrollBy(delta) }
func (f *fakeTerminal) WriteInput(b []byte) error                  { f.written = append(f.written, b...); return nil }
func (f *fakeTerminal) Screen() *vtscreen.Screen                   { return f.screen }
func (f *fakeTerminal) ExtractRange(sel vtscreen.Selection) string { return f.screen.ExtractRange(sel) }

// fakeHost is a minimal, deterministic Host for exercising Router in
// isolation from internal/workbench.
type fakeHost struct {
	active    Pane
	visible   map[Pane]bool
	terminals map[Pane]Terminal
	quit      bool
	clipboard string
	message   string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		visible:   map[Pane]bool{PaneFileBrowser: true, PaneAssistant: true, PaneShell: true},
		terminals: map[Pane]Terminal{PaneAssistant: newFakeTerminal(), PaneShell: newFakeTerminal()},
		active:    PaneAssistant,
	}
}

func (h *fakeHost) Active() Pane             { return h.active }
func (h *fakeHost) SetActive(p Pane)         { h.active = p }
func (h *fakeHost) ToggleVisible(p Pane)     { h.visible[p] = !h.visible[p] }
func (h *fakeHost) IsVisible(p Pane) bool    { return h.visible[p] }
func (h *fakeHost) Terminal(p Pane) Terminal { return h.terminals[p] }
func (h *fakeHost) DialogActive() bool       { return false }
func (h *fakeHost) HandleDialog(tcell.Event) bool {
	return false
}
func (h *fakeHost) HandleFileBrowserKey(*tcell.EventKey) bool { return true }
func (h *fakeHost) HandlePreviewKey(*tcell.EventKey) bool     { return true }
func (h *fakeHost) HitTest(x, y int) (Pane, bool)             { return PaneAssistant, true }
func (h *fakeHost) InputMode(Pane) input.Mode                 { return input.Mode{} }
func (h *fakeHost) RequestQuit()                              { h.quit = true }
func (h *fakeHost) WriteClipboard(text string)                { h.clipboard = text }
func (h *fakeHost) ShowMessage(text string)                   { h.message = text }

func keyEvent(key tcell.Key, r rune, mods tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(key, r, mods)
}

func TestRouter_QuitKeyAlwaysWins(t *testing.T) {
	host := newFakeHost()
	r := New(host, DefaultConfig())

	consumed := r.HandleEvent(keyEvent(tcell.KeyCtrlQ, 0, 0))

	assert.True(t, consumed)
	assert.True(t, host.quit)
}

func TestRouter_FocusSwitchNeverForwarded(t *testing.T) {
	host := newFakeHost()
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyF5, 0, 0))

	assert.Equal(t, PaneShell, host.Active())
	assert.Empty(t, host.terminals[PaneShell].(*fakeTerminal).written)
}

func TestRouter_SelectionEntryThenEscapeCancels(t *testing.T) {
	host := newFakeHost()
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyCtrlS, 0, 0))
	assert.NotNil(t, r.sel)

	r.HandleEvent(keyEvent(tcell.KeyEscape, 0, 0))
	assert.Nil(t, r.sel)
}

func TestRouter_SelectionCtrlCCopiesRawToClipboard(t *testing.T) {
	host := newFakeHost()
	term := host.terminals[PaneAssistant].(*fakeTerminal)
	term.screen.Feed([]byte("raw output"))

	r := New(host, DefaultConfig())
	r.HandleEvent(keyEvent(tcell.KeyCtrlS, 0, 0))
	// Entry seeds an empty selection; 'g' extends it up to the first row.
	r.HandleEvent(keyEvent(tcell.KeyRune, 'g', 0))
	r.HandleEvent(keyEvent(tcell.KeyCtrlC, 0, 0))

	assert.Contains(t, host.clipboard, "raw output")
	assert.Nil(t, r.sel)
}

func TestRouter_RawKeystrokeForwardedToActiveTerminal(t *testing.T) {
	host := newFakeHost()
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyRune, 'x', 0))

	term := host.terminals[PaneAssistant].(*fakeTerminal)
	assert.Equal(t, []byte("x"), term.written)
}

func TestRouter_PaneLocalShiftPageUpScrollsWithoutForwarding(t *testing.T) {
	host := newFakeHost()
	term := host.terminals[PaneAssistant].(*fakeTerminal)
	// Scroll enough lines off the top that there is history to scroll into.
	for i := 0; i < 10; i++ {
		term.screen.Feed([]byte{byte('a' + i), '\r', '\n'})
	}
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyPgUp, 0, tcell.ModShift))

	assert.Empty(t, term.written)
	assert.True(t, term.screen.Offset() > 0)
}

func TestRouter_QuickCommandQuitsOnQ(t *testing.T) {
	host := newFakeHost()
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyCtrlBackslash, 0, 0))
	assert.True(t, r.quickCommand)

	r.HandleEvent(keyEvent(tcell.KeyRune, 'q', 0))
	assert.True(t, host.quit)
	assert.False(t, r.quickCommand)
}

func TestRouter_PassthroughForwardsEverythingUntilDoubleTap(t *testing.T) {
	host := newFakeHost()
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyCtrlBackslash, 0, 0))
	r.HandleEvent(keyEvent(tcell.KeyRune, 'p', 0))
	assert.True(t, r.passthrough[PaneAssistant])

	r.HandleEvent(keyEvent(tcell.KeyRune, 'a', 0))
	term := host.terminals[PaneAssistant].(*fakeTerminal)
	assert.Equal(t, []byte("a"), term.written)

	// The second Ctrl+\ within the exit window ends passthrough.
	r.HandleEvent(keyEvent(tcell.KeyCtrlBackslash, 0, 0))
	r.HandleEvent(keyEvent(tcell.KeyCtrlBackslash, 0, 0))
	assert.False(t, r.passthrough[PaneAssistant])
}

func TestRouter_PassthroughForwardsSingleCtrlBackslashTap(t *testing.T) {
	// A lone Ctrl+\ while in passthrough is forwarded to the child (it may
	// be a real SIGQUIT the child wants) rather than immediately exiting
	// passthrough.
	host := newFakeHost()
	r := New(host, DefaultConfig())

	r.HandleEvent(keyEvent(tcell.KeyCtrlBackslash, 0, 0))
	r.HandleEvent(keyEvent(tcell.KeyRune, 'p', 0))
	assert.True(t, r.passthrough[PaneAssistant])

	r.HandleEvent(keyEvent(tcell.KeyCtrlBackslash, 0, 0))

	assert.True(t, r.passthrough[PaneAssistant], "a single tap must not exit passthrough")
	term := host.terminals[PaneAssistant].(*fakeTerminal)
	assert.NotEmpty(t, term.written, "the lone tap must still be forwarded to the child")
}
