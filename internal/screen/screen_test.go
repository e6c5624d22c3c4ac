package screen

import "testing"

import "github.com/stretchr/testify/assert"

// Init/Fini/SetContent all require a real OS terminal handle (tcell.Screen
// has no simulation backend in this pack's dependency graph), so they are
// exercised only by running the binary against a real tty, not here. The
// coalescing behavior of the redraw-request channel is pure and is covered
// below.

func TestRedraw_CoalescesMultiplePendingRequests(t *testing.T) {
	// drain any state left by another test in this package
	DrawRequested()

	Redraw()
	Redraw()
	Redraw()

	assert.True(t, DrawRequested())
	assert.False(t, DrawRequested(), "a second call before any new Redraw must report nothing pending")
}

func TestDrawRequested_FalseWhenNothingRequested(t *testing.T) {
	DrawRequested()
	assert.False(t, DrawRequested())
}
