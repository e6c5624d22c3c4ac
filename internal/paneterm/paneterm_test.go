package paneterm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitForAlive(t *testing.T, p *Pane, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.IsAlive() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for IsAlive() == %v", want)
}

func TestNew_SpawnsAliveReader(t *testing.T) {
	p, err := New(Spawn{Command: "/bin/sh"}, NoRestart, 24, 80, 1000)
	assert.NoError(t, err)
	defer p.Close()

	assert.True(t, p.IsAlive())
	rows, cols := p.Screen().Size()
	assert.Equal(t, 24, rows)
	assert.Equal(t, 80, cols)
}

func TestWriteInput_ResetsScrollOffset(t *testing.T) {
	p, err := New(Spawn{Command: "/bin/sh"}, NoRestart, 24, 80, 1000)
	assert.NoError(t, err)
	defer p.Close()

	p.Screen().ScrollBy(5)
	assert.NoError(t, p.WriteInput([]byte("\n")))
	assert.Equal(t, 0, p.Screen().Offset())
}

func TestNoRestart_ExitFiresOnTerminated(t *testing.T) {
	done := make(chan struct{})
	p, err := New(Spawn{Command: "/bin/sh", Args: []string{"-c", "exit 0"}}, NoRestart, 24, 80, 1000)
	assert.NoError(t, err)
	defer p.Close()

	p.OnTerminated = func(err error) { close(done) }

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OnTerminated was never called")
	}
	waitForAlive(t, p, false)
}

func TestAutoRestart_RespawnsAfterExit(t *testing.T) {
	restarted := make(chan struct{}, 1)
	p, err := New(Spawn{Command: "/bin/sh", Args: []string{"-c", "exit 0"}}, AutoRestart, 24, 80, 1000)
	assert.NoError(t, err)
	defer p.Close()

	p.OnRestarted = func() {
		select {
		case restarted <- struct{}{}:
		default:
		}
	}

	select {
	case <-restarted:
	case <-time.After(2 * time.Second):
		t.Fatal("AutoRestart never respawned")
	}
}

func TestResize_NoopWhenUnchanged(t *testing.T) {
	p, err := New(Spawn{Command: "/bin/sh"}, NoRestart, 24, 80, 1000)
	assert.NoError(t, err)
	defer p.Close()

	p.Resize(24, 80)
	rows, cols := p.Screen().Size()
	assert.Equal(t, 24, rows)
	assert.Equal(t, 80, cols)
}

func TestExtractLastNLines_EmptyScreenIsAllSpaces(t *testing.T) {
	p, err := New(Spawn{Command: "/bin/sh"}, NoRestart, 3, 10, 1000)
	assert.NoError(t, err)
	defer p.Close()

	text := p.ExtractLastNLines(3)
	for _, r := range text {
		assert.True(t, r == ' ' || r == '\n')
	}
}
