package ptyproc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpawn_InvalidCwdFails(t *testing.T) {
	_, err := Spawn("/bin/sh", nil, nil, "/no/such/directory", 24, 80)

	assert.Error(t, err)
	var spawnErr *SpawnError
	assert.ErrorAs(t, err, &spawnErr)
}

func TestSpawn_UnknownCommandFails(t *testing.T) {
	_, err := Spawn("/no/such/binary-xyz", nil, nil, "", 24, 80)
	assert.Error(t, err)
}

func TestChild_WriteAfterKillReturnsClosedPipe(t *testing.T) {
	c, err := Spawn("/bin/sh", nil, nil, "", 24, 80)
	assert.NoError(t, err)

	c.Kill()

	_, err = c.Write([]byte("echo hi\n"))
	assert.ErrorIs(t, err, ErrClosedPipe)
}

func TestChild_RunningReflectsMarkExited(t *testing.T) {
	c, err := Spawn("/bin/sh", nil, nil, "", 24, 80)
	assert.NoError(t, err)
	defer c.Kill()

	assert.True(t, c.Running())
	c.MarkExited()
	assert.False(t, c.Running())
}

func TestChild_ResizeIsNoopAfterKill(t *testing.T) {
	c, err := Spawn("/bin/sh", nil, nil, "", 24, 80)
	assert.NoError(t, err)

	c.Kill()
	assert.NotPanics(t, func() { c.Resize(30, 100) })
}

func TestChild_TakeReaderReturnsNilAfterKill(t *testing.T) {
	c, err := Spawn("/bin/sh", nil, nil, "", 24, 80)
	assert.NoError(t, err)

	c.Kill()
	time.Sleep(10 * time.Millisecond)
	assert.Nil(t, c.TakeReader())
}
