package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen_LoadsLinesAndResetsOffset(t *testing.T) {
	path := writeTempFile(t, "one", "two", "three")
	p := New(nil)

	assert.NoError(t, p.Open(path))
	assert.Equal(t, path, p.Path())
	assert.Equal(t, []StyledLine{{Text: "one"}, {Text: "two"}, {Text: "three"}}, p.Lines(10))
}

func TestLines_TruncatesToHeight(t *testing.T) {
	path := writeTempFile(t, "a", "b", "c", "d")
	p := New(nil)
	assert.NoError(t, p.Open(path))

	got := p.Lines(2)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "b", got[1].Text)
}

func TestHandleKey_ScrollDownAndUp(t *testing.T) {
	path := writeTempFile(t, "a", "b", "c", "d", "e")
	p := New(nil)
	assert.NoError(t, p.Open(path))

	p.HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, 0), 3)
	assert.Equal(t, "b", p.Lines(1)[0].Text)

	p.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, 0), 3)
	assert.Equal(t, "a", p.Lines(1)[0].Text)
}

func TestHandleKey_ScrollClampsAtTop(t *testing.T) {
	path := writeTempFile(t, "a", "b")
	p := New(nil)
	assert.NoError(t, p.Open(path))

	p.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, 0), 3)
	assert.Equal(t, "a", p.Lines(1)[0].Text)
}

func TestHandleKey_EndJumpsToBottom(t *testing.T) {
	path := writeTempFile(t, "a", "b", "c", "d", "e")
	p := New(nil)
	assert.NoError(t, p.Open(path))

	p.HandleKey(tcell.NewEventKey(tcell.KeyEnd, 0, 0), 2)
	assert.Equal(t, "d", p.Lines(2)[0].Text)
}

func TestHandleKey_HomeJumpsToTop(t *testing.T) {
	path := writeTempFile(t, "a", "b", "c", "d", "e")
	p := New(nil)
	assert.NoError(t, p.Open(path))
	p.HandleKey(tcell.NewEventKey(tcell.KeyEnd, 0, 0), 2)

	p.HandleKey(tcell.NewEventKey(tcell.KeyHome, 0, 0), 2)
	assert.Equal(t, "a", p.Lines(1)[0].Text)
}

func TestDefaultHighlighter_AppliesNoStyling(t *testing.T) {
	out := DefaultHighlighter().Highlight("x.go", []string{"package main"})
	assert.Equal(t, []StyledLine{{Text: "package main"}}, out)
}
