// Package preview implements the Preview pane's scroll/content state.
// Syntax highlighting is explicitly out of scope (spec §1) — Highlighter
// is the seam a real implementation plugs into; this package's own job
// is holding the current file's lines and the pane-local scroll keys
// spec §4.6 step 6 names ("preview scroll keys").
package preview

import (
	"bufio"
	"os"

	"github.com/micro-editor/tcell/v2"
)

// StyledLine is one rendered line: plain text plus an optional per-cell
// style override. A real Highlighter fills Styles; the plain-text default
// leaves it nil, which callers render with the pane's default style.
type StyledLine struct {
	Text   string
	Styles []tcell.Style // nil, or len(Styles) == len([]rune(Text))
}

// Highlighter is the external collaborator's interface (spec §1
// "syntax-highlighted preview"): turn a file's raw lines into styled
// lines. The default implementation applies no styling.
type Highlighter interface {
	Highlight(path string, lines []string) []StyledLine
}

type plainHighlighter struct{}

func (plainHighlighter) Highlight(_ string, lines []string) []StyledLine {
	out := make([]StyledLine, len(lines))
	for i, l := range lines {
		out[i] = StyledLine{Text: l}
	}
	return out
}

// DefaultHighlighter returns the no-op Highlighter.
func DefaultHighlighter() Highlighter { return plainHighlighter{} }

// Preview is the pane's state: the currently open file and a scroll
// offset into its lines.
type Preview struct {
	highlighter Highlighter
	path        string
	lines       []StyledLine
	offset      int
}

// New constructs an empty Preview.
func New(h Highlighter) *Preview {
	if h == nil {
		h = DefaultHighlighter()
	}
	return &Preview{highlighter: h}
}

// Open loads path and resets scroll to the top.
func (p *Preview) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var raw []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}

	p.path = path
	p.lines = p.highlighter.Highlight(path, raw)
	p.offset = 0
	return nil
}

// Path returns the currently open file, or "" if none.
func (p *Preview) Path() string { return p.path }

// Lines returns height lines of content starting at the scroll offset.
func (p *Preview) Lines(height int) []StyledLine {
	if height <= 0 || len(p.lines) == 0 {
		return nil
	}
	end := p.offset + height
	if end > len(p.lines) {
		end = len(p.lines)
	}
	if p.offset >= end {
		return nil
	}
	return p.lines[p.offset:end]
}

// HandleKey processes one preview pane-local shortcut (spec §4.6 step 6).
func (p *Preview) HandleKey(ev *tcell.EventKey, viewHeight int) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		p.scroll(-1)
		return true
	case tcell.KeyDown:
		p.scroll(1)
		return true
	case tcell.KeyPgUp:
		p.scroll(-(viewHeight - 1))
		return true
	case tcell.KeyPgDn:
		p.scroll(viewHeight - 1)
		return true
	case tcell.KeyHome:
		p.offset = 0
		return true
	case tcell.KeyEnd:
		p.offset = maxInt(0, len(p.lines)-viewHeight)
		return true
	}
	return false
}

func (p *Preview) scroll(delta int) {
	p.offset += delta
	if p.offset < 0 {
		p.offset = 0
	}
	if max := len(p.lines) - 1; p.offset > max && max >= 0 {
		p.offset = max
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
