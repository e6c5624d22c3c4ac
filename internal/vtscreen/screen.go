// Package vtscreen implements the VT Screen component of spec §4.2: a
// terminal emulator state machine (grid, cursor, scrollback, attributes)
// built on hinshun/vt10x, the engine this spec's teacher, and the
// TechDufus-openkanban / tui-goggles reference repos, all converge on for
// embedding a VT100-family parser behind a PTY.
package vtscreen

import (
	"io"
	"strings"
	"sync"

	"github.com/hinshun/vt10x"
)

// vt10x terminal mode bit layout, following the teacher's
// terminal/vt_render.go glyphToTcellStyle comment (vt10x does not export
// these constants itself).
const (
	modeBold = 1 << iota
	modeUnderline
	modeReverse
	modeBlink
	modeDim
)

// Screen owns a vt10x terminal, its scrollback ring, and the external
// scroll offset. All access is serialized by mu — the single mutex design
// note from spec §9: one owner lends a guarded handle to one reader.
type Screen struct {
	mu     sync.Mutex
	term   vt10x.Terminal
	back   *ring
	offset int
	rows   int
	cols   int

	prevRows [][]Cell // snapshot of the live grid before the last Feed, for scroll detection
}

// New constructs a VT Screen sized (rows, cols) with scrollback capacity
// scrollbackCap. w receives any bytes the emulator itself must write back
// to the child (cursor-position reports, DA/DSR responses) — ordinarily
// the PTY Child's write end.
func New(rows, cols, scrollbackCap int, w io.Writer) *Screen {
	term := vt10x.New(vt10x.WithSize(cols, rows), vt10x.WithWriter(w))
	return &Screen{
		term: term,
		back: newRing(scrollbackCap),
		rows: rows,
		cols: cols,
	}
}

// Feed parses bytes as a VT stream and mutates state. Incremental and
// resumable: an arbitrary split across an escape sequence is safe because
// vt10x itself buffers partial sequences internally (testable property 2).
func (s *Screen) Feed(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.captureBefore()
	s.term.Write(b)
	s.captureScrolled()
}

// Resize reshapes the grid, preserving content as far as vt10x's own
// reflow allows, and is a no-op when the size is unchanged (testable
// property 3, resize idempotence).
func (s *Screen) Resize(rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rows == s.rows && cols == s.cols {
		return
	}
	s.rows, s.cols = rows, cols
	s.term.Resize(cols, rows)
}

// Cursor returns the cursor's (row, col) and visibility.
func (s *Screen) Cursor() (row, col int, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.term.Cursor()
	return c.Y, c.X, s.term.CursorVisible()
}

// Size returns the current (rows, cols).
func (s *Screen) Size() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

// InAltScreen reports whether the emulator is in the alternate screen
// buffer (fullscreen apps like the Git TUI).
func (s *Screen) InAltScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Mode()&vt10x.ModeAltScreen != 0
}

// AppCursorKeys reports whether the emulator has switched to application
// cursor-key mode (DECCKM), which the Input Translator needs to choose
// between CSI and SS3 arrow-key encodings (spec §4.4).
func (s *Screen) AppCursorKeys() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Mode()&vt10x.ModeAppCursor != 0
}

// ScrollbackLen returns the number of rows currently retained in history.
func (s *Screen) ScrollbackLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.back.len()
}

// ResetScroll sets the external ScrollOffset back to 0 (testable property
// 6: a successful write_input always does this from Pane Terminal).
func (s *Screen) ResetScroll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = 0
}

// ScrollBy adjusts the ScrollOffset by delta, clamped to [0, scrollback.len()].
func (s *Screen) ScrollBy(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
	if max := s.back.len(); s.offset > max {
		s.offset = max
	}
	return s.offset
}

// Offset returns the current ScrollOffset.
func (s *Screen) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// VisibleRows yields exactly height rows starting offset rows above the
// live top (spec §4.2). offset=0 yields the live grid.
func (s *Screen) VisibleRows(offset, height int) [][]Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleRowsLocked(offset, height)
}

func (s *Screen) visibleRowsLocked(offset, height int) [][]Cell {
	out := make([][]Cell, height)
	backLen := s.back.len()

	for y := 0; y < height; y++ {
		lineIndex := backLen - offset + y
		switch {
		case lineIndex < 0:
			out[y] = blankRow(s.cols)
		case lineIndex < backLen:
			row := s.back.get(lineIndex)
			if row == nil {
				row = blankRow(s.cols)
			}
			out[y] = row
		default:
			liveY := lineIndex - backLen
			if liveY < s.rows {
				out[y] = s.liveRow(liveY)
			} else {
				out[y] = blankRow(s.cols)
			}
		}
	}
	return out
}

func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = emptyCell
	}
	return row
}

// liveRow reads one row of the live grid (or the alternate screen, when
// active) into Cells.
func (s *Screen) liveRow(y int) []Cell {
	row := make([]Cell, 0, s.cols)
	for x := 0; x < s.cols; x++ {
		g := s.term.Cell(x, y)
		row = append(row, glyphToCell(g))
		if row[len(row)-1].Wide {
			x++ // the glyph already produced its own continuation cell below
		}
	}
	// glyphToCell never itself emits a continuation pair (vt10x already
	// stores the continuation column as its own, usually zero, glyph), so
	// re-derive width pairing from rune width for invariant correctness.
	return padWide(row, s.cols)
}

// padWide ensures every wide glyph's following column is a continuation
// cell rather than a duplicate, per the Cell invariant in spec §3.
func padWide(row []Cell, cols int) []Cell {
	out := make([]Cell, 0, cols)
	for i := 0; i < len(row) && len(out) < cols; i++ {
		c := row[i]
		out = append(out, c)
		if c.Wide && len(out) < cols {
			out = append(out, Cell{Continuation: true, FG: c.FG, BG: c.BG, Attrs: c.Attrs})
		}
	}
	for len(out) < cols {
		out = append(out, emptyCell)
	}
	return out
}

func glyphToCell(g vt10x.Glyph) Cell {
	ch := g.Char
	cells := runeCells(ch, toColor(g.FG, vt10x.DefaultFG), toColor(g.BG, vt10x.DefaultBG), glyphAttrs(g.Mode))
	return cells[0]
}

func glyphAttrs(mode int16) Attr {
	var a Attr
	if mode&modeBold != 0 {
		a |= AttrBold
	}
	if mode&modeUnderline != 0 {
		a |= AttrUnderline
	}
	if mode&modeReverse != 0 {
		a |= AttrReverse
	}
	if mode&modeBlink != 0 {
		a |= AttrBlink
	}
	if mode&modeDim != 0 {
		a |= AttrDim
	}
	return a
}

func toColor(c, def vt10x.Color) Color {
	if c == def {
		return DefaultColor
	}
	if c > 255 {
		r := uint8((c >> 16) & 0xFF)
		g := uint8((c >> 8) & 0xFF)
		b := uint8(c & 0xFF)
		return RGB(r, g, b)
	}
	return Palette(uint8(c))
}

// captureBefore snapshots the live grid before Feed mutates it, so
// captureScrolled can detect which rows (if any) scrolled off the top.
// Mirrors the teacher's captureScreenBefore/captureScrolledLines pair in
// terminal/panel.go, generalized to our own Cell type.
func (s *Screen) captureBefore() {
	rows := make([][]Cell, s.rows)
	for y := 0; y < s.rows; y++ {
		rows[y] = s.liveRow(y)
	}
	s.prevRows = rows
}

func rowsEqualText(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Ch != b[i].Ch {
			return false
		}
	}
	return true
}

func rowBlank(row []Cell) bool {
	for _, c := range row {
		if c.Ch != ' ' && c.Ch != 0 {
			return false
		}
	}
	return true
}

// captureScrolled detects rows that scrolled off the top of the live grid
// during the Feed call just completed and pushes them onto the scrollback
// ring, using the same two-strategy match the teacher uses: look for the
// old top row somewhere in the new grid (small scroll), then look for any
// old row landing at the new top (large/fast scroll). A blank old top row
// is not searched for, since it would match any blank row below it.
func (s *Screen) captureScrolled() {
	if len(s.prevRows) == 0 || len(s.prevRows) != s.rows {
		return
	}
	newTop := s.liveRow(0)
	if rowsEqualText(newTop, s.prevRows[0]) {
		return
	}

	for newY := 1; newY < s.rows && !rowBlank(s.prevRows[0]); newY++ {
		if !rowsEqualText(s.liveRow(newY), s.prevRows[0]) {
			continue
		}
		if newY+1 < s.rows && 1 < len(s.prevRows) && !rowsEqualText(s.liveRow(newY+1), s.prevRows[1]) {
			continue
		}
		for i := 0; i < newY; i++ {
			s.back.push(s.prevRows[i])
		}
		return
	}

	for oldY := 1; oldY < len(s.prevRows); oldY++ {
		if !rowsEqualText(newTop, s.prevRows[oldY]) {
			continue
		}
		if oldY+1 < len(s.prevRows) && !rowsEqualText(s.liveRow(1), s.prevRows[oldY+1]) {
			continue
		}
		for i := 0; i < oldY; i++ {
			s.back.push(s.prevRows[i])
		}
		return
	}
}

// ExtractRange renders a Selection as plain text (spec §4.2). Coordinates
// are in the same absolute space the Selection Controller produces:
// row 0 is the oldest retained scrollback row, row scrollback.len() is the
// first live row.
func (s *Screen) ExtractRange(sel Selection) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel.IsEmpty() {
		return ""
	}
	start, end := sel.Normalized()

	backLen := s.back.len()
	cellAt := func(row, col int) Cell {
		switch {
		case row < 0:
			return emptyCell
		case row < backLen:
			r := s.back.get(row)
			if r == nil || col >= len(r) {
				return emptyCell
			}
			return r[col]
		default:
			liveY := row - backLen
			if liveY >= s.rows {
				return emptyCell
			}
			row := s.liveRow(liveY)
			if col >= len(row) {
				return emptyCell
			}
			return row[col]
		}
	}

	var b strings.Builder
	for row := start.Row; row <= end.Row; row++ {
		colStart, colEnd := 0, s.cols
		if row == start.Row {
			colStart = start.Col
		}
		if row == end.Row {
			colEnd = end.Col
		}
		for col := colStart; col < colEnd && col < s.cols; col++ {
			b.WriteString(cellAt(row, col).Text())
		}
		if row < end.Row {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ClearScrollback discards all retained history — used when a Pane
// Terminal respawns its child (spec §4.9 supplemented feature).
func (s *Screen) ClearScrollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.back.clear()
	s.offset = 0
}
