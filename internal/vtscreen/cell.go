package vtscreen

import "github.com/mattn/go-runewidth"

// Attr is a bitset of terminal text attributes (spec §3 Cell).
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrDim
	AttrBlink
)

// Color is a packed colour value: 0 means "terminal default", values
// 1-256 hold a palette index plus one, and values with bit 24 set carry
// 24-bit RGB as (1<<24 | r<<16 | g<<8 | b).
type Color uint32

// DefaultColor is the zero value: "use the terminal's own default".
const DefaultColor Color = 0

const rgbFlag = 1 << 24

// RGB packs a true-colour value.
func RGB(r, g, b uint8) Color {
	return Color(rgbFlag) | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Palette packs a 256-colour palette index. The index is stored shifted by
// one so that palette colour 0 (black) stays distinct from DefaultColor.
func Palette(idx uint8) Color {
	return Color(idx) + 1
}

// IsRGB reports whether the colour carries 24-bit components.
func (c Color) IsRGB() bool { return c&rgbFlag != 0 }

// Components returns the packed components; only meaningful when IsRGB is true.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// PaletteIndex returns the 256-colour index; only meaningful when IsRGB is
// false and the colour isn't DefaultColor.
func (c Color) PaletteIndex() uint8 {
	return uint8(c - 1)
}

// Cell is one grid position (spec §3 Cell). A wide glyph at column c
// occupies c and c+1; c+1 is represented as a Cell with Continuation set
// and an empty Ch, never as a duplicate of the wide glyph.
type Cell struct {
	Ch           rune
	FG, BG       Color
	Attrs        Attr
	Wide         bool
	Continuation bool
}

// emptyCell is what an unset grid position renders as: a space, never an
// empty string (spec §4.2 edge cases, testable property 5).
var emptyCell = Cell{Ch: ' '}

// runeCells converts a single rune into one or two Cells (the second being
// a continuation marker when the rune is double-width), applying style.
func runeCells(r rune, fg, bg Color, attrs Attr) []Cell {
	if r == 0 {
		return []Cell{{Ch: ' ', FG: fg, BG: bg, Attrs: attrs}}
	}
	if runewidth.RuneWidth(r) == 2 {
		return []Cell{
			{Ch: r, FG: fg, BG: bg, Attrs: attrs, Wide: true},
			{Ch: 0, FG: fg, BG: bg, Attrs: attrs, Continuation: true},
		}
	}
	return []Cell{{Ch: r, FG: fg, BG: bg, Attrs: attrs}}
}

// Text returns the cell's printable character — a space for both unset
// cells and continuation markers, never an empty string.
func (c Cell) Text() string {
	if c.Continuation || c.Ch == 0 {
		return " "
	}
	return string(c.Ch)
}
