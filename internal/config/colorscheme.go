package config

import (
	"os"

	"github.com/micro-editor/tcell/v2"
)

// InTmux is true when running inside tmux, which forces 256-colour-safe
// rendering since true-colour escapes are unreliable across some tmux/term
// combinations (mirrors the teacher's InTmux check).
var InTmux = os.Getenv("TMUX") != ""

// WorkbenchBackground is the default background colour for every panel,
// kept distinct from tcell.ColorDefault so pane borders read consistently
// across terminal emulators with different default backgrounds.
var WorkbenchBackground = tcell.NewHexColor(0x0b0614)

// DefStyle is the base style every renderer composes onto.
var DefStyle = tcell.StyleDefault.Background(WorkbenchBackground)

// GetColor256 maps a VT 0-255 palette index to a tcell colour, treating 0
// as "use the terminal default" the way vt10x represents an unset colour.
func GetColor256(color int) tcell.Color {
	if color == 0 {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(color)
}

// rgbTo256 approximates a 24-bit colour with the 216-colour cube (indices
// 16-231), used when InTmux forces palette-safe rendering.
func rgbTo256(r, g, b int) tcell.Color {
	ri := (r * 5) / 255
	gi := (g * 5) / 255
	bi := (b * 5) / 255
	return tcell.PaletteColor(16 + 36*ri + 6*gi + bi)
}

// RGBToColor resolves a 24-bit colour to either true colour or the nearest
// palette entry, depending on InTmux.
func RGBToColor(r, g, b int) tcell.Color {
	if InTmux {
		return rgbTo256(r, g, b)
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
