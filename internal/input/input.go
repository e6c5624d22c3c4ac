// Package input implements the Input Translator component of spec §4.4:
// tcell key and paste events to PTY byte sequences, grounded on the teacher's
// keyToBytes in terminal/input.go, generalized for application-cursor-keys
// mode (the teacher always emitted normal-mode CSI sequences).
package input

import (
	"unicode/utf8"

	"github.com/micro-editor/tcell/v2"
)

// Mode carries the subset of VT Screen state that changes how a key
// translates to bytes (spec §4.4: "terminal_mode").
type Mode struct {
	// AppCursorKeys is true when the emulator has switched to application
	// cursor-key mode (DECCKM, CSI ?1h) — arrow keys send SS3 (ESC O) in
	// place of the normal-mode CSI (ESC [) form.
	AppCursorKeys bool
}

// Translate converts one key event into the bytes a shell or TUI
// application expects on its stdin (spec §4.4).  Returns nil for events
// that carry no byte representation (e.g. a bare modifier key).
func Translate(ev *tcell.EventKey, mode Mode) []byte {
	if b := special(ev, mode); b != nil {
		return b
	}
	if ev.Key() != tcell.KeyRune {
		return nil
	}

	r := ev.Rune()
	if ev.Modifiers()&tcell.ModAlt != 0 {
		return append([]byte{0x1b}, runeBytes(r, ev.Modifiers())...)
	}
	return runeBytes(r, ev.Modifiers())
}

// runeBytes encodes a single rune, applying Ctrl+letter folding to the
// C0 control range the way every VT100-descended terminal does.
func runeBytes(r rune, mods tcell.ModMask) []byte {
	if mods&tcell.ModCtrl != 0 {
		switch {
		case r >= 'a' && r <= 'z':
			return []byte{byte(r - 'a' + 1)}
		case r >= 'A' && r <= 'Z':
			return []byte{byte(r - 'A' + 1)}
		}
	}
	if r < 128 {
		return []byte{byte(r)}
	}
	buf := make([]byte, 4)
	n := utf8.EncodeRune(buf, r)
	return buf[:n]
}

// cursorPrefix picks ESC O (SS3, application mode) or ESC [ (CSI, normal
// mode) for the arrow/Home/End family.
func cursorPrefix(mode Mode) byte {
	if mode.AppCursorKeys {
		return 'O'
	}
	return '['
}

func special(ev *tcell.EventKey, mode Mode) []byte {
	switch ev.Key() {
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyBacktab:
		return []byte{0x1b, '[', 'Z'}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyEscape:
		return []byte{0x1b}

	case tcell.KeyUp:
		return []byte{0x1b, cursorPrefix(mode), 'A'}
	case tcell.KeyDown:
		return []byte{0x1b, cursorPrefix(mode), 'B'}
	case tcell.KeyRight:
		return []byte{0x1b, cursorPrefix(mode), 'C'}
	case tcell.KeyLeft:
		return []byte{0x1b, cursorPrefix(mode), 'D'}

	case tcell.KeyHome:
		return []byte{0x1b, cursorPrefix(mode), 'H'}
	case tcell.KeyEnd:
		return []byte{0x1b, cursorPrefix(mode), 'F'}

	case tcell.KeyPgUp:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return nil // scroll request, consumed by the Focus & Router before translation
		}
		return []byte{0x1b, '[', '5', '~'}
	case tcell.KeyPgDn:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return nil
		}
		return []byte{0x1b, '[', '6', '~'}

	case tcell.KeyInsert:
		return []byte{0x1b, '[', '2', '~'}
	case tcell.KeyDelete:
		return []byte{0x1b, '[', '3', '~'}

	case tcell.KeyF1:
		return []byte{0x1b, 'O', 'P'}
	case tcell.KeyF2:
		return []byte{0x1b, 'O', 'Q'}
	case tcell.KeyF3:
		return []byte{0x1b, 'O', 'R'}
	case tcell.KeyF4:
		return []byte{0x1b, 'O', 'S'}
	case tcell.KeyF5:
		return []byte{0x1b, '[', '1', '5', '~'}
	case tcell.KeyF6:
		return []byte{0x1b, '[', '1', '7', '~'}
	case tcell.KeyF7:
		return []byte{0x1b, '[', '1', '8', '~'}
	case tcell.KeyF8:
		return []byte{0x1b, '[', '1', '9', '~'}
	case tcell.KeyF9:
		return []byte{0x1b, '[', '2', '0', '~'}
	case tcell.KeyF10:
		return []byte{0x1b, '[', '2', '1', '~'}
	case tcell.KeyF11:
		return []byte{0x1b, '[', '2', '3', '~'}
	case tcell.KeyF12:
		return []byte{0x1b, '[', '2', '4', '~'}

	case tcell.KeyCtrlA:
		return []byte{0x01}
	case tcell.KeyCtrlB:
		return []byte{0x02}
	case tcell.KeyCtrlC:
		return []byte{0x03}
	case tcell.KeyCtrlD:
		return []byte{0x04}
	case tcell.KeyCtrlE:
		return []byte{0x05}
	case tcell.KeyCtrlF:
		return []byte{0x06}
	case tcell.KeyCtrlG:
		return []byte{0x07}
	case tcell.KeyCtrlJ:
		return []byte{'\n'}
	case tcell.KeyCtrlK:
		return []byte{0x0b}
	case tcell.KeyCtrlL:
		return []byte{0x0c}
	case tcell.KeyCtrlN:
		return []byte{0x0e}
	case tcell.KeyCtrlO:
		return []byte{0x0f}
	case tcell.KeyCtrlP:
		return []byte{0x10}
	case tcell.KeyCtrlQ:
		return []byte{0x11}
	case tcell.KeyCtrlR:
		return []byte{0x12}
	case tcell.KeyCtrlS:
		return []byte{0x13}
	case tcell.KeyCtrlT:
		return []byte{0x14}
	case tcell.KeyCtrlU:
		return []byte{0x15}
	case tcell.KeyCtrlV:
		return []byte{0x16}
	case tcell.KeyCtrlW:
		return []byte{0x17}
	case tcell.KeyCtrlX:
		return []byte{0x18}
	case tcell.KeyCtrlY:
		return []byte{0x19}
	case tcell.KeyCtrlZ:
		return []byte{0x1a}
	case tcell.KeyCtrlBackslash:
		return []byte{0x1c}
	case tcell.KeyCtrlRightSq:
		return []byte{0x1d}
	case tcell.KeyCtrlCarat:
		return []byte{0x1e}
	case tcell.KeyCtrlUnderscore:
		return []byte{0x1f}
	}
	return nil
}

// PasteBytes is the byte form of a paste event: passed through verbatim,
// the pane that receives it is responsible for bracketed-paste wrapping
// if the child process requested it (handled upstream by vt10x/the PTY).
func PasteBytes(ev *tcell.EventPaste) []byte {
	return []byte(ev.Text())
}
