package input

import (
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func key(k tcell.Key, r rune, mods tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mods)
}

func TestTranslate_PlainRune(t *testing.T) {
	b := Translate(key(tcell.KeyRune, 'a', 0), Mode{})
	assert.Equal(t, []byte("a"), b)
}

func TestTranslate_CtrlLetterFoldsToC0(t *testing.T) {
	b := Translate(key(tcell.KeyRune, 'a', tcell.ModCtrl), Mode{})
	assert.Equal(t, []byte{1}, b)
}

func TestTranslate_AltPrefixesEscape(t *testing.T) {
	b := Translate(key(tcell.KeyRune, 'x', tcell.ModAlt), Mode{})
	assert.Equal(t, []byte{0x1b, 'x'}, b)
}

func TestTranslate_EnterIsCR(t *testing.T) {
	b := Translate(key(tcell.KeyEnter, 0, 0), Mode{})
	assert.Equal(t, []byte{'\r'}, b)
}

func TestTranslate_ArrowNormalMode(t *testing.T) {
	b := Translate(key(tcell.KeyUp, 0, 0), Mode{AppCursorKeys: false})
	assert.Equal(t, []byte{0x1b, '[', 'A'}, b)
}

func TestTranslate_ArrowAppCursorMode(t *testing.T) {
	b := Translate(key(tcell.KeyUp, 0, 0), Mode{AppCursorKeys: true})
	assert.Equal(t, []byte{0x1b, 'O', 'A'}, b)
}

func TestTranslate_ShiftPageUpReturnsNil(t *testing.T) {
	b := Translate(key(tcell.KeyPgUp, 0, tcell.ModShift), Mode{})
	assert.Nil(t, b)
}

func TestTranslate_PlainPageUpSendsCSI(t *testing.T) {
	b := Translate(key(tcell.KeyPgUp, 0, 0), Mode{})
	assert.Equal(t, []byte{0x1b, '[', '5', '~'}, b)
}

func TestTranslate_HomeEndRespectAppCursorMode(t *testing.T) {
	assert.Equal(t, []byte{0x1b, '[', 'H'}, Translate(key(tcell.KeyHome, 0, 0), Mode{}))
	assert.Equal(t, []byte{0x1b, 'O', 'H'}, Translate(key(tcell.KeyHome, 0, 0), Mode{AppCursorKeys: true}))
}

func TestTranslate_FunctionKeys(t *testing.T) {
	assert.Equal(t, []byte{0x1b, 'O', 'P'}, Translate(key(tcell.KeyF1, 0, 0), Mode{}))
	assert.Equal(t, []byte{0x1b, '[', '2', '0', '~'}, Translate(key(tcell.KeyF9, 0, 0), Mode{}))
}

func TestTranslate_BacktabSendsCSIz(t *testing.T) {
	b := Translate(key(tcell.KeyBacktab, 0, 0), Mode{})
	assert.Equal(t, []byte{0x1b, '[', 'Z'}, b)
}
