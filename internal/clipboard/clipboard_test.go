package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetMethod_RecognizesInternal(t *testing.T) {
	assert.Equal(t, MethodInternal, SetMethod("internal"))
}

func TestSetMethod_DefaultsToExternal(t *testing.T) {
	assert.Equal(t, MethodExternal, SetMethod("external"))
	assert.Equal(t, MethodExternal, SetMethod("bogus"))
	assert.Equal(t, MethodExternal, SetMethod(""))
}

func TestInitialize_InternalMethodNeverFails(t *testing.T) {
	assert.NoError(t, Initialize(MethodInternal))
}

func TestWriteRead_InternalFallbackRoundTrips(t *testing.T) {
	assert.NoError(t, Initialize(MethodInternal))

	assert.NoError(t, Write("hello clipboard", ClipboardReg))
	got, err := Read(ClipboardReg)

	assert.NoError(t, err)
	assert.Equal(t, "hello clipboard", got)
}

func TestWriteRead_RegistersAreIndependent(t *testing.T) {
	assert.NoError(t, Initialize(MethodInternal))

	assert.NoError(t, Write("clipboard value", ClipboardReg))
	assert.NoError(t, Write("primary value", PrimaryReg))

	got, err := Read(PrimaryReg)
	assert.NoError(t, err)
	assert.Equal(t, "primary value", got)

	got, err = Read(ClipboardReg)
	assert.NoError(t, err)
	assert.Equal(t, "clipboard value", got)
}

func TestInitialize_ExternalMethodNeverReturnsError(t *testing.T) {
	// Headless test environments have no xclip/xsel/pbcopy/wl-copy; the
	// wrapper must still degrade cleanly to the internal fallback.
	assert.NoError(t, Initialize(MethodExternal))
}
