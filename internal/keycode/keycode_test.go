package keycode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/keycode"
)

func TestIsUSBKeycode(t *testing.T) {
	assert.True(t, keycode.A.IsUSBKeycode())
	assert.True(t, keycode.RGui.IsUSBKeycode())
	assert.False(t, keycode.FromRune('a').IsUSBKeycode())
	assert.False(t, keycode.UK(0).IsUSBKeycode())
}

func TestIsPrivateKeycodeRange(t *testing.T) {
	assert.True(t, keycode.UK(0).IsPrivateKeycode())
	assert.True(t, keycode.UK(99).IsPrivateKeycode())
	assert.False(t, keycode.A.IsPrivateKeycode())
}

func TestIsUnicode(t *testing.T) {
	assert.True(t, keycode.FromRune('€').IsUnicode())
	assert.False(t, keycode.A.IsUnicode())
}

func TestModifierBitIsUniquePerModifier(t *testing.T) {
	mods := []keycode.Code{
		keycode.LCtrl, keycode.LShift, keycode.LAlt, keycode.LGui,
		keycode.RCtrl, keycode.RShift, keycode.RAlt, keycode.RGui,
	}
	seen := make(map[uint8]bool)
	for _, m := range mods {
		assert.True(t, m.IsModifier())
		bit := m.ModifierBit()
		assert.False(t, seen[bit], "duplicate modifier bit for %v", m)
		seen[bit] = true
	}
	assert.False(t, keycode.A.IsModifier())
	assert.Equal(t, uint8(0), keycode.A.ModifierBit())
}

func TestHIDIndexRoundTrip(t *testing.T) {
	assert.Equal(t, keycode.A, keycode.FromHIDIndex(keycode.A.HIDIndex()))
}

func TestRuneRoundTrip(t *testing.T) {
	r := rune('λ')
	c := keycode.FromRune(r)
	assert.True(t, c.IsUnicode())
	assert.Equal(t, r, c.Rune())
}

func TestUKDistinctFromHIDAndUnicode(t *testing.T) {
	uk := keycode.UK(42)
	assert.NotEqual(t, keycode.A, uk)
	assert.False(t, uk.IsUSBKeycode())
	assert.False(t, uk.IsUnicode())
}
