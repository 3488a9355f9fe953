package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keytest"
)

func TestSpaceCadetQuickTapPassesThrough(t *testing.T) {
	base := keytest.NewCatcher()
	on := &onOffCounter{}
	h := handler.NewSpaceCadet(keycode.LCtrl, on)
	buf := event.New()

	buf.AddKeyPress(keycode.LCtrl, 0)
	runPass(buf, h, base)
	assert.Equal(t, event.Ignored, buf.Entry(0).Status)

	buf.AddKeyRelease(keycode.LCtrl, 0)
	runPass(buf, h, base)

	assert.Equal(t, event.Unhandled, buf.Entry(0).Status, "a clean tap must reach USBKeyboard as an ordinary key")
	assert.Equal(t, 0, on.activations)
}

func TestSpaceCadetHeldActivatesModifier(t *testing.T) {
	base := keytest.NewCatcher()
	on := &onOffCounter{}
	h := handler.NewSpaceCadet(keycode.LCtrl, on)
	buf := event.New()

	buf.AddKeyPress(keycode.LCtrl, 0)
	runPass(buf, h, base)

	buf.AddKeyPress(keycode.A, 0)
	runPass(buf, h, base)
	assert.Equal(t, 1, on.activations)

	buf.AddKeyRelease(keycode.LCtrl, 0)
	runPass(buf, h, base)
	assert.Equal(t, 1, on.deactivations)
}
