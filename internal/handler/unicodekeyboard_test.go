package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keytest"
)

func TestUnicodeKeyboardSendsOnRelease(t *testing.T) {
	base := keytest.NewCatcher()
	catcher := base.Reporter.(*keytest.Catcher)
	h := handler.NewUnicodeKeyboard()
	kc := keycode.FromRune('€')

	buf := event.New()
	buf.AddKeyPress(kc, 0)
	h.Process(buf, base)
	assert.Equal(t, event.Handled, buf.Entry(0).Status)
	assert.Empty(t, catcher.Reports, "press alone must not emit anything yet")

	buf = event.New()
	buf.AddKeyRelease(kc, 0)
	h.Process(buf, base)
	assert.Equal(t, event.Handled, buf.Entry(0).Status)
	assert.NotEmpty(t, catcher.Reports)
}

func TestUnicodeKeyboardLeavesHIDKeysAlone(t *testing.T) {
	base := keytest.NewCatcher()
	h := handler.NewUnicodeKeyboard()

	buf := event.New()
	buf.AddKeyPress(keycode.A, 0)
	h.Process(buf, base)

	assert.Equal(t, event.Unhandled, buf.Entry(0).Status)
}
