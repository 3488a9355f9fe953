package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/keytest"
)

func TestTapDanceFlushesOnDifferentKeyPress(t *testing.T) {
	base := keytest.NewCatcher()
	var got uint8
	h := handler.NewTapDance(keycode.SColon, func(tapCount uint8, out keyout.KeyOut) { got = tapCount })

	buf := event.New()
	buf.AddKeyPress(keycode.SColon, 0)
	h.Process(buf, base)
	buf = event.New()
	buf.AddKeyRelease(keycode.SColon, 0)
	h.Process(buf, base)
	buf = event.New()
	buf.AddKeyPress(keycode.SColon, 0)
	h.Process(buf, base)
	buf = event.New()
	buf.AddKeyRelease(keycode.SColon, 0)
	h.Process(buf, base)

	// A different key's press flushes the accumulated tap count.
	buf = event.New()
	buf.AddKeyPress(keycode.A, 0)
	h.Process(buf, base)

	assert.Equal(t, uint8(2), got)
}

func TestTapDanceFlushesOnTimeout(t *testing.T) {
	base := keytest.NewCatcher()
	var got uint8
	h := handler.NewTapDance(keycode.SColon, func(tapCount uint8, out keyout.KeyOut) { got = tapCount })
	h.WithTimeout(100)

	buf := event.New()
	buf.AddKeyPress(keycode.SColon, 0)
	h.Process(buf, base)
	buf = event.New()
	buf.AddKeyRelease(keycode.SColon, 0)
	h.Process(buf, base)

	buf = event.New()
	buf.AddTimeout(150)
	h.Process(buf, base)

	assert.Equal(t, uint8(1), got)
}

func TestTapDanceSwallowsTriggerPressAndRelease(t *testing.T) {
	base := keytest.NewCatcher()
	h := handler.NewTapDance(keycode.SColon, func(tapCount uint8, out keyout.KeyOut) {})

	buf := event.New()
	buf.AddKeyPress(keycode.SColon, 0)
	h.Process(buf, base)
	assert.Equal(t, event.Handled, buf.Entry(0).Status)

	buf = event.New()
	buf.AddKeyRelease(keycode.SColon, 0)
	h.Process(buf, base)
	assert.Equal(t, event.Handled, buf.Entry(0).Status)
}
