package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keytest"
)

func TestLongTapShortReleaseFiresShortAction(t *testing.T) {
	base := keytest.NewCatcher()
	short := &actionCounter{}
	long := &actionCounter{}
	h := handler.NewLongTap(keycode.Escape, short, long, 200)

	buf := event.New()
	buf.AddKeyPress(keycode.Escape, 0)
	h.Process(buf, base)

	buf = event.New()
	buf.AddKeyRelease(keycode.Escape, 50)
	h.Process(buf, base)

	assert.Equal(t, 1, short.fired)
	assert.Equal(t, 0, long.fired)
}

func TestLongTapLongReleaseFiresLongAction(t *testing.T) {
	base := keytest.NewCatcher()
	short := &actionCounter{}
	long := &actionCounter{}
	h := handler.NewLongTap(keycode.Escape, short, long, 200)

	buf := event.New()
	buf.AddKeyPress(keycode.Escape, 0)
	h.Process(buf, base)

	buf = event.New()
	buf.AddKeyRelease(keycode.Escape, 250)
	h.Process(buf, base)

	assert.Equal(t, 0, short.fired)
	assert.Equal(t, 1, long.fired)
}

func TestLongTapSwallowsBothPressAndRelease(t *testing.T) {
	base := keytest.NewCatcher()
	short := &actionCounter{}
	long := &actionCounter{}
	h := handler.NewLongTap(keycode.Escape, short, long, 200)

	buf := event.New()
	buf.AddKeyPress(keycode.Escape, 0)
	h.Process(buf, base)
	assert.Equal(t, event.Handled, buf.Entry(0).Status)

	buf = event.New()
	buf.AddKeyRelease(keycode.Escape, 50)
	h.Process(buf, base)
	assert.Equal(t, event.Handled, buf.Entry(0).Status)
}
