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

type onOffCounter struct {
	activations, deactivations int
}

func (c *onOffCounter) OnActivate(out keyout.KeyOut)   { c.activations++ }
func (c *onOffCounter) OnDeactivate(out keyout.KeyOut) { c.deactivations++ }

type actionCounter struct{ fired int }

func (a *actionCounter) OnTrigger(out keyout.KeyOut) { a.fired++ }

func TestOneShotTapAppliesToExactlyOneFollowingKey(t *testing.T) {
	handler.ResetOneShotTriggerRegistry()
	base := keytest.NewCatcher()

	on := &onOffCounter{}
	h := handler.NewOneShot(keycode.LShift, keycode.No, on, &actionCounter{}, &actionCounter{}, 0, 0)

	// Press trigger: arms it.
	buf := event.New()
	buf.AddKeyPress(keycode.LShift, 0)
	h.Process(buf, base)
	assert.Equal(t, 1, on.activations)

	// Release trigger without pressing anything else: becomes "triggered".
	buf = event.New()
	buf.AddKeyRelease(keycode.LShift, 0)
	h.Process(buf, base)
	assert.Equal(t, 0, on.deactivations)

	// Press the one key the one-shot applies to: consumed, still unhandled
	// (OneShot never swallows someone else's key), modifier stays active.
	buf = event.New()
	buf.AddKeyPress(keycode.A, 0)
	h.Process(buf, base)
	assert.Equal(t, event.Unhandled, buf.Entry(0).Status)
	assert.Equal(t, 0, on.deactivations, "modifier must still be held while the one key is composed")

	// Its release doesn't yet deactivate...
	buf = event.New()
	buf.AddKeyRelease(keycode.A, 0)
	h.Process(buf, base)
	assert.Equal(t, 0, on.deactivations)

	// ...but the press of the *next* unrelated key does, before that key's
	// own press is composed downstream in the same pass.
	buf = event.New()
	buf.AddKeyPress(keycode.B, 0)
	h.Process(buf, base)
	assert.Equal(t, 1, on.deactivations)
}

func TestOneShotHeldTimeoutDeactivatesOnRelease(t *testing.T) {
	handler.ResetOneShotTriggerRegistry()
	base := keytest.NewCatcher()
	on := &onOffCounter{}
	h := handler.NewOneShot(keycode.LShift, keycode.No, on, &actionCounter{}, &actionCounter{}, 100, 0)

	buf := event.New()
	buf.AddKeyPress(keycode.LShift, 0)
	h.Process(buf, base)

	buf = event.New()
	buf.AddKeyRelease(keycode.LShift, 250) // held past heldTimeoutMs
	h.Process(buf, base)

	assert.Equal(t, 1, on.deactivations, "held past the timeout should deactivate on release, not arm")
}

func TestOneShotDoubleTapFiresDoubleTapAction(t *testing.T) {
	handler.ResetOneShotTriggerRegistry()
	base := keytest.NewCatcher()
	on := &onOffCounter{}
	dbl := &actionCounter{}
	h := handler.NewOneShot(keycode.LShift, keycode.No, on, dbl, &actionCounter{}, 0, 0)

	buf := event.New()
	buf.AddKeyPress(keycode.LShift, 0)
	h.Process(buf, base)

	buf = event.New()
	buf.AddKeyRelease(keycode.LShift, 0)
	h.Process(buf, base)

	// Second press while "triggered" (no intervening key) is a double-tap.
	buf = event.New()
	buf.AddKeyPress(keycode.LShift, 10)
	h.Process(buf, base)

	assert.Equal(t, 1, dbl.fired)
	assert.Equal(t, 1, on.deactivations)
}
