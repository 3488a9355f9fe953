package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// OnOff is implemented by anything a OneShot (or a macro) activates and
// deactivates as it transitions.
type OnOff interface {
	OnActivate(out keyout.KeyOut)
	OnDeactivate(out keyout.KeyOut)
}

// Action is a one-shot callback, triggered once, with no on/off state of
// its own — used for OneShot's double-tap hooks and leader/tap-dance
// outcomes.
type Action interface {
	OnTrigger(out keyout.KeyOut)
}

type oneShotStatus int

const (
	oneShotHeld oneShotStatus = iota
	oneShotHeldUsed
	oneShotTriggered
	oneShotTriggerUsed
	oneShotOff
)

// OneShot implements a sticky modifier key: pressing the trigger activates
// it. Releasing the trigger with no other key in between leaves it
// triggered: the next other key is composed with it, and it deactivates when
// a further other key is pressed (or when another key's release arrives
// before any other press). Pressing the trigger again while triggered
// deactivates it and fires that trigger's double-tap action. If another key
// is released while the trigger is still held, releasing the trigger
// deactivates it. Two triggers are accepted so a
// left/right pair of physical keys (e.g. LShift/RShift) can share one
// OneShot; pass keycode.No for the unused slot. held_timeout and
// released_timeout, both in milliseconds, are optional escape hatches: held
// past held_timeout deactivates on release instead of arming; triggered and
// left untouched past released_timeout deactivates on the next TimeOut.
type OneShot struct {
	trigger1, trigger2  keycode.Code
	callbacks           OnOff
	onDoubleTapTrigger1 Action
	onDoubleTapTrigger2 Action
	status              oneShotStatus
	heldTimeoutMs       uint16
	releasedTimeoutMs   uint16
}

// NewOneShot builds a OneShot and registers both triggers in the
// process-wide one-shot trigger registry, so other handlers (notably Layer's
// AutoOffAfterNonModifier policy, and other OneShots' "was this an unrelated
// key" check) know to ignore them. Pass keycode.No for either trigger to
// leave it unused.
func NewOneShot(trigger1, trigger2 keycode.Code, callbacks OnOff, onDoubleTapTrigger1, onDoubleTapTrigger2 Action, heldTimeoutMs, releasedTimeoutMs uint16) *OneShot {
	if trigger1 != keycode.No {
		registerOneShotTrigger(trigger1)
	}
	if trigger2 != keycode.No {
		registerOneShotTrigger(trigger2)
	}
	return &OneShot{
		trigger1:            trigger1,
		trigger2:            trigger2,
		callbacks:           callbacks,
		onDoubleTapTrigger1: onDoubleTapTrigger1,
		onDoubleTapTrigger2: onDoubleTapTrigger2,
		status:              oneShotOff,
		heldTimeoutMs:       heldTimeoutMs,
		releasedTimeoutMs:   releasedTimeoutMs,
	}
}

func (h *OneShot) DefaultEnabled() bool { return true }

func (h *OneShot) isTrigger(kc keycode.Code) bool {
	return kc == h.trigger1 || kc == h.trigger2
}

func (h *OneShot) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyPress:
			if h.isTrigger(key.Keycode) {
				e.Status = event.Handled
				switch h.status {
				case oneShotTriggered:
					h.status = oneShotOff
					h.callbacks.OnDeactivate(out)
					if key.Keycode == h.trigger1 {
						h.onDoubleTapTrigger1.OnTrigger(out)
					} else if key.Keycode == h.trigger2 {
						h.onDoubleTapTrigger2.OnTrigger(out)
					}
				case oneShotOff:
					h.status = oneShotHeld
					h.callbacks.OnActivate(out)
				case oneShotHeld, oneShotHeldUsed, oneShotTriggerUsed:
					// no-op
				}
			} else if !isOneShotTrigger(key.Keycode) {
				switch h.status {
				case oneShotTriggered:
					h.status = oneShotTriggerUsed
				case oneShotTriggerUsed:
					h.status = oneShotOff
					h.callbacks.OnDeactivate(out)
				}
			}

		case event.KeyRelease:
			if h.isTrigger(key.Keycode) {
				switch h.status {
				case oneShotHeld:
					if h.heldTimeoutMs > 0 && key.MsSinceLast > h.heldTimeoutMs {
						h.status = oneShotOff
						h.callbacks.OnDeactivate(out)
					} else {
						h.status = oneShotTriggered
					}
				case oneShotHeldUsed:
					h.status = oneShotOff
					h.callbacks.OnDeactivate(out)
				}
				e.Status = event.Handled
			} else if !isOneShotTrigger(key.Keycode) {
				switch h.status {
				case oneShotTriggered:
					h.status = oneShotOff
					h.callbacks.OnDeactivate(out)
				case oneShotHeld:
					h.status = oneShotHeldUsed
				}
			}

		case event.TimeOut:
			if h.status == oneShotTriggered && h.releasedTimeoutMs > 0 && e.Event.TimeoutMs >= h.releasedTimeoutMs {
				h.status = oneShotOff
				h.callbacks.OnDeactivate(out)
			}
		}
	})
	return NoOp
}
