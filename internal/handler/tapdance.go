package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// DefaultTapDanceTimeoutMs is how long TapDance waits, after the last
// release of its trigger, before flushing the accumulated tap count.
const DefaultTapDanceTimeoutMs uint16 = 250

// TapDance counts consecutive taps of a trigger key and flushes
// onTapComplete(tapCount, out) either when a different key is pressed or
// when no further tap arrives within timeoutMs of the last release.
// Releases of the trigger itself are swallowed and don't flush; only the
// accumulated press count matters.
type TapDance struct {
	trigger       keycode.Code
	tapCount      uint8
	onTapComplete func(tapCount uint8, out keyout.KeyOut)
	timeoutMs     uint16
}

// NewTapDance builds a TapDance with the default 250ms flush timeout.
func NewTapDance(trigger keycode.Code, onTapComplete func(tapCount uint8, out keyout.KeyOut)) *TapDance {
	return &TapDance{trigger: trigger, onTapComplete: onTapComplete, timeoutMs: DefaultTapDanceTimeoutMs}
}

// WithTimeout overrides the default flush timeout; returns the receiver for
// chaining at construction time.
func (h *TapDance) WithTimeout(timeoutMs uint16) *TapDance {
	h.timeoutMs = timeoutMs
	return h
}

func (h *TapDance) DefaultEnabled() bool { return true }

func (h *TapDance) flush(out keyout.KeyOut) {
	h.onTapComplete(h.tapCount, out)
	h.tapCount = 0
}

func (h *TapDance) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		switch e.Event.Kind {
		case event.KeyRelease:
			if e.Event.Key.Keycode == h.trigger {
				e.Status = event.Handled
			}
		case event.KeyPress:
			if e.Event.Key.Keycode != h.trigger {
				if h.tapCount > 0 {
					h.flush(out)
				}
				return
			}
			h.tapCount++
			e.Status = event.Handled
		case event.TimeOut:
			if h.tapCount > 0 && e.Event.TimeoutMs > h.timeoutMs {
				h.flush(out)
			}
		}
	})
	return NoOp
}
