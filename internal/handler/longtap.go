package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// LongTap fires actionShort.OnTrigger on a release within thresholdMs of the
// matching press and actionLong.OnTrigger on a release at or past it. It
// only looks at ms_since_last on the release event, not whether that delta
// actually traces back to this trigger's own press, so an intervening event
// of a different key resets the clock it measures against.
type LongTap struct {
	trigger     keycode.Code
	actionShort Action
	actionLong  Action
	thresholdMs uint16
}

// NewLongTap builds a LongTap bound to trigger.
func NewLongTap(trigger keycode.Code, actionShort, actionLong Action, thresholdMs uint16) *LongTap {
	return &LongTap{trigger: trigger, actionShort: actionShort, actionLong: actionLong, thresholdMs: thresholdMs}
}

func (h *LongTap) DefaultEnabled() bool { return true }

func (h *LongTap) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandledReverse(func(e *event.Entry) {
		key := &e.Event.Key
		if key.Keycode != h.trigger {
			return
		}
		switch e.Event.Kind {
		case event.KeyRelease:
			e.Status = event.Handled
			if key.MsSinceLast >= h.thresholdMs {
				h.actionLong.OnTrigger(out)
			} else {
				h.actionShort.OnTrigger(out)
			}
		case event.KeyPress:
			e.Status = event.Handled
		}
	})
	return NoOp
}
