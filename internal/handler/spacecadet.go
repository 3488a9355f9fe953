package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// SpaceCadet turns a held trigger key into a modifier and a quick tap of
// the same key into its own keycode: press it and release it with no other
// key pressed in between and the release passes through untouched (a tap);
// press it, press something else while it's still down, and it instead
// calls callbacks.OnActivate once for that hold, leaving the other keys'
// events for later handlers, and on release calls callbacks.OnDeactivate
// and swallows both the trigger's press and its release. Until the release
// decides between the two, the trigger's own press stays buffered as
// Ignored.
type SpaceCadet struct {
	trigger     keycode.Code
	callbacks   OnOff
	pressNumber uint8
	down        bool
	activated   bool
}

// NewSpaceCadet builds a SpaceCadet bound to trigger.
func NewSpaceCadet(trigger keycode.Code, callbacks OnOff) *SpaceCadet {
	return &SpaceCadet{trigger: trigger, callbacks: callbacks}
}

func (h *SpaceCadet) DefaultEnabled() bool { return true }

func (h *SpaceCadet) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	var initialKeypressStatus *event.Status

	buf.ForEachUnhandled(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyRelease:
			if key.Keycode != h.trigger {
				return
			}
			h.down = false
			h.activated = false
			if key.RunningNumber == h.pressNumber+1 {
				s := event.Unhandled
				initialKeypressStatus = &s
			} else {
				h.callbacks.OnDeactivate(out)
				e.Status = event.Handled
				s := event.Handled
				initialKeypressStatus = &s
			}

		case event.KeyPress:
			if key.Keycode == h.trigger {
				e.Status = event.Ignored
				h.pressNumber = key.RunningNumber
				h.down = true
			} else if h.down {
				if !h.activated {
					h.callbacks.OnActivate(out)
				}
				h.activated = true
				s := event.Ignored
				initialKeypressStatus = &s
			}
		}
	})

	if initialKeypressStatus != nil {
		buf.ForEach(func(e *event.Entry) {
			if e.Event.Kind == event.KeyPress && e.Event.Key.Keycode == h.trigger {
				e.Status = *initialKeypressStatus
			}
		})
	}

	return NoOp
}
