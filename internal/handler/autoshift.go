package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// AutoShift turns a held-past-threshold press of a shiftable key into a
// shifted output, and a quick tap into the plain key: for RSI sufferers who
// find holding a physical Shift harder than holding the letter a little
// longer. Only letters, the number row, and the punctuation row between
// Minus and Slash are eligible, and each group can be switched off.
type AutoShift struct {
	ShiftLetters bool
	ShiftNumbers bool
	ShiftSpecial bool
	thresholdMs  uint16
}

// NewAutoShift builds an AutoShift with all three groups enabled.
func NewAutoShift(thresholdMs uint16) *AutoShift {
	return &AutoShift{ShiftLetters: true, ShiftNumbers: true, ShiftSpecial: true, thresholdMs: thresholdMs}
}

func (h *AutoShift) DefaultEnabled() bool { return true }

func (h *AutoShift) shouldAutoshift(kc keycode.Code) bool {
	if h.ShiftLetters && kc >= keycode.A && kc <= keycode.Z {
		return true
	}
	if h.ShiftNumbers && kc >= keycode.Kb1 && kc <= keycode.Kb0 {
		return true
	}
	if h.ShiftSpecial && kc >= keycode.Minus && kc <= keycode.Slash {
		return true
	}
	return false
}

type autoshiftPress struct {
	keycode     keycode.Code
	msSinceLast uint16
}

func (h *AutoShift) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	var presses []autoshiftPress
	var handled []keycode.Code

	buf.ForEachUnhandled(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyPress:
			if h.shouldAutoshift(key.Keycode) {
				e.Status = event.Ignored
				presses = append(presses, autoshiftPress{key.Keycode, key.MsSinceLast})
			}
		case event.KeyRelease:
			if h.shouldAutoshift(key.Keycode) {
				for _, p := range presses {
					if p.keycode != key.Keycode {
						continue
					}
					delta := key.MsSinceLast - p.msSinceLast
					if delta >= h.thresholdMs {
						out.SendKeys(keycode.LShift, key.Keycode)
					} else {
						out.SendKeys(key.Keycode)
					}
					handled = append(handled, key.Keycode)
				}
				e.Status = event.Handled
			}
		}
	})

	if len(handled) > 0 {
		buf.ForEach(func(e *event.Entry) {
			if e.Event.Kind != event.KeyPress {
				return
			}
			for _, kc := range handled {
				if kc == e.Event.Key.Keycode {
					e.Status = event.Handled
					return
				}
			}
		})
	}

	return NoOp
}
