package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// Sequence matches a fixed series of key releases and, once the last one
// completes, sends backspaces-many KeyCode.BSpace taps to undo the typed
// sequence followed by callback.OnTrigger. Sequence keys are not consumed
// unless they're from the private keycode range, except for the event that
// completes the match, which is always consumed; a release that doesn't
// match the expected position resets the match to the start.
type Sequence struct {
	sequence   []keycode.Code
	callback   Action
	backspaces uint8
	pos        int
}

// NewSequence builds a Sequence. Panics if sequence has more than 254
// entries, mirroring the position counter's range.
func NewSequence(sequence []keycode.Code, callback Action, backspaces uint8) *Sequence {
	if len(sequence) > 254 {
		panic("handler: Sequence too long, max 254 key codes")
	}
	return &Sequence{sequence: sequence, callback: callback, backspaces: backspaces}
}

func (h *Sequence) DefaultEnabled() bool { return true }

func (h *Sequence) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	var codesToDelete []keycode.Code

	buf.ForEachUnhandledReverse(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyRelease:
			if key.Keycode == h.sequence[h.pos] {
				if key.Keycode.IsPrivateKeycode() {
					e.Status = event.Handled
				}
				h.pos++
				if h.pos == len(h.sequence) {
					h.pos = 0
					for i := uint8(0); i < h.backspaces; i++ {
						out.SendKeys(keycode.BSpace)
						out.SendEmpty()
					}
					h.callback.OnTrigger(out)
					e.Status = event.Handled
					if !containsCode(codesToDelete, key.OriginalKeycode) {
						codesToDelete = append(codesToDelete, key.OriginalKeycode)
					}
				}
			} else {
				h.pos = 0
			}

		case event.KeyPress:
			if containsCode(codesToDelete, key.OriginalKeycode) {
				e.Status = event.Handled
			}
			if key.Keycode == h.sequence[h.pos] && key.Keycode.IsPrivateKeycode() {
				e.Status = event.Handled
			}
		}
	})

	return NoOp
}

func containsCode(codes []keycode.Code, kc keycode.Code) bool {
	for _, c := range codes {
		if c == kc {
			return true
		}
	}
	return false
}
