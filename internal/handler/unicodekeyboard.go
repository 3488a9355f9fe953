package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keyout"
)

// UnicodeKeyboard dispatches KeyPress/KeyRelease events whose keycode is a
// literal Unicode code point (not HID, not private) through
// KeyOut.SendUnicode. It sits above USBKeyboard in the chain so HID-range
// keys pass through untouched.
type UnicodeKeyboard struct{}

// NewUnicodeKeyboard returns a ready-to-use UnicodeKeyboard.
func NewUnicodeKeyboard() *UnicodeKeyboard { return &UnicodeKeyboard{} }

func (h *UnicodeKeyboard) DefaultEnabled() bool { return true }

func (h *UnicodeKeyboard) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		kc := e.Event.Key.Keycode
		if !kc.IsUnicode() {
			return
		}
		switch e.Event.Kind {
		case event.KeyPress:
			e.Status = event.Handled
		case event.KeyRelease:
			out.SendUnicode(kc.Rune())
			e.Status = event.Handled
		}
	})
	return NoOp
}
