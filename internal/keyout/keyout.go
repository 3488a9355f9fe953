// Package keyout defines the KeyOut boundary handlers use to talk to the
// host: HID report composition, Unicode dispatch, and access to the shared
// KeyboardState. Concrete sinks (a real uinput device, or a test fixture)
// implement Reporter; Base supplies the SendUnicode/SendString behavior
// that is identical across every sink.
package keyout

import (
	"fmt"

	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/state"
)

// Reporter is the minimal set of primitives a concrete sink must provide;
// Base turns these into the full KeyOut contract.
type Reporter interface {
	// SendKeys emits one immediate HID report containing exactly this set
	// of USB-range keycodes.
	SendKeys(codes ...keycode.Code)
	// State returns the shared, mutable KeyboardState.
	State() *state.KeyboardState
}

// KeyOut is the full set of operations handlers invoke on the output sink.
type KeyOut interface {
	Reporter
	// RegisterKey adds code to the next report's deduplicated set.
	RegisterKey(code keycode.Code)
	// SendRegistered flushes the registered set as one HID report (or an
	// all-zero report if nothing was registered).
	SendRegistered()
	// SendEmpty emits an all-zero HID report.
	SendEmpty()
	// SendUnicode dispatches a single Unicode scalar per State().UnicodeMode.
	SendUnicode(r rune)
	// SendString sends every rune of s via SendUnicode.
	SendString(s string)
}

// Base implements RegisterKey/SendRegistered/SendEmpty/SendUnicode/SendString
// in terms of a concrete Reporter, so every sink gets identical Unicode
// dispatch semantics by embedding Base and providing SendKeys/State.
//
// This is the Go analogue of the original firmware's default trait methods
// on USBKeyOut: Rust lets a trait provide send_unicode/send_string with a
// default body over the few required methods; Go has no default interface
// methods, so the shared behavior lives in this embeddable struct instead.
type Base struct {
	Reporter
	registered []keycode.Code
}

// NewBase wraps a Reporter with the shared SendRegistered/SendUnicode/
// SendString behavior.
func NewBase(r Reporter) *Base {
	return &Base{Reporter: r}
}

// RegisterKey adds code to the next report's set, deduplicated.
func (b *Base) RegisterKey(code keycode.Code) {
	for _, c := range b.registered {
		if c == code {
			return
		}
	}
	b.registered = append(b.registered, code)
}

// SendRegistered flushes the registered set as one HID report and clears it.
func (b *Base) SendRegistered() {
	b.SendKeys(b.registered...)
	b.registered = b.registered[:0]
}

// SendEmpty emits an all-zero HID report.
func (b *Base) SendEmpty() {
	b.SendKeys()
}

// hexDigitToKeycode maps one lowercase hex digit to the USB keycode used to
// type it (shared by the Linux and WinCompose Unicode senders).
func hexDigitToKeycode(digit byte) keycode.Code {
	switch digit {
	case '0':
		return keycode.Kb0
	case '1':
		return keycode.Kb1
	case '2':
		return keycode.Kb2
	case '3':
		return keycode.Kb3
	case '4':
		return keycode.Kb4
	case '5':
		return keycode.Kb5
	case '6':
		return keycode.Kb6
	case '7':
		return keycode.Kb7
	case '8':
		return keycode.Kb8
	case '9':
		return keycode.Kb9
	case 'a':
		return keycode.A
	case 'b':
		return keycode.B
	case 'c':
		return keycode.C
	case 'd':
		return keycode.D
	case 'e':
		return keycode.E
	case 'f':
		return keycode.F
	default:
		panic(fmt.Sprintf("hexDigitToKeycode: not a hex digit: %q", digit))
	}
}

// SendUnicode dispatches one Unicode scalar per the active UnicodeSendMode.
func (b *Base) SendUnicode(r rune) {
	st := b.State()
	switch st.UnicodeMode {
	case state.Linux:
		b.SendKeys(keycode.LCtrl, keycode.LShift, keycode.U)
		for _, digit := range []byte(fmt.Sprintf("%x", r)) {
			b.SendKeys(keycode.LCtrl, keycode.LShift, hexDigitToKeycode(digit))
		}
		b.SendEmpty()
	case state.WinCompose:
		b.SendKeys(keycode.RAlt)
		b.SendKeys(keycode.U)
		for _, digit := range []byte(fmt.Sprintf("%x", r)) {
			b.SendKeys(hexDigitToKeycode(digit))
		}
		b.SendKeys(keycode.Enter)
		b.SendEmpty()
	case state.Debug:
		var buf [4]byte
		n := copy(buf[:], string(r))
		if n == 0 {
			return
		}
		b.SendKeys(keycode.FromHIDIndex(buf[0]))
	}
}

// SendString sends every rune of s via SendUnicode; every character is
// converted to Unicode input, matching the original firmware's choice to
// "unicode everything" rather than special-case ASCII letters (which would
// depend on the host's shift/caps-lock state at receive time).
func (b *Base) SendString(s string) {
	for _, r := range s {
		b.SendUnicode(r)
	}
}
