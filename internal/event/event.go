// Package event defines the buffered (event, status) pairs that the
// handler chain mutates on every scan pass, and the Buffer that owns them.
package event

import "github.com/halvard/keystream/internal/keycode"

// Key is one key-transition occurrence carried by a KeyPress or KeyRelease
// event. Keycode may be rewritten in place by layer handlers; OriginalKeycode
// never changes after insertion and is the pairing key between a press and
// its later release.
type Key struct {
	Keycode         keycode.Code
	OriginalKeycode keycode.Code
	MsSinceLast     uint16
	RunningNumber   uint8
	// Flag bit 0: at least one HID press report has been emitted for this
	// key. Flag bit 1: this key has already been rewritten by a layer in
	// this pass (rewrite idempotence guard).
	Flag uint8
}

const (
	FlagUSBObserved uint8 = 1 << 0
	FlagRewritten   uint8 = 1 << 1
)

// Kind discriminates the variant carried by an Event.
type Kind uint8

const (
	KeyPress Kind = iota
	KeyRelease
	TimeOut
)

// Event is a tagged union over {KeyPress(Key), KeyRelease(Key),
// TimeOut(ms)}. Only one of Key / TimeoutMs is meaningful, selected by Kind.
type Event struct {
	Kind      Kind
	Key       Key
	TimeoutMs uint16
}

// Status is the three-valued lifecycle of an event within one pass.
type Status uint8

const (
	// Unhandled: no handler has consumed this event yet.
	Unhandled Status = iota
	// Handled: consumed; must not reach later handlers and is drained at
	// end of pass.
	Handled
	// Ignored: a handler looked at this event and chose to let later
	// handlers see it, but it must not trip the unhandled-remainder error.
	Ignored
)

// Entry is one buffered (event, status) pair.
type Entry struct {
	Event  Event
	Status Status
}

func newKeyPress(kc keycode.Code, msSinceLast uint16, runningNumber uint8) Event {
	return Event{
		Kind: KeyPress,
		Key: Key{
			Keycode:         kc,
			OriginalKeycode: kc,
			MsSinceLast:     msSinceLast,
			RunningNumber:   runningNumber,
		},
	}
}

func newKeyRelease(kc keycode.Code, msSinceLast uint16, runningNumber uint8) Event {
	return Event{
		Kind: KeyRelease,
		Key: Key{
			Keycode:         kc,
			OriginalKeycode: kc,
			MsSinceLast:     msSinceLast,
			RunningNumber:   runningNumber,
		},
	}
}
