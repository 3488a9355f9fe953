// Package handler implements the ordered chain of event processors that
// make up a keyboard's behavior: USB HID composition, Unicode dispatch,
// layers, one-shots, tap-dance, space-cadet, a leader-key prefix matcher,
// auto-shift, long-tap and fixed-sequence macros. Each handler owns its own
// state machine and is driven once per scan pass by package keyboard.
package handler

import (
	"sync"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// Result tells the chain driver what to do with a handler after it has run
// for this pass.
type Result int

const (
	// NoOp: leave the handler's own enable bit untouched.
	NoOp Result = iota
	// Disable: clear the handler's own enable bit after this pass (used by
	// auto-closing layers).
	Disable
)

// Handler is the contract every chain entry implements. Process must never
// reorder buffer entries, must only set Handled to remove an event from
// later handlers, and must use Ignored when a later handler should still
// see the event without it tripping the end-of-pass unhandled check.
type Handler interface {
	Process(buf *event.Buffer, out keyout.KeyOut) Result
	// DefaultEnabled is consulted once, when the handler is added to a
	// chain, to seed its enable bit.
	DefaultEnabled() bool
}

// Func adapts a plain function to the Handler interface for handlers with
// no meaningful default-enabled override (DefaultEnabled returns true).
type Func func(buf *event.Buffer, out keyout.KeyOut) Result

func (f Func) Process(buf *event.Buffer, out keyout.KeyOut) Result { return f(buf, out) }
func (f Func) DefaultEnabled() bool                                { return true }

// oneShotTriggers is the process-wide, append-only registry of every
// keycode any OneShot has registered as a trigger. It is consulted by
// OneShot itself (to distinguish "another one-shot's trigger" from "a
// genuine other key") and by Layer's AutoOff::AfterNonModifier policy.
// Writes only happen at handler-construction time; reads during processing
// are therefore race-free in steady state, but the mutex is kept for
// correctness under concurrent handler construction.
var (
	oneShotTriggersMu sync.Mutex
	oneShotTriggers   = map[keycode.Code]struct{}{}
)

func registerOneShotTrigger(kc keycode.Code) {
	oneShotTriggersMu.Lock()
	defer oneShotTriggersMu.Unlock()
	oneShotTriggers[kc] = struct{}{}
}

func isOneShotTrigger(kc keycode.Code) bool {
	oneShotTriggersMu.Lock()
	defer oneShotTriggersMu.Unlock()
	_, ok := oneShotTriggers[kc]
	return ok
}

// ResetOneShotTriggerRegistry clears the process-wide one-shot trigger
// registry. Exposed for tests that build independent keyboards in the same
// process and must not observe triggers registered by earlier tests.
func ResetOneShotTriggerRegistry() {
	oneShotTriggersMu.Lock()
	defer oneShotTriggersMu.Unlock()
	oneShotTriggers = map[keycode.Code]struct{}{}
}
