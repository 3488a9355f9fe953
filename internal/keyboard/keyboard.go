// Package keyboard drives the handler chain: it owns the event buffer and
// output sink and runs one synchronous pass per scan tick. It has no
// knowledge of any physical transport — see internal/evdevmatrix and
// internal/uinputout for the concrete Linux-backed collaborators.
package keyboard

import (
	"fmt"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

// Keyboard owns the event buffer, the ordered handler chain and the output
// sink, and drives one pass through the chain per scan tick. The
// authoritative enable/disable bit per handler lives on the shared
// KeyboardState (out.State()), not here, so that premade action handlers
// toggling a handler id by its state.HandlerID take effect immediately.
type Keyboard struct {
	buf      *event.Buffer
	out      keyout.KeyOut
	handlers []handler.Handler
}

// New builds a Keyboard around out. Handlers are added afterward via
// AddHandler, in the order they should run.
func New(out keyout.KeyOut) *Keyboard {
	return &Keyboard{buf: event.New(), out: out}
}

// Output returns the Keyboard's output sink.
func (k *Keyboard) Output() keyout.KeyOut { return k.out }

// BufferLen returns the number of entries currently buffered, regardless of
// status. Exposed mainly for tests asserting what ClearUnhandled/ClearAll
// did and did not drop.
func (k *Keyboard) BufferLen() int { return k.buf.Len() }

// AddHandler appends h to the end of the chain, seeding its enable bit on
// the shared KeyboardState from h.DefaultEnabled(). The returned id is the
// handler's stable state.HandlerID, usable with EnableHandler/
// DisableHandler/ToggleHandler for the remainder of the process.
func (k *Keyboard) AddHandler(h handler.Handler) state.HandlerID {
	k.handlers = append(k.handlers, h)
	return k.out.State().PushHandlerSlot(h.DefaultEnabled())
}

// AddKeyPress appends a KeyPress event for kc.
func (k *Keyboard) AddKeyPress(kc keycode.Code, msSinceLast uint16) {
	k.buf.AddKeyPress(kc, msSinceLast)
}

// AddKeyRelease appends a KeyRelease event for kc.
func (k *Keyboard) AddKeyRelease(kc keycode.Code, msSinceLast uint16) {
	k.buf.AddKeyRelease(kc, msSinceLast)
}

// AddTimeout appends (or coalesces into) a TimeOut event.
func (k *Keyboard) AddTimeout(ms uint16) {
	k.buf.AddTimeout(ms)
}

// HandlePass resets every entry's status, runs every enabled handler in
// order, drains Handled/TimeOut entries, and reports an error if anything
// remains Unhandled (an event no handler recognized).
func (k *Keyboard) HandlePass() error {
	k.buf.ResetStatuses()

	st := k.out.State()
	enabled := st.EnabledSnapshot()
	for i, h := range k.handlers {
		if i < len(enabled) && !enabled[i] {
			continue
		}
		if h.Process(k.buf, k.out) == handler.Disable {
			st.DisableHandler(state.HandlerID(i))
		}
	}

	hadUnhandled := k.buf.HasUnhandled()
	k.buf.DrainHandled()
	if hadUnhandled {
		return fmt.Errorf("keyboard: unsupported keycode reached bottom of handler chain")
	}
	return nil
}

// ClearUnhandled drops only entries still Unhandled, preserving Ignored
// entries a handler deliberately left buffered mid-flight across ticks
// (AutoShift's pending press, SpaceCadet's pending hold). Adapters call this
// after a reported HandlePass error so the one event no handler recognized
// never blocks the next tick.
func (k *Keyboard) ClearUnhandled() {
	k.buf.DrainUnhandled()
}

// ClearAll discards every buffered entry regardless of status, including
// Ignored ones. Used by the abort/panic-key action (package premade), which
// is meant to reset all in-flight state rather than just drop one bad event.
func (k *Keyboard) ClearAll() {
	k.buf.Clear()
}
