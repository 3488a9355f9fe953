// Package premade collects small, ready-to-wire OnOff/Action
// implementations and handler constructors for the most common keymap
// idioms: toggling a layer, one-shot modifiers, a space-cadet modifier, a
// dedicated copy/paste layer and a panic-key abort. layoutconfig builds most
// keymaps almost entirely out of this package plus the raw handler
// constructors.
package premade

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

// ActionHandler enables id on activate and disables it on deactivate. Used
// with PressReleaseMacro, StickyMacro, OneShot or SpaceCadet to make a
// trigger key turn a layer (or one of the four built-in modifier ids) on
// while held or toggled on.
type ActionHandler struct{ ID state.HandlerID }

func NewActionHandler(id state.HandlerID) ActionHandler { return ActionHandler{ID: id} }

func (a ActionHandler) OnActivate(out keyout.KeyOut)   { out.State().EnableHandler(a.ID) }
func (a ActionHandler) OnDeactivate(out keyout.KeyOut) { out.State().DisableHandler(a.ID) }

// InverseActionHandler is ActionHandler with the polarity flipped: it
// disables id on activate and enables it on deactivate, for a trigger that
// should suppress a layer while held.
type InverseActionHandler struct{ ID state.HandlerID }

func NewInverseActionHandler(id state.HandlerID) InverseActionHandler {
	return InverseActionHandler{ID: id}
}

func (a InverseActionHandler) OnActivate(out keyout.KeyOut)   { out.State().DisableHandler(a.ID) }
func (a InverseActionHandler) OnDeactivate(out keyout.KeyOut) { out.State().EnableHandler(a.ID) }

// ActionToggleHandler flips id's enable bit on activate (and on Action
// trigger); it has no deactivate behavior, so it only makes sense paired
// with PressReleaseMacro or as a OneShot/SpaceCadet's Action callback, not
// its OnOff callback.
type ActionToggleHandler struct{ ID state.HandlerID }

func NewActionToggleHandler(id state.HandlerID) ActionToggleHandler {
	return ActionToggleHandler{ID: id}
}

func (a ActionToggleHandler) OnActivate(out keyout.KeyOut)   { out.State().ToggleHandler(a.ID) }
func (a ActionToggleHandler) OnDeactivate(out keyout.KeyOut) {}
func (a ActionToggleHandler) OnTrigger(out keyout.KeyOut)    { out.State().ToggleHandler(a.ID) }

// ToggleHandler builds a handler that flips id's enable bit every time
// trigger is pressed.
func ToggleHandler(trigger keycode.Code, id state.HandlerID) *handler.PressReleaseMacro {
	return handler.NewPressReleaseMacro(trigger, ActionToggleHandler{ID: id})
}

// ActionNone is a no-op OnOff and Action, for OneShot slots that have
// nothing to do (e.g. the unused double-tap hook on a modifier one-shot).
type ActionNone struct{}

func (ActionNone) OnActivate(out keyout.KeyOut)   {}
func (ActionNone) OnDeactivate(out keyout.KeyOut) {}
func (ActionNone) OnTrigger(out keyout.KeyOut)    {}

func oneShotModifier(trigger1, trigger2 keycode.Code, m state.Modifier, heldTimeoutMs, releasedTimeoutMs uint16) *handler.OneShot {
	return handler.NewOneShot(trigger1, trigger2, ActionHandler{ID: state.HandlerID(m)}, ActionNone{}, ActionNone{}, heldTimeoutMs, releasedTimeoutMs)
}

// OneShotShift makes LShift/RShift behave as a one-shot modifier: tap once
// to apply the modifier to the next key, hold to apply it for as long as
// held. Wire before SpaceCadet if both are used on the same physical keys.
func OneShotShift(heldTimeoutMs, releasedTimeoutMs uint16) *handler.OneShot {
	return oneShotModifier(keycode.LShift, keycode.RShift, state.Shift, heldTimeoutMs, releasedTimeoutMs)
}

// OneShotCtrl is OneShotShift for LCtrl/RCtrl.
func OneShotCtrl(heldTimeoutMs, releasedTimeoutMs uint16) *handler.OneShot {
	return oneShotModifier(keycode.LCtrl, keycode.RCtrl, state.Ctrl, heldTimeoutMs, releasedTimeoutMs)
}

// OneShotAlt is OneShotShift for LAlt/RAlt.
func OneShotAlt(heldTimeoutMs, releasedTimeoutMs uint16) *handler.OneShot {
	return oneShotModifier(keycode.LAlt, keycode.RAlt, state.Alt, heldTimeoutMs, releasedTimeoutMs)
}

// OneShotGui is OneShotShift for LGui/RGui.
func OneShotGui(heldTimeoutMs, releasedTimeoutMs uint16) *handler.OneShot {
	return oneShotModifier(keycode.LGui, keycode.RGui, state.Gui, heldTimeoutMs, releasedTimeoutMs)
}

// OneShotHandler turns any single trigger key into a one-shot toggle for
// handler id (typically a layer), rather than one of the four built-in
// modifiers.
func OneShotHandler(trigger keycode.Code, id state.HandlerID, heldTimeoutMs, releasedTimeoutMs uint16) *handler.OneShot {
	return handler.NewOneShot(trigger, keycode.No, ActionHandler{ID: id}, ActionNone{}, ActionNone{}, heldTimeoutMs, releasedTimeoutMs)
}

// SpaceCadetHandler builds a SpaceCadet that passes trigger through
// untouched on a tap, and on hold-plus-other-key enables handler id for the
// duration of the hold. id must be added to the chain after this handler.
func SpaceCadetHandler(trigger keycode.Code, id state.HandlerID) *handler.SpaceCadet {
	return handler.NewSpaceCadet(trigger, ActionHandler{ID: id})
}

// Dvorak is a RewriteLayer mapping QWERTY physical positions to the Dvorak
// layout. Disabled by default, like every layer; enable it explicitly.
func Dvorak() *handler.RewriteLayer {
	entries := []handler.Rewrite{
		{From: keycode.Q, To: keycode.Quote},
		{From: keycode.W, To: keycode.Comma},
		{From: keycode.E, To: keycode.Dot},
		{From: keycode.R, To: keycode.P},
		{From: keycode.T, To: keycode.Y},
		{From: keycode.Y, To: keycode.F},
		{From: keycode.U, To: keycode.G},
		{From: keycode.I, To: keycode.C},
		{From: keycode.O, To: keycode.R},
		{From: keycode.P, To: keycode.L},
		{From: keycode.S, To: keycode.O},
		{From: keycode.D, To: keycode.E},
		{From: keycode.F, To: keycode.U},
		{From: keycode.G, To: keycode.I},
		{From: keycode.H, To: keycode.D},
		{From: keycode.J, To: keycode.H},
		{From: keycode.K, To: keycode.T},
		{From: keycode.L, To: keycode.N},
		{From: keycode.SColon, To: keycode.S},
		{From: keycode.Quote, To: keycode.Minus},
		{From: keycode.Z, To: keycode.SColon},
		{From: keycode.X, To: keycode.Q},
		{From: keycode.C, To: keycode.J},
		{From: keycode.V, To: keycode.K},
		{From: keycode.B, To: keycode.X},
		{From: keycode.N, To: keycode.B},
		{From: keycode.M, To: keycode.M},
		{From: keycode.Comma, To: keycode.W},
		{From: keycode.Dot, To: keycode.V},
		{From: keycode.Slash, To: keycode.Z},
		{From: keycode.Equal, To: keycode.RBracket},
		{From: keycode.RBracket, To: keycode.Equal},
		{From: keycode.Minus, To: keycode.LBracket},
		{From: keycode.LBracket, To: keycode.Slash},
	}
	return handler.NewRewriteLayer(entries)
}

// CopyPaste turns the three HID Copy/Paste/Cut keycodes into
// the Ctrl+Insert / Shift+Insert / Shift+Delete combinations most terminal
// emulators recognize regardless of the active clipboard shortcut scheme.
type CopyPaste struct{}

func (CopyPaste) DefaultEnabled() bool { return true }

func (CopyPaste) Process(buf *event.Buffer, out keyout.KeyOut) handler.Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		kc := e.Event.Key.Keycode
		switch e.Event.Kind {
		case event.KeyPress:
			switch kc {
			case keycode.Copy:
				out.SendKeys(keycode.LCtrl, keycode.Insert)
				out.SendEmpty()
				e.Status = event.Handled
			case keycode.Paste:
				out.SendKeys(keycode.LShift, keycode.Insert)
				out.SendEmpty()
				e.Status = event.Handled
			case keycode.Cut:
				out.SendKeys(keycode.LShift, keycode.Delete)
				out.SendEmpty()
				e.Status = event.Handled
			}
		case event.KeyRelease:
			switch kc {
			case keycode.Copy, keycode.Paste, keycode.Cut:
				e.Status = event.Handled
			}
		}
	})
	return handler.NoOp
}

// handlerOverride is one forced enable/disable bit ActionAbort applies when
// it fires.
type handlerOverride struct {
	id      state.HandlerID
	enabled bool
}

// ActionAbort is the panic-key action: it clears every held modifier,
// applies a fixed set of handler enable/disable overrides, and discards
// every buffered event so nothing left over from the aborted sequence gets
// interpreted afterward. clearEvents is injected by the caller (normally
// (*keyboard.Keyboard).ClearAll) since Action/OnOff only see the
// output sink, not the event buffer.
type ActionAbort struct {
	overrides   []handlerOverride
	clearEvents func()
}

// NewActionAbort builds an ActionAbort. clearEvents may be nil, in which
// case aborting only resets modifiers and handler overrides.
func NewActionAbort(clearEvents func()) *ActionAbort {
	return &ActionAbort{clearEvents: clearEvents}
}

// SetAbortStatus records that handler id should be forced to enabled (or
// disabled) every time this abort fires.
func (a *ActionAbort) SetAbortStatus(id state.HandlerID, enabled bool) {
	a.overrides = append(a.overrides, handlerOverride{id: id, enabled: enabled})
}

func (a *ActionAbort) doAbort(out keyout.KeyOut) {
	st := out.State()
	for _, ov := range a.overrides {
		st.SetHandler(ov.id, ov.enabled)
	}
	st.SetModifier(state.Shift, false)
	st.SetModifier(state.Ctrl, false)
	st.SetModifier(state.Alt, false)
	st.SetModifier(state.Gui, false)
	if a.clearEvents != nil {
		a.clearEvents()
	}
}

func (a *ActionAbort) OnTrigger(out keyout.KeyOut)    { a.doAbort(out) }
func (a *ActionAbort) OnActivate(out keyout.KeyOut)   { a.doAbort(out) }
func (a *ActionAbort) OnDeactivate(out keyout.KeyOut) {}
