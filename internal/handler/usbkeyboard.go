package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

// USBKeyboard composes USB HID reports from KeyPress/KeyRelease events in
// the HID range. It is always the bottom of the chain: every event that
// reaches it and isn't in the HID range is left Unhandled, which surfaces
// as the chain's "unsupported keycode" error.
type USBKeyboard struct{}

// NewUSBKeyboard returns a ready-to-use USBKeyboard.
func NewUSBKeyboard() *USBKeyboard { return &USBKeyboard{} }

func (h *USBKeyboard) DefaultEnabled() bool { return true }

// Process walks the buffer in reverse so that a press and release of the
// same key within one pass emit the press report before the release
// report, instead of losing the tap entirely.
func (h *USBKeyboard) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	codesToDelete := map[keycode.Code]struct{}{}
	var modifiersTouched [4]bool

	buf.ForEachUnhandledReverse(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyRelease:
			if !key.Keycode.IsUSBKeycode() {
				return
			}
			codesToDelete[key.OriginalKeycode] = struct{}{}
			if key.Keycode.IsModifier() {
				clearModifier(out.State(), key.Keycode)
			}
			e.Status = event.Handled

		case event.KeyPress:
			if !key.Keycode.IsUSBKeycode() {
				return
			}
			if _, deleting := codesToDelete[key.OriginalKeycode]; deleting {
				e.Status = event.Handled
				if key.Flag&event.FlagUSBObserved == 0 {
					out.RegisterKey(key.Keycode)
				}
			} else {
				out.RegisterKey(key.Keycode)
				if key.Keycode.IsModifier() {
					setModifier(out.State(), key.Keycode)
					modifiersTouched[hidModifierToState(key.Keycode)] = true
				}
				if e.Status != event.Handled {
					e.Status = event.Ignored
				}
			}
			key.Flag |= event.FlagUSBObserved
		}
	})

	leftVariants := [4]keycode.Code{state.Ctrl: keycode.LCtrl, state.Shift: keycode.LShift, state.Alt: keycode.LAlt, state.Gui: keycode.LGui}
	for i, touched := range modifiersTouched {
		if touched {
			continue
		}
		mod := state.Modifier(i)
		if out.State().Modifier(mod) {
			out.RegisterKey(leftVariants[mod])
		}
	}
	out.SendRegistered()
	return NoOp
}

// hidModifierToState maps an HID modifier keycode (L or R variant) to the
// four-way Modifier the KeyboardState tracks.
func hidModifierToState(mod keycode.Code) state.Modifier {
	switch mod {
	case keycode.LCtrl, keycode.RCtrl:
		return state.Ctrl
	case keycode.LShift, keycode.RShift:
		return state.Shift
	case keycode.LAlt, keycode.RAlt:
		return state.Alt
	case keycode.LGui, keycode.RGui:
		return state.Gui
	default:
		return state.Shift
	}
}

func setModifier(st *state.KeyboardState, mod keycode.Code) {
	st.SetModifier(hidModifierToState(mod), true)
}

func clearModifier(st *state.KeyboardState, mod keycode.Code) {
	st.SetModifier(hidModifierToState(mod), false)
}
