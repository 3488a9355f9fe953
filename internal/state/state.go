// Package state holds the keyboard-wide state that persists across scan
// passes: modifier flags, the Unicode send mode, and the dense
// enabled/disabled bit per handler in the chain.
package state

import "fmt"

// UnicodeSendMode selects which host input-method sequence SendUnicode
// emits. Different operating systems expect different key combinations for
// literal Unicode input, and the firmware cannot detect what it's plugged
// into, so this is an explicit, host-side configuration choice.
type UnicodeSendMode int

const (
	// Linux is the default: Ctrl+Shift+U followed by hex digits.
	Linux UnicodeSendMode = iota + 1
	// WinCompose targets github.com/samhocevar/wincompose.
	WinCompose
	// Debug emits a single-byte synthetic report; used by tests only.
	Debug
)

// String returns the lowercase config/tray-facing name of m.
func (m UnicodeSendMode) String() string {
	switch m {
	case Linux:
		return "linux"
	case WinCompose:
		return "wincompose"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// UnicodeSendModes lists every mode in the order config/tray should offer
// them.
var UnicodeSendModes = []UnicodeSendMode{Linux, WinCompose, Debug}

// ParseUnicodeSendMode resolves a config/tray-facing mode name (as produced
// by UnicodeSendMode.String) back to its UnicodeSendMode. Unknown names
// report an error rather than silently falling back to Linux, since a typo
// in a saved config file should surface instead of silently changing the
// host input method the user picked.
func ParseUnicodeSendMode(name string) (UnicodeSendMode, error) {
	for _, m := range UnicodeSendModes {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("state: unknown unicode send mode %q", name)
}

// HandlerID identifies a handler's position in the chain and its slot in
// EnabledHandlers.
type HandlerID int

// Modifier names the four modifier keys tracked in KeyboardState, doubling
// as a HandlerID when a OneShot or SpaceCadet is wired directly to a
// built-in modifier bit instead of a layer (see package premade).
type Modifier HandlerID

const (
	Shift Modifier = iota
	Ctrl
	Alt
	Gui
)

// KeyboardState is the single mutable state shared by every handler,
// reached exclusively through the KeyOut.State() accessor — handlers never
// hold their own reference to it.
type KeyboardState struct {
	shift, ctrl, alt, gui bool

	UnicodeMode UnicodeSendMode

	enabledHandlers []bool
}

// New returns a freshly booted KeyboardState: no modifiers held, Linux
// Unicode mode, no handlers registered yet.
func New() *KeyboardState {
	return &KeyboardState{UnicodeMode: Linux}
}

// Modifier reports whether the named modifier is currently held.
func (s *KeyboardState) Modifier(m Modifier) bool {
	switch m {
	case Shift:
		return s.shift
	case Ctrl:
		return s.ctrl
	case Alt:
		return s.alt
	case Gui:
		return s.gui
	default:
		return false
	}
}

// SetModifier sets the named modifier's held state.
func (s *KeyboardState) SetModifier(m Modifier, held bool) {
	switch m {
	case Shift:
		s.shift = held
	case Ctrl:
		s.ctrl = held
	case Alt:
		s.alt = held
	case Gui:
		s.gui = held
	}
}

// PushHandlerSlot grows the enabled-handlers bit array by one, defaulting
// it to defaultEnabled. Called once per handler at chain-construction time;
// the returned id is stable for the process lifetime.
func (s *KeyboardState) PushHandlerSlot(defaultEnabled bool) HandlerID {
	s.enabledHandlers = append(s.enabledHandlers, defaultEnabled)
	return HandlerID(len(s.enabledHandlers) - 1)
}

// EnableHandler sets handler id's enable bit.
func (s *KeyboardState) EnableHandler(id HandlerID) { s.enabledHandlers[id] = true }

// DisableHandler clears handler id's enable bit.
func (s *KeyboardState) DisableHandler(id HandlerID) { s.enabledHandlers[id] = false }

// ToggleHandler flips handler id's enable bit.
func (s *KeyboardState) ToggleHandler(id HandlerID) {
	s.enabledHandlers[id] = !s.enabledHandlers[id]
}

// SetHandler sets handler id's enable bit to an explicit value.
func (s *KeyboardState) SetHandler(id HandlerID, enabled bool) {
	s.enabledHandlers[id] = enabled
}

// IsHandlerEnabled reports handler id's current enable bit.
func (s *KeyboardState) IsHandlerEnabled(id HandlerID) bool {
	return s.enabledHandlers[id]
}

// EnabledSnapshot returns a copy of the enabled-handlers bit array, used by
// the chain driver to decide which handlers run in a pass without racing a
// handler that disables itself mid-pass (matches the original's
// "snapshot then iterate" discipline).
func (s *KeyboardState) EnabledSnapshot() []bool {
	out := make([]bool, len(s.enabledHandlers))
	copy(out, s.enabledHandlers)
	return out
}

// NumHandlers returns how many handler slots have been allocated.
func (s *KeyboardState) NumHandlers() int { return len(s.enabledHandlers) }
