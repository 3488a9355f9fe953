package layoutconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/halvard/keystream/internal/keycode"
)

// keycodeByName is the string vocabulary layout YAML files use to name a
// keycode.Code, adapted from the teacher's mappings.NameToKeyCode (a raw
// Linux evdev name table) into this core's unified keycode namespace.
var keycodeByName = map[string]keycode.Code{
	"a": keycode.A, "b": keycode.B, "c": keycode.C, "d": keycode.D, "e": keycode.E,
	"f": keycode.F, "g": keycode.G, "h": keycode.H, "i": keycode.I, "j": keycode.J,
	"k": keycode.K, "l": keycode.L, "m": keycode.M, "n": keycode.N, "o": keycode.O,
	"p": keycode.P, "q": keycode.Q, "r": keycode.R, "s": keycode.S, "t": keycode.T,
	"u": keycode.U, "v": keycode.V, "w": keycode.W, "x": keycode.X, "y": keycode.Y,
	"z": keycode.Z,

	"1": keycode.Kb1, "2": keycode.Kb2, "3": keycode.Kb3, "4": keycode.Kb4,
	"5": keycode.Kb5, "6": keycode.Kb6, "7": keycode.Kb7, "8": keycode.Kb8,
	"9": keycode.Kb9, "0": keycode.Kb0,

	"enter": keycode.Enter, "escape": keycode.Escape, "backspace": keycode.BSpace,
	"tab": keycode.Tab, "space": keycode.Space, "minus": keycode.Minus,
	"equal": keycode.Equal, "leftbrace": keycode.LBracket, "rightbrace": keycode.RBracket,
	"backslash": keycode.BSlash, "semicolon": keycode.SColon, "apostrophe": keycode.Quote,
	"grave": keycode.Grave, "comma": keycode.Comma, "dot": keycode.Dot, "slash": keycode.Slash,
	"capslock": keycode.CapsLock,

	"f1": keycode.F1, "f2": keycode.F2, "f3": keycode.F3, "f4": keycode.F4,
	"f5": keycode.F5, "f6": keycode.F6, "f7": keycode.F7, "f8": keycode.F8,
	"f9": keycode.F9, "f10": keycode.F10, "f11": keycode.F11, "f12": keycode.F12,

	"printscreen": keycode.PScreen, "scrolllock": keycode.ScrollLock, "pause": keycode.Pause,
	"insert": keycode.Insert, "home": keycode.Home, "pageup": keycode.PgUp,
	"delete": keycode.Delete, "end": keycode.End, "pagedown": keycode.PgDown,
	"right": keycode.Right, "left": keycode.Left, "down": keycode.Down, "up": keycode.Up,

	"lctrl": keycode.LCtrl, "lshift": keycode.LShift, "lalt": keycode.LAlt, "lgui": keycode.LGui,
	"rctrl": keycode.RCtrl, "rshift": keycode.RShift, "ralt": keycode.RAlt, "rgui": keycode.RGui,

	"copy": keycode.Copy, "paste": keycode.Paste, "cut": keycode.Cut,

	"no": keycode.No,
}

// KeyCode resolves a layout-file key name to a keycode.Code. "uk<n>" (0-99)
// names a user-private keycode; "u+<hex>" names a literal Unicode code
// point; anything else is looked up in keycodeByName.
func KeyCode(name string) (keycode.Code, error) {
	lower := strings.ToLower(strings.TrimSpace(name))

	if kc, ok := keycodeByName[lower]; ok {
		return kc, nil
	}
	if strings.HasPrefix(lower, "uk") {
		n, err := strconv.Atoi(lower[2:])
		if err != nil || n < 0 || n > 99 {
			return 0, fmt.Errorf("layoutconfig: invalid private keycode name %q", name)
		}
		return keycode.UK(n), nil
	}
	if strings.HasPrefix(lower, "u+") {
		v, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("layoutconfig: invalid unicode keycode name %q: %w", name, err)
		}
		return keycode.FromRune(rune(v)), nil
	}
	return 0, fmt.Errorf("layoutconfig: unknown key name %q", name)
}
