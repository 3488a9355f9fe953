package keycode

// linuxEvdevCode maps a USB HID keyboard usage index (0x00-0xE7) to the
// Linux kernel's KEY_* input-event-code. The two numbering schemes are
// unrelated (Linux scancode-derived numbering predates USB HID), so the
// translation is a table, not an arithmetic offset. Only usages a real
// keyboard is likely to emit are populated; anything else reports ok=false
// and the caller should skip the key rather than guess.
var linuxEvdevCode = map[uint8]uint16{
	0x04: 30, // A
	0x05: 48, // B
	0x06: 46, // C
	0x07: 32, // D
	0x08: 18, // E
	0x09: 33, // F
	0x0a: 34, // G
	0x0b: 35, // H
	0x0c: 23, // I
	0x0d: 36, // J
	0x0e: 37, // K
	0x0f: 38, // L
	0x10: 50, // M
	0x11: 49, // N
	0x12: 24, // O
	0x13: 25, // P
	0x14: 16, // Q
	0x15: 19, // R
	0x16: 31, // S
	0x17: 20, // T
	0x18: 22, // U
	0x19: 47, // V
	0x1a: 17, // W
	0x1b: 45, // X
	0x1c: 21, // Y
	0x1d: 44, // Z
	0x1e: 2,  // 1
	0x1f: 3,  // 2
	0x20: 4,  // 3
	0x21: 5,  // 4
	0x22: 6,  // 5
	0x23: 7,  // 6
	0x24: 8,  // 7
	0x25: 9,  // 8
	0x26: 10, // 9
	0x27: 11, // 0
	0x28: 28, // Enter
	0x29: 1,  // Escape
	0x2a: 14, // Backspace
	0x2b: 15, // Tab
	0x2c: 57, // Space
	0x2d: 12, // Minus
	0x2e: 13, // Equal
	0x2f: 26, // LeftBrace
	0x30: 27, // RightBrace
	0x31: 43, // Backslash
	0x33: 39, // Semicolon
	0x34: 40, // Apostrophe
	0x35: 41, // Grave
	0x36: 51, // Comma
	0x37: 52, // Dot
	0x38: 53, // Slash
	0x39: 58, // CapsLock
	0x3a: 59, // F1
	0x3b: 60, // F2
	0x3c: 61, // F3
	0x3d: 62, // F4
	0x3e: 63, // F5
	0x3f: 64, // F6
	0x40: 65, // F7
	0x41: 66, // F8
	0x42: 67, // F9
	0x43: 68, // F10
	0x44: 87, // F11
	0x45: 88, // F12
	0x46: 99,  // PrintScreen
	0x47: 70,  // ScrollLock
	0x48: 119, // Pause
	0x49: 110, // Insert
	0x4a: 102, // Home
	0x4b: 104, // PageUp
	0x4c: 111, // Delete
	0x4d: 107, // End
	0x4e: 109, // PageDown
	0x4f: 106, // Right
	0x50: 105, // Left
	0x51: 108, // Down
	0x52: 103, // Up
	0x53: 69,  // NumLock
	0x54: 98,  // KpSlash
	0x55: 55,  // KpAsterisk
	0x56: 74,  // KpMinus
	0x57: 78,  // KpPlus
	0x58: 96,  // KpEnter
	0x59: 79,  // Kp1
	0x5a: 80,  // Kp2
	0x5b: 81,  // Kp3
	0x5c: 75,  // Kp4
	0x5d: 76,  // Kp5
	0x5e: 77,  // Kp6
	0x5f: 71,  // Kp7
	0x60: 72,  // Kp8
	0x61: 73,  // Kp9
	0x62: 82,  // Kp0
	0x63: 83,  // KpDot
	0x65: 127, // Menu/Compose
	0xe0: 29,  // LCtrl
	0xe1: 42,  // LShift
	0xe2: 56,  // LAlt
	0xe3: 125, // LGui
	0xe4: 97,  // RCtrl
	0xe5: 54,  // RShift
	0xe6: 100, // RAlt
	0xe7: 126, // RGui
}

var evdevToHIDIndex map[uint16]uint8

func init() {
	evdevToHIDIndex = make(map[uint16]uint8, len(linuxEvdevCode))
	for hid, ev := range linuxEvdevCode {
		evdevToHIDIndex[ev] = hid
	}
}

// LinuxEvdevCode translates c to the Linux KEY_* code a uinput virtual
// device or a real evdev source uses on the wire. ok is false for codes
// outside the HID range or with no known Linux equivalent.
func (c Code) LinuxEvdevCode() (code uint16, ok bool) {
	if !c.IsUSBKeycode() {
		return 0, false
	}
	v, ok := linuxEvdevCode[c.HIDIndex()]
	return v, ok
}

// FromLinuxEvdevCode is the inverse of LinuxEvdevCode, used by evdev-backed
// input sources to translate a raw KEY_* event into the unified namespace.
func FromLinuxEvdevCode(evdevCode uint16) (Code, bool) {
	hid, ok := evdevToHIDIndex[evdevCode]
	if !ok {
		return 0, false
	}
	return FromHIDIndex(hid), true
}
