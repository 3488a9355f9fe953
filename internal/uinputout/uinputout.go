// Package uinputout implements keyout.KeyOut on top of a real uinput
// virtual keyboard device, so the handler chain's output actually reaches
// the host. The Unicode dispatch (SendUnicode's Linux mode) is grounded
// directly on the teacher's Ctrl+Shift+U IBus sequence; RegisterKey/
// SendRegistered/SendKeys/SendEmpty are new, generalized to emit the
// dense HID report set the core's USBKeyboard handler expects rather than
// one press/release pair at a time.
package uinputout

import (
	"fmt"
	"log/slog"

	"github.com/bendahl/uinput"

	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

// Sink is a keyout.Reporter backed by a real /dev/uinput virtual keyboard.
// It tracks which Linux KEY_* codes are currently held down so SendKeys can
// compute a minimal set of KeyDown/KeyUp ioctls between one report and the
// next, instead of releasing and re-pressing every key on every report.
type Sink struct {
	dev    uinput.Keyboard
	logger *slog.Logger
	state  *state.KeyboardState
	held   map[uint16]bool
}

// New opens /dev/uinput and returns a *keyout.Base wrapping it, ready to
// use as a handler chain's output sink.
func New(logger *slog.Logger) (*keyout.Base, error) {
	dev, err := uinput.CreateKeyboard("/dev/uinput", []byte("keystream-virtual"))
	if err != nil {
		return nil, fmt.Errorf("uinputout: creating virtual keyboard: %w", err)
	}
	sink := &Sink{
		dev:    dev,
		logger: logger,
		state:  state.New(),
		held:   make(map[uint16]bool),
	}
	return keyout.NewBase(sink), nil
}

// Close releases the underlying uinput device.
func (s *Sink) Close() error {
	return s.dev.Close()
}

// State returns the shared KeyboardState.
func (s *Sink) State() *state.KeyboardState { return s.state }

// SendKeys emits one HID report: releases every currently-held key not in
// codes, and presses every code in codes not already held.
func (s *Sink) SendKeys(codes ...keycode.Code) {
	want := make(map[uint16]bool, len(codes))
	for _, c := range codes {
		ev, ok := c.LinuxEvdevCode()
		if !ok {
			s.logger.Warn("uinputout: keycode has no Linux evdev equivalent", "keycode", c)
			continue
		}
		want[ev] = true
	}

	for ev := range s.held {
		if !want[ev] {
			if err := s.dev.KeyUp(int(ev)); err != nil {
				s.logger.Error("uinputout: KeyUp failed", "code", ev, "error", err)
			}
			delete(s.held, ev)
		}
	}
	for ev := range want {
		if !s.held[ev] {
			if err := s.dev.KeyDown(int(ev)); err != nil {
				s.logger.Error("uinputout: KeyDown failed", "code", ev, "error", err)
				continue
			}
			s.held[ev] = true
		}
	}
}
