package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// PressReleaseMacro fires callbacks.OnActivate on press of its trigger and
// callbacks.OnDeactivate on release, swallowing both events. Trigger is
// normally a private keycode so it never collides with a physical key.
type PressReleaseMacro struct {
	trigger   keycode.Code
	callbacks OnOff
}

// NewPressReleaseMacro builds a PressReleaseMacro bound to trigger.
func NewPressReleaseMacro(trigger keycode.Code, callbacks OnOff) *PressReleaseMacro {
	return &PressReleaseMacro{trigger: trigger, callbacks: callbacks}
}

func (h *PressReleaseMacro) DefaultEnabled() bool { return true }

func (h *PressReleaseMacro) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		if e.Event.Key.Keycode != h.trigger {
			return
		}
		switch e.Event.Kind {
		case event.KeyPress:
			e.Status = event.Handled
			h.callbacks.OnActivate(out)
		case event.KeyRelease:
			e.Status = event.Handled
			h.callbacks.OnDeactivate(out)
		}
	})
	return NoOp
}

// stickyState is StickyMacro's three-valued activation counter.
type stickyState uint8

const (
	stickyInactive stickyState = iota
	stickyArmed
	stickyActive
)

// StickyMacro toggles on on the first press and off on the second release:
// press arms it (and fires OnToggleOn immediately), the release that follows
// is ignored, a second press marks it active, and the release after that
// fires OnToggleOff. Useful for sticky modifiers a user wants to hold across
// several following keys without physically holding the trigger down.
type StickyMacro struct {
	trigger     keycode.Code
	onToggleOn  func(out keyout.KeyOut)
	onToggleOff func(out keyout.KeyOut)
	state       stickyState
}

// NewStickyMacro builds a StickyMacro bound to trigger.
func NewStickyMacro(trigger keycode.Code, onToggleOn, onToggleOff func(out keyout.KeyOut)) *StickyMacro {
	return &StickyMacro{trigger: trigger, onToggleOn: onToggleOn, onToggleOff: onToggleOff}
}

func (h *StickyMacro) DefaultEnabled() bool { return true }

func (h *StickyMacro) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		if e.Event.Key.Keycode != h.trigger {
			return
		}
		switch e.Event.Kind {
		case event.KeyPress:
			if h.state == stickyInactive {
				h.state = stickyArmed
				h.onToggleOn(out)
			} else {
				h.state = stickyActive
			}
			e.Status = event.Handled
		case event.KeyRelease:
			if h.state == stickyActive {
				h.onToggleOff(out)
				h.state = stickyInactive
			}
			e.Status = event.Handled
		}
	})
	return NoOp
}
