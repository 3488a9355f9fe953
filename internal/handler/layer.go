package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

// LayerActionKind discriminates what a Layer entry does on match.
type LayerActionKind int

const (
	RewriteTo LayerActionKind = iota
	RewriteToShifted
	SendString
	SendStringShifted
)

// LayerAction is one Layer entry's behavior. Only the fields relevant to
// Kind are meaningful: RewriteTo uses To; RewriteToShifted uses To/ToShifted;
// SendString uses Str; SendStringShifted uses Str/StrShifted.
type LayerAction struct {
	Kind       LayerActionKind
	To         keycode.Code
	ToShifted  keycode.Code
	Str        string
	StrShifted string
}

// AutoOff names when a Layer disables itself after processing a release.
type AutoOff int

const (
	// AutoOffNo: never auto-disable.
	AutoOffNo AutoOff = iota
	// AutoOffAfterMatch: disable after any release that actually matched
	// an entry.
	AutoOffAfterMatch
	// AutoOffAfterNonModifier: disable after a release whose keycode is
	// neither a registered one-shot trigger nor a HID modifier.
	AutoOffAfterNonModifier
	// AutoOffAfterAll: disable after every release, matched or not.
	AutoOffAfterAll
)

// LayerEntry pairs a trigger keycode with its action.
type LayerEntry struct {
	Trigger keycode.Code
	Action  LayerAction
}

// NewLayerEntry constructs one Layer mapping entry.
func NewLayerEntry(trigger keycode.Code, action LayerAction) LayerEntry {
	return LayerEntry{Trigger: trigger, Action: action}
}

// Layer is the full-featured layer primitive: per-entry rewrite-or-string
// actions, shift-sensitive variants, and an auto-off policy. Each mapping
// costs more RAM than RewriteLayer's plain substitution table; use
// RewriteLayer instead when no string output or shift-awareness is needed.
// Layer is off by default.
type Layer struct {
	entries []LayerEntry
	autoOff AutoOff
}

// NewLayer builds a Layer from its mapping table and auto-off policy.
func NewLayer(entries []LayerEntry, autoOff AutoOff) *Layer {
	return &Layer{entries: entries, autoOff: autoOff}
}

func (h *Layer) DefaultEnabled() bool { return false }

func (h *Layer) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	result := NoOp

	buf.ForEachUnhandled(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyRelease:
			matched := false
			for _, entry := range h.entries {
				if entry.Trigger != key.Keycode {
					continue
				}
				matched = h.applyOnRelease(entry.Action, key, e, out)
				break
			}
			if h.shouldTurnOff(key.Keycode, matched) {
				result = Disable
			}

		case event.KeyPress:
			for _, entry := range h.entries {
				if entry.Trigger != key.Keycode {
					continue
				}
				h.applyOnPress(entry.Action, key, e, out)
				break
			}
		}
	})

	return result
}

func (h *Layer) applyOnPress(a LayerAction, key *event.Key, e *event.Entry, out keyout.KeyOut) {
	switch a.Kind {
	case RewriteTo:
		if key.Flag&event.FlagRewritten == 0 {
			key.Keycode = a.To
			key.Flag |= event.FlagRewritten
		}
	case RewriteToShifted:
		if key.Flag&event.FlagRewritten == 0 {
			if out.State().Modifier(state.Shift) {
				key.Keycode = a.ToShifted
			} else {
				key.Keycode = a.To
			}
			key.Flag |= event.FlagRewritten
		}
	case SendString, SendStringShifted:
		e.Status = event.Handled
	}
}

// applyOnRelease returns whether a rewrite or send actually happened
// (used by AutoOffAfterMatch).
func (h *Layer) applyOnRelease(a LayerAction, key *event.Key, e *event.Entry, out keyout.KeyOut) bool {
	switch a.Kind {
	case RewriteTo:
		if key.Flag&event.FlagRewritten != 0 {
			return false
		}
		key.Keycode = a.To
		key.Flag |= event.FlagRewritten
		return true
	case RewriteToShifted:
		if key.Flag&event.FlagRewritten != 0 {
			return false
		}
		if out.State().Modifier(state.Shift) {
			key.Keycode = a.ToShifted
		} else {
			key.Keycode = a.To
		}
		key.Flag |= event.FlagRewritten
		return true
	case SendString:
		out.SendString(a.Str)
		e.Status = event.Handled
		return true
	case SendStringShifted:
		if out.State().Modifier(state.Shift) {
			out.SendString(a.StrShifted)
		} else {
			out.SendString(a.Str)
		}
		e.Status = event.Handled
		return true
	}
	return false
}

func (h *Layer) shouldTurnOff(releasedKeycode keycode.Code, matched bool) bool {
	switch h.autoOff {
	case AutoOffNo:
		return false
	case AutoOffAfterAll:
		return true
	case AutoOffAfterMatch:
		return matched
	case AutoOffAfterNonModifier:
		return !isOneShotTrigger(releasedKeycode) && !releasedKeycode.IsModifier()
	default:
		return false
	}
}
