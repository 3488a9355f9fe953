package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// LeaderMapping is one trigger-sequence to output-string entry.
type LeaderMapping struct {
	Sequence []keycode.Code
	Output   string
}

type leaderMatch int

const (
	leaderMatched leaderMatch = iota
	leaderWontMatch
	leaderNeedsMoreInput
)

// Leader implements a prefix-matched leader key: releasing trigger arms it
// (its press is swallowed without arming), and every subsequent key release
// is appended to a prefix buffer and matched against the mapping table. A
// full match sends its output string and disarms; a prefix that can no
// longer match anything sends the failure string and disarms; otherwise
// Leader keeps accumulating. While armed, every press and every release is
// swallowed.
type Leader struct {
	trigger  keycode.Code
	mappings []LeaderMapping
	failure  string
	prefix   []keycode.Code
	active   bool
}

// NewLeader builds a Leader. failure is sent verbatim if the accumulated
// prefix stops matching every entry in mappings.
func NewLeader(trigger keycode.Code, mappings []LeaderMapping, failure string) *Leader {
	return &Leader{trigger: trigger, mappings: mappings, failure: failure}
}

func (h *Leader) DefaultEnabled() bool { return true }

func (h *Leader) matchPrefix() leaderMatch {
	result := leaderWontMatch
	for _, m := range h.mappings {
		if len(m.Sequence) < len(h.prefix) {
			continue
		}
		matches := true
		for i, kc := range h.prefix {
			if m.Sequence[i] != kc {
				matches = false
				break
			}
		}
		if !matches {
			continue
		}
		if len(m.Sequence) == len(h.prefix) {
			return leaderMatched
		}
		result = leaderNeedsMoreInput
	}
	return result
}

func (h *Leader) matchedOutput() string {
	for _, m := range h.mappings {
		if len(m.Sequence) != len(h.prefix) {
			continue
		}
		matches := true
		for i, kc := range h.prefix {
			if m.Sequence[i] != kc {
				matches = false
				break
			}
		}
		if matches {
			return m.Output
		}
	}
	return ""
}

func (h *Leader) Process(buf *event.Buffer, out keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		key := &e.Event.Key
		switch e.Event.Kind {
		case event.KeyRelease:
			if h.active {
				h.prefix = append(h.prefix, key.Keycode)
				switch h.matchPrefix() {
				case leaderMatched:
					out.SendString(h.matchedOutput())
					h.active = false
					h.prefix = h.prefix[:0]
				case leaderWontMatch:
					out.SendString(h.failure)
					h.active = false
					h.prefix = h.prefix[:0]
				case leaderNeedsMoreInput:
				}
				e.Status = event.Handled
			} else if key.Keycode == h.trigger {
				h.active = true
				e.Status = event.Handled
			}

		case event.KeyPress:
			if key.Keycode == h.trigger || h.active {
				e.Status = event.Handled
			}
		}
	})
	return NoOp
}
