package handler

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
)

// Rewrite is one (from, to) keycode substitution entry.
type Rewrite struct {
	From, To keycode.Code
}

// RewriteLayer replaces keycodes in place according to a fixed table. It is
// the minimal layer primitive: no actions, no auto-off, just substitution —
// useful for whole-keyboard remaps like a Dvorak layout where every entry
// is a plain rewrite and RAM for per-entry actions would be wasted.
// RewriteLayer is off by default; layers must be explicitly enabled.
type RewriteLayer struct {
	rewrites []Rewrite
}

// NewRewriteLayer builds a RewriteLayer from a fixed rewrite table.
func NewRewriteLayer(rewrites []Rewrite) *RewriteLayer {
	return &RewriteLayer{rewrites: rewrites}
}

func (h *RewriteLayer) DefaultEnabled() bool { return false }

func (h *RewriteLayer) Process(buf *event.Buffer, _ keyout.KeyOut) Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		if e.Event.Kind == event.TimeOut {
			return
		}
		h.rewrite(&e.Event.Key)
	})
	return NoOp
}

// rewrite applies the first matching (from, to) entry, guarded by flag bit
// 1 so a key is never rewritten twice by the same layer within one pass.
func (h *RewriteLayer) rewrite(key *event.Key) {
	if key.Flag&event.FlagRewritten != 0 {
		return
	}
	for _, r := range h.rewrites {
		if r.From == key.Keycode {
			key.Keycode = r.To
			key.Flag |= event.FlagRewritten
			return
		}
	}
}
