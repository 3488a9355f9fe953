// Package keytest provides the test fixtures every handler test in this
// repository is built on: a keyout.Reporter that records HID reports
// instead of emitting them, and a small TimeoutLogger handler used to probe
// TimeOut delivery in chain tests.
package keytest

import (
	"testing"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

// Catcher is a keyout.Reporter that records every HID report it's asked to
// send instead of writing to a real device, for use in handler and chain
// tests.
type Catcher struct {
	Reports    [][]keycode.Code
	registered []keycode.Code
	st         *state.KeyboardState
}

// NewCatcher returns a *keyout.Base wrapping a fresh Catcher, ready to pass
// to keyboard.New.
func NewCatcher() *keyout.Base {
	return keyout.NewBase(&Catcher{st: state.New()})
}

func (c *Catcher) SendKeys(codes ...keycode.Code) {
	report := make([]keycode.Code, len(codes))
	copy(report, codes)
	c.Reports = append(c.Reports, report)
}

func (c *Catcher) State() *state.KeyboardState { return c.st }

// Clear drops every recorded report, for tests that reuse one Catcher
// across several phases of a scenario.
func (c *Catcher) Clear() { c.Reports = nil }

// CheckOutput asserts that catcher recorded exactly want, report for
// report, ignoring key order within a report.
func CheckOutput(t *testing.T, catcher *Catcher, want [][]keycode.Code) {
	t.Helper()
	if len(catcher.Reports) != len(want) {
		t.Fatalf("report count: got %d, want %d (got=%v, want=%v)", len(catcher.Reports), len(want), catcher.Reports, want)
	}
	for i, report := range want {
		got := catcher.Reports[i]
		if len(got) != len(report) {
			t.Fatalf("report %d: got %v, want %v", i, got, report)
		}
		for _, kc := range report {
			if !containsCode(got, kc) {
				t.Fatalf("report %d: got %v, want it to contain %v", i, got, kc)
			}
		}
	}
}

func containsCode(codes []keycode.Code, kc keycode.Code) bool {
	for _, c := range codes {
		if c == kc {
			return true
		}
	}
	return false
}

// TimeoutLogger sends keycode whenever a TimeOut event's elapsed duration
// exceeds minTimeoutMs; used to assert a chain actually delivers TimeOut
// events to downstream handlers.
type TimeoutLogger struct {
	keycode      keycode.Code
	minTimeoutMs uint16
}

func NewTimeoutLogger(kc keycode.Code, minTimeoutMs uint16) *TimeoutLogger {
	return &TimeoutLogger{keycode: kc, minTimeoutMs: minTimeoutMs}
}

func (h *TimeoutLogger) DefaultEnabled() bool { return true }

func (h *TimeoutLogger) Process(buf *event.Buffer, out keyout.KeyOut) handler.Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		if e.Event.Kind != event.TimeOut {
			return
		}
		if e.Event.TimeoutMs > h.minTimeoutMs {
			out.SendKeys(h.keycode)
		}
	})
	return handler.NoOp
}
