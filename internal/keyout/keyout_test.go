package keyout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/state"
)

type fakeReporter struct {
	reports [][]keycode.Code
	st      *state.KeyboardState
}

func newFakeReporter(mode state.UnicodeSendMode) *fakeReporter {
	st := state.New()
	st.UnicodeMode = mode
	return &fakeReporter{st: st}
}

func (f *fakeReporter) SendKeys(codes ...keycode.Code) {
	report := make([]keycode.Code, len(codes))
	copy(report, codes)
	f.reports = append(f.reports, report)
}

func (f *fakeReporter) State() *state.KeyboardState { return f.st }

func TestRegisterKeyDeduplicates(t *testing.T) {
	r := newFakeReporter(state.Debug)
	b := keyout.NewBase(r)

	b.RegisterKey(keycode.A)
	b.RegisterKey(keycode.B)
	b.RegisterKey(keycode.A)
	b.SendRegistered()

	assert.Len(t, r.reports, 1)
	assert.ElementsMatch(t, []keycode.Code{keycode.A, keycode.B}, r.reports[0])
}

func TestSendRegisteredClearsSet(t *testing.T) {
	r := newFakeReporter(state.Debug)
	b := keyout.NewBase(r)

	b.RegisterKey(keycode.A)
	b.SendRegistered()
	b.SendRegistered()

	assert.Len(t, r.reports, 2)
	assert.Empty(t, r.reports[1])
}

func TestSendEmptyEmitsZeroReport(t *testing.T) {
	r := newFakeReporter(state.Debug)
	b := keyout.NewBase(r)
	b.SendEmpty()
	assert.Len(t, r.reports, 1)
	assert.Empty(t, r.reports[0])
}

func TestSendUnicodeLinuxModeSequence(t *testing.T) {
	r := newFakeReporter(state.Linux)
	b := keyout.NewBase(r)

	b.SendUnicode('a') // U+0061 -> hex digits "61"

	// LCtrl+LShift+U, then one report per hex digit, then an empty flush.
	assert.Len(t, r.reports, 4)
	assert.Contains(t, r.reports[0], keycode.U)
	assert.Contains(t, r.reports[1], keycode.Kb6)
	assert.Contains(t, r.reports[2], keycode.Kb1)
	assert.Empty(t, r.reports[3])
}

func TestSendStringIteratesRunes(t *testing.T) {
	r := newFakeReporter(state.Debug)
	b := keyout.NewBase(r)

	b.SendString("ab")

	assert.Len(t, r.reports, 2)
}
