package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keyboard"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/keytest"
)

// ignoreEverything marks every keycode.B event it sees Ignored and leaves
// everything else untouched, simulating a handler (AutoShift, SpaceCadet)
// that leaves one key's state buffered mid-flight across ticks while still
// letting other keys reach the rest of the chain normally.
type ignoreEverything struct{}

func (ignoreEverything) DefaultEnabled() bool { return true }

func (ignoreEverything) Process(buf *event.Buffer, _ keyout.KeyOut) handler.Result {
	buf.ForEachUnhandled(func(e *event.Entry) {
		if e.Event.Key.Keycode == keycode.B {
			e.Status = event.Ignored
		}
	})
	return handler.NoOp
}

func TestPlainKeyPassesThroughToUSBKeyboard(t *testing.T) {
	base := keytest.NewCatcher()
	catcher := base.Reporter.(*keytest.Catcher)

	kb := keyboard.New(base)
	kb.AddHandler(handler.NewUSBKeyboard())

	kb.AddKeyPress(keycode.A, 0)
	require.NoError(t, kb.HandlePass())

	keytest.CheckOutput(t, catcher, [][]keycode.Code{{keycode.A}})
}

func TestUnsupportedKeycodeReportsError(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)
	kb.AddHandler(handler.NewUSBKeyboard())

	kb.AddKeyPress(keycode.UK(5), 0) // private keycode, no handler claims it
	err := kb.HandlePass()
	assert.Error(t, err)
}

func TestDisabledHandlerDoesNotRun(t *testing.T) {
	base := keytest.NewCatcher()
	catcher := base.Reporter.(*keytest.Catcher)

	kb := keyboard.New(base)
	id := kb.AddHandler(handler.NewRewriteLayer([]handler.Rewrite{{From: keycode.A, To: keycode.B}}))
	kb.AddHandler(handler.NewUSBKeyboard())

	assert.False(t, base.State().IsHandlerEnabled(id), "RewriteLayer.DefaultEnabled() is false")

	kb.AddKeyPress(keycode.A, 0)
	require.NoError(t, kb.HandlePass())
	keytest.CheckOutput(t, catcher, [][]keycode.Code{{keycode.A}})

	base.State().EnableHandler(id)
	catcher.Clear()

	kb.AddKeyPress(keycode.A, 0)
	require.NoError(t, kb.HandlePass())
	keytest.CheckOutput(t, catcher, [][]keycode.Code{{keycode.B}})
}

func TestClearUnhandledDropsPendingEntries(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)
	kb.AddHandler(handler.NewUSBKeyboard())

	kb.AddKeyPress(keycode.UK(5), 0)
	_ = kb.HandlePass()
	kb.ClearUnhandled()

	kb.AddKeyPress(keycode.A, 0)
	require.NoError(t, kb.HandlePass())
}

func TestClearUnhandledPreservesIgnoredEntries(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)
	kb.AddHandler(ignoreEverything{}) // leaves B permanently Ignored, never claims it
	kb.AddHandler(handler.NewUSBKeyboard())

	kb.AddKeyPress(keycode.B, 0)
	require.NoError(t, kb.HandlePass()) // ignoreEverything marks it Ignored, no error

	kb.AddKeyPress(keycode.UK(5), 0) // nothing claims this one
	err := kb.HandlePass()
	assert.Error(t, err)

	kb.ClearUnhandled()
	assert.Equal(t, 1, kb.BufferLen(), "the Ignored B entry must survive, only UK(5) is dropped")
}

func TestClearAllDropsIgnoredEntriesToo(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)
	kb.AddHandler(ignoreEverything{})

	kb.AddKeyPress(keycode.B, 0)
	require.NoError(t, kb.HandlePass())

	kb.ClearAll()
	assert.Equal(t, 0, kb.BufferLen())
}
