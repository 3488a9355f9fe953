package handler_test

import (
	"github.com/halvard/keystream/internal/event"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keyout"
)

// runPass mimics one tick of *keyboard.Keyboard.HandlePass against a single
// handler: reset every entry's status, run the handler once, then drain
// whatever it marked Handled. Handlers that leave state in the buffer
// itself across ticks (AutoShift, SpaceCadet) require their test to share
// one *event.Buffer across every runPass call, exactly as the real chain
// driver does; handlers that track everything in their own fields tolerate
// a fresh buffer per call just as well.
func runPass(buf *event.Buffer, h handler.Handler, out keyout.KeyOut) {
	buf.ResetStatuses()
	h.Process(buf, out)
	buf.DrainHandled()
}
