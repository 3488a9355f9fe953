package event

import "github.com/halvard/keystream/internal/keycode"

// Buffer is the ordered, append-only-per-pass sequence of (event, status)
// pairs all handlers in the chain mutate. It is the shared substrate
// described by the core: handlers may only set Status on entries, except
// for layer-style handlers which may also rewrite Key.Keycode and Key.Flag
// in place.
type Buffer struct {
	entries       []Entry
	runningNumber uint8
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int { return len(b.entries) }

// Entry returns a pointer to the i'th entry, allowing in-place mutation of
// its Status and (for layer handlers) its Key.
func (b *Buffer) Entry(i int) *Entry { return &b.entries[i] }

// AddKeyPress appends a KeyPress event with a fresh running number and
// flag cleared.
func (b *Buffer) AddKeyPress(kc keycode.Code, msSinceLast uint16) {
	b.entries = append(b.entries, Entry{
		Event:  newKeyPress(kc, msSinceLast, b.nextRunningNumber()),
		Status: Unhandled,
	})
}

// AddKeyRelease appends a KeyRelease event with a fresh running number and
// flag cleared.
func (b *Buffer) AddKeyRelease(kc keycode.Code, msSinceLast uint16) {
	b.entries = append(b.entries, Entry{
		Event:  newKeyRelease(kc, msSinceLast, b.nextRunningNumber()),
		Status: Unhandled,
	})
}

// AddTimeout appends a TimeOut event. Consecutive timeouts coalesce: if the
// last entry is already a TimeOut, it is replaced rather than appended.
func (b *Buffer) AddTimeout(ms uint16) {
	if n := len(b.entries); n > 0 && b.entries[n-1].Event.Kind == TimeOut {
		b.entries = b.entries[:n-1]
	}
	b.entries = append(b.entries, Entry{
		Event:  Event{Kind: TimeOut, TimeoutMs: ms},
		Status: Unhandled,
	})
}

func (b *Buffer) nextRunningNumber() uint8 {
	n := b.runningNumber
	b.runningNumber++
	return n
}

// ResetStatuses marks every entry Unhandled; called once at the start of
// each pass.
func (b *Buffer) ResetStatuses() {
	for i := range b.entries {
		b.entries[i].Status = Unhandled
	}
}

// DrainHandled removes every entry that is Handled or a TimeOut
// (unconditionally), called once at the end of each pass.
func (b *Buffer) DrainHandled() {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.Status == Handled || e.Event.Kind == TimeOut {
			continue
		}
		kept = append(kept, e)
	}
	b.entries = kept
}

// HasUnhandled reports whether any entry is still Unhandled; used after a
// pass to detect an event that reached the bottom of the chain unconsumed.
func (b *Buffer) HasUnhandled() bool {
	for _, e := range b.entries {
		if e.Status == Unhandled {
			return true
		}
	}
	return false
}

// Clear discards every buffered entry regardless of status (used by the
// abort/panic-key action helper in package premade).
func (b *Buffer) Clear() {
	b.entries = b.entries[:0]
}

// DrainUnhandled removes only entries whose Status is still Unhandled,
// leaving Ignored entries in place. Called after a HandlePass error so the
// one event no handler recognized doesn't wedge the next tick, without
// discarding Ignored entries another handler deliberately left buffered
// mid-flight across ticks (AutoShift's pending press, SpaceCadet's pending
// hold).
func (b *Buffer) DrainUnhandled() {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.Status == Unhandled {
			continue
		}
		kept = append(kept, e)
	}
	b.entries = kept
}

// ForEachUnhandled calls fn for every entry whose status is currently
// Unhandled, in buffer order, allowing fn to mutate the entry's status (and,
// for layer handlers, its Key) in place.
func (b *Buffer) ForEachUnhandled(fn func(e *Entry)) {
	for i := range b.entries {
		if b.entries[i].Status == Unhandled {
			fn(&b.entries[i])
		}
	}
}

// ForEachUnhandledReverse is ForEachUnhandled in reverse buffer order, used
// by handlers (USBKeyboard, LongTap, Sequence) that need a press and its
// release from the same pass to be visited release-then-press.
func (b *Buffer) ForEachUnhandledReverse(fn func(e *Entry)) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Status == Unhandled {
			fn(&b.entries[i])
		}
	}
}

// ForEach calls fn for every entry regardless of status, in buffer order.
// Used by handlers that must retroactively rewrite the status of an already
// visited entry (AutoShift, SpaceCadet).
func (b *Buffer) ForEach(fn func(e *Entry)) {
	for i := range b.entries {
		fn(&b.entries[i])
	}
}

// ForEachReverse is ForEach in reverse buffer order.
func (b *Buffer) ForEachReverse(fn func(e *Entry)) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		fn(&b.entries[i])
	}
}

// FindByOriginalKeycode returns the index of the first entry in buffer
// order, whatever its status, whose Key.OriginalKeycode matches kc and whose
// Kind matches want, or -1.
func (b *Buffer) FindByOriginalKeycode(kc keycode.Code, want Kind) int {
	for i := range b.entries {
		e := &b.entries[i]
		if e.Event.Kind == want && e.Event.Key.OriginalKeycode == kc {
			return i
		}
	}
	return -1
}
