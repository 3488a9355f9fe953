// Package matrix turns a sequence of boolean key-state snapshots into the
// KeyPress/KeyRelease/TimeOut stream the handler chain expects, diffing
// each new snapshot against the last one observed. It is deliberately
// transport-agnostic: a real scan-matrix keyboard, or (as in this
// repository) an evdev-backed virtual matrix, both satisfy it by producing
// []bool snapshots of the same fixed length.
package matrix

import (
	"log/slog"

	"github.com/halvard/keystream/internal/keycode"
)

// Driver is the subset of *keyboard.Keyboard the stream adapter needs. It is
// declared here, rather than imported, so this package has no dependency on
// package keyboard.
type Driver interface {
	AddKeyPress(kc keycode.Code, msSinceLast uint16)
	AddKeyRelease(kc keycode.Code, msSinceLast uint16)
	AddTimeout(ms uint16)
	HandlePass() error
	ClearUnhandled()
}

// ToStream holds the previously observed bitmap and the index→keycode
// translation table, and drives one handler-chain pass per tick.
type ToStream struct {
	lastState   []bool
	translation []keycode.Code
	logger      *slog.Logger
}

// NewToStream builds a ToStream over translation; the bitmap Update is given
// must always have len(translation) entries.
func NewToStream(translation []keycode.Code, logger *slog.Logger) *ToStream {
	return &ToStream{
		lastState:   make([]bool, len(translation)),
		translation: translation,
		logger:      logger,
	}
}

// Update diffs newState against the last observed snapshot. Each changed
// index drives its own KeyPress or KeyRelease and its own chain pass; if
// nothing changed, a single TimeOut drives one pass. Every pass's error
// (an unsupported keycode reaching the bottom of the chain) is logged and
// the buffer's unhandled entries are dropped so one bad event can't wedge
// the next tick.
func (m *ToStream) Update(newState []bool, driver Driver, msSinceLast uint16) {
	if len(newState) != len(m.lastState) {
		panic("matrix: bitmap length does not match translation table")
	}

	anyChanged := false
	for i, was := range m.lastState {
		now := newState[i]
		if was == now {
			continue
		}
		anyChanged = true
		kc := m.translation[i]
		if now {
			driver.AddKeyPress(kc, msSinceLast)
		} else {
			driver.AddKeyRelease(kc, msSinceLast)
		}
		if err := driver.HandlePass(); err != nil {
			m.logger.Warn("matrix: pass failed", "error", err, "keycode", kc)
			driver.ClearUnhandled()
		}
	}

	if !anyChanged {
		driver.AddTimeout(msSinceLast)
		if err := driver.HandlePass(); err != nil {
			m.logger.Warn("matrix: pass failed on timeout", "error", err)
			driver.ClearUnhandled()
		}
	}

	copy(m.lastState, newState)
}
