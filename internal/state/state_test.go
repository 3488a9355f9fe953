package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/keystream/internal/state"
)

func TestNewKeyboardStateDefaults(t *testing.T) {
	s := state.New()
	assert.Equal(t, state.Linux, s.UnicodeMode)
	for _, m := range []state.Modifier{state.Shift, state.Ctrl, state.Alt, state.Gui} {
		assert.False(t, s.Modifier(m))
	}
}

func TestSetModifierRoundTrips(t *testing.T) {
	s := state.New()
	s.SetModifier(state.Ctrl, true)
	assert.True(t, s.Modifier(state.Ctrl))
	assert.False(t, s.Modifier(state.Shift))
	s.SetModifier(state.Ctrl, false)
	assert.False(t, s.Modifier(state.Ctrl))
}

func TestPushHandlerSlotAssignsSequentialIDs(t *testing.T) {
	s := state.New()
	id0 := s.PushHandlerSlot(true)
	id1 := s.PushHandlerSlot(false)
	assert.Equal(t, state.HandlerID(0), id0)
	assert.Equal(t, state.HandlerID(1), id1)
	assert.True(t, s.IsHandlerEnabled(id0))
	assert.False(t, s.IsHandlerEnabled(id1))
}

func TestToggleAndSetHandler(t *testing.T) {
	s := state.New()
	id := s.PushHandlerSlot(true)

	s.ToggleHandler(id)
	assert.False(t, s.IsHandlerEnabled(id))

	s.SetHandler(id, true)
	assert.True(t, s.IsHandlerEnabled(id))

	s.DisableHandler(id)
	assert.False(t, s.IsHandlerEnabled(id))

	s.EnableHandler(id)
	assert.True(t, s.IsHandlerEnabled(id))
}

func TestEnabledSnapshotIsACopy(t *testing.T) {
	s := state.New()
	id := s.PushHandlerSlot(true)

	snap := s.EnabledSnapshot()
	s.DisableHandler(id)

	assert.True(t, snap[id], "snapshot must not observe later mutations")
	assert.False(t, s.IsHandlerEnabled(id))
}

func TestNumHandlers(t *testing.T) {
	s := state.New()
	assert.Equal(t, 0, s.NumHandlers())
	s.PushHandlerSlot(true)
	s.PushHandlerSlot(true)
	assert.Equal(t, 2, s.NumHandlers())
}
