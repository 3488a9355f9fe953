package layoutconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/keystream/internal/keyboard"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keytest"
	"github.com/halvard/keystream/internal/layoutconfig"
)

func TestKeyCodeResolvesPlainNames(t *testing.T) {
	kc, err := layoutconfig.KeyCode("Enter")
	require.NoError(t, err)
	assert.Equal(t, keycode.Enter, kc)
}

func TestKeyCodeResolvesPrivateKeycode(t *testing.T) {
	kc, err := layoutconfig.KeyCode("uk5")
	require.NoError(t, err)
	assert.Equal(t, keycode.UK(5), kc)
}

func TestKeyCodeRejectsOutOfRangePrivateKeycode(t *testing.T) {
	_, err := layoutconfig.KeyCode("uk100")
	assert.Error(t, err)
}

func TestKeyCodeResolvesUnicodeEscape(t *testing.T) {
	kc, err := layoutconfig.KeyCode("u+20ac")
	require.NoError(t, err)
	assert.Equal(t, keycode.FromRune('€'), kc)
}

func TestKeyCodeRejectsUnknownName(t *testing.T) {
	_, err := layoutconfig.KeyCode("not-a-real-key")
	assert.Error(t, err)
}

const forwardRefYAML = `
name: test
chain:
  - type: space_cadet
    trigger: capslock
    target: fn
  - type: layer
    name: fn
    auto_off: after_non_modifier
    entries:
      - trigger: "1"
        to: f1
`

func TestBuildResolvesForwardReferencedTarget(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(forwardRefYAML), 0o644))

	layout, err := layoutconfig.Load(path)
	require.NoError(t, err)

	names, err := layoutconfig.Build(kb, layout)
	require.NoError(t, err)

	id, ok := names["fn"]
	require.True(t, ok)
	assert.Equal(t, 1, int(id))
}

const unknownTargetYAML = `
name: test
chain:
  - type: space_cadet
    trigger: capslock
    target: does-not-exist
`

func TestBuildRejectsUnknownTarget(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(unknownTargetYAML), 0o644))

	layout, err := layoutconfig.Load(path)
	require.NoError(t, err)

	_, err = layoutconfig.Build(kb, layout)
	assert.Error(t, err)
}

func TestBuildRejectsUnknownEntryType(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)

	layout := &layoutconfig.Layout{Chain: []layoutconfig.ChainEntry{{Type: "not-a-real-type"}}}
	_, err := layoutconfig.Build(kb, layout)
	assert.Error(t, err)
}

func TestLoadDefaultLayoutBuildsCleanly(t *testing.T) {
	base := keytest.NewCatcher()
	kb := keyboard.New(base)

	path := filepath.Join("..", "..", "configs", "layouts", "default.yaml")
	layout, err := layoutconfig.Load(path)
	require.NoError(t, err)

	_, err = layoutconfig.Build(kb, layout)
	require.NoError(t, err)
}
