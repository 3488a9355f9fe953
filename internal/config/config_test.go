package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/keystream/internal/config"
)

func TestLoadFallsBackToDefaultsWhenNoFileFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUDO_USER", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Layout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.KeyboardDevice)
	assert.Equal(t, "linux", cfg.UnicodeMode)
}

func TestLoadReadsExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: qwerty\nlog_level: debug\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "qwerty", cfg.Layout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestLayoutPathJoinsConfigDir(t *testing.T) {
	cfg := &config.Config{ConfigDir: "/etc/keystream"}
	assert.Equal(t, "/etc/keystream/layouts/default.yaml", cfg.LayoutPath("default"))
}

func TestLayoutPathRejectsTraversalBySanitizingToBaseName(t *testing.T) {
	cfg := &config.Config{ConfigDir: "/etc/keystream"}
	assert.Equal(t, "/etc/keystream/layouts/passwd.yaml", cfg.LayoutPath("../../../etc/passwd"))
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyLayout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Layout = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownUnicodeMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UnicodeMode = "morse"
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestAvailableLayoutsListsYAMLFilesWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "default.yaml"), []byte("name: default"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "gaming.yaml"), []byte("name: gaming"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "README.md"), []byte("not a layout"), 0o644))

	cfg := &config.Config{ConfigDir: dir}
	layouts, err := cfg.AvailableLayouts()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"default", "gaming"}, layouts)
}

func TestSaveWritesConfigFileToConfigDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Layout: "default", LogLevel: "info", ConfigDir: filepath.Join(dir, "nested")}

	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(filepath.Join(cfg.ConfigDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "layout: default")
}
