// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/halvard/keystream/internal/state"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

type Config struct {
	Layout         string `yaml:"layout"`
	LogLevel       string `yaml:"log_level"`
	KeyboardDevice string `yaml:"keyboard_device"`
	UnicodeMode    string `yaml:"unicode_mode"`
	ConfigDir      string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Layout:         "default",
		LogLevel:       "info",
		KeyboardDevice: "auto",
		UnicodeMode:    state.Linux.String(),
	}
}

// Validate checks the fields that get fed straight into behavior a typo
// would otherwise surface as (the wrong Unicode send mode, a silently
// rejected log level) only much later, once something is already broken.
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.Layout == "" {
		return fmt.Errorf("config: layout must not be empty")
	}
	if _, err := state.ParseUnicodeSendMode(c.UnicodeMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads configuration from the specified path or default locations.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Search paths in order of priority
	searchPaths := []string{}

	if configPath != "" {
		searchPaths = append(searchPaths, configPath)
	}

	// User config directory (use SUDO_USER if running as root via sudo)
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		searchPaths = append(searchPaths, filepath.Join("/home", sudoUser, ".config", "keystream", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "keystream", "config.yaml"))
	}

	// Executable directory (for portable usage)
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		searchPaths = append(searchPaths, filepath.Join(exeDir, "configs", "config.yaml"))
	}

	// System config directory
	searchPaths = append(searchPaths, "/etc/keystream/config.yaml")

	var loadedPath string
	for _, path := range searchPaths {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
			loadedPath = path
			break
		}
	}

	// Set config directory based on loaded file or default
	if loadedPath != "" {
		cfg.ConfigDir = filepath.Dir(loadedPath)
	} else {
		// Fallback: use executable directory
		if exe, err := os.Executable(); err == nil {
			cfg.ConfigDir = filepath.Join(filepath.Dir(exe), "configs")
		} else if home, err := os.UserHomeDir(); err == nil {
			cfg.ConfigDir = filepath.Join(home, ".config", "keystream")
		} else {
			cfg.ConfigDir = "/etc/keystream"
		}
	}

	return cfg, nil
}

// LayoutPath resolves layoutName to its file under ConfigDir/layouts.
// layoutName ultimately comes from the CLI -layout flag, the tray's layout
// submenu, or a saved config file, none of which are trusted input, so it
// is reduced to a bare file name first: the teacher's original single-file
// mapping had no equivalent path-traversal surface, but picking among
// several named layout files does.
func (c *Config) LayoutPath(layoutName string) string {
	return filepath.Join(c.ConfigDir, "layouts", filepath.Base(layoutName)+".yaml")
}

func (c *Config) AvailableLayouts() ([]string, error) {
	layoutDir := filepath.Join(c.ConfigDir, "layouts")
	entries, err := os.ReadDir(layoutDir)
	if err != nil {
		return nil, fmt.Errorf("reading layouts directory: %w", err)
	}

	var layouts []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			name := entry.Name()
			layouts = append(layouts, name[:len(name)-5])
		}
	}

	return layouts, nil
}

func (c *Config) Save() error {
	configPath := filepath.Join(c.ConfigDir, "config.yaml")

	if err := os.MkdirAll(c.ConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
