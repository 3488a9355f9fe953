// Command keystream-firmware grabs physical keyboard devices, runs their
// key events through a configurable handler chain, and replays the result
// on a virtual uinput keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/halvard/keystream/internal/config"
	"github.com/halvard/keystream/internal/evdevmatrix"
	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keyboard"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/layoutconfig"
	"github.com/halvard/keystream/internal/matrix"
	"github.com/halvard/keystream/internal/state"
	"github.com/halvard/keystream/internal/tray"
	"github.com/halvard/keystream/internal/uinputout"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// gatedDriver wraps a *keyboard.Keyboard as a matrix.Driver, letting the
// tray's enable toggle and layout switch take effect without tearing down
// the evdevmatrix.Source feeding it. Swapping kb is how a layout change
// takes effect; disabling drops every incoming transition instead of
// buffering it.
type gatedDriver struct {
	mu      sync.Mutex
	kb      *keyboard.Keyboard
	enabled bool
}

func newGatedDriver(kb *keyboard.Keyboard) *gatedDriver {
	return &gatedDriver{kb: kb, enabled: true}
}

func (g *gatedDriver) swap(kb *keyboard.Keyboard) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.kb = kb
}

func (g *gatedDriver) setEnabled(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = enabled
}

func (g *gatedDriver) AddKeyPress(kc keycode.Code, ms uint16) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enabled {
		g.kb.AddKeyPress(kc, ms)
	}
}

func (g *gatedDriver) AddKeyRelease(kc keycode.Code, ms uint16) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enabled {
		g.kb.AddKeyRelease(kc, ms)
	}
}

func (g *gatedDriver) AddTimeout(ms uint16) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enabled {
		g.kb.AddTimeout(ms)
	}
}

func (g *gatedDriver) HandlePass() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.enabled {
		// Add* already dropped this tick's transition, so there is nothing
		// new to process. Do not touch the buffer: a handler earlier in the
		// chain (AutoShift, SpaceCadet) may have Ignored entries deliberately
		// buffered mid-flight, and toggling the mapping off must not destroy
		// that state.
		return nil
	}
	return g.kb.HandlePass()
}

func (g *gatedDriver) ClearUnhandled() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.kb.ClearUnhandled()
}

var _ matrix.Driver = (*gatedDriver)(nil)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	layoutName := flag.String("layout", "", "Layout name to use")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version information")
	noTray := flag.Bool("no-tray", false, "Run without system tray")
	flag.Parse()

	if *showVersion {
		fmt.Printf("keystream-firmware %s (%s) built %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *layoutName != "" {
		cfg.Layout = *layoutName
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("keystream-firmware starting", "version", version, "layout", cfg.Layout)

	if err := ensureConfigDir(cfg); err != nil {
		logger.Error("failed to create config directory", "error", err)
		os.Exit(1)
	}

	out, err := uinputout.New(logger)
	if err != nil {
		logger.Error("failed to create virtual keyboard", "error", err)
		logger.Error("make sure you have write access to /dev/uinput")
		os.Exit(1)
	}
	defer out.Close()

	unicodeMode, err := state.ParseUnicodeSendMode(cfg.UnicodeMode)
	if err != nil {
		logger.Error("invalid unicode_mode in config", "error", err)
		os.Exit(1)
	}
	out.State().UnicodeMode = unicodeMode

	kb, err := loadChain(cfg, cfg.Layout, out, logger)
	if err != nil {
		logger.Error("failed to build handler chain", "layout", cfg.Layout, "error", err)
		os.Exit(1)
	}

	source, err := evdevmatrix.Open(logger)
	if err != nil {
		logger.Error("failed to open input devices", "error", err)
		os.Exit(1)
	}
	defer source.Close()

	driver := newGatedDriver(kb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := source.Run(ctx, driver); err != nil {
			logger.Error("error running matrix source", "error", err)
		}
	}()

	availableLayouts, err := cfg.AvailableLayouts()
	if err != nil {
		logger.Warn("could not list layouts", "error", err)
		availableLayouts = []string{cfg.Layout}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *noTray {
		logger.Info("running without system tray, press Ctrl+C to quit")
		<-sigChan
		logger.Info("shutting down...")
	} else {
		unicodeModeNames := make([]string, len(state.UnicodeSendModes))
		for i, m := range state.UnicodeSendModes {
			unicodeModeNames[i] = m.String()
		}

		trayCfg := tray.Config{
			CurrentLayout:         cfg.Layout,
			AvailableLayouts:      availableLayouts,
			Enabled:               true,
			UnicodeMode:           cfg.UnicodeMode,
			AvailableUnicodeModes: unicodeModeNames,
			OnLayoutChange: func(layoutName string) {
				newKb, err := loadChain(cfg, layoutName, out, logger)
				if err != nil {
					logger.Error("failed to load layout", "layout", layoutName, "error", err)
					return
				}
				cfg.Layout = layoutName
				cfg.Save()
				driver.swap(newKb)
			},
			OnToggle: func(enabled bool) {
				driver.setEnabled(enabled)
			},
			OnUnicodeModeChange: func(modeName string) {
				mode, err := state.ParseUnicodeSendMode(modeName)
				if err != nil {
					logger.Error("failed to switch unicode mode", "mode", modeName, "error", err)
					return
				}
				out.State().UnicodeMode = mode
				cfg.UnicodeMode = modeName
				cfg.Save()
			},
			OnQuit: func() {
				logger.Info("shutting down...")
				cancel()
				os.Exit(0)
			},
			Logger: logger,
		}

		trayIcon := tray.New(trayCfg)

		go func() {
			<-sigChan
			logger.Info("shutting down...")
			trayIcon.Quit()
		}()

		trayIcon.Run()
	}

	logger.Info("keystream-firmware stopped")
}

// loadChain loads the named layout file and builds a fresh handler chain
// for it around out's output sink, sharing out.State() so enable/disable
// overrides issued by one layout's handlers never leak state into another.
func loadChain(cfg *config.Config, layoutName string, out *keyout.Base, logger *slog.Logger) (*keyboard.Keyboard, error) {
	path := cfg.LayoutPath(layoutName)
	layout, err := layoutconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading layout %s: %w", path, err)
	}

	kb := keyboard.New(out)
	if _, err := layoutconfig.Build(kb, layout); err != nil {
		return nil, fmt.Errorf("building handler chain for %s: %w", path, err)
	}
	kb.AddHandler(handler.NewUSBKeyboard())
	logger.Info("loaded layout", "name", layout.Name, "description", layout.Description, "path", path)
	return kb, nil
}

// ensureConfigDir creates the config directory and its layouts subdirectory
// if they don't already exist.
func ensureConfigDir(cfg *config.Config) error {
	layoutDir := filepath.Join(cfg.ConfigDir, "layouts")
	return os.MkdirAll(layoutDir, 0755)
}
