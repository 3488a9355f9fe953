// Package tray provides system tray integration using fyne.io/systray.
package tray

import (
	"log/slog"
	"time"

	"fyne.io/systray"
)

// Tray represents the system tray icon and menu.
type Tray struct {
	logger *slog.Logger

	// Callbacks
	onLayoutChange      func(layout string)
	onToggle            func(enabled bool)
	onQuit              func()
	onUnicodeModeChange func(mode string)

	// State
	enabled               bool
	currentLayout         string
	availableLayouts      []string
	unicodeMode           string
	availableUnicodeModes []string

	// Menu items for updates
	statusItem   *systray.MenuItem
	layoutItems  []*systray.MenuItem
	unicodeItems []*systray.MenuItem
}

// Config holds tray configuration.
type Config struct {
	CurrentLayout         string
	AvailableLayouts      []string
	Enabled               bool
	UnicodeMode           string
	AvailableUnicodeModes []string
	OnLayoutChange        func(layout string)
	OnToggle              func(enabled bool)
	OnQuit                func()
	OnUnicodeModeChange   func(mode string)
	Logger                *slog.Logger
}

// New creates a new system tray icon.
func New(cfg Config) *Tray {
	return &Tray{
		enabled:               cfg.Enabled,
		currentLayout:         cfg.CurrentLayout,
		availableLayouts:      cfg.AvailableLayouts,
		unicodeMode:           cfg.UnicodeMode,
		availableUnicodeModes: cfg.AvailableUnicodeModes,
		onLayoutChange:        cfg.OnLayoutChange,
		onToggle:              cfg.OnToggle,
		onQuit:                cfg.OnQuit,
		onUnicodeModeChange:   cfg.OnUnicodeModeChange,
		logger:                cfg.Logger,
	}
}

// Run starts the system tray. This blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when systray is ready.
func (t *Tray) onReady() {
	systray.SetIcon(keyboardIcon)
	systray.SetTitle("Keystream")
	t.updateTooltip()

	// Status toggle
	t.statusItem = systray.AddMenuItem("✓ Enabled", "Toggle the whole keymap pipeline")

	systray.AddSeparator()

	// Layout submenu
	layoutMenu := systray.AddMenuItem("Layout", "Select keyboard layout")
	t.layoutItems = make([]*systray.MenuItem, len(t.availableLayouts))

	for i, layout := range t.availableLayouts {
		label := layout
		if layout == t.currentLayout {
			label = "● " + layout
		} else {
			label = "  " + layout
		}
		t.layoutItems[i] = layoutMenu.AddSubMenuItem(label, "Switch to "+layout)
	}

	systray.AddSeparator()

	// Unicode send mode submenu
	unicodeMenu := systray.AddMenuItem("Unicode Mode", "Select how Unicode characters are sent to the host")
	t.unicodeItems = make([]*systray.MenuItem, len(t.availableUnicodeModes))

	for i, mode := range t.availableUnicodeModes {
		label := "  " + mode
		if mode == t.unicodeMode {
			label = "● " + mode
		}
		t.unicodeItems[i] = unicodeMenu.AddSubMenuItem(label, "Switch Unicode send mode to "+mode)
	}

	systray.AddSeparator()

	// Quit
	quitItem := systray.AddMenuItem("Quit", "Exit Keystream")

	// Handle menu clicks
	go t.handleClicks(quitItem)
}

// handleClicks processes menu item clicks.
func (t *Tray) handleClicks(quitItem *systray.MenuItem) {
	for {
		select {
		case <-t.statusItem.ClickedCh:
			t.toggleEnabled()

		case <-quitItem.ClickedCh:
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
			return

		default:
			// Check layout items
			for i, item := range t.layoutItems {
				select {
				case <-item.ClickedCh:
					t.selectLayout(t.availableLayouts[i])
				default:
				}
			}
			// Check Unicode mode items
			for i, item := range t.unicodeItems {
				select {
				case <-item.ClickedCh:
					t.selectUnicodeMode(t.availableUnicodeModes[i])
				default:
				}
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// toggleEnabled toggles the enabled state.
func (t *Tray) toggleEnabled() {
	t.enabled = !t.enabled

	if t.enabled {
		t.statusItem.SetTitle("✓ Enabled")
		systray.SetIcon(keyboardIcon)
	} else {
		t.statusItem.SetTitle("✗ Disabled")
		systray.SetIcon(keyboardDisabledIcon)
	}

	t.updateTooltip()

	if t.onToggle != nil {
		t.onToggle(t.enabled)
	}
}

// selectLayout changes the current layout.
func (t *Tray) selectLayout(layout string) {
	if layout == t.currentLayout {
		return
	}

	// Update menu labels
	for i, l := range t.availableLayouts {
		if l == layout {
			t.layoutItems[i].SetTitle("● " + l)
		} else {
			t.layoutItems[i].SetTitle("  " + l)
		}
	}

	t.currentLayout = layout
	t.updateTooltip()
	t.logger.Info("layout changed", "layout", layout)

	if t.onLayoutChange != nil {
		t.onLayoutChange(layout)
	}
}

// selectUnicodeMode changes the active Unicode send mode.
func (t *Tray) selectUnicodeMode(mode string) {
	if mode == t.unicodeMode {
		return
	}

	for i, m := range t.availableUnicodeModes {
		if m == mode {
			t.unicodeItems[i].SetTitle("● " + m)
		} else {
			t.unicodeItems[i].SetTitle("  " + m)
		}
	}

	t.unicodeMode = mode
	t.logger.Info("unicode mode changed", "mode", mode)

	if t.onUnicodeModeChange != nil {
		t.onUnicodeModeChange(mode)
	}
}

// updateTooltip updates the tray tooltip.
func (t *Tray) updateTooltip() {
	status := "Enabled"
	if !t.enabled {
		status = "Disabled"
	}
	systray.SetTooltip("Keystream: " + status + " (" + t.currentLayout + ")")
}

// onExit is called when systray is exiting.
func (t *Tray) onExit() {
	t.logger.Info("tray exiting")
}

// Quit stops the system tray.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetEnabled sets the enabled state.
func (t *Tray) SetEnabled(enabled bool) {
	t.enabled = enabled
	if t.statusItem != nil {
		if enabled {
			t.statusItem.SetTitle("✓ Enabled")
		} else {
			t.statusItem.SetTitle("✗ Disabled")
		}
	}
	t.updateTooltip()
}
