// Package evdevmatrix is the matrix adapter's physical input side: it
// discovers real keyboard devices under /dev/input via
// github.com/holoplot/go-evdev, maintains the boolean bitmap the generic
// internal/matrix adapter diffs each tick, and translates each changed
// index through the unified keycode namespace via keycode.FromLinuxEvdevCode.
// Device discovery and lifecycle (Device, Manager, grab/release) are
// adapted from the teacher's evdev glue; the bitmap/translation/fan-in
// machinery below is new, built to satisfy internal/matrix's Driver-facing
// contract instead of the teacher's direct keystroke remap loop.
package evdevmatrix

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/matrix"
)

// Device is one open physical input device.
type Device struct {
	path   string
	device *evdev.InputDevice
	name   string
}

func (d *Device) Path() string { return d.path }
func (d *Device) Name() string { return d.name }

// Manager discovers and grabs keyboard-capable input devices.
type Manager struct {
	mu      sync.RWMutex
	devices map[string]*Device
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{devices: make(map[string]*Device), logger: logger}
}

// FindKeyboards discovers keyboard devices under /dev/input, skipping our
// own virtual uinput device so it never grabs its own output.
func (m *Manager) FindKeyboards() ([]*Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("evdevmatrix: globbing input devices: %w", err)
	}

	var keyboards []*Device
	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			m.logger.Debug("evdevmatrix: cannot open device", "path", path, "error", err)
			continue
		}

		name, err := dev.Name()
		if err != nil {
			dev.Close()
			continue
		}
		if strings.Contains(strings.ToLower(name), "keystream") {
			dev.Close()
			continue
		}
		if !isKeyboard(dev) {
			dev.Close()
			continue
		}

		device := &Device{path: path, device: dev, name: name}
		m.devices[path] = device
		keyboards = append(keyboards, device)
		m.logger.Info("evdevmatrix: found keyboard", "name", name, "path", path)
	}
	return keyboards, nil
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t != evdev.EV_KEY {
			continue
		}
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			if code >= 30 && code <= 52 { // KEY_A (30) through KEY_DOT (52)
				return true
			}
		}
	}
	return false
}

func (m *Manager) Grab(dev *Device) error {
	if err := dev.device.Grab(); err != nil {
		return fmt.Errorf("evdevmatrix: grabbing %s: %w", dev.path, err)
	}
	m.logger.Info("evdevmatrix: grabbed device", "name", dev.name)
	return nil
}

func (m *Manager) Release(dev *Device) error {
	if err := dev.device.Ungrab(); err != nil {
		return fmt.Errorf("evdevmatrix: releasing %s: %w", dev.path, err)
	}
	return nil
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dev := range m.devices {
		dev.device.Close()
	}
	m.devices = make(map[string]*Device)
}

type rawEvent struct {
	code    uint16
	pressed bool
	at      time.Time
}

func readLoop(ctx context.Context, dev *Device, out chan<- rawEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ev, err := dev.device.ReadOne()
		if err != nil {
			if !os.IsNotExist(err) {
				// transient read error; keep trying until ctx is cancelled
				continue
			}
			return
		}
		if ev.Type != evdev.EV_KEY || ev.Value == 2 { // ignore autorepeat
			continue
		}
		select {
		case out <- rawEvent{code: uint16(ev.Code), pressed: ev.Value == 1, at: time.Now()}:
		case <-ctx.Done():
			return
		}
	}
}

// Source maintains the live bitmap over every physical key the grabbed
// devices can produce, and drives one internal/matrix.ToStream tick per
// incoming raw event.
type Source struct {
	manager *Manager
	devices []*Device
	logger  *slog.Logger

	codes []uint16 // stable evdev-code order, one per bitmap index
	index map[uint16]int
}

// Open discovers and grabs every available keyboard device and builds the
// shared bitmap translation table from the union of their capable EV_KEY
// codes. Codes with no keycode.FromLinuxEvdevCode equivalent are left out of
// the bitmap entirely; they can never be meaningfully reported anyway.
func Open(logger *slog.Logger) (*Source, error) {
	manager := NewManager(logger)
	devices, err := manager.FindKeyboards()
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("evdevmatrix: no keyboard devices found")
	}

	seen := make(map[uint16]bool)
	for _, dev := range devices {
		if err := manager.Grab(dev); err != nil {
			logger.Warn("evdevmatrix: could not grab device, skipping", "name", dev.name, "error", err)
			continue
		}
		for _, code := range dev.device.CapableEvents(evdev.EV_KEY) {
			if _, ok := keycode.FromLinuxEvdevCode(uint16(code)); ok {
				seen[uint16(code)] = true
			}
		}
	}

	codes := make([]uint16, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	index := make(map[uint16]int, len(codes))
	for i, c := range codes {
		index[c] = i
	}

	return &Source{
		manager: manager,
		devices: devices,
		logger:  logger,
		codes:   codes,
		index:   index,
	}, nil
}

// Translation returns the index→keycode table Source's bitmap uses, for
// constructing a matrix.ToStream.
func (s *Source) Translation() []keycode.Code {
	translation := make([]keycode.Code, len(s.codes))
	for i, c := range s.codes {
		kc, _ := keycode.FromLinuxEvdevCode(c)
		translation[i] = kc
	}
	return translation
}

// Close releases and closes every grabbed device.
func (s *Source) Close() {
	for _, dev := range s.devices {
		s.manager.Release(dev)
	}
	s.manager.Close()
}

// Run fans in raw events from every grabbed device, maintains the bitmap,
// and drives stream.Update once per incoming event until ctx is cancelled.
func (s *Source) Run(ctx context.Context, driver matrix.Driver) error {
	stream := matrix.NewToStream(s.Translation(), s.logger)
	bitmap := make([]bool, len(s.codes))

	raw := make(chan rawEvent, 64)
	var wg sync.WaitGroup
	for _, dev := range s.devices {
		wg.Add(1)
		go func(dev *Device) {
			defer wg.Done()
			readLoop(ctx, dev, raw)
		}(dev)
	}
	go func() {
		wg.Wait()
		close(raw)
	}()

	lastAt := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-raw:
			if !ok {
				return nil
			}
			idx, ok := s.index[ev.code]
			if !ok {
				continue
			}
			bitmap[idx] = ev.pressed

			ms := ev.at.Sub(lastAt).Milliseconds()
			if ms < 0 {
				ms = 0
			}
			if ms > 65535 {
				ms = 65535
			}
			lastAt = ev.at

			stream.Update(bitmap, driver, uint16(ms))
		}
	}
}
