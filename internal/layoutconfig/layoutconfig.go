// Package layoutconfig loads a declarative YAML description of a whole
// handler chain and builds it against a *keyboard.Keyboard, generalizing
// the teacher's config.Load multi-path search and mappings.Layout
// per-key-table schema from "one Alt-key accent table" into an ordered list
// of arbitrary handlers. internal/config keeps the process-level settings
// (log level, device paths, which layout file to load) separate from this
// package's per-layout keymap data, exactly mirroring the teacher's split
// between Config and Layout.
package layoutconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/halvard/keystream/internal/handler"
	"github.com/halvard/keystream/internal/keyboard"
	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keyout"
	"github.com/halvard/keystream/internal/premade"
	"github.com/halvard/keystream/internal/state"
)

// Layout is the root of a layout YAML file: a name, a description, and an
// ordered chain of handler entries. Entries earlier in the list run first,
// matching the teacher's config-as-ordered-list idiom; an entry may Name
// itself so any other entry, earlier or later, can Target it by name (e.g. a
// space_cadet or toggle_handler entry toggling a layer that appears after it
// in the list).
type Layout struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Chain       []ChainEntry `yaml:"chain"`
}

// ChainEntry is one handler to add to the chain. Type selects which fields
// apply; see the case list in buildEntry.
type ChainEntry struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`

	// rewrite_layer
	Rewrites []RewriteSpec `yaml:"rewrites,omitempty"`

	// layer
	Entries []LayerEntrySpec `yaml:"entries,omitempty"`
	AutoOff string           `yaml:"auto_off,omitempty"`

	// oneshot_shift/ctrl/alt/gui, oneshot_handler, space_cadet,
	// toggle_handler, abort's own trigger
	Trigger           string `yaml:"trigger,omitempty"`
	HeldTimeoutMs     uint16 `yaml:"held_timeout_ms,omitempty"`
	ReleasedTimeoutMs uint16 `yaml:"released_timeout_ms,omitempty"`
	Target            string `yaml:"target,omitempty"`

	// leader
	Failure  string              `yaml:"failure,omitempty"`
	Mappings []LeaderMappingSpec `yaml:"mappings,omitempty"`

	// tapdance
	TimeoutMs uint16      `yaml:"timeout_ms,omitempty"`
	Taps      []TapOutput `yaml:"taps,omitempty"`

	// sequence
	Sequence   []string `yaml:"sequence,omitempty"`
	Backspaces uint8    `yaml:"backspaces,omitempty"`
	Output     string   `yaml:"output,omitempty"`

	// autoshift
	ThresholdMs  uint16 `yaml:"threshold_ms,omitempty"`
	ShiftLetters *bool  `yaml:"shift_letters,omitempty"`
	ShiftNumbers *bool  `yaml:"shift_numbers,omitempty"`
	ShiftSpecial *bool  `yaml:"shift_special,omitempty"`

	// abort
	Overrides []AbortOverride `yaml:"overrides,omitempty"`
}

// RewriteSpec is one From/To substitution entry for a rewrite_layer.
type RewriteSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LayerEntrySpec is one trigger/action entry for a layer. Exactly one of
// To, (To and ToShifted), Output, or (Output and OutputShifted) should be
// set, matching the corresponding handler.LayerActionKind.
type LayerEntrySpec struct {
	Trigger       string `yaml:"trigger"`
	To            string `yaml:"to,omitempty"`
	ToShifted     string `yaml:"to_shifted,omitempty"`
	Output        string `yaml:"output,omitempty"`
	OutputShifted string `yaml:"output_shifted,omitempty"`
}

// LeaderMappingSpec is one leader sequence-to-output entry.
type LeaderMappingSpec struct {
	Sequence []string `yaml:"sequence"`
	Output   string   `yaml:"output"`
}

// TapOutput maps a tap count to the string it sends.
type TapOutput struct {
	Count  uint8  `yaml:"count"`
	Output string `yaml:"output"`
}

// AbortOverride forces handler Target to Enabled whenever an abort entry
// fires.
type AbortOverride struct {
	Target  string `yaml:"target"`
	Enabled bool   `yaml:"enabled"`
}

// Load reads and parses a layout YAML file from path.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layoutconfig: reading %s: %w", path, err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("layoutconfig: parsing %s: %w", path, err)
	}
	return &l, nil
}

// Build adds every chain entry to kb, in order, and returns the name→
// HandlerID map for every named entry (useful for a tray UI that needs to
// show or toggle a named layer directly).
func Build(kb *keyboard.Keyboard, l *Layout) (map[string]state.HandlerID, error) {
	names := make(map[string]state.HandlerID, len(l.Chain))
	for i, e := range l.Chain {
		if e.Name != "" {
			names[e.Name] = state.HandlerID(i)
		}
	}

	for i, e := range l.Chain {
		h, err := buildEntry(kb, e, names)
		if err != nil {
			return nil, fmt.Errorf("layoutconfig: chain entry %d (%s): %w", i, e.Type, err)
		}
		id := kb.AddHandler(h)
		if int(id) != i {
			return nil, fmt.Errorf("layoutconfig: internal error, handler id %d does not match chain position %d", id, i)
		}
	}
	return names, nil
}

func buildEntry(kb *keyboard.Keyboard, e ChainEntry, names map[string]state.HandlerID) (handler.Handler, error) {
	switch e.Type {
	case "rewrite_layer":
		rewrites := make([]handler.Rewrite, len(e.Rewrites))
		for i, r := range e.Rewrites {
			from, err := KeyCode(r.From)
			if err != nil {
				return nil, err
			}
			to, err := KeyCode(r.To)
			if err != nil {
				return nil, err
			}
			rewrites[i] = handler.Rewrite{From: from, To: to}
		}
		return handler.NewRewriteLayer(rewrites), nil

	case "dvorak":
		return premade.Dvorak(), nil

	case "copy_paste":
		return premade.CopyPaste{}, nil

	case "layer":
		entries := make([]handler.LayerEntry, len(e.Entries))
		for i, spec := range e.Entries {
			entry, err := buildLayerEntry(spec)
			if err != nil {
				return nil, err
			}
			entries[i] = entry
		}
		autoOff, err := parseAutoOff(e.AutoOff)
		if err != nil {
			return nil, err
		}
		return handler.NewLayer(entries, autoOff), nil

	case "leader":
		trigger, err := KeyCode(e.Trigger)
		if err != nil {
			return nil, err
		}
		mappings := make([]handler.LeaderMapping, len(e.Mappings))
		for i, m := range e.Mappings {
			seq := make([]keycode.Code, len(m.Sequence))
			for j, name := range m.Sequence {
				kc, err := KeyCode(name)
				if err != nil {
					return nil, err
				}
				seq[j] = kc
			}
			mappings[i] = handler.LeaderMapping{Sequence: seq, Output: m.Output}
		}
		return handler.NewLeader(trigger, mappings, e.Failure), nil

	case "tapdance":
		trigger, err := KeyCode(e.Trigger)
		if err != nil {
			return nil, err
		}
		taps := make(map[uint8]string, len(e.Taps))
		for _, t := range e.Taps {
			taps[t.Count] = t.Output
		}
		timeoutMs := e.TimeoutMs
		if timeoutMs == 0 {
			timeoutMs = handler.DefaultTapDanceTimeoutMs
		}
		td := handler.NewTapDance(trigger, func(tapCount uint8, out keyout.KeyOut) {
			out.SendString(taps[tapCount])
		})
		return td.WithTimeout(timeoutMs), nil

	case "oneshot_shift":
		return premade.OneShotShift(e.HeldTimeoutMs, e.ReleasedTimeoutMs), nil
	case "oneshot_ctrl":
		return premade.OneShotCtrl(e.HeldTimeoutMs, e.ReleasedTimeoutMs), nil
	case "oneshot_alt":
		return premade.OneShotAlt(e.HeldTimeoutMs, e.ReleasedTimeoutMs), nil
	case "oneshot_gui":
		return premade.OneShotGui(e.HeldTimeoutMs, e.ReleasedTimeoutMs), nil

	case "oneshot_handler":
		trigger, err := KeyCode(e.Trigger)
		if err != nil {
			return nil, err
		}
		id, err := resolveTarget(names, e.Target)
		if err != nil {
			return nil, err
		}
		return premade.OneShotHandler(trigger, id, e.HeldTimeoutMs, e.ReleasedTimeoutMs), nil

	case "space_cadet":
		trigger, err := KeyCode(e.Trigger)
		if err != nil {
			return nil, err
		}
		id, err := resolveTarget(names, e.Target)
		if err != nil {
			return nil, err
		}
		return premade.SpaceCadetHandler(trigger, id), nil

	case "toggle_handler":
		trigger, err := KeyCode(e.Trigger)
		if err != nil {
			return nil, err
		}
		id, err := resolveTarget(names, e.Target)
		if err != nil {
			return nil, err
		}
		return premade.ToggleHandler(trigger, id), nil

	case "sequence":
		seq := make([]keycode.Code, len(e.Sequence))
		for i, name := range e.Sequence {
			kc, err := KeyCode(name)
			if err != nil {
				return nil, err
			}
			seq[i] = kc
		}
		return handler.NewSequence(seq, sendStringAction(e.Output), e.Backspaces), nil

	case "autoshift":
		as := handler.NewAutoShift(e.ThresholdMs)
		if e.ShiftLetters != nil {
			as.ShiftLetters = *e.ShiftLetters
		}
		if e.ShiftNumbers != nil {
			as.ShiftNumbers = *e.ShiftNumbers
		}
		if e.ShiftSpecial != nil {
			as.ShiftSpecial = *e.ShiftSpecial
		}
		return as, nil

	case "abort":
		trigger, err := KeyCode(e.Trigger)
		if err != nil {
			return nil, err
		}
		abort := premade.NewActionAbort(kb.ClearAll)
		for _, ov := range e.Overrides {
			id, err := resolveTarget(names, ov.Target)
			if err != nil {
				return nil, err
			}
			abort.SetAbortStatus(id, ov.Enabled)
		}
		return handler.NewPressReleaseMacro(trigger, abort), nil

	default:
		return nil, fmt.Errorf("unknown chain entry type %q", e.Type)
	}
}

func resolveTarget(names map[string]state.HandlerID, name string) (state.HandlerID, error) {
	id, ok := names[name]
	if !ok {
		return 0, fmt.Errorf("target %q does not name a chain entry", name)
	}
	return id, nil
}

func buildLayerEntry(spec LayerEntrySpec) (handler.LayerEntry, error) {
	trigger, err := KeyCode(spec.Trigger)
	if err != nil {
		return handler.LayerEntry{}, err
	}
	switch {
	case spec.Output != "" || spec.OutputShifted != "":
		if spec.OutputShifted != "" {
			return handler.NewLayerEntry(trigger, handler.LayerAction{
				Kind: handler.SendStringShifted, Str: spec.Output, StrShifted: spec.OutputShifted,
			}), nil
		}
		return handler.NewLayerEntry(trigger, handler.LayerAction{Kind: handler.SendString, Str: spec.Output}), nil
	case spec.To != "":
		to, err := KeyCode(spec.To)
		if err != nil {
			return handler.LayerEntry{}, err
		}
		if spec.ToShifted != "" {
			toShifted, err := KeyCode(spec.ToShifted)
			if err != nil {
				return handler.LayerEntry{}, err
			}
			return handler.NewLayerEntry(trigger, handler.LayerAction{
				Kind: handler.RewriteToShifted, To: to, ToShifted: toShifted,
			}), nil
		}
		return handler.NewLayerEntry(trigger, handler.LayerAction{Kind: handler.RewriteTo, To: to}), nil
	default:
		return handler.LayerEntry{}, fmt.Errorf("layer entry for %q has neither to nor output", spec.Trigger)
	}
}

func parseAutoOff(s string) (handler.AutoOff, error) {
	switch s {
	case "", "no":
		return handler.AutoOffNo, nil
	case "after_match":
		return handler.AutoOffAfterMatch, nil
	case "after_non_modifier":
		return handler.AutoOffAfterNonModifier, nil
	case "after_all":
		return handler.AutoOffAfterAll, nil
	default:
		return 0, fmt.Errorf("unknown auto_off policy %q", s)
	}
}

// sendStringAction adapts a plain output string into the handler.Action a
// Sequence fires on completion.
type sendStringAction string

func (a sendStringAction) OnTrigger(out keyout.KeyOut) { out.SendString(string(a)) }
