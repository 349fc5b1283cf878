// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tristate

import (
	"fmt"
	"strings"
)

// State is the disposition of a single filter key.
type State int

// The numeric values match the ones persisted by the console (0/1/2).
const (
	Excluded State = iota
	Required
	Neutral
)

func (s State) String() string {
	switch s {
	case Excluded:
		return "excluded"
	case Required:
		return "required"
	case Neutral:
		return "neutral"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Excluded, Required, Neutral:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid state: %d", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "excluded":
		*s = Excluded
	case "required":
		*s = Required
	case "neutral", "":
		*s = Neutral
	default:
		return fmt.Errorf("invalid state: %q", string(text))
	}
	return nil
}

// Dimension is a closed, ordered set of keys each holding a State. Keys are
// fixed at construction; Set on an unknown key is a no-op.
type Dimension struct {
	keys     []string
	states   map[string]State
	required int
}

// NewDimension returns a dimension over keys with every key Neutral.
// Duplicate keys are collapsed.
func NewDimension(keys ...string) *Dimension {
	d := &Dimension{states: make(map[string]State, len(keys))}
	for _, k := range keys {
		if _, dup := d.states[k]; dup {
			continue
		}
		d.keys = append(d.keys, k)
		d.states[k] = Neutral
	}
	return d
}

// Keys returns the recognized keys in construction order.
func (d *Dimension) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Has reports whether key is part of the dimension.
func (d *Dimension) Has(key string) bool {
	_, ok := d.states[key]
	return ok
}

// Get returns the state of key and whether the key is recognized.
func (d *Dimension) Get(key string) (State, bool) {
	s, ok := d.states[key]
	return s, ok
}

// Set assigns state to key. It returns false and leaves the dimension
// untouched when key is not recognized.
func (d *Dimension) Set(key string, state State) bool {
	prev, ok := d.states[key]
	if !ok {
		return false
	}
	if prev == Required {
		d.required--
	}
	if state == Required {
		d.required++
	}
	d.states[key] = state
	return true
}

// Reset puts every key back to Neutral.
func (d *Dimension) Reset() {
	for _, k := range d.keys {
		d.states[k] = Neutral
	}
	d.required = 0
}

// Clone returns an independent copy.
func (d *Dimension) Clone() *Dimension {
	c := NewDimension(d.keys...)
	for k, s := range d.states {
		c.Set(k, s)
	}
	return c
}

// HasRequired reports whether the dimension is in whitelist mode.
func (d *Dimension) HasRequired() bool {
	return d.required > 0
}

// AllNeutral reports whether each of keys is Neutral. With no keys, every
// key of the dimension is checked. Unknown keys count as Neutral.
func (d *Dimension) AllNeutral(keys ...string) bool {
	if len(keys) == 0 {
		keys = d.keys
	}
	for _, k := range keys {
		if s, ok := d.states[k]; ok && s != Neutral {
			return false
		}
	}
	return true
}

// Admits reports whether a value carrying key passes this dimension.
// Excluded always rejects; Neutral rejects in whitelist mode. A key the
// dimension does not know is never constrained by it.
func (d *Dimension) Admits(key string) bool {
	s, ok := d.states[key]
	if !ok {
		return true
	}
	switch s {
	case Excluded:
		return false
	case Neutral:
		return !d.HasRequired()
	default:
		return true
	}
}

// Map returns a snapshot of the key states.
func (d *Dimension) Map() map[string]State {
	m := make(map[string]State, len(d.keys))
	for k, s := range d.states {
		m[k] = s
	}
	return m
}

// String renders non-neutral keys as query flags, e.g. "*vm !halted".
func (d *Dimension) String() string {
	var parts []string
	for _, k := range d.keys {
		switch d.states[k] {
		case Required:
			parts = append(parts, "*"+k)
		case Excluded:
			parts = append(parts, "!"+k)
		}
	}
	return strings.Join(parts, " ")
}
