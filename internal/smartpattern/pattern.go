// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package smartpattern

import (
	"encoding/json"
	"slices"
)

// PowerStateAll is the selector sentinel meaning "any power state".
const PowerStateAll = "All"

// Selection is what the selectors show: the chosen values and the excluded
// ones. A nil side is undefined, which is not the same as empty.
type Selection struct {
	Values    []string `yaml:"values,omitempty" json:"values,omitempty"`
	NotValues []string `yaml:"notValues,omitempty" json:"notValues,omitempty"`
}

// SubPattern is the compiled form of a Selection. T is string for pools and
// []string for tags.
type SubPattern[T any] struct {
	Values    []T `yaml:"values,omitempty" json:"values,omitempty"`
	NotValues []T `yaml:"notValues,omitempty" json:"notValues,omitempty"`
}

// subPatternWire omits only undefined sides, so an empty side survives a
// save and reload.
type subPatternWire[T any] struct {
	Values    *[]T `yaml:"values,omitempty" json:"values,omitempty"`
	NotValues *[]T `yaml:"notValues,omitempty" json:"notValues,omitempty"`
}

func (p SubPattern[T]) wire() subPatternWire[T] {
	var w subPatternWire[T]
	if p.Values != nil {
		w.Values = &p.Values
	}
	if p.NotValues != nil {
		w.NotValues = &p.NotValues
	}
	return w
}

// MarshalJSON implements json.Marshaler.
func (p SubPattern[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// MarshalYAML implements yaml.Marshaler.
func (p SubPattern[T]) MarshalYAML() (interface{}, error) {
	return p.wire(), nil
}

// Pattern is the smart selection rule stored under the "vms" key of a backup
// job. A nil sub-pattern means no constraint.
type Pattern struct {
	Type       string                `yaml:"type,omitempty" json:"type,omitempty"`
	PowerState string                `yaml:"power_state,omitempty" json:"power_state,omitempty"`
	Pool       *SubPattern[string]   `yaml:"$pool,omitempty" json:"$pool,omitempty"`
	Tags       *SubPattern[[]string] `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// ConstructPattern compiles sel with normalize applied to both sides.
func ConstructPattern[T any](sel Selection, normalize func([]string) []T) *SubPattern[T] {
	return &SubPattern[T]{
		Values:    normalize(sel.Values),
		NotValues: normalize(sel.NotValues),
	}
}

// DestructPattern is the inverse of ConstructPattern. A nil pattern yields
// the zero Selection. A nil unwrap is the identity and only makes sense for
// SubPattern[string]; for any other T it yields undefined sides.
func DestructPattern[T any](p *SubPattern[T], unwrap func([]T) []string) Selection {
	if p == nil {
		return Selection{}
	}
	if unwrap == nil {
		unwrap = identity[T]
	}
	return Selection{
		Values:    unwrap(p.Values),
		NotValues: unwrap(p.NotValues),
	}
}

func identity[T any](values []T) []string {
	ids, _ := any(values).([]string)
	return slices.Clone(ids)
}

// ResolveIDs normalizes pool identifiers. They are already canonical, so it
// returns a copy.
func ResolveIDs(values []string) []string {
	return slices.Clone(values)
}

// NormalizeTagValues wraps every tag in a group of its own. The outer list is
// reserved for groups of several tags that must all be present. A defined but
// empty list becomes a single empty group.
func NormalizeTagValues(values []string) [][]string {
	if values == nil {
		return nil
	}
	if len(values) == 0 {
		return [][]string{{}}
	}

	groups := make([][]string, 0, len(values))
	for _, v := range values {
		groups = append(groups, []string{v})
	}
	return groups
}

// Flatten is the inverse of NormalizeTagValues.
func Flatten(groups [][]string) []string {
	if groups == nil {
		return nil
	}

	flat := []string{}
	for _, g := range groups {
		flat = append(flat, g...)
	}
	return flat
}
