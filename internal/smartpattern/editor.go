// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package smartpattern

import (
	"strings"

	"github.com/apex/log"
)

// Editor applies selector changes to a Pattern. Each mutation replaces one
// sub-pattern, leaves the others alone, and hands the complete new pattern to
// onChange.
type Editor struct {
	pattern  Pattern
	onChange func(Pattern)
}

// NewEditor returns an Editor over p. onChange may be nil.
func NewEditor(p Pattern, onChange func(Pattern)) *Editor {
	return &Editor{pattern: p, onChange: onChange}
}

// Pattern returns the current pattern.
func (e *Editor) Pattern() Pattern {
	return e.pattern
}

// PowerState returns the selected power state, PowerStateAll when unset.
func (e *Editor) PowerState() string {
	if e.pattern.PowerState == "" {
		return PowerStateAll
	}
	return e.pattern.PowerState
}

// Pools returns the pool selection currently compiled in the pattern.
func (e *Editor) Pools() Selection {
	return DestructPattern(e.pattern.Pool, nil)
}

// Tags returns the tag selection currently compiled in the pattern.
func (e *Editor) Tags() Selection {
	return DestructPattern(e.pattern.Tags, Flatten)
}

func (e *Editor) setPattern(update func(*Pattern)) {
	next := e.pattern
	update(&next)
	e.pattern = next
	log.Debugf("smart pattern updated: power_state=%q pools=%v tags=%v", next.PowerState, e.Pools(), e.Tags())
	if e.onChange != nil {
		e.onChange(next)
	}
}

// SetPowerState stores value, or clears the constraint when value is empty or
// PowerStateAll.
func (e *Editor) SetPowerState(value string) {
	if strings.EqualFold(value, PowerStateAll) {
		value = ""
	}
	e.setPattern(func(p *Pattern) {
		p.PowerState = value
	})
}

// setPoolPattern recompiles the pool sub-pattern. A nil side keeps its
// current value.
func (e *Editor) setPoolPattern(sel Selection) {
	current := e.Pools()
	if sel.Values == nil {
		sel.Values = current.Values
	}
	if sel.NotValues == nil {
		sel.NotValues = current.NotValues
	}
	e.setPattern(func(p *Pattern) {
		p.Pool = ConstructPattern(sel, ResolveIDs)
	})
}

// SetPoolValues replaces the pools VMs must reside on. Pass an empty, non-nil
// slice to clear them.
func (e *Editor) SetPoolValues(values []string) {
	e.setPoolPattern(Selection{Values: values})
}

// SetPoolNotValues replaces the pools VMs must not reside on.
func (e *Editor) SetPoolNotValues(notValues []string) {
	e.setPoolPattern(Selection{NotValues: notValues})
}

func (e *Editor) setTagPattern(sel Selection) {
	current := e.Tags()
	if sel.Values == nil {
		sel.Values = current.Values
	}
	if sel.NotValues == nil {
		sel.NotValues = current.NotValues
	}
	e.setPattern(func(p *Pattern) {
		p.Tags = ConstructPattern(sel, NormalizeTagValues)
	})
}

// SetTagValues replaces the tags VMs must carry.
func (e *Editor) SetTagValues(values []string) {
	e.setTagPattern(Selection{Values: values})
}

// SetTagNotValues replaces the tags excluding VMs.
func (e *Editor) SetTagNotValues(notValues []string) {
	e.setTagPattern(Selection{NotValues: notValues})
}

// ClearPools drops the pool constraint altogether.
func (e *Editor) ClearPools() {
	e.setPattern(func(p *Pattern) {
		p.Pool = nil
	})
}

// ClearTags drops the tag constraint altogether.
func (e *Editor) ClearTags() {
	e.setPattern(func(p *Pattern) {
		p.Tags = nil
	})
}
