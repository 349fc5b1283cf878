// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package smartpattern

import (
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Match reports whether vm is selected by p. It backs the preview shown next
// to the selectors; the backup engine keeps its own matcher.
//
// Power state compares case-insensitively. Pool values match the VM's $pool.
// A tag group matches when the VM carries every tag of the group; a VM is
// kept when some value group matches (or there are none) and no notValues
// group does. Empty groups are ignored.
func Match(vm gjson.Result, p Pattern) bool {
	if p.Type != "" && !strings.EqualFold(vm.Get("type").String(), p.Type) {
		return false
	}

	if p.PowerState != "" && !strings.EqualFold(vm.Get("power_state").String(), p.PowerState) {
		return false
	}

	if p.Pool != nil {
		pool := vm.Get(`\$pool`).String()
		if len(p.Pool.Values) > 0 && !slices.Contains(p.Pool.Values, pool) {
			return false
		}
		if slices.Contains(p.Pool.NotValues, pool) {
			return false
		}
	}

	if p.Tags != nil {
		var tags []string
		for _, t := range vm.Get("tags").Array() {
			tags = append(tags, t.String())
		}
		if values := nonEmpty(p.Tags.Values); len(values) > 0 && !anyGroup(values, tags) {
			return false
		}
		if anyGroup(p.Tags.NotValues, tags) {
			return false
		}
	}

	return true
}

func anyGroup(groups [][]string, tags []string) bool {
	for _, g := range nonEmpty(groups) {
		all := true
		for _, t := range g {
			if !slices.Contains(tags, t) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func nonEmpty(groups [][]string) [][]string {
	var result [][]string
	for _, g := range groups {
		if len(g) > 0 {
			result = append(result, g)
		}
	}
	return result
}

// Preview returns the VMs selected by p, in order.
func Preview(vms []gjson.Result, p Pattern) []gjson.Result {
	var selected []gjson.Result
	for _, vm := range vms {
		if Match(vm, p) {
			selected = append(selected, vm)
		}
	}
	return selected
}
