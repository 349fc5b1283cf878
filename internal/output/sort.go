// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"slices"
	"strings"
)

// sortKey is one comma separated field of a --sort spec. A leading - sorts
// descending, a following ! compares case-sensitively.
type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		k := sortKey{}
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			k.descending = true
		}
		if strings.HasPrefix(field, "!") {
			field = field[1:]
			k.caseSensitive = true
		}
		if field == "" {
			continue
		}
		k.field = field
		keys = append(keys, k)
	}
	return keys
}

// SortDataset stable-sorts rows by the OutputKeys named in spec, e.g.
// "power_state,-name_label". Numbers compare numerically, everything else as
// strings.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(resultSet, func(one, two map[string]interface{}) int {
		for _, k := range keys {
			c := compareValues(one[k.field], two[k.field], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return -c
			}
			return c
		}
		return 0
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return cmp.Compare(an, bn)
	}

	as := InterfaceToString(a)
	bs := InterfaceToString(b)
	if !caseSensitive {
		as = strings.ToLower(as)
		bs = strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
