// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Host is the subset of a host object used to decide pool eligibility.
type Host struct {
	ID        string `json:"id"`
	NameLabel string `json:"name_label"`
	Version   string `json:"version"`
	Pool      string `json:"$pool"`
}

// Pool is the subset of a pool object shown in selectors.
type Pool struct {
	ID        string `json:"id"`
	NameLabel string `json:"name_label"`
	Master    string `json:"master"`
}

// Inventory is a read-only snapshot of managed objects, as exported by the
// console (a JSON array, a JSON object keyed by id, or the YAML equivalent).
type Inventory struct {
	Source  string
	objects gjson.Result
}

// Load reads an inventory from path, or from stdin when path is "-".
func Load(path string) (*Inventory, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	inv.Source = path

	log.Debugf("inventory loaded: source=%s objects=%d", path, inv.Len())
	return inv, nil
}

// Parse builds an Inventory from JSON or YAML. A top-level object is taken to
// be a collection keyed by object id; its values are used in key order.
func Parse(data []byte) (*Inventory, error) {
	if !gjson.ValidBytes(data) {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		return &Inventory{objects: root}, nil
	case root.IsObject():
		return &Inventory{objects: objectValues(root)}, nil
	case root.Type == gjson.Null || strings.TrimSpace(root.Raw) == "":
		return &Inventory{objects: gjson.Parse("[]")}, nil
	default:
		return nil, fmt.Errorf("unexpected inventory document: %s", root.Type)
	}
}

// objectValues turns {"id1": {...}, "id2": {...}} into [{...}, {...}] sorted
// by key so that output is stable.
func objectValues(root gjson.Result) gjson.Result {
	m := root.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raws := make([]string, 0, len(keys))
	for _, k := range keys {
		if m[k].IsObject() {
			raws = append(raws, m[k].Raw)
		}
	}
	return gjson.Parse("[" + strings.Join(raws, ",") + "]")
}

// Objects returns every object as a JSON array.
func (inv *Inventory) Objects() gjson.Result {
	return inv.objects
}

// Len returns the number of objects.
func (inv *Inventory) Len() int {
	return len(inv.objects.Array())
}

// OfType returns the objects whose type matches t, ignoring case.
func (inv *Inventory) OfType(t string) []gjson.Result {
	var result []gjson.Result
	for _, o := range inv.objects.Array() {
		if strings.EqualFold(o.Get("type").String(), t) {
			result = append(result, o)
		}
	}
	return result
}

// VMs returns the virtual machine objects.
func (inv *Inventory) VMs() []gjson.Result {
	return inv.OfType("VM")
}

// Hosts returns the host objects keyed by id.
func (inv *Inventory) Hosts() map[string]Host {
	hosts := make(map[string]Host)
	for _, o := range inv.OfType("host") {
		h := Host{
			ID:        o.Get("id").String(),
			NameLabel: o.Get("name_label").String(),
			Version:   o.Get("version").String(),
			Pool:      o.Get(`\$pool`).String(),
		}
		hosts[h.ID] = h
	}
	return hosts
}

// Pools returns the pool objects in inventory order.
func (inv *Inventory) Pools() []Pool {
	//nolint:prealloc
	var pools []Pool
	for _, o := range inv.OfType("pool") {
		pools = append(pools, Pool{
			ID:        o.Get("id").String(),
			NameLabel: o.Get("name_label").String(),
			Master:    o.Get("master").String(),
		})
	}
	return pools
}
