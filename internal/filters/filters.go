// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/tfctl/xoctl/internal/tristate"
)

// Recognized object types.
const (
	TypeHost = "host"
	TypePool = "pool"
	TypeSR   = "sr"
	TypeVM   = "vm"
)

// Recognized power states.
const (
	StateRunning      = "running"
	StateHalted       = "halted"
	StateDisconnected = "disconnected"
	StateUnpatched    = "unpatched"
)

// TypeKeys and StateKeys are the closed flag vocabularies of the two
// dimensions.
var (
	TypeKeys  = []string{TypeHost, TypePool, TypeSR, TypeVM}
	StateKeys = []string{StateRunning, StateHalted, StateDisconnected, StateUnpatched}
)

const (
	flagPrefix   = "*"
	negatePrefix = "!"
)

// Dimensions is the active filter: one tri-state dimension over object types
// and one over power states.
type Dimensions struct {
	Types  *tristate.Dimension `yaml:"-" json:"-"`
	States *tristate.Dimension `yaml:"-" json:"-"`
}

// NewDimensions returns both dimensions with every key Neutral.
func NewDimensions() Dimensions {
	return Dimensions{
		Types:  tristate.NewDimension(TypeKeys...),
		States: tristate.NewDimension(StateKeys...),
	}
}

// Query is the result of parsing the list search box.
type Query struct {
	Dimensions
	// Keywords are the non-flag tokens in input order, case preserved.
	Keywords []string
}

// Search returns the effective search string: the keywords joined by single
// spaces.
func (q Query) Search() string {
	return strings.Join(q.Keywords, " ")
}

// String renders the query back in canonical form: flags first, types before
// states, then the keywords.
func (q Query) String() string {
	var parts []string
	for _, p := range []string{q.Types.String(), q.States.String(), q.Search()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Parse derives a Query from the full text of the search box. Parsing is not
// incremental: every call starts from all-Neutral dimensions.
//
// A token starting with '*' or '!' is a flag. A leading '!' negates the flag
// and is stripped first, then a single '*'. The remaining text, lower-cased,
// is looked up in the types then the states vocabulary and set to Excluded
// (negated) or Required. Flags that match nothing are dropped; they never
// become keywords. Every other token is a keyword.
func Parse(text string) Query {
	q := Query{Dimensions: NewDimensions()}

	for _, word := range strings.Fields(text) {
		isFlag := strings.HasPrefix(word, flagPrefix) || strings.HasPrefix(word, negatePrefix)
		if !isFlag {
			q.Keywords = append(q.Keywords, word)
			continue
		}

		negate := strings.HasPrefix(word, negatePrefix)
		option := strings.TrimPrefix(word, negatePrefix)
		option = strings.ToLower(strings.TrimPrefix(option, flagPrefix))

		state := tristate.Required
		if negate {
			state = tristate.Excluded
		}

		switch {
		case q.Types.Set(option, state):
		case q.States.Set(option, state):
		default:
			log.Debugf("dropping unknown filter flag: %s", word)
		}
	}

	return q
}

// Object is the part of a managed object the filter looks at. Type is
// required; an object without one is a caller error and is only constrained
// by the power state dimension. PowerState is empty for objects without a
// notion of power, such as storage repositories.
type Object struct {
	Type       string `yaml:"type" json:"type"`
	PowerState string `yaml:"power_state" json:"power_state"`
}

// ObjectFromJSON reads the type and power_state fields of a JSON object.
func ObjectFromJSON(candidate gjson.Result) Object {
	return Object{
		Type:       candidate.Get("type").String(),
		PowerState: candidate.Get("power_state").String(),
	}
}

// Evaluate reports whether obj passes the filter d.
//
// A running or halted flag means the user only wants power-bearing objects,
// so objects without a power state are rejected. Otherwise the lower-cased
// power state and type must each be admitted by their dimension.
func Evaluate(obj Object, d Dimensions) bool {
	powerState := strings.ToLower(obj.PowerState)

	if powerState == "" {
		if !d.States.AllNeutral(StateRunning, StateHalted) {
			return false
		}
	} else if !d.States.Admits(powerState) {
		return false
	}

	return d.Types.Admits(strings.ToLower(obj.Type))
}

// FilterDataset returns the candidates passing both halves of the query: the
// flag dimensions and the keyword search.
func FilterDataset(candidates gjson.Result, q Query) []gjson.Result {
	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var filtered []gjson.Result

	search := q.Search()
	all := candidates.Array()
	for _, candidate := range all {
		if !Evaluate(ObjectFromJSON(candidate), q.Dimensions) {
			continue
		}
		if !MatchesSearch(candidate, search) {
			continue
		}
		filtered = append(filtered, candidate)
	}

	log.Debugf("filtered %d of %d candidates with %q", len(filtered), len(all), q.String())

	return filtered
}

// MatchesSearch reports whether search appears, ignoring case, in any string
// or number leaf of candidate. An empty search matches everything.
func MatchesSearch(candidate gjson.Result, search string) bool {
	if search == "" {
		return true
	}
	return containsFold(candidate, strings.ToLower(search))
}

func containsFold(value gjson.Result, needle string) bool {
	switch value.Type {
	case gjson.String, gjson.Number:
		return strings.Contains(strings.ToLower(value.String()), needle)
	case gjson.JSON:
		found := false
		value.ForEach(func(_, v gjson.Result) bool {
			found = containsFold(v, needle)
			return !found
		})
		return found
	default:
		return false
	}
}
