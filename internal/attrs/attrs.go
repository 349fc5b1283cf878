// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/xoctl/internal/log"
)

// Attr is one output column. Key is a gjson path evaluated against each
// inventory object.
type Attr struct {
	// The gjson path to extract from the object.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it only used for sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output. Also the column title when output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Defaults returns the columns every listing starts with.
func Defaults() AttrList {
	return AttrList{
		{Key: "type", OutputKey: "type", Include: true},
		{Key: "name_label", OutputKey: "name_label", Include: true},
		{Key: "power_state", OutputKey: "power_state", Include: true},
		{Key: `\$pool`, OutputKey: "pool", Include: false},
		{Key: "id", OutputKey: "id", Include: true},
	}
}

var lengthRe = regexp.MustCompile(`-?\d+`)

// Transform applies the attribute's transform spec to a value and returns the
// transformed result.
//
//	b    byte count, humanized (memory.size → "4.0 GiB")
//	t/T  unix seconds as local time / time ago
//	u/l  upper / lower case, last one wins
//	N    truncate to N characters, -N elides the middle
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	if n, ok := value.(float64); ok {
		switch {
		case strings.Contains(a.TransformSpec, "b"):
			if n < 0 {
				return value
			}
			value = humanize.IBytes(uint64(n))
			log.Tracef("bytes: result=%v", value)
		case strings.ContainsAny(a.TransformSpec, "tT"):
			if n <= 0 {
				return value
			}
			local := time.Unix(int64(n), 0).Local()
			if strings.Contains(a.TransformSpec, "T") {
				value = humanize.Time(local)
			} else {
				value = local.Format("2006-01-02T15:04:05MST")
			}
			log.Tracef("time: result=%v", value)
		}
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	// The later case letter wins so a per-column spec overrides a global one
	// prepended by SetGlobalTransformSpec. --attrs '*::U,name_label::l' is lower.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	match := lengthRe.FindAllString(a.TransformSpec, -1)
	if len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs {
			if l < 0 {
				lr := abs/2 - 1
				if lr < 1 {
					lr = 1
				}
				result = result[0:lr] + ".." + result[len(result)-lr:]
				log.Tracef("length middle: result=%s", result)
			} else {
				result = result[:l]
				log.Tracef("length trunc: result=%s", result)
			}
		}
	}

	return result
}

// AttrList is a collection of Attr used to shape output columns.
type AttrList []Attr

// Set parses each comma separated spec from --attrs and merges it into the
// list. A spec is key[:title[:transform]]. A leading ! keeps the column for
// sorting but hides it. The key * only carries a global transform.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	specs := strings.Split(value, ",")
	log.Debugf("specs split: specs=%v", specs)
specloop:
	for _, spec := range specs {
		attr := Attr{Include: true}

		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		attr.Key = strings.TrimPrefix(strings.TrimSpace(fields[keyIdx]), ".")
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		} else {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// $pool is not a valid gjson path on its own.
		if strings.HasPrefix(attr.Key, "$") {
			attr.Key = `\` + attr.Key
			attr.OutputKey = strings.TrimPrefix(attr.OutputKey, "$")
		}

		// A spec naming an existing column (a default or a repeat) updates it.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform of the * attr, if any, to
// every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() {
	spec := ""
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		return
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("global spec prepended: spec=%s", spec)
}

// Included returns the attrs that are rendered.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include && attr.Key != "*" {
			out = append(out, attr)
		}
	}
	return out
}

// String returns the list in --attrs syntax.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}
