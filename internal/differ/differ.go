// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/xoctl/internal/log"
)

// Identical is printed when the two documents do not differ.
const Identical = "The patterns are identical."

// Diff writes an annotated rendering of after against before to w. Both
// arguments are JSON objects. It reports whether anything changed.
func Diff(w io.Writer, before, after []byte, coloring bool) (bool, error) {
	log.Debugf("diff: len(before)=%d len(after)=%d", len(before), len(after))

	before = emptyObject(before)
	after = emptyObject(after)

	delta, err := gojsondiff.New().Compare(before, after)
	if err != nil {
		return false, fmt.Errorf("failed to compare patterns: %w", err)
	}

	if !delta.Modified() {
		_, err := fmt.Fprintln(w, Identical)
		return false, err
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(before, &jdoc); err != nil {
		return true, fmt.Errorf("failed to unmarshal pattern: %w", err)
	}

	f := formatter.NewAsciiFormatter(jdoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	})
	out, err := f.Format(delta)
	if err != nil {
		return true, err
	}

	_, err = fmt.Fprint(w, out)
	return true, err
}

func emptyObject(doc []byte) []byte {
	if len(doc) == 0 {
		return []byte("{}")
	}
	return doc
}
