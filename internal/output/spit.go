// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/xoctl/internal/attrs"
	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/log"
)

// Formats accepted by --output.
var Formats = []string{"text", "json", "yaml", "raw"}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Rows extracts every attr of every object into a row keyed by the attr's
// OutputKey, applying transforms. Hidden attrs are kept for sorting.
func Rows(objects []gjson.Result, list attrs.AttrList) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(objects))
	for _, obj := range objects {
		row := make(map[string]interface{}, len(list))
		for i := range list {
			attr := &list[i]
			if attr.Key == "*" {
				continue
			}
			value := obj.Get(attr.Key).Value()
			if attr.TransformSpec != "" {
				value = attr.Transform(value)
			}
			row[attr.OutputKey] = value
		}
		rows = append(rows, row)
	}
	return rows
}

// SliceDiceSpit shapes, sorts and renders objects according to the command's
// --output, --sort, --titles, --color, --padding and --count flags. If w is
// nil, os.Stdout is used.
func SliceDiceSpit(objects []gjson.Result, list attrs.AttrList, cmd *cli.Command, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	output := cmd.String("output")
	if output == "raw" {
		raw := make([]json.RawMessage, 0, len(objects))
		for _, obj := range objects {
			raw = append(raw, json.RawMessage(obj.Raw))
		}
		b, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	list.SetGlobalTransformSpec()
	rows := Rows(objects, list)
	SortDataset(rows, cmd.String("sort"))

	switch output {
	case "json", "yaml":
		shown := project(rows, list.Included())
		var (
			b   []byte
			err error
		)
		if output == "json" {
			b, err = json.Marshal(shown)
			b = append(b, '\n')
		} else {
			b, err = yaml.Marshal(shown)
		}
		if err != nil {
			log.Errorf("SliceDiceSpit %s marshal: %v", output, err)
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(rows, list, cmd, w)
	}

	return nil
}

// project drops hidden columns from each row.
func project(rows []map[string]interface{}, included attrs.AttrList) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		shown := make(map[string]interface{}, len(included))
		for _, attr := range included {
			shown[attr.OutputKey] = row[attr.OutputKey]
		}
		out = append(out, shown)
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color,
// titles, padding and count options. If w is nil, os.Stdout is used.
func TableWriter(
	resultSet []map[string]interface{},
	list attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	if cmd.Metadata["header"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["header"].(string)))
	}

	included := list.Included()
	if len(resultSet) > 0 && len(included) > 0 {
		var rows [][]string
		for _, result := range resultSet {
			row := make([]string, 0, len(included))
			for _, attr := range included {
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
			rows = append(rows, row)
		}

		pad := cmd.Int("padding")
		t := table.New().
			BorderBottom(false).
			BorderTop(false).
			BorderLeft(false).
			BorderRight(false).
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				var style lipgloss.Style
				switch {
				case row == table.HeaderRow:
					style = headerStyle
				case row%2 == 0:
					style = evenRowStyle
				default:
					style = oddRowStyle
				}

				if col > 0 {
					style = style.PaddingLeft(pad)
				}

				return style
			}).
			Headers().
			Rows(rows...)

		if cmd.Bool("titles") {
			headers := make([]string, 0, len(included))
			for _, attr := range included {
				headers = append(headers, strings.ToUpper(attr.OutputKey))
			}

			// https://github.com/charmbracelet/lipgloss/issues/261
			t = t.Headers(headers...).BorderHeader(false)
		}
		fmt.Fprintln(w, t)
	}

	if cmd.Bool("count") {
		fmt.Fprintln(w, headerStyle.Render(CountFooter(len(resultSet), "object")))
	}
}

// CountFooter renders n with thousands separators and a naive plural.
func CountFooter(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return humanize.Comma(int64(n)) + " " + noun
}

// getColors returns configured color values for table rendering. When a color
// is not configured, a default is picked for the terminal's background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
