// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/filters"
	"github.com/tfctl/xoctl/internal/meta"
	"github.com/tfctl/xoctl/internal/tristate"
)

// parsedQuery is the serialized form of a filters.Query.
type parsedQuery struct {
	Types    map[string]tristate.State `json:"types" yaml:"types"`
	States   map[string]tristate.State `json:"states" yaml:"states"`
	Search   string                    `json:"search" yaml:"search"`
	Keywords []string                  `json:"keywords" yaml:"keywords"`
}

func newParsedQuery(q filters.Query) parsedQuery {
	keywords := q.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return parsedQuery{
		Types:    q.Types.Map(),
		States:   q.States.Map(),
		Search:   q.Search(),
		Keywords: keywords,
	}
}

// parseCommandAction shows how a query is understood: the state of every
// type and power state key plus the remaining search string.
func parseCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", GetMeta(cmd).Args)

	config.Config.Namespace = "parse"

	q := filters.Parse(strings.Join(cmd.Args().Slice(), " "))
	return writeParsedQuery(cmd.Root().Writer, q, cmd.String("output"))
}

func writeParsedQuery(w io.Writer, q filters.Query, format string) error {
	switch format {
	case "json", "raw":
		b, err := json.Marshal(newParsedQuery(q))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(newParsedQuery(q))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	fmt.Fprintf(w, "query:  %s\n", q)
	for _, d := range []struct {
		name string
		dim  *tristate.Dimension
	}{{"types", q.Types}, {"states", q.States}} {
		var cells []string
		for _, k := range d.dim.Keys() {
			s, _ := d.dim.Get(k)
			cells = append(cells, k+"="+s.String())
		}
		fmt.Fprintf(w, "%-7s %s\n", d.name+":", strings.Join(cells, " "))
	}
	_, err := fmt.Fprintf(w, "search: %q\n", q.Search())
	return err
}

// parseCommandBuilder constructs the cli.Command for "parse".
func parseCommandBuilder(meta meta.Meta) *cli.Command {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (text, json, yaml)",
		Value:   "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	addConfigSources("parse", meta.Config.Source, outputFlag.Name, &outputFlag.Sources)

	return &cli.Command{
		Name:      "parse",
		Usage:     "show how a filter query is parsed",
		UsageText: "xoctl parse <query words...> [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  []cli.Flag{outputFlag},
		Action: parseCommandAction,
	}
}
