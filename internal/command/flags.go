// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewGlobalFlags returns the output shaping flags shared by listing commands.
// Defaults come from XOCTL_* env vars, then ns.<flag> and <flag> in the config
// file at path.
func NewGlobalFlags(ns string, path string) []cli.Flag {
	attrsFlag := &cli.StringFlag{
		Name:    "attrs",
		Aliases: []string{"a"},
		Usage:   "comma-separated list of columns (key[:title[:transform]])",
	}
	colorFlag := &cli.BoolFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output",
		Sources: cli.NewValueSourceChain(cli.EnvVar("XOCTL_COLOR")),
	}
	countFlag := &cli.BoolFlag{
		Name:  "count",
		Usage: "print the number of matching objects",
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (text, json, yaml, raw)",
		Value:   "text",
		Sources: cli.NewValueSourceChain(cli.EnvVar("XOCTL_OUTPUT")),
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	paddingFlag := &cli.IntFlag{
		Name:   "padding",
		Usage:  "spaces between text columns",
		Value:  2,
		Hidden: true,
	}
	sortFlag := &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "comma-separated list of columns to sort by (-desc, !case-sensitive)",
	}
	titlesFlag := &cli.BoolFlag{
		Name:    "titles",
		Aliases: []string{"t"},
		Usage:   "show titles with text output",
	}

	addConfigSources(ns, path, "attrs", &attrsFlag.Sources)
	addConfigSources(ns, path, "color", &colorFlag.Sources)
	addConfigSources(ns, path, "output", &outputFlag.Sources)
	addConfigSources(ns, path, "padding", &paddingFlag.Sources)
	addConfigSources(ns, path, "sort", &sortFlag.Sources)
	addConfigSources(ns, path, "titles", &titlesFlag.Sources)

	return []cli.Flag{attrsFlag, colorFlag, countFlag, outputFlag, paddingFlag, sortFlag, titlesFlag}
}

// NewInventoryFlag constructs the --inventory flag. The positional argument,
// when present, wins over it.
func NewInventoryFlag(ns string, path string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "inventory",
		Aliases: []string{"i"},
		Usage:   "inventory file exported from the console, - for stdin",
		Sources: cli.NewValueSourceChain(cli.EnvVar("XOCTL_INVENTORY")),
	}
	addConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// NewQueryFlag constructs the --query flag holding a filter query such as
// "*vm !halted web".
func NewQueryFlag(ns string, path string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "filter query: *type, !type, *state, !state and search words",
	}
	addConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// addConfigSources appends the namespaced and global config file sources for
// name to chain. Nothing is added without a config file.
func addConfigSources(ns string, path string, name string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
}
