// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/filters"
	"github.com/tfctl/xoctl/internal/meta"
	"github.com/tfctl/xoctl/internal/output"
)

// lsCommandAction lists the inventory objects admitted by --query. Positional
// words other than the inventory are appended to the query, so
// `xoctl ls inv.json '*vm' '!halted'` needs no --query.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	config.Config.Namespace = "ls"

	path, words, err := splitArgs(cmd)
	if err != nil {
		return err
	}
	inv, err := loadInventory(cmd, path)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(cmd.String("query") + " " + strings.Join(words, " "))
	q := filters.Parse(text)
	log.Debugf("query: %s", q)

	al, err := BuildAttrs(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("titles") && text != "" {
		cmd.Metadata["header"] = "query: " + q.String()
	}

	return output.SliceDiceSpit(filters.FilterDataset(inv.Objects(), q), al, cmd, cmd.Root().Writer)
}

// lsCommandBuilder constructs the cli.Command for "ls".
func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list inventory objects matching a filter query",
		UsageText: "xoctl ls [inventory file] [query words...] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewInventoryFlag("ls", meta.Config.Source),
			NewQueryFlag("ls", meta.Config.Source),
		}, NewGlobalFlags("ls", meta.Config.Source)...),
		Action: lsCommandAction,
	}
}

