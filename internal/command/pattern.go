// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/xoctl/internal/attrs"
	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/differ"
	"github.com/tfctl/xoctl/internal/inventory"
	"github.com/tfctl/xoctl/internal/jobfile"
	"github.com/tfctl/xoctl/internal/meta"
	"github.com/tfctl/xoctl/internal/output"
	"github.com/tfctl/xoctl/internal/smartpattern"
)

// patternTypeVM is the object type every backup smart pattern selects.
const patternTypeVM = "VM"

var errNoJob = errors.New("missing job file argument")

func loadJob(cmd *cli.Command) (*jobfile.File, smartpattern.Pattern, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, smartpattern.Pattern{}, errNoJob
	}

	f, err := jobfile.Load(path)
	if err != nil {
		return nil, smartpattern.Pattern{}, err
	}
	p, err := f.Pattern()
	if err != nil {
		return nil, p, fmt.Errorf("%s: %w", path, err)
	}
	return f, p, nil
}

// writePattern renders p as JSON, YAML or a short human summary.
func writePattern(w io.Writer, p smartpattern.Pattern, format string) error {
	switch format {
	case "json", "raw":
		b, err := jobfile.PatternJSON(p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	e := smartpattern.NewEditor(p, nil)
	typ := p.Type
	if typ == "" {
		typ = "-"
	}
	fmt.Fprintf(w, "type:        %s\n", typ)
	fmt.Fprintf(w, "power_state: %s\n", e.PowerState())
	fmt.Fprintf(w, "pools:       %s\n", selectionString(e.Pools()))
	_, err := fmt.Fprintf(w, "tags:        %s\n", selectionString(e.Tags()))
	return err
}

func selectionString(sel smartpattern.Selection) string {
	if sel.Values == nil && sel.NotValues == nil {
		return "any"
	}
	var parts []string
	if sel.Values != nil {
		parts = append(parts, "["+strings.Join(sel.Values, ", ")+"]")
	}
	if len(sel.NotValues) > 0 {
		parts = append(parts, "not ["+strings.Join(sel.NotValues, ", ")+"]")
	}
	return strings.Join(parts, " ")
}

func patternShowAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", GetMeta(cmd).Args)
	config.Config.Namespace = "pattern"

	_, p, err := loadJob(cmd)
	if err != nil {
		return err
	}
	return writePattern(cmd.Root().Writer, p, cmd.String("output"))
}

// selectablePools returns the ids of the pools that may be chosen. In delta
// mode a pool needs a master host recent enough for delta backups.
func selectablePools(inv *inventory.Inventory, delta bool) ([]string, error) {
	canDelta, err := deltaPredicate()
	if err != nil {
		return nil, err
	}
	pred := smartpattern.PoolPredicateWith(delta, inv.Hosts(), canDelta)

	var ids []string
	for _, p := range smartpattern.SelectablePools(inv.Pools(), pred) {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func checkPools(requested []string, selectable []string) error {
	for _, id := range requested {
		if !slices.Contains(selectable, id) {
			return fmt.Errorf("pool %s is not selectable", id)
		}
	}
	return nil
}

// applyPatternFlags runs the flag driven edits on p through an Editor and
// returns the edited pattern with the number of changes made. A non-nil
// selectable restricts the pool ids accepted by --pools.
func applyPatternFlags(cmd *cli.Command, p smartpattern.Pattern, selectable []string) (smartpattern.Pattern, int, error) {
	changes := 0
	e := smartpattern.NewEditor(p, func(np smartpattern.Pattern) {
		changes++
		log.Debugf("pattern edit %d: %+v", changes, np)
	})

	if cmd.IsSet("power-state") {
		state, _ := canonicalPowerState(cmd.String("power-state"))
		e.SetPowerState(state)
	}

	if cmd.Bool("clear-pools") {
		e.ClearPools()
	}
	if ids := splitList(cmd, "pools"); ids != nil {
		if selectable != nil {
			if err := checkPools(ids, selectable); err != nil {
				return p, 0, err
			}
		}
		e.SetPoolValues(ids)
	}
	// Excluding is always allowed, including pools that cannot be selected.
	if ids := splitList(cmd, "not-pools"); ids != nil {
		e.SetPoolNotValues(ids)
	}

	if cmd.Bool("clear-tags") {
		e.ClearTags()
	}
	if tags := splitList(cmd, "tags"); tags != nil {
		e.SetTagValues(tags)
	}
	if tags := splitList(cmd, "not-tags"); tags != nil {
		e.SetTagNotValues(tags)
	}

	return e.Pattern(), changes, nil
}

func patternSetAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", GetMeta(cmd).Args)
	config.Config.Namespace = "pattern"

	f, p, err := loadJob(cmd)
	if err != nil {
		return err
	}
	if p.Type == "" {
		p.Type = patternTypeVM
	}

	var selectable []string
	if path := cmd.String("inventory"); path != "" {
		inv, err := loadInventory(cmd, path)
		if err != nil {
			return err
		}
		if selectable, err = selectablePools(inv, cmd.Bool("delta")); err != nil {
			return err
		}
		if selectable == nil {
			selectable = []string{}
		}
	} else if cmd.Bool("delta") {
		return errors.New("--delta needs --inventory to check pool masters")
	}

	edited, changes, err := applyPatternFlags(cmd, p, selectable)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.Bool("diff") {
		before, _ := jobfile.PatternJSON(p)
		after, _ := jobfile.PatternJSON(edited)
		if _, err := differ.Diff(w, before, after, cmd.Bool("color")); err != nil {
			return err
		}
	}

	if err := f.SetPattern(edited); err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		b, err := f.Bytes()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	if changes == 0 {
		log.Infof("%s: nothing to change", f.Path)
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", f.Path, err)
	}
	log.Infof("%s: %d change(s) saved", f.Path, changes)
	return nil
}

// patternPreviewAction lists the VMs of an inventory the job pattern selects.
func patternPreviewAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", GetMeta(cmd).Args)
	config.Config.Namespace = "pattern"

	_, p, err := loadJob(cmd)
	if err != nil {
		return err
	}

	if slices.Contains(cmd.Args().Slice(), "-") {
		return errStdinArg
	}
	inv, err := loadInventory(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	al, err := BuildAttrs(cmd)
	if err != nil {
		return err
	}
	return output.SliceDiceSpit(smartpattern.Preview(inv.VMs(), p), al, cmd, cmd.Root().Writer)
}

// patternPoolsAction lists the pools a pattern may select.
func patternPoolsAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", GetMeta(cmd).Args)
	config.Config.Namespace = "pattern"

	if slices.Contains(cmd.Args().Slice(), "-") {
		return errStdinArg
	}
	inv, err := loadInventory(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	ids, err := selectablePools(inv, cmd.Bool("delta"))
	if err != nil {
		return err
	}

	hosts := inv.Hosts()
	var rows []map[string]string
	for _, pool := range inv.Pools() {
		if !slices.Contains(ids, pool.ID) {
			continue
		}
		rows = append(rows, map[string]string{
			"id":         pool.ID,
			"name_label": pool.NameLabel,
			"master":     hosts[pool.Master].NameLabel,
			"version":    hosts[pool.Master].Version,
		})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	al := attrs.AttrList{}
	if err := al.Set("name_label,master,version,id"); err != nil {
		return err
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return err
		}
	}
	return output.SliceDiceSpit(gjson.ParseBytes(b).Array(), al, cmd, cmd.Root().Writer)
}

// patternCommandBuilder constructs the cli.Command for "pattern" and its
// subcommands.
func patternCommandBuilder(meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	md := map[string]any{"meta": meta}

	outputFlag := func() *cli.StringFlag {
		f := &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}
		addConfigSources("pattern", src, f.Name, &f.Sources)
		return f
	}
	deltaFlag := func() *cli.BoolFlag {
		return &cli.BoolFlag{
			Name:  "delta",
			Usage: "only pools whose master supports delta backups",
		}
	}

	return &cli.Command{
		Name:      "pattern",
		Usage:     "inspect and edit the smart pattern of a backup job",
		UsageText: "xoctl pattern show|set|preview|pools ...",
		Metadata:  md,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "print the smart pattern of a job",
				UsageText: "xoctl pattern show <job> [options]",
				Metadata:  md,
				Flags:     []cli.Flag{outputFlag()},
				Action:    patternShowAction,
			},
			{
				Name:      "set",
				Usage:     "edit the smart pattern of a job in place",
				UsageText: "xoctl pattern set <job> [options]",
				Metadata:  md,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "power-state",
						Usage: fmt.Sprintf("power state to select (%s)", strings.Join(PowerStates, ", ")),
						Validator: func(value string) error {
							return FlagValidators(value, PowerStateValidator)
						},
					},
					&cli.StringSliceFlag{Name: "pools", Usage: "pool ids to select"},
					&cli.StringSliceFlag{Name: "not-pools", Usage: "pool ids to exclude"},
					&cli.BoolFlag{Name: "clear-pools", Usage: "remove the pool constraint"},
					&cli.StringSliceFlag{Name: "tags", Usage: "tags to select, any of them"},
					&cli.StringSliceFlag{Name: "not-tags", Usage: "tags to exclude"},
					&cli.BoolFlag{Name: "clear-tags", Usage: "remove the tag constraint"},
					deltaFlag(),
					NewInventoryFlag("pattern", src),
					&cli.BoolFlag{Name: "diff", Usage: "show the pattern change"},
					&cli.BoolFlag{Name: "color", Aliases: []string{"c"}, Usage: "color the diff"},
					&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "print the job instead of saving it"},
				},
				Action: patternSetAction,
			},
			{
				Name:      "preview",
				Usage:     "list the VMs a job's smart pattern selects",
				UsageText: "xoctl pattern preview <job> [inventory] [options]",
				Metadata:  md,
				Flags: append([]cli.Flag{
					NewInventoryFlag("pattern", src),
				}, NewGlobalFlags("pattern", src)...),
				Action: patternPreviewAction,
			},
			{
				Name:      "pools",
				Usage:     "list the pools a smart pattern may select",
				UsageText: "xoctl pattern pools [inventory] [options]",
				Metadata:  md,
				Flags: append([]cli.Flag{
					deltaFlag(),
					NewInventoryFlag("pattern", src),
				}, NewGlobalFlags("pattern", src)...),
				Action: patternPoolsAction,
			},
		},
	}
}
