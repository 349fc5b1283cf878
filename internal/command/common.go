// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/xoctl/internal/attrs"
	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/inventory"
	"github.com/tfctl/xoctl/internal/meta"
	"github.com/tfctl/xoctl/internal/smartpattern"
)

// ErrNoInventory is returned when no inventory was named and stdin is a
// terminal.
var ErrNoInventory = errors.New("no inventory: pass a file, --inventory, XOCTL_INVENTORY or pipe one on stdin")

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// BuildAttrs starts from the default columns and merges --attrs.
func BuildAttrs(cmd *cli.Command) (attrs.AttrList, error) {
	al := attrs.Defaults()
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, err
		}
	}
	return al, nil
}

// errStdinArg is returned for a positional "-". The argument parser ends the
// positional list there, so any query words after it would be lost.
var errStdinArg = errors.New(`"-" is not accepted as an argument: pipe the inventory without it, or use --inventory -`)

// splitArgs separates a leading inventory file argument from the remaining
// positional words. Stdin is read when neither a file nor --inventory is
// given.
func splitArgs(cmd *cli.Command) (path string, words []string, err error) {
	args := cmd.Args().Slice()
	if slices.Contains(args, "-") {
		return "", nil, errStdinArg
	}
	if len(args) > 0 {
		if fi, err := os.Stat(args[0]); err == nil && !fi.IsDir() {
			return args[0], args[1:], nil
		}
	}
	return "", args, nil
}

// loadInventory loads path, falling back to --inventory and then to stdin when
// it is not a terminal.
func loadInventory(cmd *cli.Command, path string) (*inventory.Inventory, error) {
	if path == "" {
		path = cmd.String("inventory")
	}
	if path == "" {
		path = "-"
	}
	if path == "-" && stdinIsTerminal() {
		return nil, ErrNoInventory
	}

	inv, err := inventory.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("inventory %s: %d objects", path, inv.Len())
	return inv, nil
}

// deltaPredicate returns the host version check for delta backups, honoring
// backup.deltaConstraint from the config.
func deltaPredicate() (smartpattern.VersionPredicate, error) {
	constraint, _ := config.GetString("backup.deltaConstraint", smartpattern.DefaultDeltaConstraint)
	if constraint == smartpattern.DefaultDeltaConstraint {
		return smartpattern.CanDeltaBackup, nil
	}
	pred, err := smartpattern.NewVersionPredicate(constraint)
	if err != nil {
		return nil, fmt.Errorf("backup.deltaConstraint: %w", err)
	}
	return pred, nil
}

// splitList splits comma separated flag values and drops blanks, so
// --pools a,b --pools c gives [a b c]. A nil result means the flag was unset.
func splitList(cmd *cli.Command, name string) []string {
	if !cmd.IsSet(name) {
		return nil
	}
	list := []string{}
	for _, v := range cmd.StringSlice(name) {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
	}
	return list
}
