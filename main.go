// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/xoctl/internal/command"
	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/log"
	"github.com/tfctl/xoctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.String())
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs expands @set arguments. Completion args pass through.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	// @set expansion may repeat a flag the user also typed.
	args = deduplicateFlags(args, flagKinds(app, args))
	log.Debugf("args after dedup: args=%v", args)

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly replaces the first @name argument with the entries of the
// config list <command>.<name>. A bare @ means @defaults.
//
//	ls:
//	  web: ["*vm !halted web", "--titles"]
//
// turns `xoctl ls inv.json @web` into `xoctl ls inv.json *vm !halted web --titles`.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	for i, a := range args[2:] {
		if !strings.HasPrefix(a, "@") {
			continue
		}
		set := a[1:]
		if set == "" {
			set = "defaults"
		}
		idx := 2 + i
		entries, _ := config.GetStringSlice(args[1] + "." + set)
		log.Debugf("expanding @%s: entries=%v", set, entries)

		rest := append([]string{}, args[idx+1:]...)
		return injectConfigSet(append(args[:idx], rest...), entries, idx)
	}
	return args
}

// injectConfigSet splits entries into fields and inserts them into args at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, splitFields(entry)...)
	}

	result := make([]string, 0, len(args)+len(expanded))
	result = append(result, args[:insertIdx]...)
	result = append(result, expanded...)
	return append(result, args[insertIdx:]...)
}

// splitFields splits s on whitespace like strings.Fields, except that text
// inside single or double quotes stays in one field and loses the quotes.
func splitFields(s string) []string {
	var (
		result  []string
		field   strings.Builder
		inField bool
		quote   rune
	)

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				field.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inField = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inField {
				result = append(result, field.String())
				field.Reset()
				inField = false
			}
		default:
			field.WriteRune(r)
			inField = true
		}
	}

	if inField {
		result = append(result, field.String())
	}
	return result
}

type flagKind int

const (
	// kindValue flags consume the next argument unless written name=value.
	kindValue flagKind = iota
	kindBool
	// kindRepeatable flags accumulate and are never deduplicated.
	kindRepeatable
)

type flagInfo struct {
	canonical string
	kind      flagKind
}

// flagKinds describes the flags of the root command and of every subcommand
// named in args, keyed by each name and alias.
func flagKinds(app *cli.Command, args []string) map[string]flagInfo {
	kinds := map[string]flagInfo{}
	add := func(cmd *cli.Command) {
		for _, f := range cmd.Flags {
			names := f.Names()
			info := flagInfo{canonical: names[0], kind: kindValue}
			switch f.(type) {
			case *cli.BoolFlag:
				info.kind = kindBool
			case *cli.StringSliceFlag:
				info.kind = kindRepeatable
			}
			for _, n := range names {
				kinds[n] = info
			}
		}
	}

	cur := app
	add(cur)
	for _, a := range args[min(1, len(args)):] {
		if strings.HasPrefix(a, "-") {
			continue
		}
		sub := cur.Command(a)
		if sub == nil {
			break
		}
		cur = sub
		add(cur)
	}
	return kinds
}

// deduplicateFlags drops all but the last occurrence of each flag after the
// command name, together with its value. Positional args keep their order.
// Unknown flags take the next argument as value when it does not start with
// "-". Everything after "--" is positional.
func deduplicateFlags(args []string, kinds map[string]flagInfo) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			groups = append(groups, group{tokens: args[i:]})
			break
		}
		if len(a) < 2 || a[0] != '-' {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		info, known := kinds[name]
		if !known {
			info = flagInfo{canonical: name, kind: kindBool}
			if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				info.kind = kindValue
			}
		}

		g := group{name: info.canonical, tokens: []string{a}}
		if info.kind == kindRepeatable {
			g.name = ""
		}
		if info.kind != kindBool && !hasValue && i+1 < len(args) {
			i++
			g.tokens = append(g.tokens, args[i])
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	result := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		result = append(result, g.tokens...)
	}
	return result
}
