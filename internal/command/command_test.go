// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/filters"
	"github.com/tfctl/xoctl/internal/inventory"
	"github.com/tfctl/xoctl/internal/jobfile"
	"github.com/tfctl/xoctl/internal/smartpattern"
)

const inventoryFile = "testdata/inventory.json"

// isolate points the config at cfg (or at a missing file when cfg is empty)
// and makes stdin look like a terminal.
func isolate(t *testing.T, cfg string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.FileName)
	if cfg != "" {
		require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	}
	t.Setenv(config.EnvVar, path)
	for _, env := range []string{"XOCTL_OUTPUT", "XOCTL_INVENTORY", "XOCTL_COLOR"} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}

	saved := config.Config
	config.Config = config.Type{}
	savedStdin := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() {
		config.Config = saved
		stdinIsTerminal = savedStdin
	})
}

// run executes xoctl with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	args = append([]string{"xoctl"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(context.Background(), args)
	return out.String(), err
}

// copyJob copies testdata/job.yaml into a temp dir.
func copyJob(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile("testdata/job.yaml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func ids(t *testing.T, out string) []string {
	t.Helper()

	require.True(t, gjson.Valid(out), out)
	var result []string
	for _, v := range gjson.Get(out, "#.id").Array() {
		result = append(result, v.String())
	}
	return result
}

func loadTestInventory(t *testing.T) *inventory.Inventory {
	t.Helper()

	inv, err := inventory.Load(inventoryFile)
	require.NoError(t, err)
	return inv
}

func TestValidators(t *testing.T) {
	assert.NoError(t, OutputValidator("json"))
	assert.NoError(t, OutputValidator("raw"))
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(42))

	assert.NoError(t, PowerStateValidator("running"))
	assert.NoError(t, PowerStateValidator("All"))
	assert.Error(t, PowerStateValidator("asleep"))

	assert.NoError(t, FlagValidators("yaml", OutputValidator))
	assert.Error(t, FlagValidators("halted", OutputValidator, PowerStateValidator))

	state, ok := canonicalPowerState("SUSPENDED")
	assert.True(t, ok)
	assert.Equal(t, "Suspended", state)
}

func TestCompletionScript(t *testing.T) {
	script, ok := completionScript("bash")
	assert.True(t, ok)
	assert.Contains(t, script, "complete -F _xoctl xoctl")

	script, ok = completionScript("zsh")
	assert.True(t, ok)
	assert.Contains(t, script, "#compdef xoctl")

	_, ok = completionScript("fish")
	assert.False(t, ok)
}

func TestGetMeta(t *testing.T) {
	assert.Empty(t, GetMeta(nil).Args)
	assert.Empty(t, GetMeta(&cli.Command{}).Args)
	assert.Empty(t, GetMeta(&cli.Command{Metadata: map[string]any{"meta": "nope"}}).Args)
}

func TestSelectionString(t *testing.T) {
	tests := []struct {
		name string
		sel  smartpattern.Selection
		want string
	}{
		{name: "unset", want: "any"},
		{name: "values", sel: smartpattern.Selection{Values: []string{"p1", "p2"}}, want: "[p1, p2]"},
		{name: "not values", sel: smartpattern.Selection{NotValues: []string{"p3"}}, want: "not [p3]"},
		{name: "both", sel: smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p3"}}, want: "[p1] not [p3]"},
		{name: "empty values", sel: smartpattern.Selection{Values: []string{}}, want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectionString(tt.sel))
		})
	}
}

func TestWritePattern(t *testing.T) {
	p := smartpattern.Pattern{
		Type:       "VM",
		PowerState: "Running",
		Pool:       smartpattern.ConstructPattern(smartpattern.Selection{Values: []string{"p1"}}, smartpattern.ResolveIDs),
		Tags:       smartpattern.ConstructPattern(smartpattern.Selection{Values: []string{"prod"}}, smartpattern.NormalizeTagValues),
	}

	var buf bytes.Buffer
	require.NoError(t, writePattern(&buf, p, "text"))
	assert.Equal(t, "type:        VM\npower_state: Running\npools:       [p1]\ntags:        [prod]\n", buf.String())

	buf.Reset()
	require.NoError(t, writePattern(&buf, smartpattern.Pattern{}, "text"))
	assert.Equal(t, "type:        -\npower_state: All\npools:       any\ntags:        any\n", buf.String())

	buf.Reset()
	require.NoError(t, writePattern(&buf, p, "json"))
	assert.Equal(t, "p1", gjson.Get(buf.String(), `\$pool.values.0`).String())
	assert.Equal(t, "prod", gjson.Get(buf.String(), "tags.values.0.0").String())

	buf.Reset()
	require.NoError(t, writePattern(&buf, p, "yaml"))
	assert.Contains(t, buf.String(), "power_state: Running")
}

func TestWriteParsedQuery(t *testing.T) {
	q := filters.Parse("web *VM !halted *bogus")

	var buf bytes.Buffer
	require.NoError(t, writeParsedQuery(&buf, q, "text"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "query:  *vm !halted web", lines[0])
	assert.Contains(t, lines[1], "vm=required")
	assert.Contains(t, lines[1], "host=neutral")
	assert.Contains(t, lines[2], "halted=excluded")
	assert.Equal(t, `search: "web"`, lines[3])

	buf.Reset()
	require.NoError(t, writeParsedQuery(&buf, q, "json"))
	out := buf.String()
	assert.Equal(t, "required", gjson.Get(out, "types.vm").String())
	assert.Equal(t, "excluded", gjson.Get(out, "states.halted").String())
	assert.Equal(t, "web", gjson.Get(out, "search").String())

	buf.Reset()
	require.NoError(t, writeParsedQuery(&buf, filters.Parse(""), "json"))
	assert.Equal(t, "[]", gjson.Get(buf.String(), "keywords").Raw)

	buf.Reset()
	require.NoError(t, writeParsedQuery(&buf, q, "yaml"))
	assert.Contains(t, buf.String(), "vm: required")
}

func TestCheckPools(t *testing.T) {
	assert.NoError(t, checkPools(nil, nil))
	assert.NoError(t, checkPools([]string{"p1"}, []string{"p1", "p2"}))
	assert.EqualError(t, checkPools([]string{"p1", "p9"}, []string{"p1"}), "pool p9 is not selectable")
}

func TestSelectablePools(t *testing.T) {
	inv := loadTestInventory(t)

	t.Run("default constraint", func(t *testing.T) {
		isolate(t, "")

		all, err := selectablePools(inv, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, all)

		delta, err := selectablePools(inv, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, delta)
	})

	t.Run("configured constraint", func(t *testing.T) {
		isolate(t, "backup:\n  deltaConstraint: \">=5.0.0\"\n")

		delta, err := selectablePools(inv, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, delta)
	})

	t.Run("bad constraint", func(t *testing.T) {
		isolate(t, "backup:\n  deltaConstraint: \"not a version\"\n")

		_, err := selectablePools(inv, true)
		assert.ErrorContains(t, err, "backup.deltaConstraint")
	})
}

// setFlagsCommand mirrors the edit flags of "pattern set".
func setFlagsCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name: "set",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "power-state"},
			&cli.StringSliceFlag{Name: "pools"},
			&cli.StringSliceFlag{Name: "not-pools"},
			&cli.BoolFlag{Name: "clear-pools"},
			&cli.StringSliceFlag{Name: "tags"},
			&cli.StringSliceFlag{Name: "not-tags"},
			&cli.BoolFlag{Name: "clear-tags"},
		},
		Action: action,
	}
}

func TestApplyPatternFlags(t *testing.T) {
	start := smartpattern.Pattern{
		Type: "VM",
		Pool: smartpattern.ConstructPattern(smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p2"}}, smartpattern.ResolveIDs),
		Tags: smartpattern.ConstructPattern(smartpattern.Selection{Values: []string{"prod"}}, smartpattern.NormalizeTagValues),
	}

	tests := []struct {
		name       string
		args       []string
		selectable []string
		changes    int
		power      string
		pools      smartpattern.Selection
		tags       smartpattern.Selection
		wantErr    string
	}{
		{
			name:  "no flags",
			pools: smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p2"}},
			tags:  smartpattern.Selection{Values: []string{"prod"}},
		},
		{
			name:    "power state is canonicalized",
			args:    []string{"--power-state", "halted"},
			changes: 1,
			power:   "Halted",
			pools:   smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p2"}},
			tags:    smartpattern.Selection{Values: []string{"prod"}},
		},
		{
			name:    "all clears power state",
			args:    []string{"--power-state", "all"},
			changes: 1,
			pools:   smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p2"}},
			tags:    smartpattern.Selection{Values: []string{"prod"}},
		},
		{
			name:    "pool values keep not values",
			args:    []string{"--pools", "p3, p4", "--pools", "p5"},
			changes: 1,
			pools:   smartpattern.Selection{Values: []string{"p3", "p4", "p5"}, NotValues: []string{"p2"}},
			tags:    smartpattern.Selection{Values: []string{"prod"}},
		},
		{
			name:    "clear then set",
			args:    []string{"--clear-pools", "--not-pools", "p2", "--clear-tags"},
			changes: 3,
			pools:   smartpattern.Selection{NotValues: []string{"p2"}},
		},
		{
			name:    "tags both sides",
			args:    []string{"--tags", "web,db", "--not-tags", "legacy"},
			changes: 2,
			pools:   smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p2"}},
			tags:    smartpattern.Selection{Values: []string{"web", "db"}, NotValues: []string{"legacy"}},
		},
		{
			name:       "selectable pools enforced",
			args:       []string{"--pools", "p1,p2"},
			selectable: []string{"p1"},
			wantErr:    "pool p2 is not selectable",
		},
		{
			name:       "empty selectable rejects every pool",
			args:       []string{"--pools", "p1"},
			selectable: []string{},
			wantErr:    "pool p1 is not selectable",
		},
		{
			name:       "unselectable pool can be excluded",
			args:       []string{"--not-pools", "p-old"},
			selectable: []string{"p1"},
			changes:    1,
			pools:      smartpattern.Selection{Values: []string{"p1"}, NotValues: []string{"p-old"}},
			tags:       smartpattern.Selection{Values: []string{"prod"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got     smartpattern.Pattern
				changes int
				err     error
			)
			cmd := setFlagsCommand(func(ctx context.Context, cmd *cli.Command) error {
				got, changes, err = applyPatternFlags(cmd, start, tt.selectable)
				return nil
			})
			require.NoError(t, cmd.Run(context.Background(), append([]string{"set"}, tt.args...)))

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.changes, changes)

			e := smartpattern.NewEditor(got, nil)
			assert.Equal(t, tt.power, got.PowerState)
			assert.Equal(t, tt.pools, e.Pools())
			assert.Equal(t, tt.tags, e.Tags())
			assert.Equal(t, "VM", got.Type)
		})
	}
}

func TestSplitList(t *testing.T) {
	var got []string
	var unset []string
	cmd := &cli.Command{
		Name: "x",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "pools"},
			&cli.StringSliceFlag{Name: "tags"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			got = splitList(cmd, "pools")
			unset = splitList(cmd, "tags")
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"x", "--pools", "a, b,,", "--pools", "c"}))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Nil(t, unset)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPath  string
		wantWords []string
		wantErr   error
	}{
		{name: "none", wantWords: []string{}},
		{name: "file", args: []string{inventoryFile, "web"}, wantPath: inventoryFile, wantWords: []string{"web"}},
		{name: "words only", args: []string{"web", "*vm"}, wantWords: []string{"web", "*vm"}},
		{name: "directory is a word", args: []string{"testdata"}, wantWords: []string{"testdata"}},
		{name: "leading stdin marker", args: []string{"-", "*vm"}, wantErr: errStdinArg},
		{name: "stdin marker after words", args: []string{"web", "-", "*vm"}, wantErr: errStdinArg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				path  string
				words []string
				err   error
			)
			cmd := &cli.Command{
				Name: "x",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, words, err = splitArgs(cmd)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), append([]string{"x"}, tt.args...)))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			if words == nil {
				words = []string{}
			}
			assert.Equal(t, tt.wantWords, words)
		})
	}
}

func TestBrowseModel(t *testing.T) {
	inv := loadTestInventory(t)

	m := newBrowseModel(inv.Objects(), "*vm")
	assert.Len(t, m.matches, 4)

	typed := func(m browseModel, s string) browseModel {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
		return next.(browseModel)
	}

	m = typed(m, " !halted")
	assert.Equal(t, "*vm !halted", m.query.String())
	assert.Len(t, m.matches, 3)

	m = typed(m, " db")
	require.Len(t, m.matches, 1)
	assert.Equal(t, "v3", m.matches[0].Get("id").String())
	assert.Contains(t, m.View(), "db-01")
	assert.Contains(t, m.View(), "1/9 objects")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 2})
	m = next.(browseModel)
	assert.Equal(t, 1, m.rows)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	assert.True(t, m.accepted)
	assert.NotNil(t, cmd)

	next, _ = newBrowseModel(inv.Objects(), "").Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, next.(browseModel).accepted)
}

func TestBrowseModel_Overflow(t *testing.T) {
	inv := loadTestInventory(t)

	m := newBrowseModel(inv.Objects(), "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	m = next.(browseModel)
	assert.Equal(t, 2, m.rows)
	assert.Contains(t, m.View(), "… 7 more")
}

func TestLs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "everything", args: []string{"ls", "-o", "json", inventoryFile}, want: []string{"p1", "p2", "h1", "h2", "v1", "v2", "v3", "v4", "s1"}},
		{name: "running vms", args: []string{"ls", "-o", "json", inventoryFile, "*vm", "!halted"}, want: []string{"v1", "v3", "v4"}},
		{name: "query flag and words", args: []string{"ls", "-o", "json", "-q", "*vm", inventoryFile, "web"}, want: []string{"v1", "v2"}},
		{name: "inventory flag", args: []string{"ls", "-o", "json", "-i", inventoryFile, "*running", "!host"}, want: []string{"v1", "v3", "v4"}},
		{name: "unknown flag dropped", args: []string{"ls", "-o", "json", inventoryFile, "*sr", "*bogus"}, want: []string{"s1"}},
		{name: "sorted", args: []string{"ls", "-o", "json", "--sort=-name_label", inventoryFile, "*vm"}, want: []string{"v2", "v1", "v4", "v3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, "")

			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(t, out))
		})
	}
}

func TestLs_Text(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "ls", "-t", inventoryFile, "*vm", "db")
	require.NoError(t, err)
	assert.Contains(t, out, "query: *vm db")
	assert.Contains(t, out, "NAME_LABEL")
	assert.Contains(t, out, "db-01")
	assert.NotContains(t, out, "web-01")
}

func TestLs_ConfigDefaults(t *testing.T) {
	isolate(t, "ls:\n  output: json\n  query: \"*host\"\n")

	out, err := run(t, "ls", inventoryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, ids(t, out))
}

func TestLs_NoInventory(t *testing.T) {
	isolate(t, "")

	_, err := run(t, "ls", "*vm")
	assert.ErrorIs(t, err, ErrNoInventory)
}

func TestLs_StdinMarkerRejected(t *testing.T) {
	isolate(t, "")

	_, err := run(t, "ls", "-o", "json", "-", "*vm", "!halted")
	assert.ErrorIs(t, err, errStdinArg)

	_, err = run(t, "pattern", "pools", "-", "--delta")
	assert.ErrorIs(t, err, errStdinArg)
}

func TestLs_InventoryFlagStdin(t *testing.T) {
	isolate(t, "")
	stdinIsTerminal = func() bool { return false }

	data, err := os.ReadFile(inventoryFile)
	require.NoError(t, err)
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	saved := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = saved
		_ = r.Close()
	})

	out, err := run(t, "ls", "-o", "json", "--inventory=-", "*vm", "!halted")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v3", "v4"}, ids(t, out))
}

func TestParseCommand(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "parse", "-o", "json", "!VM", "*running", "Web")
	require.NoError(t, err)
	assert.Equal(t, "excluded", gjson.Get(out, "types.vm").String())
	assert.Equal(t, "required", gjson.Get(out, "states.running").String())
	assert.Equal(t, "Web", gjson.Get(out, "search").String())
}

func TestPatternShow(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "pattern", "show", "testdata/job.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "pools:       [p1]")
	assert.Contains(t, out, "tags:        [prod]")

	_, err = run(t, "pattern", "show")
	assert.ErrorIs(t, err, errNoJob)
}

func TestPatternSet(t *testing.T) {
	t.Run("saves changes", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)

		_, err := run(t, "pattern", "set", "--power-state", "all", "--not-tags", "legacy", job)
		require.NoError(t, err)

		f, err := jobfile.Load(job)
		require.NoError(t, err)
		p, err := f.Pattern()
		require.NoError(t, err)
		assert.Empty(t, p.PowerState)
		e := smartpattern.NewEditor(p, nil)
		assert.Equal(t, smartpattern.Selection{Values: []string{"prod"}, NotValues: []string{"legacy"}}, e.Tags())

		data, err := os.ReadFile(job)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# nightly delta backup")
		assert.Contains(t, string(data), "retention: 7")
	})

	t.Run("dry run leaves the file alone", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)
		before, err := os.ReadFile(job)
		require.NoError(t, err)

		out, err := run(t, "pattern", "set", "-n", "--pools", "p2", job)
		require.NoError(t, err)
		assert.Contains(t, out, "- p2")

		after, err := os.ReadFile(job)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("diff", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)

		out, err := run(t, "pattern", "set", "-n", "--diff", "--clear-tags", job)
		require.NoError(t, err)
		assert.Contains(t, out, "tags")
	})

	t.Run("delta rejects old pools", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)

		_, err := run(t, "pattern", "set", "--delta", "-i", inventoryFile, "--pools", "p2", job)
		assert.EqualError(t, err, "pool p2 is not selectable")
	})

	t.Run("delta still excludes old pools", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)

		out, err := run(t, "pattern", "set", "-n", "--delta", "-i", inventoryFile, "--not-pools", "p2", job)
		require.NoError(t, err)
		assert.Contains(t, out, "notValues:")
		assert.Contains(t, out, "- p2")
	})

	t.Run("delta needs inventory", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)

		_, err := run(t, "pattern", "set", "--delta", "--pools", "p1", job)
		assert.Error(t, err)
	})

	t.Run("bad power state", func(t *testing.T) {
		isolate(t, "")
		job := copyJob(t)

		_, err := run(t, "pattern", "set", "--power-state", "asleep", job)
		assert.Error(t, err)
	})
}

func TestPatternPreview(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "pattern", "preview", "-o", "json", "testdata/job.yaml", inventoryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, ids(t, out))
}

func TestPatternPools(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "pattern", "pools", "-o", "json", inventoryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(t, out))
	assert.Equal(t, "xcp-01", gjson.Get(out, "0.master").String())

	out, err = run(t, "pattern", "pools", "-o", "json", "--delta", inventoryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(t, out))
}
