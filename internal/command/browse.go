// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/xoctl/internal/config"
	"github.com/tfctl/xoctl/internal/filters"
	"github.com/tfctl/xoctl/internal/meta"
	"github.com/tfctl/xoctl/internal/output"
)

const browseDefaultRows = 15

var (
	browsePromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))
	browseDimStyle    = lipgloss.NewStyle().Faint(true)
	browseTypeStyle   = lipgloss.NewStyle().Bold(true).Width(6)
	browseStateStyles = map[string]lipgloss.Style{
		filters.StateRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("#2da44e")),
		filters.StateHalted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#cf222e")),
	}
)

// browseModel is the interactive filter panel. The query is re-parsed from the
// full input text on every change.
type browseModel struct {
	input    textinput.Model
	objects  gjson.Result
	query    filters.Query
	matches  []gjson.Result
	rows     int
	accepted bool
}

func newBrowseModel(objects gjson.Result, initial string) browseModel {
	ti := textinput.New()
	ti.Placeholder = "*vm !halted web"
	ti.Focus()
	ti.CharLimit = 512
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)
	ti.SetValue(initial)
	ti.CursorEnd()

	m := browseModel{
		input:   ti,
		objects: objects,
		rows:    browseDefaultRows,
	}
	m.refresh()
	return m
}

func (m *browseModel) refresh() {
	m.query = filters.Parse(m.input.Value())
	m.matches = filters.FilterDataset(m.objects, m.query)
	log.Debugf("browse: %q -> %d matches", m.query.String(), len(m.matches))
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.accepted = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Prompt, query line and footer.
		m.rows = max(msg.Height-4, 1)
		m.input.Width = msg.Width - 2
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

func (m browseModel) View() string {
	var lines []string
	lines = append(lines, browsePromptStyle.Render("> ")+m.input.View())
	lines = append(lines, browseDimStyle.Render("  "+m.query.String()))

	for i, obj := range m.matches {
		if i == m.rows {
			lines = append(lines, browseDimStyle.Render(fmt.Sprintf("  … %d more", len(m.matches)-m.rows)))
			break
		}
		state := obj.Get("power_state").String()
		style, ok := browseStateStyles[strings.ToLower(state)]
		if !ok {
			style = lipgloss.NewStyle()
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			browseTypeStyle.Render(obj.Get("type").String()),
			style.Width(9).Render(state),
			obj.Get("name_label").String()))
	}

	lines = append(lines, browseDimStyle.Render(fmt.Sprintf("  %s/%s",
		humanize.Comma(int64(len(m.matches))), output.CountFooter(int(m.objects.Get("#").Int()), "object"))))
	return strings.Join(lines, "\n")
}

// browseCommandAction runs the filter panel over an inventory. On enter the
// canonical query is printed so it can be fed back into ls --query.
func browseCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", GetMeta(cmd).Args)

	config.Config.Namespace = "browse"

	// The panel draws on stderr so stdout carries only the accepted query.
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return errors.New("browse needs a terminal")
	}

	path, words, err := splitArgs(cmd)
	if err != nil {
		return err
	}
	inv, err := loadInventory(cmd, path)
	if err != nil {
		return err
	}

	initial := strings.TrimSpace(cmd.String("query") + " " + strings.Join(words, " "))
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(os.Stderr)}
	if path == "" && (cmd.String("inventory") == "" || cmd.String("inventory") == "-") {
		// The inventory came in on stdin; read keys from the terminal.
		opts = append(opts, tea.WithInputTTY())
	}

	final, err := tea.NewProgram(newBrowseModel(inv.Objects(), initial), opts...).Run()
	if err != nil {
		return err
	}

	if m, ok := final.(browseModel); ok && m.accepted {
		fmt.Fprintln(cmd.Root().Writer, m.query.String())
	}
	return nil
}

// browseCommandBuilder constructs the cli.Command for "browse".
func browseCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive filter panel over an inventory",
		UsageText: "xoctl browse [inventory file] [query words...] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewInventoryFlag("browse", meta.Config.Source),
			NewQueryFlag("browse", meta.Config.Source),
		},
		Action: browseCommandAction,
	}
}
