// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/xoctl/internal/meta"
)

const bashCompletionScript = `# bash completion for xoctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_xoctl()
{
    local cur prev cmd sub opts
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "browse ls parse pattern completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --count --output -o --sort -s --titles -t"

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml raw" -- "$cur") )
            return 0
            ;;
        --power-state)
            COMPREPLY=( $(compgen -W "All Running Halted Suspended Paused" -- "$cur") )
            return 0
            ;;
        --inventory|-i)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    case "$cmd" in
        ls)
            opts="$common --inventory -i --query -q"
            ;;
        browse)
            opts="--inventory -i --query -q"
            ;;
        parse)
            opts="--output -o"
            ;;
        pattern)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "show set preview pools" -- "$cur") )
                return 0
            fi
            sub=${COMP_WORDS[2]}
            case "$sub" in
                show) opts="--output -o" ;;
                set) opts="--power-state --pools --not-pools --clear-pools --tags --not-tags --clear-tags --delta --inventory -i --diff --color -c --dry-run -n" ;;
                preview) opts="$common --inventory -i" ;;
                pools) opts="$common --delta --inventory -i" ;;
            esac
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            opts="$common"
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Positional: inventory or job files.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _xoctl xoctl
`

const zshCompletionScript = `#compdef xoctl

_xoctl() {
  local -a cmds
  cmds=(
    'browse:interactive filter panel over an inventory'
    'ls:list inventory objects matching a filter query'
    'parse:show how a filter query is parsed'
    'pattern:inspect and edit the smart pattern of a backup job'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '--count[print the number of matching objects]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw)'
  '(-s --sort)'{-s,--sort}'[sort columns]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'xoctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    ls)
      _arguments -C \
        $common \
        '(-i --inventory)'{-i,--inventory}'[inventory file]:file:_files' \
        '(-q --query)'{-q,--query}'[filter query]:query' \
        '*::inventory or query:_files'
      ;;
    browse)
      _arguments -C \
        '(-i --inventory)'{-i,--inventory}'[inventory file]:file:_files' \
        '(-q --query)'{-q,--query}'[initial query]:query' \
        '::inventory:_files'
      ;;
    parse)
      _arguments -C \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '*:query'
      ;;
    pattern)
      if (( CURRENT == 3 )); then
        _values 'pattern commands' show set preview pools
        return
      fi
      case $words[3] in
        show)
          _arguments -C \
            '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
            ':job:_files'
          ;;
        set)
          _arguments -C \
            '--power-state[power state]:state:(All Running Halted Suspended Paused)' \
            '--pools[pool ids to select]:ids' \
            '--not-pools[pool ids to exclude]:ids' \
            '--clear-pools[remove the pool constraint]' \
            '--tags[tags to select]:tags' \
            '--not-tags[tags to exclude]:tags' \
            '--clear-tags[remove the tag constraint]' \
            '--delta[only delta capable pools]' \
            '(-i --inventory)'{-i,--inventory}'[inventory file]:file:_files' \
            '--diff[show the pattern change]' \
            '(-c --color)'{-c,--color}'[color the diff]' \
            '(-n --dry-run)'{-n,--dry-run}'[print instead of saving]' \
            ':job:_files'
          ;;
        preview)
          _arguments -C \
            $common \
            '(-i --inventory)'{-i,--inventory}'[inventory file]:file:_files' \
            ':job:_files' \
            '::inventory:_files'
          ;;
        pools)
          _arguments -C \
            $common \
            '--delta[only delta capable pools]' \
            '(-i --inventory)'{-i,--inventory}'[inventory file]:file:_files' \
            '::inventory:_files'
          ;;
      esac
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _xoctl xoctl
`

// completionScript picks the script for shell, falling back to $SHELL.
func completionScript(shell string) (string, bool) {
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}
	switch shell {
	case "bash":
		return bashCompletionScript, true
	case "zsh":
		return zshCompletionScript, true
	}
	return "", false
}

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	script, ok := completionScript(cmd.Args().First())
	if !ok {
		fmt.Fprintln(cmd.Root().ErrWriter, "usage: xoctl completion [bash|zsh]")
		return nil
	}
	_, err := io.WriteString(cmd.Root().Writer, script)
	return err
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "xoctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
