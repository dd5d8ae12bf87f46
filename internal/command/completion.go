// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datadiff/internal/meta"
)

const bashCompletionScript = `# bash completion for datadiff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_datadiff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "apply diff hash completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local docs="--endpoint --passphrase -p --profile --region --select --tldr"

    case "$cmd" in
        apply)
            local opts="$docs --output -o --revert -r"
            local formats="json yaml"
            ;;
        diff)
            local opts="$docs --color -c --dates --exit-code -e --fold --ignore -i --output -o --pick --schema --sort -s --summary --titles -t --unordered -u --where -w"
            local formats="text json yaml raw delta"
            ;;
        hash)
            local opts="$docs --each --output -o"
            local formats="text json"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            return 0
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "$formats" -- "$cur") )
            return 0
            ;;
        --sort|-s)
            COMPREPLY=( $(compgen -W "kind path depth -kind -path -depth" -- "$cur") )
            return 0
            ;;
        --pick)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, we're on a document positional, complete files
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _datadiff datadiff
`

const zshCompletionScript = `#compdef datadiff

_datadiff() {
  local -a cmds
  cmds=(
    'apply:apply or revert a change set'
    'diff:structural diff of two documents'
    'hash:order-insensitive structural hash of a document'
    'completion:generate shell completion script'
  )

  local -a docs
  docs=(
  '--endpoint[S3-compatible endpoint URL]:url'
  '(-p --passphrase)'{-p,--passphrase}'[passphrase for encrypted documents]:passphrase'
  '--profile[AWS profile]:profile'
  '--region[AWS region]:region'
  '--select[compare only this subtree]:path'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'datadiff commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    apply)
      _arguments -C \
        $docs \
        '(-o --output)'{-o,--output}'[output format]:format:(json yaml)' \
        '(-r --revert)'{-r,--revert}'[undo the change set]' \
        '1:DOC:_files' \
        '2:CHANGES:_files'
      ;;
    diff)
      _arguments -C \
        $docs \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '--dates[compare RFC 3339 strings as instants]' \
        '(-e --exit-code)'{-e,--exit-code}'[exit 1 when documents differ]' \
        '--fold[compare strings case-insensitively]' \
        '(-i --ignore)'{-i,--ignore}'[paths or filters to skip]:filters' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw delta)' \
        '--pick[choose documents from a directory]:directory:_directories' \
        '--schema[list --where fields]' \
        '(-s --sort)'{-s,--sort}'[sort records]:fields:(kind path depth)' \
        '--summary[print a count of the changes]' \
        '(-t --titles)'{-t,--titles}'[show titles]' \
        '(-u --unordered)'{-u,--unordered}'[ignore array order]' \
        '(-w --where)'{-w,--where}'[expression selecting records]:expr' \
        '1:LEFT:_files' \
        '2:RIGHT:_files'
      ;;
    hash)
      _arguments -C \
        $docs \
        '--each[hash each top-level child]' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json)' \
        '1:DOC:_files'
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
compdef _datadiff datadiff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(cmd.Root().ErrWriter, "usage: datadiff completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "datadiff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
