// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
)

const bashCompletionScript = `# bash completion for rsheet
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_rsheet()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "add chart diff edit log ls save undo completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local store="--store -S --database --collection --region --profile --endpoint --keep --timeout"
    local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t --tldr --schema"
    local journal="--journal --no-journal --dry-run -n"

    case "$cmd" in
        ls)
            local opts="$store $common --limit -L --match -m --where -w"
            ;;
        diff)
            local opts="$store $common --id --deep -d"
            ;;
        chart)
            local opts="$store $common --limit -L --match -m --where -w --by -b --value -V --agg --width"
            ;;
        log)
            local opts="$store $common --journal --all --limit -L"
            ;;
        edit)
            local opts="$store $journal --id --limit -L --match -m --where -w --page-size --width"
            ;;
        add)
            local opts="$store $journal --id"
            ;;
        save)
            local opts="$store $journal --id"
            ;;
        undo)
            local opts="$store $journal --force"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --agg)
            COMPREPLY=( $(compgen -W "count sum mean" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # diff and save take files as positional arguments.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _rsheet rsheet
`

const zshCompletionScript = `#compdef rsheet

_rsheet() {
  local -a cmds
  cmds=(
    'add:insert a document'
    'chart:bar chart of documents grouped by a column'
    'diff:compare two snapshots cell by cell'
    'edit:edit documents in a terminal spreadsheet'
    'log:list journaled changes, or show one'
    'ls:list documents'
    'save:write a JSON or YAML file of documents back to the store'
    'undo:revert a journaled change'
    'completion:generate shell completion script'
  )

  local -a store
  store=(
  '(-S --store)'{-S,--store}'[store URI or file]:store:_files'
  '--database[MongoDB database]:database'
  '--collection[MongoDB collection]:collection'
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  '--endpoint[S3 endpoint]:url'
  '--keep[file backups kept]:count'
  '--timeout[store timeout]:duration'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  local -a journal
  journal=(
  '--journal[change journal database]:file:_files'
  '--no-journal[do not record changes]'
  '(-n --dry-run)'{-n,--dry-run}'[show the changes without writing them]'
  )

  local -a query
  query=(
  '(-L --limit)'{-L,--limit}'[maximum documents fetched]:limit'
  '*'{-m,--match}'[key=value store condition]:match'
  '(-w --where)'{-w,--where}'[row predicate]:expression'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'rsheet commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    ls)
      _arguments -C $store $common $query
      ;;
    diff)
      _arguments -C $store $common \
        '--id[field identifying a document]:field' \
        '(-d --deep)'{-d,--deep}'[structural diff]' \
        '::current:_files' \
        '::previous:_files'
      ;;
    chart)
      _arguments -C $store $common $query \
        '(-b --by)'{-b,--by}'[column to group by]:column' \
        '(-V --value)'{-V,--value}'[value column]:column' \
        '--agg[aggregation]:agg:(count sum mean)' \
        '--width[longest bar]:cells'
      ;;
    log)
      _arguments -C $store $common \
        '--journal[change journal database]:file:_files' \
        '--all[every store]' \
        '(-L --limit)'{-L,--limit}'[entries to list]:limit' \
        '::id'
      ;;
    edit)
      _arguments -C $store $journal $query \
        '--id[field identifying a document]:field' \
        '--page-size[rows per page]:rows' \
        '--width[cell width]:cells'
      ;;
    add)
      _arguments -C $store $journal \
        '--id[field identifying a document]:field' \
        '*:key=value'
      ;;
    save)
      _arguments -C $store $journal \
        '--id[field identifying a document]:field' \
        ':file:_files'
      ;;
    undo)
      _arguments -C $store $journal \
        '--force[revert cells changed again since]' \
        '::id'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _rsheet rsheet
`

// completionScripts maps a shell name to its completion script.
var completionScripts = map[string]string{
	"bash": bashCompletionScript,
	"zsh":  zshCompletionScript,
}

// completionCommandAction prints the script for the named shell, or for the
// login shell in $SHELL when none is named.
func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}

	script, ok := completionScripts[shell]
	if !ok {
		return fmt.Errorf("no completion for shell %q, want bash or zsh", shell)
	}
	_, err := io.WriteString(stdout(cmd), script)
	return err
}

func completionCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "rsheet completion [bash|zsh]",
		Metadata:  map[string]any{"meta": m},
		Action:    completionCommandAction,
	}
}
