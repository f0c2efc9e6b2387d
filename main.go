// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/cacheutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/command"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/version"
)

// Exit codes.
const (
	exitOK = iota
	exitInit
	exitRun
)

// repeatableFlags may be given more than once on purpose.
var repeatableFlags = map[string]bool{"--match": true, "-m": true}

func main() {
	os.Exit(run(context.Background(), os.Args))
}

func run(ctx context.Context, args []string) int {
	log.InitLogger()
	log.Debugf("args captured: args=%v", args)

	switch {
	case hasAny(args, "--version", "-v"):
		fmt.Println(version.String())
		return exitOK
	case len(args) < 2:
		args = append(args, "--help")
	case hasAny(args, "--help", "-h"), args[1] == "completion":
		// Left for the CLI as typed.
	default:
		args = expandSet(args)
		log.Debugf("args after set expansion: args=%v", args)
		args = dedupFlags(args)
		log.Debugf("args after dedup: args=%v", args)
	}

	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return exitInit
	}
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return exitRun
	}
	return exitOK
}

func hasAny(args []string, names ...string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return slices.Contains(names, a)
	})
}

// expandSet replaces an @name argument with the entries of the config list
// "<command>.<name>". Without one the "<command>.defaults" list, if any, goes
// right after the command.
func expandSet(args []string) []string {
	if len(args) < 2 {
		return args
	}

	at, set := 2, "defaults"
	if i := slices.IndexFunc(args[2:], func(a string) bool { return strings.HasPrefix(a, "@") }); i >= 0 {
		at, set = i+2, args[i+2][1:]
		args = slices.Delete(slices.Clone(args), at, at+1)
	}

	entries, _ := config.GetStringSlice(args[1] + "." + set)
	return splice(args, at, entries)
}

// splice inserts the whitespace separated fields of entries into a copy of
// args at index at.
func splice(args []string, at int, entries []string) []string {
	var fields []string
	for _, e := range entries {
		fields = append(fields, strings.Fields(e)...)
	}
	if len(fields) == 0 {
		return args
	}
	return slices.Insert(slices.Clone(args), at, fields...)
}

// token is a positional argument, or a flag together with its value.
type token struct {
	flag  string
	words []string
}

// dedupFlags keeps the last of each repeated flag after the command. A flag
// takes the next word as its value unless it has "=value" or the next word
// starts with '-'. Positional arguments stay where they are.
func dedupFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "-" || !strings.HasPrefix(a, "-") {
			tokens = append(tokens, token{words: []string{a}})
			continue
		}
		name, _, inline := strings.Cut(a, "=")
		tk := token{flag: name, words: []string{a}}
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			tk.words = append(tk.words, args[i])
		}
		tokens = append(tokens, tk)
	}

	last := make(map[string]int, len(tokens))
	for i, tk := range tokens {
		last[tk.flag] = i
	}

	out := slices.Clone(args[:2])
	for i, tk := range tokens {
		if tk.flag == "" || repeatableFlags[tk.flag] || last[tk.flag] == i {
			out = append(out, tk.words...)
		}
	}
	return out
}
