// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datadiff/internal/cacheutil"
	"github.com/tfctl/datadiff/internal/command"
	"github.com/tfctl/datadiff/internal/config"
	"github.com/tfctl/datadiff/internal/log"
	"github.com/tfctl/datadiff/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--" {
			break
		}
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
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

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)
	return args
}

// purgeCache drops cache entries older than cache.clean hours, when set.
func purgeCache() {
	hours, err := config.GetInt("cache.clean", 0)
	if err != nil || hours <= 0 {
		return
	}
	if err := cacheutil.Purge(hours); err != nil {
		log.Debugf("cache purge err: err=%v", err)
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	purgeCache()

	args = deduplicateFlags(args, valueFlags(app, args))
	log.Debugf("args after dedup: args=%v", args)

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, command.ErrDifferent) {
			return 1
		}
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

// processSetOnly handles the @set logic for all commands, expanding set
// arguments at the @set position. Only the first @set is honored.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[idx:] {
		if a == "--" {
			break
		}
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	// Remove the @set argument.
	args = append(args[:removeIdx:removeIdx], args[removeIdx+1:]...)

	// Expand the set arguments at the removeIdx position.
	setArgs, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Debugf("set %s.%s: %v", args[1], set, err)
	}
	return injectConfigSet(args, setArgs, removeIdx)
}

// injectConfigSet splits each entry on whitespace and inserts the fields at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// flagLookup resolves a flag name, without dashes, to its canonical name and
// whether it takes a value. ok is false for unknown names.
type flagLookup func(name string) (canonical string, takesValue, ok bool)

// valueFlags builds a flagLookup for the subcommand named in args. Boolean
// flags take no value. Aliases resolve to the flag's first name.
func valueFlags(app *cli.Command, args []string) flagLookup {
	type info struct {
		canonical  string
		takesValue bool
	}

	known := map[string]info{}
	if len(args) > 1 {
		for _, sub := range app.Commands {
			if sub.Name != args[1] {
				continue
			}
			for _, f := range sub.Flags {
				_, isBool := f.(*cli.BoolFlag)
				names := f.Names()
				for _, n := range names {
					known[n] = info{canonical: names[0], takesValue: !isBool}
				}
			}
		}
	}

	return func(name string) (string, bool, bool) {
		if i, ok := known[name]; ok {
			return i.canonical, i.takesValue, true
		}
		return name, false, false
	}
}

// deduplicateFlags drops earlier occurrences of a repeated flag, together
// with their values, so the last one wins. --x=v and --x v name the same
// flag. When lookup does not know a flag, it takes a value if the next arg
// does not start with "-". Everything after "--" is kept as is.
func deduplicateFlags(args []string, lookup flagLookup) []string {
	if len(args) <= 2 {
		return args
	}

	type occurrence struct {
		name       string
		start, end int
	}

	var occ []occurrence
	last := map[string]int{}

	end := len(args)
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			end = i
			break
		}
		// "-" and "-::fmt" are stdin documents, not flags.
		if !strings.HasPrefix(a, "-") || a == "-" || strings.HasPrefix(a, "-::") {
			continue
		}

		name := strings.TrimLeft(a, "-")
		o := occurrence{start: i, end: i + 1}

		inline := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, inline = name[:eq], true
		}

		canonical, takesValue, ok := name, false, false
		if lookup != nil {
			canonical, takesValue, ok = lookup(name)
		}
		if !inline && i+1 < len(args) && args[i+1] != "--" {
			if !ok {
				takesValue = !strings.HasPrefix(args[i+1], "-")
			}
			if takesValue {
				o.end = i + 2
				i++
			}
		}

		o.name = canonical
		last[canonical] = len(occ)
		occ = append(occ, o)
	}

	drop := make([]bool, len(args))
	for n, o := range occ {
		if last[o.name] != n {
			for j := o.start; j < o.end; j++ {
				drop[j] = true
			}
		}
	}

	out := make([]string, 0, len(args))
	for i, a := range args {
		if i < end && drop[i] {
			continue
		}
		out = append(out, a)
	}
	return out
}
