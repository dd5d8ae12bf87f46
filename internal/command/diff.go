// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/datadiff/internal/config"
	"github.com/tfctl/datadiff/internal/differ"
	"github.com/tfctl/datadiff/internal/filters"
	"github.com/tfctl/datadiff/internal/meta"
	"github.com/tfctl/datadiff/internal/output"
)

const identical = "The documents are identical."

// diffCommandAction is the action handler for the "diff" subcommand. It loads
// both documents, runs the comparison through the --ignore, --dates, --fold
// and --where filters, and emits the records per the common flags.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	w := cmd.Root().Writer

	if cmd.Bool("schema") {
		output.DumpSchema(reflect.TypeOf(filters.ChangeEnv{}), w)
		return nil
	}

	config.Config.Namespace = "diff"

	if err := deltaExclusive(cmd); err != nil {
		return err
	}

	args, err := diffArgs(cmd)
	if err != nil {
		return err
	}

	docs, err := loadArgs(ctx, newLoader(cmd), args)
	if err != nil {
		return err
	}
	left, right := docs[0], docs[1]

	var normalizers []filters.Normalizer
	if cmd.Bool("dates") {
		normalizers = append(normalizers, filters.Dates)
	}
	if cmd.Bool("fold") {
		normalizers = append(normalizers, filters.Fold)
	}

	where, err := filters.Where(cmd.String("where"))
	if err != nil {
		return err
	}

	changes, err := differ.Compare(left.Value, right.Value, differ.Options{
		Hook:      filters.NewHook(filters.BuildFilters(cmd.String("ignore")), normalizers...),
		Unordered: cmd.Bool("unordered"),
		Where:     where,
	})
	if err != nil {
		return err
	}

	format := cmd.String("output")
	switch format {
	case "delta":
		delta, err := differ.Delta(left.Value, right.Value, cmd.Bool("color"))
		if err != nil {
			return err
		}
		if delta == "" {
			fmt.Fprintln(w, identical)
		} else {
			fmt.Fprint(w, delta)
		}

	default:
		if (format == output.FormatText || format == "") && len(changes) == 0 {
			fmt.Fprintln(w, identical)
			break
		}

		opts := output.Options{
			Format: format,
			Sort:   cmd.String("sort"),
			Color:  cmd.Bool("color"),
			Titles: cmd.Bool("titles"),
		}
		if opts.Titles {
			opts.Header = fmt.Sprintf("%s -> %s", left, right)
		}
		if err := output.Spit(changes, opts, w); err != nil {
			return err
		}
	}

	if cmd.Bool("summary") {
		sw := w
		if format != output.FormatText && format != "delta" {
			sw = cmd.Root().ErrWriter
		}
		fmt.Fprintln(sw, output.Summary(changes, left, right))
	}

	if cmd.Bool("exit-code") && len(changes) > 0 {
		return ErrDifferent
	}

	return nil
}

// deltaFlags shape the change set, which the delta rendering never sees.
var deltaFlags = []string{"dates", "fold", "ignore", "unordered", "where"}

// deltaExclusive rejects --output delta together with any flag in deltaFlags,
// whether it came from the command line, the environment or the config file.
func deltaExclusive(cmd *cli.Command) error {
	if cmd.String("output") != "delta" {
		return nil
	}
	for _, name := range deltaFlags {
		var set bool
		switch name {
		case "ignore", "where":
			set = cmd.String(name) != ""
		default:
			set = cmd.Bool(name)
		}
		if set {
			return fmt.Errorf("--%s cannot be used with --output delta", name)
		}
	}
	return nil
}

// diffArgs returns the two document specs, either from the positional args or
// from the --pick chooser.
func diffArgs(cmd *cli.Command) ([]string, error) {
	if dir := cmd.String("pick"); dir != "" {
		items, err := differ.ListDocuments(dir)
		if err != nil {
			return nil, err
		}
		return differ.SelectDocuments(items)
	}

	if cmd.Args().Len() != 2 {
		return nil, fmt.Errorf("diff needs LEFT and RIGHT documents, got %d", cmd.Args().Len())
	}
	return cmd.Args().Slice(), nil
}

// deltaOutputFlag notes on --output that delta renders the unfiltered
// documents.
func deltaOutputFlag(f *cli.StringFlag) *cli.StringFlag {
	f.Usage += " (delta shows the whole documents and rejects --dates, --fold, --ignore, --unordered and --where)"
	return f
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action/validator handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cfg := "diff", meta.ConfigFile()

	return &cli.Command{
		Name:      "diff",
		Usage:     "structural diff of two documents",
		UsageText: "datadiff diff LEFT RIGHT [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "dates",
				Usage:   "compare RFC 3339 strings as instants",
				Sources: configSources(ns, "dates", cfg),
				Value:   false,
			},
			&cli.BoolFlag{
				Name:    "exit-code",
				Aliases: []string{"e"},
				Usage:   "exit with status 1 when the documents differ",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:    "fold",
				Usage:   "compare strings case-insensitively",
				Sources: configSources(ns, "fold", cfg),
				Value:   false,
			},
			&cli.StringFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "comma-separated list of paths or filters to skip",
				Sources: configSources(ns, "ignore", cfg, "DATADIFF_IGNORE"),
			},
			deltaOutputFlag(NewOutputFlag(ns, cfg,
				output.FormatText, output.FormatJSON, output.FormatYAML, output.FormatRaw, "delta")),
			&cli.StringFlag{
				Name:  "pick",
				Usage: "choose the two documents interactively from a directory",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print a one-line count of the changes",
				Value: false,
			},
			&cli.BoolFlag{
				Name:    "unordered",
				Aliases: []string{"u"},
				Usage:   "ignore the order of array elements",
				Sources: configSources(ns, "unordered", cfg),
				Value:   false,
			},
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "expression selecting the records to keep, see --schema",
			},
			newSchemaFlag(),
			newTldrFlag(),
		}, NewGlobalFlags(ns, cfg)...), NewDocumentFlags(ns, cfg)...),
		Action: diffCommandAction,
	}
}
