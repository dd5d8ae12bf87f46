// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/datadiff/internal/document"
	"github.com/tfctl/datadiff/internal/meta"
	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// applyCommandAction is the action handler for the "apply" subcommand. It
// replays a change set, as written by diff -o json or -o yaml, onto a document. With
// --revert the change set is undone instead.
func applyCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "apply") {
		return nil
	}

	if cmd.Args().Len() != 2 {
		return fmt.Errorf("apply needs DOC and CHANGES, got %d", cmd.Args().Len())
	}

	args := cmd.Args().Slice()
	if isStdin(args[0]) && isStdin(args[1]) {
		return errors.New("only one document can be read from stdin")
	}

	docs, err := loadArgs(ctx, newLoader(cmd), args[:1])
	if err != nil {
		return err
	}

	// --select narrows DOC, never the change set.
	sets, err := loadArgs(ctx, newLoader(cmd, document.WithSelect("")), args[1:])
	if err != nil {
		return err
	}

	changes, err := decodeChanges(sets[0].Value)
	if err != nil {
		return fmt.Errorf("%s: %w", sets[0].Spec.Name(), err)
	}
	log.Debugf("changes: %d", len(changes))

	var result any
	if cmd.Bool("revert") {
		result, err = deepdiff.RevertAll(docs[0].Value, changes)
	} else {
		result, err = deepdiff.ApplyAll(docs[0].Value, changes)
	}
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	switch cmd.String("output") {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()

	default:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

// decodeChanges reshapes a decoded change set, whatever its source format,
// into records through their JSON form.
func decodeChanges(v any) ([]deepdiff.Change, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change set: %w", err)
	}

	var changes []deepdiff.Change
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil, fmt.Errorf("not a change set: %w", err)
	}
	return changes, nil
}

// applyCommandBuilder constructs the cli.Command for "apply".
func applyCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cfg := "apply", meta.ConfigFile()

	return &cli.Command{
		Name:      "apply",
		Usage:     "apply or revert a change set",
		UsageText: "datadiff apply DOC CHANGES [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewOutputFlag(ns, cfg, "json", "yaml"),
			&cli.BoolFlag{
				Name:    "revert",
				Aliases: []string{"r"},
				Usage:   "undo the change set instead of applying it",
				Value:   false,
			},
			newTldrFlag(),
		}, NewDocumentFlags(ns, cfg)...),
		Action: applyCommandAction,
	}
}
