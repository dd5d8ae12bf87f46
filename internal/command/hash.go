// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/datadiff/internal/meta"
	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// hashEntry is one line of hash output. Key is empty for the whole document.
type hashEntry struct {
	Key  string `json:"key,omitempty"`
	Hash int64  `json:"hash"`
}

// hashCommandAction is the action handler for the "hash" subcommand. It
// prints the order-insensitive structural hash of a document and, with
// --each, of each of its top-level children.
func hashCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "hash") {
		return nil
	}

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("hash needs one DOC, got %d", cmd.Args().Len())
	}

	docs, err := loadArgs(ctx, newLoader(cmd), cmd.Args().Slice())
	if err != nil {
		return err
	}
	doc := docs[0]

	entries := []hashEntry{{Hash: deepdiff.Hash(doc.Value)}}
	if cmd.Bool("each") {
		entries = append(entries, hashChildren(doc.Value)...)
	}

	w := cmd.Root().Writer
	switch cmd.String("output") {
	case "json":
		out := struct {
			Document string      `json:"document"`
			Hash     int64       `json:"hash"`
			Children []hashEntry `json:"children,omitempty"`
		}{doc.Spec.Name(), entries[0].Hash, entries[1:]}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		fmt.Fprintln(w, string(data))

	default:
		fmt.Fprintf(w, "%d  %s\n", entries[0].Hash, doc.Spec.Name())
		for _, e := range entries[1:] {
			fmt.Fprintf(w, "%d  %s\n", e.Hash, e.Key)
		}
	}

	return nil
}

// hashChildren hashes each key of an object, in key order, or each element
// of an array. Scalars have no children.
func hashChildren(v any) []hashEntry {
	var out []hashEntry
	switch v := v.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			out = append(out, hashEntry{Key: k, Hash: deepdiff.Hash(v[k])})
		}
	case []any:
		for i, item := range v {
			out = append(out, hashEntry{Key: "[" + strconv.Itoa(i) + "]", Hash: deepdiff.Hash(item)})
		}
	}
	return out
}

// hashCommandBuilder constructs the cli.Command for "hash".
func hashCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cfg := "hash", meta.ConfigFile()

	return &cli.Command{
		Name:      "hash",
		Usage:     "order-insensitive structural hash of a document",
		UsageText: "datadiff hash DOC [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "each",
				Usage: "also hash each top-level key or element",
				Value: false,
			},
			NewOutputFlag(ns, cfg, "text", "json"),
			newTldrFlag(),
		}, NewDocumentFlags(ns, cfg)...),
		Action: hashCommandAction,
	}
}
