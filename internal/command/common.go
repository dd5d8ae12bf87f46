// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	awsx "github.com/tfctl/datadiff/internal/aws"
	"github.com/tfctl/datadiff/internal/document"
	"github.com/tfctl/datadiff/internal/meta"
)

// ErrDifferent is returned by diff --exit-code when the documents differ.
var ErrDifferent = errors.New("documents differ")

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr datadiff <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "datadiff", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// newLoader builds a document.Loader from the document flags. Flags a command
// does not define read as empty and are skipped. extra is applied last.
func newLoader(cmd *cli.Command, extra ...document.Option) *document.Loader {
	opts := []document.Option{document.WithStdin(cmd.Root().Reader)}

	if p := cmd.String("passphrase"); p != "" {
		opts = append(opts, document.WithPassphrase(p))
	}
	if s := cmd.String("select"); s != "" {
		opts = append(opts, document.WithSelect(s))
	}
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, document.WithAWS(awsx.WithProfile(p)))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, document.WithAWS(awsx.WithRegion(r)))
	}
	if e := cmd.String("endpoint"); e != "" {
		opts = append(opts, document.WithS3Endpoint(e))
	}

	return document.NewLoader(append(opts, extra...)...)
}

// loadArgs parses each positional argument as a document spec and loads it.
func loadArgs(ctx context.Context, loader *document.Loader, args []string) ([]*document.Document, error) {
	specs := make([]document.Spec, 0, len(args))
	stdin := 0
	for _, a := range args {
		spec, err := document.ParseSpec(a)
		if err != nil {
			return nil, err
		}
		if spec.IsStdin() {
			stdin++
		}
		specs = append(specs, spec)
	}
	if stdin > 1 {
		return nil, errors.New("only one document can be read from stdin")
	}

	docs := make([]*document.Document, 0, len(specs))
	for _, spec := range specs {
		doc, err := loader.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// isStdin reports whether a document argument names stdin.
func isStdin(arg string) bool {
	spec, err := document.ParseSpec(arg)
	return err == nil && spec.IsStdin()
}
