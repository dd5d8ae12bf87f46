// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// newSchemaFlag returns a fresh --schema flag. Flags hold parse state so each
// command gets its own.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the fields and functions available to --where",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the rendering flags shared by every command that
// prints records. ns and cfgPath namespace the config file lookups.
func NewGlobalFlags(ns, cfgPath string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: configSources(ns, "color", cfgPath, "DATADIFF_COLOR"),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of kind, path or depth to sort records by",
			Sources: configSources(ns, "sort", cfgPath),
			Validator: func(value string) error {
				return FlagValidators(value, SortValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: configSources(ns, "titles", cfgPath),
			Value:   false,
		},
	}
}

// NewOutputFlag constructs the --output flag for a command that can render in
// the given formats. The first format is the default.
func NewOutputFlag(ns, cfgPath string, formats ...string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format, one of " + strings.Join(formats, "|"),
		Sources: configSources(ns, "output", cfgPath, "DATADIFF_OUTPUT"),
		Value:   formats[0],
		Validator: func(value string) error {
			return FlagValidators(value, OneOf(formats...))
		},
	}
}

// NewDocumentFlags returns the flags that control how documents are read.
func NewDocumentFlags(ns, cfgPath string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "S3-compatible endpoint URL for s3:// documents",
			Sources: configSources(ns, "endpoint", cfgPath, "DATADIFF_S3_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:    "passphrase",
			Aliases: []string{"p"},
			Usage:   "passphrase for encrypted documents",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATADIFF_PASSPHRASE")),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS profile for s3:// documents",
			Sources: configSources(ns, "profile", cfgPath, "AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for s3:// documents",
			Sources: configSources(ns, "region", cfgPath, "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:  "select",
			Usage: "compare only the subtree at this path, e.g. spec.containers.0",
		},
	}
}

// configSources builds a value chain of env vars followed by the namespaced
// and then the global key in the config file at path.
func configSources(ns, name, path string, envs ...string) cli.ValueSourceChain {
	srcs := make([]cli.ValueSource, 0, len(envs))
	for _, e := range envs {
		srcs = append(srcs, cli.EnvVar(e))
	}
	chain := cli.NewValueSourceChain(srcs...)

	if path != "" {
		if ns != "" {
			chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
		}
		chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
	}

	return chain
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
