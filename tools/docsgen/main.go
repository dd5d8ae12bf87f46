// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes markdown and tldr pages for each datadiff
// subcommand. Flags come from the live command tree, examples and notes from
// templates/examples.yaml.
package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/datadiff/internal/command"
)

//go:embed templates
var templates embed.FS

type Extras struct {
	Subcommands map[string]Extra `yaml:"subcommands"`
}

type Extra struct {
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Subcommand struct {
	ID    string
	Short string
	Usage string
	Flags []Flag
	Extra
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DIR")
		os.Exit(1)
	}

	if err := generate(os.Args[1], getVersion(), time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate renders every page beneath dir.
func generate(dir, version string, now time.Time) error {
	subs, err := subcommands()
	if err != nil {
		return err
	}

	types := []Outputs{
		{Template: "templates/datadiff.md.tmpl", Folder: filepath.Join(dir, "commands"), Suffix: ".md"},
		{Template: "templates/datadiff.tldr.tmpl", Folder: filepath.Join(dir, "tldr"), Prefix: "datadiff-", Suffix: ".md"},
	}

	for _, sub := range subs {
		metadata := TemplateData{
			Subcommand: sub,
			Date:       now.Format("January 2, 2006"),
			Version:    version,
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				return err
			}

			tmpl, err := template.ParseFS(templates, t.Template)
			if err != nil {
				return err
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)
			file, err := os.Create(path)
			if err != nil {
				return err
			}
			err = tmpl.Execute(file, metadata)
			file.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return nil
}

// subcommands walks the app's command tree and merges in the extras.
func subcommands() ([]Subcommand, error) {
	app, err := command.InitApp(context.Background(), []string{"datadiff"})
	if err != nil {
		return nil, err
	}

	data, err := templates.ReadFile("templates/examples.yaml")
	if err != nil {
		return nil, err
	}
	var extras Extras
	if err := yaml.Unmarshal(data, &extras); err != nil {
		return nil, fmt.Errorf("examples.yaml: %w", err)
	}

	var subs []Subcommand
	for _, c := range app.Commands {
		if c.Name == "completion" {
			continue
		}

		sub := Subcommand{
			ID:    c.Name,
			Short: c.Usage,
			Usage: c.UsageText,
			Extra: extras.Subcommands[c.Name],
		}
		for _, f := range c.Flags {
			sub.Flags = append(sub.Flags, flagOf(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool {
			return sub.Flags[i].ID < sub.Flags[j].ID
		})
		subs = append(subs, sub)
	}
	return subs, nil
}

func flagOf(f cli.Flag) Flag {
	names := f.Names()
	out := Flag{ID: names[0]}

	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}
	out.Syntax = strings.Join(syntax, ", ")

	if d, ok := f.(cli.DocGenerationFlag); ok {
		out.Description = d.GetUsage()
		if d.TakesValue() {
			out.Default = d.GetValue()
		}
	}
	return out
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
