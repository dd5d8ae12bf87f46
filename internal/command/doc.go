// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for datadiff. It wires flags,
// validators, actions, and shell completion for the diff, hash and apply
// subcommands.
//
// Most flags can also be set in the config file, first under the
// subcommand's key and then at the top level:
//
//	diff:
//	  ignore: metadata.resourceVersion,status
//	  output: yaml
//	color: true
package command
