// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads datadiff's optional YAML configuration and exposes
// typed getters over dotted keys. The file is DATADIFF_CFG_FILE when set, or
// datadiff.yaml in the directory returned by os.UserConfigDir:
//   - Linux: $XDG_CONFIG_HOME/datadiff.yaml or $HOME/.config/datadiff.yaml
//   - macOS: $HOME/Library/Application Support/datadiff.yaml
//   - Windows: %AppData%/datadiff.yaml
//
// Keys may be namespaced by command. With Namespace "diff", GetString("output")
// returns diff.output when present and output otherwise.
package config
