// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output sorts, summarizes and renders change sets as a text table,
// JSON, YAML or one JSON record per line.
package output
