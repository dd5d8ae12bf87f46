// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ runs the structural diff with the hooks and selectors built
// from flags, renders gojsondiff deltas, and offers an interactive chooser
// for picking two documents from a directory.
package differ
