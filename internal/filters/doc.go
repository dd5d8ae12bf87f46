// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters turns --ignore, --dates, --fold and --where flags into diff
// hooks and record selectors.
//
// Ignore expressions are comma separated (DATADIFF_FILTER_DELIM overrides the
// delimiter). Each is either a bare glob over the dotted path of a node, or
// [target][!]operator value where target is one of:
//
//   - path : the dotted path, e.g. spec.containers[0].image (the default)
//   - key : the last path element, a map key or an array index
//   - depth : the number of path elements
//
// Operators include:
//
//   - = : exact match (supports negation with !=)
//   - ^ : prefix match
//   - ~ : case-insensitive match
//   - < : less than (numeric for depth and indices)
//   - > : greater than (numeric for depth and indices)
//   - @ : contains substring
//   - / : regular expression match
//
// Examples:
//
//   - "status" : skips the top-level status subtree
//   - "metadata.*" : skips everything beneath metadata
//   - "key=resourceVersion" : skips resourceVersion at any depth
//   - "depth>4" : compares only the first four levels
//
// A matched node is skipped with its whole subtree. Invalid expressions are
// logged and ignored.
//
// Where expressions are expr-lang booleans evaluated against ChangeEnv after
// the diff, so they see the records rather than the documents.
package filters
