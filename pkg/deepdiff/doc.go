// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package deepdiff computes a typed, ordered change set between two JSON-like
// values.
//
// Values are the Go types produced by decoding JSON, YAML, MessagePack and the
// like: map[string]any and []any containers plus scalars (nil, bool, numbers,
// string). time.Time, *regexp.Regexp, functions and the Math sentinel are
// classified on their own, and typed slices and string-keyed maps are viewed
// as []any and map[string]any.
//
// The result is a sequence of Change records:
//
//   - E (KindEdit): a value changed at Path.
//   - N (KindNew): a value exists only on the right.
//   - D (KindDeleted): a value exists only on the left. Deletions directly
//     beneath the root are not reported.
//   - A (KindArray): an array grew or shrank. Item holds the N or D record for
//     the element at Index.
//
// Records are emitted in traversal order and that order is stable: array
// length changes come before element comparisons, elements are visited from
// the highest shared index down, and object keys are visited in sorted order
// with right-only keys last.
//
// A Hook can skip subtrees (Predicate, FilterSpec.Prefilter) or substitute
// both sides before comparison (FilterSpec.Normalize). OrderIndependent
// compares arrays after sorting copies of them by Hash.
//
// Reference cycles are detected through the ancestry of the left side, so
// self-referencing structures terminate.
package deepdiff
