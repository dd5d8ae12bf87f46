// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"strings"
	"time"

	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// Normalizer rewrites both sides of a node before they are compared. It
// reports false when it has nothing to say about the pair.
type Normalizer func(lhs, rhs any) (any, any, bool)

// NewHook combines filters and normalizers into a single hook. Filters skip
// nodes. Normalizers run in order, each seeing the output of the previous
// one. Nil is returned when there is nothing to do.
func NewHook(filters []Filter, normalizers ...Normalizer) deepdiff.Hook {
	if len(filters) == 0 && len(normalizers) == 0 {
		return nil
	}

	var spec deepdiff.FilterSpec
	if len(filters) > 0 {
		spec.Prefilter = Predicate(filters)
	}
	if len(normalizers) > 0 {
		spec.Normalize = func(_ deepdiff.Path, _ any, lhs, rhs any) (any, any, bool) {
			changed := false
			for _, n := range normalizers {
				if nl, nr, ok := n(lhs, rhs); ok {
					lhs, rhs, changed = nl, nr, true
				}
			}
			return lhs, rhs, changed
		}
	}
	return spec
}

// Dates turns a pair of RFC 3339 strings into times so that the same instant
// written in two zones or precisions is not a difference.
func Dates(lhs, rhs any) (any, any, bool) {
	ls, lok := lhs.(string)
	rs, rok := rhs.(string)
	if !lok || !rok {
		return lhs, rhs, false
	}

	lt, err := time.Parse(time.RFC3339Nano, ls)
	if err != nil {
		return lhs, rhs, false
	}
	rt, err := time.Parse(time.RFC3339Nano, rs)
	if err != nil {
		return lhs, rhs, false
	}
	return lt, rt, true
}

// Fold lower-cases strings so that comparisons ignore case.
func Fold(lhs, rhs any) (any, any, bool) {
	ls, lok := lhs.(string)
	rs, rok := rhs.(string)
	if !lok && !rok {
		return lhs, rhs, false
	}
	if lok {
		lhs = strings.ToLower(ls)
	}
	if rok {
		rhs = strings.ToLower(rs)
	}
	return lhs, rhs, true
}
