// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// ChangeEnv is what a --where expression sees for each change record. For
// array records lhs and rhs come from the item and itemKind holds its kind.
type ChangeEnv struct {
	Kind       string `expr:"kind"`
	ItemKind   string `expr:"itemKind"`
	Path       []any  `expr:"path"`
	PathString string `expr:"pathString"`
	Depth      int    `expr:"depth"`
	LHS        any    `expr:"lhs"`
	RHS        any    `expr:"rhs"`
	Index      int    `expr:"index"`
}

// Under reports whether the record sits at or beneath the dotted prefix.
func (e ChangeEnv) Under(prefix string) bool {
	if e.PathString == prefix {
		return true
	}
	return strings.HasPrefix(e.PathString, prefix+".") || strings.HasPrefix(e.PathString, prefix+"[")
}

// NewChangeEnv builds the expression environment for ch.
func NewChangeEnv(ch deepdiff.Change) ChangeEnv {
	env := ChangeEnv{
		Kind:       string(ch.Kind),
		Path:       []any(ch.Path),
		PathString: ch.Path.String(),
		Depth:      len(ch.Path),
		LHS:        ch.LHS,
		RHS:        ch.RHS,
	}
	if ch.Kind == deepdiff.KindArray {
		env.Index = ch.Index
		if ch.Item != nil {
			env.ItemKind = string(ch.Item.Kind)
			env.LHS = ch.Item.LHS
			env.RHS = ch.Item.RHS
		}
	}
	return env
}

// Matcher decides whether a change record is kept.
type Matcher func(ch deepdiff.Change) (bool, error)

// Where compiles a boolean expr-lang expression over ChangeEnv, for example
//
//	kind == "E" && depth > 2 && !Under("metadata")
//
// An empty source yields a nil Matcher, which keeps everything.
func Where(src string) (Matcher, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}

	program, err := expr.Compile(src, expr.Env(ChangeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile where expression: %w", err)
	}

	return func(ch deepdiff.Change) (bool, error) {
		out, err := expr.Run(program, NewChangeEnv(ch))
		if err != nil {
			return false, fmt.Errorf("where %s: %w", ch.Path, err)
		}
		pass, _ := out.(bool)
		return pass, nil
	}, nil
}

// Select returns the records of changes that m keeps, in order. A nil m keeps
// all of them.
func Select(changes []deepdiff.Change, m Matcher) ([]deepdiff.Change, error) {
	if m == nil {
		return changes, nil
	}

	//nolint:prealloc
	var kept []deepdiff.Change
	for _, ch := range changes {
		pass, err := m(ch)
		if err != nil {
			return nil, err
		}
		if pass {
			kept = append(kept, ch)
		}
	}
	return kept, nil
}
