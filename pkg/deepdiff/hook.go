// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

// Hook alters which subtrees are compared and how values are prepared. It is
// either a Predicate or a FilterSpec. Hooks are consulted for every node
// except the root, with the path of the parent and the key of the node.
type Hook interface {
	hook()
}

// Predicate skips a node and its subtree when it returns true.
type Predicate func(path Path, key any) bool

func (Predicate) hook() {}

// FilterSpec is a hook with optional members. A nil member is not called.
type FilterSpec struct {
	// Prefilter skips a node and its subtree when it returns true.
	Prefilter func(path Path, key any) bool

	// Normalize may substitute both sides before they are compared. The
	// substitution only happens when ok is true.
	Normalize func(path Path, key any, lhs, rhs any) (nlhs, nrhs any, ok bool)
}

func (FilterSpec) hook() {}

// applyHook runs h for the node at key beneath path. It reports whether the
// node is skipped, and returns the sides to compare.
func applyHook(h Hook, path Path, key any, lhs, rhs any) (any, any, bool) {
	switch h := h.(type) {
	case nil:
	case Predicate:
		if h != nil && h(path, key) {
			return lhs, rhs, true
		}
	case FilterSpec:
		return applyFilterSpec(&h, path, key, lhs, rhs)
	case *FilterSpec:
		if h != nil {
			return applyFilterSpec(h, path, key, lhs, rhs)
		}
	}
	return lhs, rhs, false
}

func applyFilterSpec(fs *FilterSpec, path Path, key any, lhs, rhs any) (any, any, bool) {
	if fs.Prefilter != nil && fs.Prefilter(path, key) {
		return lhs, rhs, true
	}
	if fs.Normalize != nil {
		if nlhs, nrhs, ok := fs.Normalize(path, key, lhs, rhs); ok {
			return nlhs, nrhs, false
		}
	}
	return lhs, rhs, false
}
