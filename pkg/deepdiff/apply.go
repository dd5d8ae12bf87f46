// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a change path cannot be followed through
	// the target.
	ErrInvalidPath = errors.New("invalid change path")

	// ErrUnknownKind is returned for a change record with an unrecognized kind.
	ErrUnknownKind = errors.New("unknown change kind")
)

// Apply applies ch to target and returns the resulting root. Intermediate
// containers are created as needed: a map when the next key is a string, a
// slice when it is an index. The root may be a new value because slices can
// be reallocated, so callers must use the return value.
func Apply(target any, ch Change) (any, error) {
	switch ch.Kind {
	case KindEdit:
		return setIn(target, ch.Path, ch.RHS)
	case KindNew:
		return setIn(target, ch.Path, ch.RHS)
	case KindDeleted:
		return deleteIn(target, ch.Path)
	case KindArray:
		if ch.Item == nil {
			return target, fmt.Errorf("%w: array change at %s has no item", ErrInvalidPath, ch.Path)
		}
		return updateArray(target, ch.Path, func(s []any) ([]any, error) {
			switch ch.Item.Kind {
			case KindNew, KindEdit:
				return setIndex(s, ch.Index, ch.Item.RHS)
			case KindDeleted:
				return removeIndex(s, ch.Index)
			}
			return s, fmt.Errorf("%w: %q in array item", ErrUnknownKind, ch.Item.Kind)
		})
	}
	return target, fmt.Errorf("%w: %q", ErrUnknownKind, ch.Kind)
}

// Revert undoes ch on a target that ch was previously applied to.
func Revert(target any, ch Change) (any, error) {
	switch ch.Kind {
	case KindEdit, KindDeleted:
		return setIn(target, ch.Path, ch.LHS)
	case KindNew:
		return deleteIn(target, ch.Path)
	case KindArray:
		if ch.Item == nil {
			return target, fmt.Errorf("%w: array change at %s has no item", ErrInvalidPath, ch.Path)
		}
		return updateArray(target, ch.Path, func(s []any) ([]any, error) {
			switch ch.Item.Kind {
			case KindNew:
				// Added elements are always trailing, and a batch of them is
				// reverted lowest index first, so drop the whole tail.
				if ch.Index < 0 {
					return s, fmt.Errorf("%w: negative index %d", ErrInvalidPath, ch.Index)
				}
				if ch.Index < len(s) {
					s = s[:ch.Index]
				}
				return s, nil
			case KindDeleted, KindEdit:
				return setIndex(s, ch.Index, ch.Item.LHS)
			}
			return s, fmt.Errorf("%w: %q in array item", ErrUnknownKind, ch.Item.Kind)
		})
	}
	return target, fmt.Errorf("%w: %q", ErrUnknownKind, ch.Kind)
}

// ApplyAll applies changes in order. It stops at the first error and returns
// the root as it was at that point.
func ApplyAll(target any, changes []Change) (any, error) {
	var err error
	for i, ch := range changes {
		if target, err = Apply(target, ch); err != nil {
			return target, fmt.Errorf("change %d: %w", i, err)
		}
	}
	return target, nil
}

// RevertAll reverts changes from last to first.
func RevertAll(target any, changes []Change) (any, error) {
	var err error
	for i := len(changes) - 1; i >= 0; i-- {
		if target, err = Revert(target, changes[i]); err != nil {
			return target, fmt.Errorf("change %d: %w", i, err)
		}
	}
	return target, nil
}

func setIn(node any, path Path, v any) (any, error) {
	if len(path) == 0 {
		return v, nil
	}

	switch key := pathKey(path[0]).(type) {
	case string:
		m, err := asMap(node, path)
		if err != nil {
			return node, err
		}
		child, err := setIn(m[key], path[1:], v)
		if err != nil {
			return node, err
		}
		m[key] = child
		return m, nil

	case int:
		s, err := asSlice(node, path)
		if err != nil {
			return node, err
		}
		var child any
		if key >= 0 && key < len(s) {
			child = s[key]
		}
		if child, err = setIn(child, path[1:], v); err != nil {
			return node, err
		}
		return setIndex(s, key, child)
	}

	return node, fmt.Errorf("%w: unsupported key %v (%T)", ErrInvalidPath, path[0], path[0])
}

func deleteIn(node any, path Path) (any, error) {
	if len(path) == 0 {
		return node, fmt.Errorf("%w: cannot delete the root", ErrInvalidPath)
	}

	switch key := pathKey(path[0]).(type) {
	case string:
		m, ok := node.(map[string]any)
		if !ok {
			return node, fmt.Errorf("%w: %s is not an object", ErrInvalidPath, path)
		}
		if len(path) == 1 {
			delete(m, key)
			return m, nil
		}
		child, err := deleteIn(m[key], path[1:])
		if err != nil {
			return node, err
		}
		m[key] = child
		return m, nil

	case int:
		s, ok := node.([]any)
		if !ok {
			return node, fmt.Errorf("%w: %s is not an array", ErrInvalidPath, path)
		}
		if len(path) == 1 {
			return removeIndex(s, key)
		}
		if key < 0 || key >= len(s) {
			return node, fmt.Errorf("%w: index %d out of range at %s", ErrInvalidPath, key, path)
		}
		child, err := deleteIn(s[key], path[1:])
		if err != nil {
			return node, err
		}
		s[key] = child
		return s, nil
	}

	return node, fmt.Errorf("%w: unsupported key %v (%T)", ErrInvalidPath, path[0], path[0])
}

// updateArray replaces the array at path with the result of fn.
func updateArray(root any, path Path, fn func([]any) ([]any, error)) (any, error) {
	var current any = root
	for i, key := range path {
		next, ok := lookup(current, pathKey(key))
		if !ok {
			return root, fmt.Errorf("%w: %s not found", ErrInvalidPath, path[:i+1])
		}
		current = next
	}

	s, err := asSlice(current, path)
	if err != nil {
		return root, err
	}
	if s, err = fn(s); err != nil {
		return root, err
	}
	return setIn(root, path, s)
}

func lookup(node any, key any) (any, bool) {
	switch k := key.(type) {
	case string:
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[k]
		return v, ok
	case int:
		s, ok := node.([]any)
		if !ok || k < 0 || k >= len(s) {
			return nil, false
		}
		return s[k], true
	}
	return nil, false
}

func setIndex(s []any, index int, v any) ([]any, error) {
	if index < 0 {
		return s, fmt.Errorf("%w: negative index %d", ErrInvalidPath, index)
	}
	for len(s) <= index {
		s = append(s, nil)
	}
	s[index] = v
	return s, nil
}

func removeIndex(s []any, index int) ([]any, error) {
	if index < 0 || index >= len(s) {
		return s, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, index)
	}
	return append(s[:index], s[index+1:]...), nil
}

func asMap(node any, path Path) (map[string]any, error) {
	switch n := node.(type) {
	case map[string]any:
		return n, nil
	case nil, undefined:
		return map[string]any{}, nil
	}
	return nil, fmt.Errorf("%w: %s is %s, not an object", ErrInvalidPath, path, TypeOf(node))
}

func asSlice(node any, path Path) ([]any, error) {
	switch n := node.(type) {
	case []any:
		return n, nil
	case nil, undefined:
		return []any{}, nil
	}
	return nil, fmt.Errorf("%w: %s is %s, not an array", ErrInvalidPath, path, TypeOf(node))
}

// pathKey folds decoded numeric keys to int.
func pathKey(key any) any {
	switch k := key.(type) {
	case float64:
		if k == float64(int(k)) {
			return int(k)
		}
	case int64:
		return int(k)
	case uint64:
		return int(k)
	}
	return key
}
