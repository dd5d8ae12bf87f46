// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

import (
	"math"
	"reflect"
	"regexp"
	"time"
)

// frame is one level of the traversal ancestry. Frames are only ever
// prepended, so a child sees its parent as the head and siblings never see
// each other.
type frame struct {
	lhs, rhs any
	lhsID    identity
	parent   *frame
}

// walker carries the per-call settings of a comparison.
type walker struct {
	hook             Hook
	orderIndependent bool
	emit             func(Change)
}

// node is the comparison of one pair of values. The root has hasKey false.
type node struct {
	lhs, rhs any
	path     Path
	key      any
	hasKey   bool
	stack    *frame
}

func (w *walker) diff(n node) {
	lhs, rhs := n.lhs, n.rhs
	currentPath := n.path

	if n.hasKey {
		var skip bool
		if lhs, rhs, skip = applyHook(w.hook, n.path, n.key, lhs, rhs); skip {
			return
		}
		currentPath = n.path.extend(n.key)
	}

	if TypeOf(lhs) == TypeRegexp && TypeOf(rhs) == TypeRegexp {
		lhs = regexpString(lhs.(*regexp.Regexp))
		rhs = regexpString(rhs.(*regexp.Regexp))
	}

	ltype, rtype := TypeOf(lhs), TypeOf(rhs)
	ldefined := ltype != TypeUndefined || (n.hasKey && n.stack != nil && hasOwn(n.stack.lhs, n.key))
	rdefined := rtype != TypeUndefined || (n.hasKey && n.stack != nil && hasOwn(n.stack.rhs, n.key))

	switch {
	case !ldefined && rdefined:
		w.emit(newNew(currentPath, rhs))

	case ldefined && !rdefined:
		if len(currentPath) > 1 {
			w.emit(newDeleted(currentPath, lhs))
		}

	case ltype != rtype:
		w.emit(newEdit(currentPath, lhs, rhs))

	case ltype == TypeDate && !sameInstant(lhs, rhs):
		w.emit(newEdit(currentPath, lhs, rhs))

	case ltype == TypeArray || ltype == TypeObject:
		lc, lok := container(lhs)
		rc, rok := container(rhs)
		if !lok || !rok {
			if !reflect.DeepEqual(lhs, rhs) {
				w.emit(newEdit(currentPath, lhs, rhs))
			}
			return
		}
		w.structural(lc, rc, lhs, rhs, currentPath, n.stack)

	default:
		if !sameScalar(ltype, lhs, rhs) {
			w.emit(newEdit(currentPath, lhs, rhs))
		}
	}
}

// structural compares two containers of the same type. orig holds the
// caller's values, which are what records carry.
func (w *walker) structural(lc, rc, origLHS, origRHS any, path Path, stack *frame) {
	lid, lok := identityOf(origLHS)
	for f := stack; lok && f != nil; f = f.parent {
		if f.lhsID == lid {
			if rid, _ := identityOf(origRHS); rid != lid {
				w.emit(newEdit(path, origLHS, origRHS))
			}
			return
		}
	}

	top := &frame{lhs: lc, rhs: rc, lhsID: lid, parent: stack}

	switch l := lc.(type) {
	case []any:
		r := rc.([]any)
		if w.orderIndependent {
			l, r = sortByHash(l), sortByHash(r)
		}

		i, j := len(r)-1, len(l)-1
		for ; i > j; i-- {
			w.emit(newArray(path, i, newNew(nil, r[i])))
		}
		for ; j > i; j-- {
			w.emit(newArray(path, j, newDeleted(nil, l[j])))
		}
		for ; i >= 0; i-- {
			w.diff(node{lhs: l[i], rhs: r[i], path: path, key: i, hasKey: true, stack: top})
		}

	case map[string]any:
		r := rc.(map[string]any)
		for _, k := range sortedKeys(l) {
			rv, ok := r[k]
			if !ok {
				rv = Undefined
			}
			w.diff(node{lhs: l[k], rhs: rv, path: path, key: k, hasKey: true, stack: top})
		}
		for _, k := range sortedKeys(r) {
			if _, ok := l[k]; ok {
				continue
			}
			w.diff(node{lhs: Undefined, rhs: r[k], path: path, key: k, hasKey: true, stack: top})
		}
	}
}

// hasOwn reports whether the container c directly holds key.
func hasOwn(c any, key any) bool {
	switch c := c.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return false
		}
		_, found := c[k]
		return found
	case []any:
		i, ok := key.(int)
		return ok && i >= 0 && i < len(c)
	}
	return false
}

func sameInstant(a, b any) bool {
	return asTime(a).Equal(asTime(b))
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		return *t
	}
	return time.Time{}
}

// sameScalar compares two values already known to share typ.
func sameScalar(typ Type, a, b any) bool {
	switch typ {
	case TypeUndefined, TypeNull, TypeMath, TypeDate:
		return true
	case TypeNumber:
		if sameNumber(a, b) {
			return true
		}
		fa, _ := toFloat64(a)
		fb, _ := toFloat64(b)
		return math.IsNaN(fa) && math.IsNaN(fb)
	case TypeFunction:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case TypeBoolean, TypeString:
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
