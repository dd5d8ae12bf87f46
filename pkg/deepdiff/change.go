// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags a Change.
type Kind string

const (
	KindEdit    Kind = "E"
	KindNew     Kind = "N"
	KindDeleted Kind = "D"
	KindArray   Kind = "A"
)

// Path locates a change from the comparison root. Elements are string object
// keys or int array indices.
type Path []any

// String renders the path in dotted form with bracketed indices, for example
// spec.containers[0].image.
func (p Path) String() string {
	var sb strings.Builder
	for i, key := range p {
		switch k := key.(type) {
		case int:
			sb.WriteString("[" + strconv.Itoa(k) + "]")
		default:
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(fmt.Sprint(k))
		}
	}
	return sb.String()
}

// extend returns a new path with key appended. The receiver is never shared
// with the result.
func (p Path) extend(key any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Change is one difference between two values. Which fields are meaningful
// depends on Kind:
//
//   - KindEdit: Path, LHS, RHS
//   - KindNew: Path, RHS
//   - KindDeleted: Path, LHS
//   - KindArray: Path, Index, Item
type Change struct {
	Kind  Kind
	Path  Path
	LHS   any
	RHS   any
	Index int
	Item  *Change
}

// IsZero reports whether c carries no record at all.
func (c Change) IsZero() bool {
	return c.Kind == ""
}

func (c Change) String() string {
	switch c.Kind {
	case KindEdit:
		return fmt.Sprintf("E %s: %v -> %v", c.Path, c.LHS, c.RHS)
	case KindNew:
		return fmt.Sprintf("N %s: %v", c.Path, c.RHS)
	case KindDeleted:
		return fmt.Sprintf("D %s: %v", c.Path, c.LHS)
	case KindArray:
		if c.Item != nil {
			return fmt.Sprintf("A %s[%d]: %s", c.Path, c.Index, c.Item)
		}
		return fmt.Sprintf("A %s[%d]", c.Path, c.Index)
	}
	return ""
}

func newEdit(path Path, lhs, rhs any) Change {
	return Change{Kind: KindEdit, Path: path, LHS: lhs, RHS: rhs}
}

func newNew(path Path, rhs any) Change {
	return Change{Kind: KindNew, Path: path, RHS: rhs}
}

func newDeleted(path Path, lhs any) Change {
	return Change{Kind: KindDeleted, Path: path, LHS: lhs}
}

func newArray(path Path, index int, item Change) Change {
	return Change{Kind: KindArray, Path: path, Index: index, Item: &item}
}

// wireChange is the serialized shape shared with other consumers:
// {kind, path?, lhs?, rhs?, index?, item?}.
type wireChange struct {
	Kind  Kind            `json:"kind"`
	Path  []any           `json:"path,omitempty"`
	LHS   json.RawMessage `json:"lhs,omitempty"`
	RHS   json.RawMessage `json:"rhs,omitempty"`
	Index *int            `json:"index,omitempty"`
	Item  *Change         `json:"item,omitempty"`
}

// MarshalJSON writes lhs for E and D records and rhs for E and N records,
// including explicit nulls.
func (c Change) MarshalJSON() ([]byte, error) {
	w := wireChange{Kind: c.Kind}
	if len(c.Path) > 0 {
		w.Path = []any(c.Path)
	}

	var err error
	if c.Kind == KindEdit || c.Kind == KindDeleted {
		if w.LHS, err = marshalValue(c.LHS); err != nil {
			return nil, fmt.Errorf("lhs at %s: %w", c.Path, err)
		}
	}
	if c.Kind == KindEdit || c.Kind == KindNew {
		if w.RHS, err = marshalValue(c.RHS); err != nil {
			return nil, fmt.Errorf("rhs at %s: %w", c.Path, err)
		}
	}
	if c.Kind == KindArray {
		index := c.Index
		w.Index = &index
		w.Item = c.Item
	}

	return json.Marshal(w)
}

// UnmarshalJSON reads the wire shape. Whole-number path elements decode as
// int indices.
func (c *Change) UnmarshalJSON(data []byte) error {
	var w wireChange
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Change{Kind: w.Kind, Item: w.Item}
	switch w.Kind {
	case KindEdit, KindNew, KindDeleted, KindArray:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, w.Kind)
	}

	for _, key := range w.Path {
		if f, ok := key.(float64); ok && f == math.Trunc(f) {
			c.Path = append(c.Path, int(f))
			continue
		}
		c.Path = append(c.Path, key)
	}

	if len(w.LHS) > 0 {
		if err := json.Unmarshal(w.LHS, &c.LHS); err != nil {
			return fmt.Errorf("lhs: %w", err)
		}
	}
	if len(w.RHS) > 0 {
		if err := json.Unmarshal(w.RHS, &c.RHS); err != nil {
			return fmt.Errorf("rhs: %w", err)
		}
	}
	if w.Index != nil {
		c.Index = *w.Index
	}
	return nil
}

// marshalValue encodes a record value. Values JSON has no form for are
// written as their string description, and NaN/Inf as strings as well.
func marshalValue(v any) (json.RawMessage, error) {
	switch TypeOf(v) {
	case TypeUndefined, TypeNull:
		return json.RawMessage("null"), nil
	case TypeRegexp, TypeFunction, TypeMath:
		return json.Marshal(describe(v))
	case TypeNumber:
		if f, ok := toFloat64(v); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return json.Marshal(formatNumber(f))
		}
	}
	return json.Marshal(v)
}
