// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

import (
	"reflect"
	"regexp"
	"time"
)

// Type is the semantic kind of a value as seen by the engine.
type Type int

const (
	TypeUndefined Type = iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeFunction
	TypeNull
	TypeArray
	TypeDate
	TypeRegexp
	TypeMath
	TypeObject
)

var typeNames = [...]string{
	TypeUndefined: "undefined",
	TypeBoolean:   "boolean",
	TypeNumber:    "number",
	TypeString:    "string",
	TypeFunction:  "function",
	TypeNull:      "null",
	TypeArray:     "array",
	TypeDate:      "date",
	TypeRegexp:    "regexp",
	TypeMath:      "math",
	TypeObject:    "object",
}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands in for a value that is not there at all, as opposed to
// nil, which is an explicit null. Absent object keys reach the engine as
// Undefined.
var Undefined any = undefined{}

type mathNamespace struct{}

func (mathNamespace) String() string { return "[object Math]" }

// Math is the math-constants singleton. It only ever equals itself.
var Math any = mathNamespace{}

// TypeOf classifies v. It is total: anything not otherwise recognized is an
// object.
func TypeOf(v any) Type {
	switch v := v.(type) {
	case nil:
		return TypeNull
	case undefined:
		return TypeUndefined
	case mathNamespace:
		return TypeMath
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return TypeNumber
	case time.Time:
		return TypeDate
	case *time.Time:
		if v == nil {
			return TypeNull
		}
		return TypeDate
	case *regexp.Regexp:
		if v == nil {
			return TypeNull
		}
		return TypeRegexp
	case []any:
		if v == nil {
			return TypeNull
		}
		return TypeArray
	case map[string]any:
		if v == nil {
			return TypeNull
		}
		return TypeObject
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeFunction
	case reflect.Slice:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeArray
	case reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Pointer, reflect.Interface, reflect.Chan:
		if rv.IsNil() {
			return TypeNull
		}
	}
	return TypeObject
}

// container returns v as one of the two container shapes the engine recurses
// into. Typed slices and string-keyed maps are copied into the generic shape;
// []any and map[string]any are returned as is so their identity survives.
func container(v any) (any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case map[string]any:
		return v, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	}
	return nil, false
}

// identity is the reference identity of a container, used for cycle
// detection. Slices are identified by their backing array and length.
type identity struct {
	ptr uintptr
	n   int
}

// identityOf takes the identity from the caller's value, not from the copy
// container makes of a typed map or slice, so typed self-references are still
// caught. Arrays are values and have none.
func identityOf(v any) (identity, bool) {
	switch v := v.(type) {
	case map[string]any:
		return identity{ptr: reflect.ValueOf(v).Pointer(), n: -1}, true
	case []any:
		return identity{ptr: reflect.ValueOf(v).Pointer(), n: len(v)}, true
	case nil:
		return identity{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return identity{ptr: rv.Pointer(), n: -1}, true
	case reflect.Slice:
		return identity{ptr: rv.Pointer(), n: rv.Len()}, true
	}
	return identity{}, false
}
