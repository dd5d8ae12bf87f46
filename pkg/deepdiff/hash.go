// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"time"
	"unicode/utf16"
)

// Hash returns a structural hash of v that ignores the order of array
// elements. It is a sort key, not a digest: collisions only affect the order
// in which OrderIndependent compares elements.
func Hash(v any) int64 {
	return hashValue(v, nil)
}

func hashValue(v any, seen []identity) int64 {
	typ := TypeOf(v)
	if typ == TypeArray || typ == TypeObject {
		if c, ok := container(v); ok {
			if id, ok := identityOf(v); ok {
				for _, s := range seen {
					if s == id {
						return 0
					}
				}
				seen = append(seen, id)
			}

			var accum int64
			switch c := c.(type) {
			case []any:
				for _, item := range c {
					accum += hashValue(item, seen)
				}
				return accum + int64(hashString(fmt.Sprintf("[type: array, hash: %d]", accum)))
			case map[string]any:
				for key, item := range c {
					accum += int64(hashString(fmt.Sprintf("[type: object, key: %s, value hash: %d]", key, hashValue(item, seen))))
				}
				return accum
			}
		}
	}

	return int64(hashString(fmt.Sprintf("[type: %s; value: %s]", typ, describe(v))))
}

// hashString is the classic 31-multiplier rolling hash over UTF-16 code units,
// kept in 32-bit signed range.
func hashString(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// describe renders a leaf value the way a JavaScript runtime would coerce it
// to a string.
func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *regexp.Regexp:
		return regexpString(v)
	case fmt.Stringer:
		return v.String()
	}

	if f, ok := toFloat64(v); ok {
		return formatNumber(f)
	}
	if TypeOf(v) == TypeFunction {
		return "function"
	}
	return fmt.Sprintf("%v", v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// regexpString is the literal form of a regular expression, /source/.
func regexpString(re *regexp.Regexp) string {
	return "/" + re.String() + "/"
}

// toFloat64 normalizes the Go numeric kinds to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uintptr:
		return float64(n), true
	default:
		return 0, false
	}
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortByHash returns a copy of s ordered by Hash. Equal hashes keep their
// relative order.
func sortByHash(s []any) []any {
	type keyed struct {
		hash int64
		item any
	}
	keyedItems := make([]keyed, len(s))
	for i, item := range s {
		keyedItems[i] = keyed{hash: Hash(item), item: item}
	}
	sort.SliceStable(keyedItems, func(i, j int) bool {
		return keyedItems[i].hash < keyedItems[j].hash
	})

	out := make([]any, len(s))
	for i := range keyedItems {
		out[i] = keyedItems[i].item
	}
	return out
}

// sameNumber compares two numbers of possibly different Go kinds. Integer
// pairs are compared exactly to avoid float rounding on large values.
func sameNumber(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case ra.CanInt() && rb.CanInt():
		return ra.Int() == rb.Int()
	case ra.CanUint() && rb.CanUint():
		return ra.Uint() == rb.Uint()
	}
	fa, _ := toFloat64(a)
	fb, _ := toFloat64(b)
	return fa == fb
}
