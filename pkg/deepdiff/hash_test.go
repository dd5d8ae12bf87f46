// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package deepdiff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		{"hello", 99162322},
		// Overflows and wraps like a 32-bit integer.
		{"hello world", 1794106052},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, hashString(tt.in))
		})
	}
}

func TestHashIgnoresOrder(t *testing.T) {
	assert.Equal(t, Hash([]any{1, 2, 3}), Hash([]any{3, 1, 2}))
	assert.Equal(t,
		Hash(map[string]any{"a": []any{"x", "y"}, "b": 2}),
		Hash(map[string]any{"b": 2, "a": []any{"y", "x"}}),
	)
	assert.Equal(t, Hash([]string{"x", "y"}), Hash([]any{"y", "x"}))
}

func TestHashDistinguishesTypes(t *testing.T) {
	assert.NotEqual(t, Hash(1), Hash("1"))
	assert.NotEqual(t, Hash(nil), Hash("null"))
	assert.NotEqual(t, Hash(true), Hash("true"))
	assert.NotEqual(t, Hash([]any{1}), Hash(map[string]any{"0": 1}))
	assert.Equal(t, Hash(1), Hash(1.0))
	assert.Equal(t, Hash(math.NaN()), Hash(math.NaN()))
}

func TestHashCycles(t *testing.T) {
	m := map[string]any{"v": 1}
	m["self"] = m

	assert.NotPanics(t, func() {
		assert.Equal(t, Hash(m), Hash(m))
	})

	d := selfDoc{"v": 1}
	d["self"] = d
	assert.Equal(t, Hash(m), Hash(d), "typed maps hash like their generic shape")

	l := selfList{1, nil}
	l[1] = l
	g := []any{1, nil}
	g[1] = g
	assert.Equal(t, Hash(g), Hash(l))
}

func TestSortByHash(t *testing.T) {
	in := []any{"c", "a", "b"}
	out := sortByHash(in)

	assert.Equal(t, []any{"c", "a", "b"}, in)
	assert.ElementsMatch(t, in, out)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, Hash(out[i-1]), Hash(out[i]))
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, "null"},
		{"undefined", Undefined, "undefined"},
		{"int", 3, "3"},
		{"float", 2.5, "2.5"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(-1), "-Infinity"},
		{"bool", true, "true"},
		{"math", Math, "[object Math]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.v))
		})
	}
}
