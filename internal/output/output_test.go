// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/datadiff/pkg/deepdiff"
)

func sampleChanges() []deepdiff.Change {
	return []deepdiff.Change{
		{Kind: deepdiff.KindEdit, Path: deepdiff.Path{"spec", "replicas"}, LHS: 1, RHS: 2},
		{Kind: deepdiff.KindNew, Path: deepdiff.Path{"Metadata", "labels", "tier"}, RHS: "web"},
		{Kind: deepdiff.KindArray, Path: deepdiff.Path{"spec", "ports"}, Index: 1,
			Item: &deepdiff.Change{Kind: deepdiff.KindDeleted, LHS: 443}},
		{Kind: deepdiff.KindDeleted, Path: deepdiff.Path{"spec", "paused"}, LHS: false},
	}
}

func pathsOf(changes []deepdiff.Change) []string {
	out := make([]string, 0, len(changes))
	for _, ch := range changes {
		_, p, _, _ := rowOf(ch)
		out = append(out, p)
	}
	return out
}

func TestSortChanges(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "empty spec keeps traversal order",
			spec:      "",
			wantOrder: []string{"spec.replicas", "Metadata.labels.tier", "spec.ports[1]", "spec.paused"},
		},
		{
			name:      "ascending by path",
			spec:      "path",
			wantOrder: []string{"Metadata.labels.tier", "spec.paused", "spec.ports[1]", "spec.replicas"},
		},
		{
			name:      "descending by path",
			spec:      "-path",
			wantOrder: []string{"spec.replicas", "spec.ports[1]", "spec.paused", "Metadata.labels.tier"},
		},
		{
			name:      "case sensitive path",
			spec:      "!path",
			wantOrder: []string{"Metadata.labels.tier", "spec.paused", "spec.ports[1]", "spec.replicas"},
		},
		{
			name:      "by kind is stable",
			spec:      "kind",
			wantOrder: []string{"spec.ports[1]", "spec.paused", "spec.replicas", "Metadata.labels.tier"},
		},
		{
			name:      "by depth then path",
			spec:      "depth,path",
			wantOrder: []string{"spec.paused", "spec.replicas", "Metadata.labels.tier", "spec.ports[1]"},
		},
		{
			name:      "descending depth",
			spec:      "-depth",
			wantOrder: []string{"Metadata.labels.tier", "spec.ports[1]", "spec.replicas", "spec.paused"},
		},
		{
			name:      "unknown field ignored",
			spec:      "colour",
			wantOrder: []string{"spec.replicas", "Metadata.labels.tier", "spec.ports[1]", "spec.paused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := sampleChanges()
			SortChanges(changes, tt.spec)
			assert.Equal(t, tt.wantOrder, pathsOf(changes))
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal []string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "empty string is visible", value: "", want: `""`},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "float64 keeps fraction", value: 42.5, want: "42.5"},
		{name: "whole float64", value: 3.0, want: "3"},
		{name: "false is not empty", value: false, want: "false"},
		{name: "zero is not empty", value: 0, want: "0"},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: []string{"-"}, want: "-"},
		{name: "undefined custom", value: deepdiff.Undefined, emptyVal: []string{"-"}, want: "-"},
		{name: "time", value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: "2024-01-02T03:04:05Z"},
		{name: "regexp", value: regexp.MustCompile("a+"), want: "a+"},
		{name: "slice", value: []any{"a", 1.0}, want: `["a",1]`},
		{name: "map", value: map[string]any{"k": "v"}, want: `{"k":"v"}`},
		{name: "unmarshalable", value: make(chan int), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterfaceToString(tt.value, tt.emptyVal...)
			if tt.name == "unmarshalable" {
				assert.NotEmpty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpitJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(sampleChanges(), Options{Format: FormatJSON}, &buf))

	var got []deepdiff.Change
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, deepdiff.KindArray, got[2].Kind)
	assert.Equal(t, 443.0, got[2].Item.LHS)

	buf.Reset()
	require.NoError(t, Spit(nil, Options{Format: FormatJSON}, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSpitRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(sampleChanges(), Options{Format: FormatRaw}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.JSONEq(t, `{"kind":"E","path":["spec","replicas"],"lhs":1,"rhs":2}`, lines[0])
	assert.JSONEq(t, `{"kind":"A","path":["spec","ports"],"index":1,"item":{"kind":"D","lhs":443}}`, lines[2])
}

func TestSpitYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(sampleChanges(), Options{Format: FormatYAML, Sort: "path"}, &buf))

	// Keys are emitted in wire order.
	assert.True(t, strings.HasPrefix(buf.String(), "- kind: N\n  path:\n"), buf.String())

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, "A", got[2]["kind"])
	assert.Equal(t, map[string]any{"kind": "D", "lhs": 443}, got[2]["item"])
	assert.Equal(t, false, got[1]["lhs"])
}

func TestSpitText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(sampleChanges(), Options{Titles: true, Header: "a.json -> b.json"}, &buf))

	out := buf.String()
	assert.Contains(t, out, "a.json -> b.json")
	for _, want := range []string{"KIND", "PATH", "spec.replicas", "A/D", "spec.ports[1]", "443", "tier", "web"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	require.NoError(t, Spit(nil, Options{Format: FormatText}, &buf))
	assert.Empty(t, buf.String())
}

func TestSpitUnknownFormat(t *testing.T) {
	err := Spit(sampleChanges(), Options{Format: "xml"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownOutput)
}

func TestGetColors(t *testing.T) {
	t.Setenv("DATADIFF_CFG_FILE", "")
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestSummary(t *testing.T) {
	assert.Equal(t, "0 changes", Summary(nil, nil, nil))
	assert.Equal(t,
		"4 changes (1 edited, 1 added, 2 removed) between a.json and b.json",
		Summary(sampleChanges(), stringer("a.json"), stringer("b.json")))

	one := sampleChanges()[:1]
	assert.Equal(t, "1 change (1 edited)", Summary(one, nil, nil))

	many := make([]deepdiff.Change, 1234)
	for i := range many {
		many[i] = deepdiff.Change{Kind: deepdiff.KindNew, Path: deepdiff.Path{i}}
	}
	assert.Equal(t, "1,234 changes (1,234 added)", Summary(many, nil, nil))
}

type schemaEnv struct {
	Kind   string `expr:"kind"`
	Depth  int    `expr:"depth"`
	hidden int
}

func (schemaEnv) Under(string) bool { return false }

func TestDumpSchema(t *testing.T) {
	var buf bytes.Buffer
	DumpSchema(reflect.TypeOf(schemaEnv{}), &buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	tail := lines[len(lines)-3:]
	assert.Equal(t, []string{
		"depth        int",
		"kind         string",
		"Under(string)",
	}, tail)
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	DumpSchema(reflect.TypeOf(0), &buf)
	assert.NotContains(t, buf.String(), "string")
}
