// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/datadiff/internal/filters"
	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// ErrNotObject is returned by Delta for documents that are not objects.
var ErrNotObject = errors.New("delta output needs two objects")

// Options controls Compare.
type Options struct {
	Hook      deepdiff.Hook
	Unordered bool
	Where     filters.Matcher
}

// Compare diffs left against right and keeps the records Where selects.
func Compare(left, right any, opts Options) ([]deepdiff.Change, error) {
	log.Debugf(">> differ.Compare(unordered=%t)", opts.Unordered)

	var dopts []deepdiff.Option
	if opts.Unordered {
		dopts = append(dopts, deepdiff.OrderIndependent())
	}

	changes := deepdiff.Accumulate(left, right, opts.Hook, nil, dopts...)
	log.Debugf("changes: %d", len(changes))

	kept, err := filters.Select(changes, opts.Where)
	if err != nil {
		return nil, err
	}
	if len(kept) != len(changes) {
		log.Debugf("where kept %d of %d", len(kept), len(changes))
	}
	return kept, nil
}

// Delta renders the difference between left and right in gojsondiff's
// annotated JSON form. It returns "" when the documents are equal.
func Delta(left, right any, color bool) (string, error) {
	lj, err := jsonShape(left)
	if err != nil {
		return "", err
	}
	rj, err := jsonShape(right)
	if err != nil {
		return "", err
	}

	l, lok := lj.(map[string]interface{})
	r, rok := rj.(map[string]interface{})
	if !lok || !rok {
		return "", ErrNotObject
	}

	delta := gojsondiff.New().CompareObjects(l, r)
	if !delta.Modified() {
		return "", nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	}

	diffString, err := formatter.NewAsciiFormatter(l, config).Format(delta)
	if err != nil {
		return "", fmt.Errorf("failed to format delta: %w", err)
	}
	return diffString, nil
}

// jsonShape round-trips v through JSON so that numbers and dates compare the
// way gojsondiff expects. NaN and infinities become "NaN", "Infinity" and
// "-Infinity", which is how the other outputs write them.
func jsonShape(v any) (any, error) {
	data, err := json.Marshal(finite(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return out, nil
}

// finite copies v with non-finite numbers replaced by their names.
func finite(v any) any {
	switch v := v.(type) {
	case float64:
		return finiteFloat(v)
	case float32:
		return finiteFloat(float64(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = finite(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = finite(item)
		}
		return out
	}
	return v
}

func finiteFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}
