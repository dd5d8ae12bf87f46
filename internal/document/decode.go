// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Decode turns data into the generic value tree the diff engine works on:
// map[string]any, []any and scalars.
func Decode(format Format, data []byte, filename string) (any, error) {
	var v any
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &v)
	case FormatYAML:
		v, err = decodeYAML(data)
	case FormatHCL:
		v, err = decodeHCL(data, filename)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", filename, format, err)
	}

	return normalize(v), nil
}

// decodeYAML decodes the first document of a stream. An empty stream is null.
func decodeYAML(data []byte) (any, error) {
	var v any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// normalize rewrites maps with non-string keys, which YAML and msgpack both
// produce, into map[string]any so every container has one shape.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	}
	return v
}
