// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRE = regexp.MustCompile(`^([^.\[\]]+)(\[(\d+|\*)?\])?$`)

// Drill navigates JSON with a dotted path whose segments are keys, optionally
// followed by [n] to pick an array element or [] / [*] to keep the whole
// array. An empty path or "." is the whole document. A segment that does not
// parse, or an index out of range, yields a result that does not exist.
func Drill(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		return current
	}

	for _, p := range strings.Split(path, ".") {
		matches := segmentRE.FindStringSubmatch(p)
		if matches == nil {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(matches[1]))
		if !val.Exists() {
			return gjson.Result{}
		}

		if idx := matches[3]; idx != "" && idx != "*" {
			if !val.IsArray() {
				return gjson.Result{}
			}
			i, err := strconv.Atoi(idx)
			arr := val.Array()
			if err != nil || i >= len(arr) {
				return gjson.Result{}
			}
			val = arr[i]
		}

		current = val
	}

	return current
}
